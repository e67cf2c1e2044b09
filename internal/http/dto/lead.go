package dto

import (
	"hireline.app/engine/internal/model"
)

type ManualLeadRequest struct {
	SourceChannel model.SourceChannel `json:"source_channel" binding:"required"`
	Name          string              `json:"name" binding:"required"`
	Phone         string              `json:"phone" binding:"required"`
	Neighborhood  *string             `json:"neighborhood,omitempty"`
	Notes         *string             `json:"notes,omitempty"`
	CreatedBy     *string             `json:"created_by,omitempty"`
	JobID         *int64              `json:"job_id,omitempty"`
	Languages     []model.Language    `json:"languages,omitempty"`
}

type ManualLeadResponse struct {
	Lead         *model.ManualLead `json:"lead"`
	CandidateID  int64             `json:"candidate_id"`
	Deduplicated bool              `json:"deduplicated"`
}

type WebsiteLeadRequest struct {
	Name         string           `json:"name" binding:"required"`
	Phone        string           `json:"phone" binding:"required"`
	Neighborhood *string          `json:"neighborhood,omitempty"`
	CampaignID   *int64           `json:"campaign_id,omitempty"`
	JobID        *int64           `json:"job_id,omitempty"`
	Languages    []model.Language `json:"languages,omitempty"`
	UTMSource    *string          `json:"utm_source,omitempty"`
	UTMMedium    *string          `json:"utm_medium,omitempty"`
	UTMCampaign  *string          `json:"utm_campaign,omitempty"`
	UTMTerm      *string          `json:"utm_term,omitempty"`
	UTMContent   *string          `json:"utm_content,omitempty"`
	LandingPath  *string          `json:"landing_path,omitempty"`
	Referrer     *string          `json:"referrer,omitempty"`
	SessionID    *string          `json:"session_id,omitempty"`
}

type WebsiteLeadResponse struct {
	Lead         *model.WebsiteLead `json:"lead"`
	CandidateID  int64              `json:"candidate_id"`
	Deduplicated bool               `json:"deduplicated"`
}

type WebsiteEventRequest struct {
	EventType   model.WebsiteEventType `json:"event_type" binding:"required"`
	LeadID      *int64                 `json:"lead_id,omitempty"`
	CampaignID  *int64                 `json:"campaign_id,omitempty"`
	SessionID   *string                `json:"session_id,omitempty"`
	UTMSource   *string                `json:"utm_source,omitempty"`
	UTMMedium   *string                `json:"utm_medium,omitempty"`
	UTMCampaign *string                `json:"utm_campaign,omitempty"`
	LandingPath *string                `json:"landing_path,omitempty"`
	Referrer    *string                `json:"referrer,omitempty"`
}
