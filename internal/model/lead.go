package model

import "time"

// ManualLead records recruiter-entered intake (walk-in, referral, agent,
// phone). Mutated only to record first contact.
type ManualLead struct {
	ID             int64         `json:"id"`
	SourceChannel  SourceChannel `json:"source_channel"`
	Name           string        `json:"name"`
	Phone          string        `json:"phone"`
	Neighborhood   *string       `json:"neighborhood,omitempty"`
	Notes          *string       `json:"notes,omitempty"`
	CreatedBy      *string       `json:"created_by,omitempty"`
	JobID          *int64        `json:"job_id,omitempty"`
	CandidateID    int64         `json:"candidate_id"`
	Deduplicated   bool          `json:"deduplicated"`
	FirstContactAt *time.Time    `json:"first_contact_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// WebsiteLead records a public-form submission together with its
// first-contact SLA. Breach is evaluated lazily against the clock; the stored
// SLABreached flag is only set when first contact is recorded late.
type WebsiteLead struct {
	ID              int64      `json:"id"`
	CandidateID     int64      `json:"candidate_id"`
	Deduplicated    bool       `json:"deduplicated"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone"`
	Neighborhood    *string    `json:"neighborhood,omitempty"`
	CampaignID      *int64     `json:"campaign_id,omitempty"`
	JobID           *int64     `json:"job_id,omitempty"`
	UTMSource       *string    `json:"utm_source,omitempty"`
	UTMMedium       *string    `json:"utm_medium,omitempty"`
	UTMCampaign     *string    `json:"utm_campaign,omitempty"`
	UTMTerm         *string    `json:"utm_term,omitempty"`
	UTMContent      *string    `json:"utm_content,omitempty"`
	LandingPath     *string    `json:"landing_path,omitempty"`
	Referrer        *string    `json:"referrer,omitempty"`
	SessionID       *string    `json:"session_id,omitempty"`
	WALink          string     `json:"wa_link"`
	WAClickCount    int        `json:"wa_click_count"`
	SLAMinutes      int        `json:"first_contact_sla_minutes"`
	FirstContactDue time.Time  `json:"first_contact_due"`
	FirstContactAt  *time.Time `json:"first_contact_at,omitempty"`
	SLABreached     bool       `json:"sla_breached"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Overdue reports whether the lead is uncontacted past its SLA due time.
func (l *WebsiteLead) Overdue(now time.Time) bool {
	return l.FirstContactAt == nil && now.After(l.FirstContactDue)
}

type WebsiteEventType string

const (
	WebsiteEventView       WebsiteEventType = "view"
	WebsiteEventCTAClick   WebsiteEventType = "cta_click"
	WebsiteEventFormStart  WebsiteEventType = "form_start"
	WebsiteEventFormSubmit WebsiteEventType = "form_submit"
	WebsiteEventWAClick    WebsiteEventType = "wa_click"
)

type WebsiteEvent struct {
	ID          int64            `json:"id"`
	EventType   WebsiteEventType `json:"event_type"`
	LeadID      *int64           `json:"lead_id,omitempty"`
	CampaignID  *int64           `json:"campaign_id,omitempty"`
	SessionID   *string          `json:"session_id,omitempty"`
	UTMSource   *string          `json:"utm_source,omitempty"`
	UTMMedium   *string          `json:"utm_medium,omitempty"`
	UTMCampaign *string          `json:"utm_campaign,omitempty"`
	LandingPath *string          `json:"landing_path,omitempty"`
	Referrer    *string          `json:"referrer,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}
