package dto

import "hireline.app/engine/internal/model"

type CampaignBootstrapRequest struct {
	EmployerName      string   `json:"employer_name" binding:"required"`
	City              string   `json:"city" binding:"required"`
	NeighborhoodFocus []string `json:"neighborhood_focus,omitempty"`
	WhatsAppNumber    string   `json:"whatsapp_number" binding:"required"`
	TargetJoiners     int      `json:"target_joiners" binding:"required,min=1"`
	FresherPreferred  bool     `json:"fresher_preferred,omitempty"`
	SLAMinutes        *int     `json:"first_contact_sla_minutes,omitempty"`
}

type CampaignEventRequest struct {
	EventType model.FunnelEventType `json:"event_type" binding:"required"`
	Count     int                   `json:"count" binding:"required"`
	Note      string                `json:"note,omitempty"`
}
