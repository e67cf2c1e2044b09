package model

import "time"

type FunnelEventType string

const (
	FunnelLeads    FunnelEventType = "leads"
	FunnelScreened FunnelEventType = "screened"
	FunnelTrials   FunnelEventType = "trials"
	FunnelOffers   FunnelEventType = "offers"
	FunnelJoined   FunnelEventType = "joined"
)

// FunnelEventTypes in upstream-to-downstream order.
var FunnelEventTypes = []FunnelEventType{
	FunnelLeads, FunnelScreened, FunnelTrials, FunnelOffers, FunnelJoined,
}

// FunnelCounts are independent monotone accumulators; no counter is derived
// from another and none ever decreases.
type FunnelCounts struct {
	Leads    int `json:"leads"`
	Screened int `json:"screened"`
	Trials   int `json:"trials"`
	Offers   int `json:"offers"`
	Joined   int `json:"joined"`
}

func (c FunnelCounts) Get(t FunnelEventType) int {
	switch t {
	case FunnelLeads:
		return c.Leads
	case FunnelScreened:
		return c.Screened
	case FunnelTrials:
		return c.Trials
	case FunnelOffers:
		return c.Offers
	case FunnelJoined:
		return c.Joined
	}
	return 0
}

func (c *FunnelCounts) Add(t FunnelEventType, n int) {
	switch t {
	case FunnelLeads:
		c.Leads += n
	case FunnelScreened:
		c.Screened += n
	case FunnelTrials:
		c.Trials += n
	case FunnelOffers:
		c.Offers += n
	case FunnelJoined:
		c.Joined += n
	}
}

// Campaign is a first-N onboarding campaign. Counts are mutated only through
// the funnel tracker's apply-event operation.
type Campaign struct {
	ID                int64        `json:"id"`
	EmployerName      string       `json:"employer_name"`
	City              string       `json:"city"`
	NeighborhoodFocus []string     `json:"neighborhood_focus,omitempty"`
	WhatsAppNumber    string       `json:"whatsapp_number"`
	TargetJoiners     int          `json:"target_joiners"`
	FresherPreferred  bool         `json:"fresher_preferred"`
	SLAMinutes        *int         `json:"first_contact_sla_minutes,omitempty"`
	Counts            FunnelCounts `json:"counts"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}
