package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"hireline.app/engine/common/id"
	"hireline.app/engine/internal/model"
	"hireline.app/engine/internal/store"
)

// Campaign health classification. Expected joiners scale linearly with
// elapsed time against the pacing window; a campaign is on track while it
// holds at least 75% of that pace, at risk down to 25%, stalled below.
const (
	healthOnTrackRatio = 0.75
	healthAtRiskRatio  = 0.25
)

type HealthStatus string

const (
	HealthOnTrack HealthStatus = "on_track"
	HealthAtRisk  HealthStatus = "at_risk"
	HealthStalled HealthStatus = "stalled"
)

// screeningRateFloor triggers the lead-volume action when fewer than 40% of
// leads convert to screened.
const screeningRateFloor = 40.0

// FunnelService tracks first-N onboarding campaigns: bootstrap, funnel event
// application, and progress roll-ups.
type FunnelService struct {
	campaigns         store.CampaignStore
	pacingDays        int
	defaultSLAMinutes int
}

func NewFunnelService(campaigns store.CampaignStore, pacingDays, defaultSLAMinutes int) *FunnelService {
	return &FunnelService{
		campaigns:         campaigns,
		pacingDays:        pacingDays,
		defaultSLAMinutes: defaultSLAMinutes,
	}
}

type BootstrapParams struct {
	EmployerName      string
	City              string
	NeighborhoodFocus []string
	WhatsAppNumber    string
	TargetJoiners     int
	FresherPreferred  bool
	SLAMinutes        *int
}

// BootstrapResult pairs the stored campaign with its launch kit: the target
// funnel, outreach templates, and the effective first-contact SLA.
type BootstrapResult struct {
	Campaign     *model.Campaign    `json:"campaign"`
	TargetFunnel model.FunnelCounts `json:"target_funnel"`
	Templates    map[string]string  `json:"templates"`
	SLAMinutes   int                `json:"first_contact_sla_minutes"`
}

func (s *FunnelService) Bootstrap(ctx context.Context, params BootstrapParams) (*BootstrapResult, error) {
	if params.EmployerName == "" {
		return nil, invalidf("employer name is required")
	}
	if params.TargetJoiners < 1 {
		return nil, invalidf("target joiners must be at least 1")
	}
	if params.SLAMinutes != nil && *params.SLAMinutes < 1 {
		return nil, invalidf("first contact sla must be at least 1 minute")
	}

	now := time.Now().UTC()
	campaign := &model.Campaign{
		ID:                id.New(),
		EmployerName:      params.EmployerName,
		City:              params.City,
		NeighborhoodFocus: params.NeighborhoodFocus,
		WhatsAppNumber:    params.WhatsAppNumber,
		TargetJoiners:     params.TargetJoiners,
		FresherPreferred:  params.FresherPreferred,
		SLAMinutes:        params.SLAMinutes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	campaign, err := s.campaigns.CreateCampaign(ctx, campaign)
	if err != nil && campaign == nil {
		return nil, err
	}

	return &BootstrapResult{
		Campaign:     campaign,
		TargetFunnel: TargetFunnel(params.TargetJoiners),
		Templates:    OutreachTemplates(params.WhatsAppNumber),
		SLAMinutes:   s.effectiveSLA(campaign),
	}, err
}

func (s *FunnelService) effectiveSLA(campaign *model.Campaign) int {
	if campaign.SLAMinutes != nil {
		return *campaign.SLAMinutes
	}
	return s.defaultSLAMinutes
}

// TargetFunnel derives per-stage volume targets from the joiner goal using
// fixed funnel multipliers.
func TargetFunnel(targetJoiners int) model.FunnelCounts {
	return model.FunnelCounts{
		Leads:    targetJoiners * 12,
		Screened: targetJoiners * 6,
		Trials:   targetJoiners * 3,
		Offers:   int(float64(targetJoiners) * 1.5),
		Joined:   targetJoiners,
	}
}

// OutreachTemplates returns the canned recruiter messages for a campaign's
// WhatsApp business number.
func OutreachTemplates(whatsappNumber string) map[string]string {
	return map[string]string{
		"whatsapp_job_post": "Hiring Female Fresher Therapists in Bangalore. Paid training, fixed salary + " +
			"incentives, safe workplace, growth path. Apply on WhatsApp: " + whatsappNumber,
		"screening_pitch_30s": "We are hiring female fresher therapists for Bengaluru centers with paid training, " +
			"safe shifts, and fast growth. Can we do a quick 5-minute screening call now?",
		"day_before_joining_nudge": "Reminder: Your joining is tomorrow. Please confirm travel plan and reporting time. " +
			"Reply YES to confirm.",
	}
}

// CampaignProgress is the read-side roll-up for one campaign.
type CampaignProgress struct {
	CampaignID      int64              `json:"campaign_id"`
	EmployerName    string             `json:"employer_name"`
	City            string             `json:"city"`
	TargetJoiners   int                `json:"target_joiners"`
	Counts          model.FunnelCounts `json:"counts"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
	Health          HealthStatus       `json:"health"`
	Actions         []string           `json:"actions"`
	TargetFunnel    model.FunnelCounts `json:"target_funnel"`
}

// ApplyEvent adds count to one funnel counter and returns the refreshed
// progress snapshot. Counters never decrease; count must be positive.
func (s *FunnelService) ApplyEvent(ctx context.Context, campaignID int64, eventType model.FunnelEventType, count int, note string) (*CampaignProgress, error) {
	if count < 1 {
		return nil, invalidf("event count must be a positive integer")
	}
	known := false
	for _, t := range model.FunnelEventTypes {
		if t == eventType {
			known = true
			break
		}
	}
	if !known {
		return nil, invalidf("unknown funnel event type %q", eventType)
	}

	campaign, err := s.campaigns.ApplyFunnelEvent(ctx, campaignID, eventType, count)
	if err != nil && campaign == nil {
		return nil, err
	}
	return s.buildProgress(campaign, time.Now().UTC()), err
}

// ListProgress returns the progress roll-up for every campaign, oldest first.
func (s *FunnelService) ListProgress(ctx context.Context) ([]*CampaignProgress, error) {
	campaigns, err := s.campaigns.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	progress := make([]*CampaignProgress, 0, len(campaigns))
	for _, campaign := range campaigns {
		progress = append(progress, s.buildProgress(campaign, now))
	}
	sort.Slice(progress, func(i, j int) bool {
		return progress[i].CampaignID < progress[j].CampaignID
	})
	return progress, nil
}

func (s *FunnelService) Progress(ctx context.Context, campaignID int64) (*CampaignProgress, error) {
	campaign, err := s.campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return s.buildProgress(campaign, time.Now().UTC()), nil
}

func (s *FunnelService) buildProgress(campaign *model.Campaign, now time.Time) *CampaignProgress {
	return &CampaignProgress{
		CampaignID:      campaign.ID,
		EmployerName:    campaign.EmployerName,
		City:            campaign.City,
		TargetJoiners:   campaign.TargetJoiners,
		Counts:          campaign.Counts,
		ConversionRates: ConversionRates(campaign.Counts),
		Health:          s.healthStatus(campaign, now),
		Actions:         recommendedActions(campaign.Counts, TargetFunnel(campaign.TargetJoiners)),
		TargetFunnel:    TargetFunnel(campaign.TargetJoiners),
	}
}

// ConversionRates computes round(100 * downstream / upstream, 1) per adjacent
// stage pair. Zero upstream yields exactly 0, never an error or NaN.
func ConversionRates(counts model.FunnelCounts) map[string]float64 {
	return map[string]float64{
		"lead_to_screened":  conversionRate(counts.Screened, counts.Leads),
		"screened_to_trial": conversionRate(counts.Trials, counts.Screened),
		"trial_to_offer":    conversionRate(counts.Offers, counts.Trials),
		"offer_to_joined":   conversionRate(counts.Joined, counts.Offers),
	}
}

func conversionRate(downstream, upstream int) float64 {
	if upstream == 0 {
		return 0
	}
	return round1(100 * float64(downstream) / float64(upstream))
}

// healthStatus compares joined progress against the linear pacing
// expectation. Fewer than one expected joiner means it is too early to judge.
func (s *FunnelService) healthStatus(campaign *model.Campaign, now time.Time) HealthStatus {
	if campaign.Counts.Joined >= campaign.TargetJoiners {
		return HealthOnTrack
	}
	elapsed := now.Sub(campaign.CreatedAt)
	pacing := time.Duration(s.pacingDays) * 24 * time.Hour
	fraction := math.Min(float64(elapsed)/float64(pacing), 1)
	expected := float64(campaign.TargetJoiners) * fraction
	if expected < 1 {
		return HealthOnTrack
	}
	ratio := float64(campaign.Counts.Joined) / expected
	switch {
	case ratio >= healthOnTrackRatio:
		return HealthOnTrack
	case ratio >= healthAtRiskRatio:
		return HealthAtRisk
	default:
		return HealthStalled
	}
}

func recommendedActions(counts model.FunnelCounts, target model.FunnelCounts) []string {
	var actions []string
	if rate := conversionRate(counts.Screened, counts.Leads); counts.Leads > 0 && rate < screeningRateFloor {
		actions = append(actions, fmt.Sprintf("Lead-to-screened rate %.1f%% is below %.0f%%; increase lead volume and qualify faster.", rate, screeningRateFloor))
	}
	if counts.Leads < target.Leads {
		actions = append(actions, "Boost lead gen via institutes, referrals, and WhatsApp groups daily.")
	}
	if counts.Screened < target.Screened {
		actions = append(actions, "Add same-day multilingual phone screening slots to reduce drop-offs.")
	}
	if counts.Trials < target.Trials {
		actions = append(actions, "Run daily trial blocks with backup candidates for no-show protection.")
	}
	if counts.Offers < target.Offers {
		actions = append(actions, "Issue offer decisions within 4 hours after trial completion.")
	}
	if counts.Joined < target.Joined {
		actions = append(actions, "Run T-24h and T-2h joining confirmations with safety and commute support.")
	}
	if len(actions) == 0 {
		actions = []string{"Maintain current cadence and monitor conversion quality by source."}
	}
	return actions
}
