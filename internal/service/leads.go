package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"hireline.app/engine/common/id"
	"hireline.app/engine/internal/model"
	"hireline.app/engine/internal/store"
)

// Recruiter queue windows. A lead is due soon inside the next 15 minutes and
// hot while it is under 10 minutes old.
const (
	dueSoonWindow = 15 * time.Minute
	hotNewWindow  = 10 * time.Minute
)

const maxLeadListLimit = 500

type QueueMode string

const (
	QueueAll     QueueMode = "all"
	QueueDueSoon QueueMode = "due_soon"
	QueueOverdue QueueMode = "overdue"
	QueueHotNew  QueueMode = "hot_new"
)

type candidateIngestor interface {
	IngestCandidate(ctx context.Context, params IngestCandidateParams) (*model.Candidate, bool, error)
}

// LeadService handles manual and website lead intake, the first-contact SLA
// queue, and website analytics events.
type LeadService struct {
	leads             store.LeadStore
	campaigns         store.CampaignStore
	ingestor          candidateIngestor
	defaultSLAMinutes int
	whatsappNumber    string
}

func NewLeadService(leads store.LeadStore, campaigns store.CampaignStore, ingestor candidateIngestor, defaultSLAMinutes int, whatsappNumber string) *LeadService {
	return &LeadService{
		leads:             leads,
		campaigns:         campaigns,
		ingestor:          ingestor,
		defaultSLAMinutes: defaultSLAMinutes,
		whatsappNumber:    whatsappNumber,
	}
}

type ManualLeadParams struct {
	SourceChannel model.SourceChannel
	Name          string
	Phone         string
	Neighborhood  *string
	Notes         *string
	CreatedBy     *string
	JobID         *int64
	Languages     []model.Language
}

// CreateManualLead ingests the candidate through dedupe and records the
// intake row. The bool reports whether an existing candidate was reused.
func (s *LeadService) CreateManualLead(ctx context.Context, params ManualLeadParams) (*model.ManualLead, *model.Candidate, bool, error) {
	candidate, deduplicated, err := s.ingestor.IngestCandidate(ctx, IngestCandidateParams{
		Name:          params.Name,
		Phone:         params.Phone,
		SourceChannel: params.SourceChannel,
		Languages:     params.Languages,
		JobID:         params.JobID,
		ReferredBy:    params.CreatedBy,
		Actor:         actorOrSystem(params.CreatedBy),
	})
	if err != nil {
		return nil, candidate, deduplicated, err
	}

	lead := &model.ManualLead{
		ID:            id.New(),
		SourceChannel: params.SourceChannel,
		Name:          strings.TrimSpace(params.Name),
		Phone:         strings.TrimSpace(params.Phone),
		Neighborhood:  params.Neighborhood,
		Notes:         params.Notes,
		CreatedBy:     params.CreatedBy,
		JobID:         params.JobID,
		CandidateID:   candidate.ID,
		Deduplicated:  deduplicated,
		CreatedAt:     time.Now().UTC(),
	}
	lead, err = s.leads.CreateManualLead(ctx, lead)
	return lead, candidate, deduplicated, err
}

func actorOrSystem(createdBy *string) string {
	if createdBy != nil && *createdBy != "" {
		return *createdBy
	}
	return "system"
}

type ManualLeadFilter struct {
	SourceChannel *model.SourceChannel
	Neighborhood  *string
	CreatedBy     *string
	Search        string
	From          *time.Time
	To            *time.Time
	Uncontacted   bool
	Limit         int
}

func (f ManualLeadFilter) matches(lead *model.ManualLead) bool {
	if f.SourceChannel != nil && lead.SourceChannel != *f.SourceChannel {
		return false
	}
	if f.Neighborhood != nil && bucketKey(lead.Neighborhood) != bucketKey(f.Neighborhood) {
		return false
	}
	if f.CreatedBy != nil && (lead.CreatedBy == nil || *lead.CreatedBy != *f.CreatedBy) {
		return false
	}
	if f.From != nil && lead.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && lead.CreatedAt.After(*f.To) {
		return false
	}
	if f.Uncontacted && lead.FirstContactAt != nil {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		haystack := strings.ToLower(lead.Name) + " " + lead.Phone
		if lead.Notes != nil {
			haystack += " " + strings.ToLower(*lead.Notes)
		}
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

func (s *LeadService) ListManualLeads(ctx context.Context, filter ManualLeadFilter) ([]*model.ManualLead, error) {
	leads, err := s.leads.ListManualLeads(ctx)
	if err != nil {
		return nil, err
	}
	filtered := leads[:0]
	for _, lead := range leads {
		if !filter.matches(lead) {
			continue
		}
		filtered = append(filtered, lead)
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return clampLimit(filtered, filter.Limit), nil
}

func (s *LeadService) MarkManualLeadContacted(ctx context.Context, leadID int64) (*model.ManualLead, error) {
	return s.leads.MarkManualLeadContacted(ctx, leadID, time.Now().UTC())
}

type WebsiteLeadParams struct {
	Name         string
	Phone        string
	Neighborhood *string
	CampaignID   *int64
	JobID        *int64
	Languages    []model.Language
	UTMSource    *string
	UTMMedium    *string
	UTMCampaign  *string
	UTMTerm      *string
	UTMContent   *string
	LandingPath  *string
	Referrer     *string
	SessionID    *string
}

// CreateWebsiteLead records a public-form submission. The first-contact SLA
// and the wa.me reply number come from the linked campaign when one is
// named, otherwise from configuration.
func (s *LeadService) CreateWebsiteLead(ctx context.Context, params WebsiteLeadParams) (*model.WebsiteLead, *model.Candidate, bool, error) {
	slaMinutes := s.defaultSLAMinutes
	whatsappNumber := s.whatsappNumber
	if params.CampaignID != nil {
		campaign, err := s.campaigns.GetCampaign(ctx, *params.CampaignID)
		if err != nil {
			return nil, nil, false, err
		}
		if campaign.SLAMinutes != nil {
			slaMinutes = *campaign.SLAMinutes
		}
		if campaign.WhatsAppNumber != "" {
			whatsappNumber = campaign.WhatsAppNumber
		}
	}

	candidate, deduplicated, err := s.ingestor.IngestCandidate(ctx, IngestCandidateParams{
		Name:          params.Name,
		Phone:         params.Phone,
		SourceChannel: model.SourceWeb,
		Languages:     params.Languages,
		JobID:         params.JobID,
		Actor:         "website",
	})
	if err != nil {
		return nil, candidate, deduplicated, err
	}

	now := time.Now().UTC()
	name := strings.TrimSpace(params.Name)
	phone := strings.TrimSpace(params.Phone)
	lead := &model.WebsiteLead{
		ID:              id.New(),
		CandidateID:     candidate.ID,
		Deduplicated:    deduplicated,
		Name:            name,
		Phone:           phone,
		Neighborhood:    params.Neighborhood,
		CampaignID:      params.CampaignID,
		JobID:           params.JobID,
		UTMSource:       params.UTMSource,
		UTMMedium:       params.UTMMedium,
		UTMCampaign:     params.UTMCampaign,
		UTMTerm:         params.UTMTerm,
		UTMContent:      params.UTMContent,
		LandingPath:     params.LandingPath,
		Referrer:        params.Referrer,
		SessionID:       params.SessionID,
		WALink:          buildWALink(whatsappNumber, fmt.Sprintf("Hi, I want to apply as a therapist. Name: %s, Phone: %s.", name, phone)),
		SLAMinutes:      slaMinutes,
		FirstContactDue: now.Add(time.Duration(slaMinutes) * time.Minute),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	lead, err = s.leads.CreateWebsiteLead(ctx, lead)
	return lead, candidate, deduplicated, err
}

func buildWALink(phone, text string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", NormalizePhone(phone), url.QueryEscape(text))
}

type WebsiteLeadQuery struct {
	CampaignID *int64
	Mode       QueueMode
	Limit      int
}

// ListWebsiteLeads returns the recruiter queue, newest first. Overdue and
// due-soon are evaluated lazily against the current clock.
func (s *LeadService) ListWebsiteLeads(ctx context.Context, query WebsiteLeadQuery) ([]*model.WebsiteLead, error) {
	leads, err := s.leads.ListWebsiteLeads(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	filtered := leads[:0]
	for _, lead := range leads {
		if query.CampaignID != nil && (lead.CampaignID == nil || *lead.CampaignID != *query.CampaignID) {
			continue
		}
		switch query.Mode {
		case QueueOverdue:
			if !lead.Overdue(now) {
				continue
			}
		case QueueDueSoon:
			if lead.FirstContactAt != nil || lead.FirstContactDue.Before(now) || lead.FirstContactDue.After(now.Add(dueSoonWindow)) {
				continue
			}
		case QueueHotNew:
			if lead.FirstContactAt != nil || lead.CreatedAt.Before(now.Add(-hotNewWindow)) {
				continue
			}
		}
		filtered = append(filtered, lead)
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return clampLimit(filtered, query.Limit), nil
}

func (s *LeadService) MarkWebsiteLeadContacted(ctx context.Context, leadID int64) (*model.WebsiteLead, error) {
	return s.leads.MarkWebsiteLeadContacted(ctx, leadID, time.Now().UTC())
}

type WebsiteEventParams struct {
	EventType   model.WebsiteEventType
	LeadID      *int64
	CampaignID  *int64
	SessionID   *string
	UTMSource   *string
	UTMMedium   *string
	UTMCampaign *string
	LandingPath *string
	Referrer    *string
}

// RecordWebsiteEvent appends an analytics event. A wa_click against a lead
// also bumps that lead's click counter.
func (s *LeadService) RecordWebsiteEvent(ctx context.Context, params WebsiteEventParams) (*model.WebsiteEvent, error) {
	if params.LeadID != nil {
		if _, err := s.leads.GetWebsiteLead(ctx, *params.LeadID); err != nil {
			return nil, err
		}
	}
	if params.CampaignID != nil {
		if _, err := s.campaigns.GetCampaign(ctx, *params.CampaignID); err != nil {
			return nil, err
		}
	}

	event := &model.WebsiteEvent{
		ID:          id.New(),
		EventType:   params.EventType,
		LeadID:      params.LeadID,
		CampaignID:  params.CampaignID,
		SessionID:   params.SessionID,
		UTMSource:   params.UTMSource,
		UTMMedium:   params.UTMMedium,
		UTMCampaign: params.UTMCampaign,
		LandingPath: params.LandingPath,
		Referrer:    params.Referrer,
		CreatedAt:   time.Now().UTC(),
	}
	event, err := s.leads.AppendWebsiteEvent(ctx, event)
	if err != nil {
		return event, err
	}

	if params.EventType == model.WebsiteEventWAClick && params.LeadID != nil {
		if _, err := s.leads.IncrementWAClick(ctx, *params.LeadID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return event, err
		}
	}
	return event, nil
}

// WebsiteFunnelSummary aggregates website leads and events over a date range.
type WebsiteFunnelSummary struct {
	From                time.Time                      `json:"date_from"`
	To                  time.Time                      `json:"date_to"`
	TotalLeads          int                            `json:"total_leads"`
	OpenLeads           int                            `json:"open_leads"`
	ContactedLeads      int                            `json:"contacted_leads"`
	BreachedLeads       int                            `json:"breached_leads"`
	WithinSLARate       float64                        `json:"within_sla_rate"`
	EventCounts         map[model.WebsiteEventType]int `json:"event_counts"`
	LeadsBySource       map[string]int                 `json:"leads_by_source"`
	LeadsByNeighborhood map[string]int                 `json:"leads_by_neighborhood"`
}

func (s *LeadService) FunnelSummary(ctx context.Context, from, to time.Time, campaignID *int64) (*WebsiteFunnelSummary, error) {
	if to.Before(from) {
		return nil, invalidf("date range end precedes start")
	}
	leads, err := s.leads.ListWebsiteLeads(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.leads.ListWebsiteEvents(ctx)
	if err != nil {
		return nil, err
	}

	inRange := func(t time.Time) bool {
		return !t.Before(from) && !t.After(to)
	}

	summary := &WebsiteFunnelSummary{
		From:                from,
		To:                  to,
		EventCounts:         make(map[model.WebsiteEventType]int),
		LeadsBySource:       make(map[string]int),
		LeadsByNeighborhood: make(map[string]int),
	}

	leadIDs := make(map[int64]struct{})
	for _, lead := range leads {
		if !inRange(lead.CreatedAt) {
			continue
		}
		if campaignID != nil && (lead.CampaignID == nil || *lead.CampaignID != *campaignID) {
			continue
		}
		leadIDs[lead.ID] = struct{}{}
		summary.TotalLeads++
		if lead.FirstContactAt != nil {
			summary.ContactedLeads++
		}
		if lead.SLABreached {
			summary.BreachedLeads++
		}
		summary.LeadsBySource[bucketKey(lead.UTMSource)]++
		summary.LeadsByNeighborhood[bucketKey(lead.Neighborhood)]++
	}
	summary.OpenLeads = summary.TotalLeads - summary.ContactedLeads
	if summary.ContactedLeads > 0 {
		withinSLA := summary.ContactedLeads - summary.BreachedLeads
		if withinSLA < 0 {
			withinSLA = 0
		}
		summary.WithinSLARate = round1(100 * float64(withinSLA) / float64(summary.ContactedLeads))
	}

	for _, event := range events {
		if !inRange(event.CreatedAt) {
			continue
		}
		if campaignID != nil {
			linked := event.CampaignID != nil && *event.CampaignID == *campaignID
			if !linked && event.LeadID != nil {
				_, linked = leadIDs[*event.LeadID]
			}
			if !linked {
				continue
			}
		}
		summary.EventCounts[event.EventType]++
	}
	return summary, nil
}

func bucketKey(value *string) string {
	if value == nil {
		return "unknown"
	}
	key := strings.ToLower(strings.TrimSpace(*value))
	if key == "" {
		return "unknown"
	}
	return key
}

func clampLimit[T any](items []T, limit int) []T {
	if limit < 1 {
		limit = 50
	}
	if limit > maxLeadListLimit {
		limit = maxLeadListLimit
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
