package store

import (
	"context"
	"time"

	"hireline.app/engine/internal/model"
)

func (s *Store) CreateManualLead(ctx context.Context, lead *model.ManualLead) (*model.ManualLead, error) {
	s.mu.Lock()
	s.manualLeads[lead.ID] = lead
	out := *lead
	s.mu.Unlock()

	if err := s.persistState(ctx); err != nil {
		return &out, err
	}
	return &out, nil
}

func (s *Store) ListManualLeads(ctx context.Context) ([]*model.ManualLead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	leads := make([]*model.ManualLead, 0, len(s.manualLeads))
	for _, lead := range s.manualLeads {
		out := *lead
		leads = append(leads, &out)
	}
	return leads, nil
}

func (s *Store) MarkManualLeadContacted(ctx context.Context, id int64, at time.Time) (*model.ManualLead, error) {
	release, ok := s.locks.tryAcquire(leadLockKey(id))
	if !ok {
		return nil, ErrConflict
	}
	defer release()

	s.mu.Lock()
	lead, ok := s.manualLeads[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if lead.FirstContactAt == nil {
		lead.FirstContactAt = &at
	}
	out := *lead
	s.mu.Unlock()

	if err := s.persistState(ctx); err != nil {
		return &out, err
	}
	return &out, nil
}

func (s *Store) CreateWebsiteLead(ctx context.Context, lead *model.WebsiteLead) (*model.WebsiteLead, error) {
	s.mu.Lock()
	s.websiteLeads[lead.ID] = lead
	out := *lead
	s.mu.Unlock()

	if err := s.persistState(ctx); err != nil {
		return &out, err
	}
	return &out, nil
}

func (s *Store) GetWebsiteLead(ctx context.Context, id int64) (*model.WebsiteLead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lead, ok := s.websiteLeads[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *lead
	return &out, nil
}

func (s *Store) ListWebsiteLeads(ctx context.Context) ([]*model.WebsiteLead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	leads := make([]*model.WebsiteLead, 0, len(s.websiteLeads))
	for _, lead := range s.websiteLeads {
		out := *lead
		leads = append(leads, &out)
	}
	return leads, nil
}

// MarkWebsiteLeadContacted records first contact once. The breach flag is set
// permanently when contact lands after the SLA due time.
func (s *Store) MarkWebsiteLeadContacted(ctx context.Context, id int64, at time.Time) (*model.WebsiteLead, error) {
	release, ok := s.locks.tryAcquire(leadLockKey(id))
	if !ok {
		return nil, ErrConflict
	}
	defer release()

	s.mu.Lock()
	lead, ok := s.websiteLeads[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if lead.FirstContactAt == nil {
		lead.FirstContactAt = &at
		lead.SLABreached = at.After(lead.FirstContactDue)
		lead.UpdatedAt = at
	}
	out := *lead
	s.mu.Unlock()

	if err := s.persistState(ctx); err != nil {
		return &out, err
	}
	return &out, nil
}

func (s *Store) IncrementWAClick(ctx context.Context, id int64) (*model.WebsiteLead, error) {
	release, ok := s.locks.tryAcquire(leadLockKey(id))
	if !ok {
		return nil, ErrConflict
	}
	defer release()

	s.mu.Lock()
	lead, ok := s.websiteLeads[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	lead.WAClickCount++
	lead.UpdatedAt = time.Now().UTC()
	out := *lead
	s.mu.Unlock()

	if err := s.persistState(ctx); err != nil {
		return &out, err
	}
	return &out, nil
}

func (s *Store) AppendWebsiteEvent(ctx context.Context, event *model.WebsiteEvent) (*model.WebsiteEvent, error) {
	s.mu.Lock()
	s.websiteEvents = append(s.websiteEvents, event)
	out := *event
	s.mu.Unlock()

	if err := s.persistState(ctx); err != nil {
		return &out, err
	}
	return &out, nil
}

func (s *Store) ListWebsiteEvents(ctx context.Context) ([]*model.WebsiteEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]*model.WebsiteEvent, 0, len(s.websiteEvents))
	for _, event := range s.websiteEvents {
		out := *event
		events = append(events, &out)
	}
	return events, nil
}
