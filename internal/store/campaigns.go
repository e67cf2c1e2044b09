package store

import (
	"context"
	"time"

	"hireline.app/engine/internal/model"
)

func (s *Store) CreateCampaign(ctx context.Context, campaign *model.Campaign) (*model.Campaign, error) {
	s.mu.Lock()
	s.campaigns[campaign.ID] = campaign
	out := cloneCampaign(campaign)
	s.mu.Unlock()

	if err := s.persistState(ctx); err != nil {
		return &out, err
	}
	return &out, nil
}

func (s *Store) GetCampaign(ctx context.Context, id int64) (*model.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	campaign, ok := s.campaigns[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneCampaign(campaign)
	return &out, nil
}

func (s *Store) ListCampaigns(ctx context.Context) ([]*model.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	campaigns := make([]*model.Campaign, 0, len(s.campaigns))
	for _, campaign := range s.campaigns {
		out := cloneCampaign(campaign)
		campaigns = append(campaigns, &out)
	}
	return campaigns, nil
}

// ApplyFunnelEvent adds count to one counter. Counters only ever grow; the
// funnel service validates count before calling.
func (s *Store) ApplyFunnelEvent(ctx context.Context, campaignID int64, eventType model.FunnelEventType, count int) (*model.Campaign, error) {
	release, ok := s.locks.tryAcquire(campaignLockKey(campaignID))
	if !ok {
		return nil, ErrConflict
	}
	defer release()

	s.mu.Lock()
	campaign, ok := s.campaigns[campaignID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	campaign.Counts.Add(eventType, count)
	campaign.UpdatedAt = time.Now().UTC()
	out := cloneCampaign(campaign)
	s.mu.Unlock()

	if err := s.persistState(ctx); err != nil {
		return &out, err
	}
	return &out, nil
}
