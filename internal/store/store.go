// Package store holds all engine state in memory and owns every mutation.
// Logical operations on one entity are serialized through per-key critical
// sections; map access is guarded separately so readers never block on a
// slow persist.
package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"hireline.app/engine/internal/model"
	"hireline.app/engine/internal/persist"
)

type Store struct {
	mu     sync.RWMutex
	locks  *keyLocks
	snapMu sync.Mutex

	snapshots persist.Snapshotter
	mirror    persist.DeliveryMirror

	employers     map[int64]*model.Employer
	jobs          map[int64]*model.Job
	candidates    map[int64]*model.Candidate
	stageEvents   []*model.StageEvent
	manualLeads   map[int64]*model.ManualLead
	websiteLeads  map[int64]*model.WebsiteLead
	websiteEvents []*model.WebsiteEvent
	deliveries    map[string]*model.WebhookDelivery
	campaigns     map[int64]*model.Campaign
}

func New(snapshots persist.Snapshotter, mirror persist.DeliveryMirror) *Store {
	return &Store{
		locks:        newKeyLocks(),
		snapshots:    snapshots,
		mirror:       mirror,
		employers:    make(map[int64]*model.Employer),
		jobs:         make(map[int64]*model.Job),
		candidates:   make(map[int64]*model.Candidate),
		manualLeads:  make(map[int64]*model.ManualLead),
		websiteLeads: make(map[int64]*model.WebsiteLead),
		deliveries:   make(map[string]*model.WebhookDelivery),
		campaigns:    make(map[int64]*model.Campaign),
	}
}

func candidateLockKey(id int64) string { return fmt.Sprintf("candidate:%d", id) }
func campaignLockKey(id int64) string  { return fmt.Sprintf("campaign:%d", id) }
func leadLockKey(id int64) string      { return fmt.Sprintf("lead:%d", id) }
func deliveryLockKey(key string) string {
	return "delivery:" + key
}

// Hydrate restores state from the latest snapshot, then overlays the delivery
// mirror so ledger rows written after the snapshot survive a restart.
func (s *Store) Hydrate(ctx context.Context) error {
	snapshot, err := s.snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if snapshot != nil {
		for i := range snapshot.Employers {
			e := snapshot.Employers[i]
			s.employers[e.ID] = &e
		}
		for i := range snapshot.Jobs {
			j := snapshot.Jobs[i]
			s.jobs[j.ID] = &j
		}
		for i := range snapshot.Candidates {
			c := snapshot.Candidates[i]
			s.candidates[c.ID] = &c
		}
		for i := range snapshot.StageEvents {
			ev := snapshot.StageEvents[i]
			s.stageEvents = append(s.stageEvents, &ev)
		}
		for i := range snapshot.ManualLeads {
			l := snapshot.ManualLeads[i]
			s.manualLeads[l.ID] = &l
		}
		for i := range snapshot.WebsiteLeads {
			l := snapshot.WebsiteLeads[i]
			s.websiteLeads[l.ID] = &l
		}
		for i := range snapshot.WebsiteEvents {
			ev := snapshot.WebsiteEvents[i]
			s.websiteEvents = append(s.websiteEvents, &ev)
		}
		for i := range snapshot.Deliveries {
			d := snapshot.Deliveries[i]
			s.deliveries[d.Key()] = &d
		}
		for i := range snapshot.Campaigns {
			c := snapshot.Campaigns[i]
			s.campaigns[c.ID] = &c
		}
	}

	mirrored, err := s.mirror.List(ctx)
	if err != nil {
		return fmt.Errorf("loading delivery mirror: %w", err)
	}
	for i := range mirrored {
		d := mirrored[i]
		existing, ok := s.deliveries[d.Key()]
		if !ok || d.UpdatedAt.After(existing.UpdatedAt) {
			s.deliveries[d.Key()] = &d
		}
	}

	return nil
}

// persistState writes the full snapshot. Called after the in-memory mutation
// is already applied; an error here surfaces to the caller without rollback.
// snapMu covers build and save together: a snapshot built before a concurrent
// mutation must not be saved after that mutation's snapshot, or the durable
// state would roll back to the older one.
func (s *Store) persistState(ctx context.Context) error {
	s.snapMu.Lock()
	defer s.snapMu.Unlock()

	s.mu.RLock()
	snapshot := s.buildSnapshot()
	s.mu.RUnlock()

	return s.snapshots.Save(ctx, snapshot)
}

func (s *Store) buildSnapshot() *persist.Snapshot {
	snapshot := &persist.Snapshot{}
	for _, e := range s.employers {
		snapshot.Employers = append(snapshot.Employers, *e)
	}
	for _, j := range s.jobs {
		snapshot.Jobs = append(snapshot.Jobs, cloneJob(j))
	}
	for _, c := range s.candidates {
		snapshot.Candidates = append(snapshot.Candidates, cloneCandidate(c))
	}
	for _, ev := range s.stageEvents {
		snapshot.StageEvents = append(snapshot.StageEvents, *ev)
	}
	for _, l := range s.manualLeads {
		snapshot.ManualLeads = append(snapshot.ManualLeads, *l)
	}
	for _, l := range s.websiteLeads {
		snapshot.WebsiteLeads = append(snapshot.WebsiteLeads, *l)
	}
	for _, ev := range s.websiteEvents {
		snapshot.WebsiteEvents = append(snapshot.WebsiteEvents, *ev)
	}
	for _, d := range s.deliveries {
		snapshot.Deliveries = append(snapshot.Deliveries, *d)
	}
	for _, c := range s.campaigns {
		snapshot.Campaigns = append(snapshot.Campaigns, cloneCampaign(c))
	}

	// Snowflake ids are time-ordered, so sorting by id restores insertion
	// order after the map walk.
	slices.SortFunc(snapshot.Employers, func(a, b model.Employer) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(snapshot.Jobs, func(a, b model.Job) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(snapshot.Candidates, func(a, b model.Candidate) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(snapshot.ManualLeads, func(a, b model.ManualLead) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(snapshot.WebsiteLeads, func(a, b model.WebsiteLead) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(snapshot.Deliveries, func(a, b model.WebhookDelivery) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(snapshot.Campaigns, func(a, b model.Campaign) int { return cmp.Compare(a.ID, b.ID) })

	return snapshot
}

func cloneCandidate(c *model.Candidate) model.Candidate {
	out := *c
	out.Languages = slices.Clone(c.Languages)
	out.TherapyExperience = slices.Clone(c.TherapyExperience)
	out.Certifications = slices.Clone(c.Certifications)
	if c.FitScores != nil {
		out.FitScores = make(map[int64]float64, len(c.FitScores))
		for k, v := range c.FitScores {
			out.FitScores[k] = v
		}
	}
	return out
}

func cloneJob(j *model.Job) model.Job {
	out := *j
	out.RequiredTherapies = slices.Clone(j.RequiredTherapies)
	out.Languages = slices.Clone(j.Languages)
	return out
}

func cloneCampaign(c *model.Campaign) model.Campaign {
	out := *c
	out.NeighborhoodFocus = slices.Clone(c.NeighborhoodFocus)
	return out
}
