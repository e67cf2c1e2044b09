// Package persist is the durability boundary of the engine. The in-memory
// store stays authoritative; implementations here only load and save state.
package persist

import (
	"context"
	"errors"

	"hireline.app/engine/internal/model"
)

// ErrSnapshot wraps any snapshot I/O failure. Callers keep the in-memory
// mutation and surface the error instead of rolling back.
var ErrSnapshot = errors.New("snapshot persistence failure")

// Snapshot is the full durable image of engine state. A process restart
// hydrates from it and reconstructs identical in-memory state.
type Snapshot struct {
	Employers     []model.Employer        `json:"employers,omitempty"`
	Jobs          []model.Job             `json:"jobs,omitempty"`
	Candidates    []model.Candidate       `json:"candidates,omitempty"`
	StageEvents   []model.StageEvent      `json:"stage_events,omitempty"`
	ManualLeads   []model.ManualLead      `json:"manual_leads,omitempty"`
	WebsiteLeads  []model.WebsiteLead     `json:"website_leads,omitempty"`
	WebsiteEvents []model.WebsiteEvent    `json:"website_events,omitempty"`
	Deliveries    []model.WebhookDelivery `json:"webhook_deliveries,omitempty"`
	Campaigns     []model.Campaign        `json:"campaigns,omitempty"`
}

// Snapshotter saves and loads full state snapshots.
type Snapshotter interface {
	Save(ctx context.Context, snapshot *Snapshot) error
	// Load returns (nil, nil) when no snapshot has been saved yet.
	Load(ctx context.Context) (*Snapshot, error)
	Close()
}

// DeliveryMirror keeps webhook ledger rows durable independently of full
// snapshots, so restarts never forget a processed delivery even when the
// last snapshot predates it.
type DeliveryMirror interface {
	Upsert(ctx context.Context, delivery *model.WebhookDelivery) error
	List(ctx context.Context) ([]model.WebhookDelivery, error)
	Close() error
}

type noopSnapshotter struct{}

func NewNoopSnapshotter() Snapshotter { return noopSnapshotter{} }

func (noopSnapshotter) Save(context.Context, *Snapshot) error          { return nil }
func (noopSnapshotter) Load(context.Context) (*Snapshot, error)        { return nil, nil }
func (noopSnapshotter) Close()                                         {}

type noopMirror struct{}

func NewNoopMirror() DeliveryMirror { return noopMirror{} }

func (noopMirror) Upsert(context.Context, *model.WebhookDelivery) error { return nil }
func (noopMirror) List(context.Context) ([]model.WebhookDelivery, error) {
	return nil, nil
}
func (noopMirror) Close() error { return nil }
