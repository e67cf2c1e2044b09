package store

import (
	"context"
	"time"

	"hireline.app/engine/internal/model"
)

// Per-concern views over the store. Services depend on these rather than the
// concrete type so tests can substitute function-field mocks.

type JobStore interface {
	CreateIntake(ctx context.Context, employer *model.Employer, job *model.Job) error
	GetEmployer(ctx context.Context, id int64) (*model.Employer, error)
	GetJob(ctx context.Context, id int64) (*model.Job, error)
	ListJobs(ctx context.Context) ([]*model.Job, error)
	SetJobStatus(ctx context.Context, id int64, status model.JobStatus) (*model.Job, error)
}

type CandidateStore interface {
	CreateCandidate(ctx context.Context, candidate *model.Candidate, actor string) (*model.Candidate, error)
	GetCandidate(ctx context.Context, candidateID int64) (*model.Candidate, error)
	ListCandidates(ctx context.Context) ([]*model.Candidate, error)
	SetFitScore(ctx context.Context, candidateID, jobID int64, score float64) (*model.Candidate, error)
	Transition(ctx context.Context, candidateID int64, jobID *int64, target model.Stage, actor, note string) (*model.StageEvent, error)
	ListStageEvents(ctx context.Context, candidateID int64) ([]*model.StageEvent, error)
}

type DeliveryStore interface {
	AcquireDelivery(key string) (release func(), err error)
	GetDelivery(ctx context.Context, channel model.Channel, externalID string) (*model.WebhookDelivery, error)
	ListDeliveries(ctx context.Context) ([]*model.WebhookDelivery, error)
	UpsertDelivery(ctx context.Context, delivery *model.WebhookDelivery) error
}

type CampaignStore interface {
	CreateCampaign(ctx context.Context, campaign *model.Campaign) (*model.Campaign, error)
	GetCampaign(ctx context.Context, id int64) (*model.Campaign, error)
	ListCampaigns(ctx context.Context) ([]*model.Campaign, error)
	ApplyFunnelEvent(ctx context.Context, campaignID int64, eventType model.FunnelEventType, count int) (*model.Campaign, error)
}

type LeadStore interface {
	CreateManualLead(ctx context.Context, lead *model.ManualLead) (*model.ManualLead, error)
	ListManualLeads(ctx context.Context) ([]*model.ManualLead, error)
	MarkManualLeadContacted(ctx context.Context, id int64, at time.Time) (*model.ManualLead, error)
	CreateWebsiteLead(ctx context.Context, lead *model.WebsiteLead) (*model.WebsiteLead, error)
	GetWebsiteLead(ctx context.Context, id int64) (*model.WebsiteLead, error)
	ListWebsiteLeads(ctx context.Context) ([]*model.WebsiteLead, error)
	MarkWebsiteLeadContacted(ctx context.Context, id int64, at time.Time) (*model.WebsiteLead, error)
	IncrementWAClick(ctx context.Context, id int64) (*model.WebsiteLead, error)
	AppendWebsiteEvent(ctx context.Context, event *model.WebsiteEvent) (*model.WebsiteEvent, error)
	ListWebsiteEvents(ctx context.Context) ([]*model.WebsiteEvent, error)
}
