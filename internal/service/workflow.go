package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"hireline.app/engine/common/id"
	"hireline.app/engine/common/logger"
	"hireline.app/engine/internal/model"
	"hireline.app/engine/internal/store"
)

// WorkflowService owns candidate intake and the hiring stage machine.
type WorkflowService struct {
	candidates store.CandidateStore
	jobs       store.JobStore
	dedupe     *DedupeService
}

func NewWorkflowService(candidates store.CandidateStore, jobs store.JobStore, dedupe *DedupeService) *WorkflowService {
	return &WorkflowService{candidates: candidates, jobs: jobs, dedupe: dedupe}
}

type IngestCandidateParams struct {
	Name                string
	Phone               string
	SourceChannel       model.SourceChannel
	Languages           []model.Language
	TherapyExperience   []string
	ExperienceYears     float64
	Certifications      []string
	ExpectedPay         *int
	CurrentLocation     *model.Coordinates
	PreferredShiftStart *string
	PreferredShiftEnd   *string
	ReferredBy          *string
	LastEmployer        *string
	JobID               *int64
	Actor               string
}

// IngestCandidate resolves the identity through dedupe, creating a new
// candidate only when no match exists. When a job is referenced, the fit
// score is computed and recorded either way. The second return reports
// whether an existing candidate was reused.
func (s *WorkflowService) IngestCandidate(ctx context.Context, params IngestCandidateParams) (*model.Candidate, bool, error) {
	if params.Name == "" {
		return nil, false, invalidf("candidate name is required")
	}
	if params.Phone == "" {
		return nil, false, invalidf("candidate phone is required")
	}
	if params.JobID != nil {
		if _, err := s.jobs.GetJob(ctx, *params.JobID); err != nil {
			return nil, false, err
		}
	}

	candidate, err := s.dedupe.FindMatch(ctx, params.Name, params.Phone, params.Languages)
	deduplicated := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	if !deduplicated {
		now := time.Now().UTC()
		candidate = &model.Candidate{
			ID:                  id.New(),
			Name:                params.Name,
			Phone:               params.Phone,
			NormalizedPhone:     NormalizePhone(params.Phone),
			SourceChannel:       params.SourceChannel,
			Languages:           params.Languages,
			TherapyExperience:   params.TherapyExperience,
			ExperienceYears:     params.ExperienceYears,
			Certifications:      params.Certifications,
			ExpectedPay:         params.ExpectedPay,
			CurrentLocation:     params.CurrentLocation,
			PreferredShiftStart: params.PreferredShiftStart,
			PreferredShiftEnd:   params.PreferredShiftEnd,
			ReferredBy:          params.ReferredBy,
			LastEmployer:        params.LastEmployer,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		candidate, err = s.candidates.CreateCandidate(ctx, candidate, params.Actor)
		if err != nil {
			return candidate, false, err
		}
	}

	if params.JobID != nil {
		job, err := s.jobs.GetJob(ctx, *params.JobID)
		if err != nil {
			return candidate, deduplicated, err
		}
		breakdown := ScoreCandidate(candidate, job)
		candidate, err = s.candidates.SetFitScore(ctx, candidate.ID, job.ID, breakdown.Total)
		if err != nil {
			return candidate, deduplicated, err
		}
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{CandidateID: &candidate.ID})
	slog.InfoContext(ctx, "candidate ingested", "deduplicated", deduplicated)
	return candidate, deduplicated, nil
}

// Advance moves a candidate one step along the forward chain. The target must
// name the next forward stage explicitly; reject and withdraw have their own
// operations.
func (s *WorkflowService) Advance(ctx context.Context, candidateID int64, jobID *int64, target model.Stage, actor, note string) (*model.StageEvent, error) {
	if target == model.StageRejected || target == model.StageWithdrawn {
		return nil, invalidf("advance cannot target %s", target)
	}
	if target == "" {
		return nil, invalidf("target stage is required")
	}
	return s.candidates.Transition(ctx, candidateID, jobID, target, actor, note)
}

func (s *WorkflowService) Reject(ctx context.Context, candidateID int64, jobID *int64, actor, note string) (*model.StageEvent, error) {
	return s.candidates.Transition(ctx, candidateID, jobID, model.StageRejected, actor, note)
}

func (s *WorkflowService) Withdraw(ctx context.Context, candidateID int64, jobID *int64, actor, note string) (*model.StageEvent, error) {
	return s.candidates.Transition(ctx, candidateID, jobID, model.StageWithdrawn, actor, note)
}

func (s *WorkflowService) GetCandidate(ctx context.Context, candidateID int64) (*model.Candidate, error) {
	return s.candidates.GetCandidate(ctx, candidateID)
}

// StageTrail returns a candidate's full audit trail, starting with the
// synthetic creation event.
func (s *WorkflowService) StageTrail(ctx context.Context, candidateID int64) ([]*model.StageEvent, error) {
	return s.candidates.ListStageEvents(ctx, candidateID)
}

// PipelineEntry is one candidate's row in a job pipeline.
type PipelineEntry struct {
	CandidateID   int64               `json:"candidate_id"`
	Name          string              `json:"name"`
	SourceChannel model.SourceChannel `json:"source_channel"`
	Score         float64             `json:"score"`
	CreatedAt     time.Time           `json:"created_at"`
}

// Pipeline groups a job's candidates by stage, each group ordered by score
// descending with ties broken by creation time ascending.
type Pipeline struct {
	JobID  int64                           `json:"job_id"`
	Stages map[model.Stage][]PipelineEntry `json:"stages"`
	Counts map[model.Stage]int             `json:"counts"`
}

func (s *WorkflowService) GetPipeline(ctx context.Context, jobID int64) (*Pipeline, error) {
	if _, err := s.jobs.GetJob(ctx, jobID); err != nil {
		return nil, err
	}
	candidates, err := s.candidates.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}

	pipeline := &Pipeline{
		JobID:  jobID,
		Stages: make(map[model.Stage][]PipelineEntry),
		Counts: make(map[model.Stage]int),
	}
	for _, candidate := range candidates {
		score, ok := candidate.FitScores[jobID]
		if !ok {
			continue
		}
		pipeline.Stages[candidate.Stage] = append(pipeline.Stages[candidate.Stage], PipelineEntry{
			CandidateID:   candidate.ID,
			Name:          candidate.Name,
			SourceChannel: candidate.SourceChannel,
			Score:         score,
			CreatedAt:     candidate.CreatedAt,
		})
	}
	for stage, entries := range pipeline.Stages {
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].Score != entries[j].Score {
				return entries[i].Score > entries[j].Score
			}
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		})
		pipeline.Counts[stage] = len(entries)
	}
	return pipeline, nil
}
