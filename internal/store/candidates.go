package store

import (
	"context"
	"time"

	"hireline.app/engine/common/id"
	"hireline.app/engine/internal/model"
)

// transitionAllowed is the stage machine: advance targets the next forward
// stage only; reject and withdraw branch off every non-terminal stage.
func transitionAllowed(from, to model.Stage) bool {
	if from.Terminal() || to == "" {
		return false
	}
	if to == model.StageRejected || to == model.StageWithdrawn {
		return true
	}
	return to == from.Next()
}

// CreateCandidate stores a new candidate at sourced and appends the synthetic
// creation event, so replaying the trail from the beginning reconstructs the
// live stage.
func (s *Store) CreateCandidate(ctx context.Context, candidate *model.Candidate, actor string) (*model.Candidate, error) {
	event := &model.StageEvent{
		ID:          id.New(),
		CandidateID: candidate.ID,
		From:        "",
		To:          model.StageSourced,
		Actor:       actor,
		CreatedAt:   candidate.CreatedAt,
	}

	s.mu.Lock()
	candidate.Stage = model.StageSourced
	s.candidates[candidate.ID] = candidate
	s.stageEvents = append(s.stageEvents, event)
	out := cloneCandidate(candidate)
	s.mu.Unlock()

	if err := s.persistState(ctx); err != nil {
		return &out, err
	}
	return &out, nil
}

func (s *Store) GetCandidate(ctx context.Context, candidateID int64) (*model.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidate, ok := s.candidates[candidateID]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneCandidate(candidate)
	return &out, nil
}

func (s *Store) ListCandidates(ctx context.Context) ([]*model.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidates := make([]*model.Candidate, 0, len(s.candidates))
	for _, candidate := range s.candidates {
		out := cloneCandidate(candidate)
		candidates = append(candidates, &out)
	}
	return candidates, nil
}

// SetFitScore records the latest score for (candidate, job). Scoring a
// candidate also associates them with the job's pipeline.
func (s *Store) SetFitScore(ctx context.Context, candidateID, jobID int64, score float64) (*model.Candidate, error) {
	release, ok := s.locks.tryAcquire(candidateLockKey(candidateID))
	if !ok {
		return nil, ErrConflict
	}
	defer release()

	s.mu.Lock()
	candidate, ok := s.candidates[candidateID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if candidate.FitScores == nil {
		candidate.FitScores = make(map[int64]float64)
	}
	candidate.FitScores[jobID] = score
	candidate.UpdatedAt = time.Now().UTC()
	out := cloneCandidate(candidate)
	s.mu.Unlock()

	if err := s.persistState(ctx); err != nil {
		return &out, err
	}
	return &out, nil
}

// Transition moves a candidate to target and appends the audit event in the
// same critical section. The stage mutation and its event are never observed
// apart.
func (s *Store) Transition(ctx context.Context, candidateID int64, jobID *int64, target model.Stage, actor, note string) (*model.StageEvent, error) {
	release, ok := s.locks.tryAcquire(candidateLockKey(candidateID))
	if !ok {
		return nil, ErrConflict
	}
	defer release()

	s.mu.Lock()
	candidate, ok := s.candidates[candidateID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if !transitionAllowed(candidate.Stage, target) {
		from := candidate.Stage
		s.mu.Unlock()
		return nil, &InvalidTransitionError{From: from, To: target}
	}

	now := time.Now().UTC()
	event := &model.StageEvent{
		ID:          id.New(),
		CandidateID: candidateID,
		JobID:       jobID,
		From:        candidate.Stage,
		To:          target,
		Actor:       actor,
		Note:        note,
		CreatedAt:   now,
	}
	candidate.Stage = target
	candidate.UpdatedAt = now
	s.stageEvents = append(s.stageEvents, event)
	out := *event
	s.mu.Unlock()

	if err := s.persistState(ctx); err != nil {
		return &out, err
	}
	return &out, nil
}

// ListStageEvents returns a candidate's audit trail in append order.
func (s *Store) ListStageEvents(ctx context.Context, candidateID int64) ([]*model.StageEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.candidates[candidateID]; !ok {
		return nil, ErrNotFound
	}
	var events []*model.StageEvent
	for _, event := range s.stageEvents {
		if event.CandidateID == candidateID {
			out := *event
			events = append(events, &out)
		}
	}
	return events, nil
}
