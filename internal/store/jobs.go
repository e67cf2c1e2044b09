package store

import (
	"context"

	"hireline.app/engine/internal/model"
)

// CreateIntake stores an employer together with its first job posting. Both
// arrive fully built from the intake service.
func (s *Store) CreateIntake(ctx context.Context, employer *model.Employer, job *model.Job) error {
	s.mu.Lock()
	s.employers[employer.ID] = employer
	s.jobs[job.ID] = job
	s.mu.Unlock()

	return s.persistState(ctx)
}

func (s *Store) GetEmployer(ctx context.Context, id int64) (*model.Employer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	employer, ok := s.employers[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *employer
	return &out, nil
}

func (s *Store) GetJob(ctx context.Context, id int64) (*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneJob(job)
	return &out, nil
}

func (s *Store) ListJobs(ctx context.Context) ([]*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	jobs := make([]*model.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out := cloneJob(job)
		jobs = append(jobs, &out)
	}
	return jobs, nil
}

func (s *Store) SetJobStatus(ctx context.Context, id int64, status model.JobStatus) (*model.Job, error) {
	s.mu.Lock()
	job, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	job.Status = status
	out := cloneJob(job)
	s.mu.Unlock()

	if err := s.persistState(ctx); err != nil {
		return &out, err
	}
	return &out, nil
}
