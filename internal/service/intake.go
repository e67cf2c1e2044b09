package service

import (
	"context"
	"time"

	"hireline.app/engine/common/id"
	"hireline.app/engine/internal/model"
	"hireline.app/engine/internal/store"
)

// IntakeService registers employers together with their first job posting.
type IntakeService struct {
	jobs store.JobStore
}

func NewIntakeService(jobs store.JobStore) *IntakeService {
	return &IntakeService{jobs: jobs}
}

type EmployerIntakeParams struct {
	EmployerName          string
	ContactPhone          string
	Role                  string
	RequiredTherapies     []string
	RequiredCertification string
	ShiftStart            string
	ShiftEnd              string
	PayMin                int
	PayMax                int
	LocationName          string
	Location              model.Coordinates
	Languages             []model.Language
	SLADays               int
}

func (s *IntakeService) CreateEmployerAndJob(ctx context.Context, params EmployerIntakeParams) (*model.Employer, *model.Job, error) {
	if params.EmployerName == "" {
		return nil, nil, invalidf("employer name is required")
	}
	if params.Role == "" {
		return nil, nil, invalidf("job role is required")
	}
	if params.PayMin < 0 || params.PayMax < params.PayMin {
		return nil, nil, invalidf("pay band must satisfy 0 <= min <= max")
	}
	slaDays := params.SLADays
	if slaDays <= 0 {
		slaDays = 14
	}

	now := time.Now().UTC()
	employer := &model.Employer{
		ID:           id.New(),
		Name:         params.EmployerName,
		ContactPhone: params.ContactPhone,
		CreatedAt:    now,
	}
	job := &model.Job{
		ID:                    id.New(),
		EmployerID:            employer.ID,
		Role:                  params.Role,
		RequiredTherapies:     params.RequiredTherapies,
		RequiredCertification: params.RequiredCertification,
		ShiftStart:            params.ShiftStart,
		ShiftEnd:              params.ShiftEnd,
		PayMin:                params.PayMin,
		PayMax:                params.PayMax,
		LocationName:          params.LocationName,
		Location:              params.Location,
		Languages:             params.Languages,
		Status:                model.JobStatusOpen,
		SLADeadline:           now.AddDate(0, 0, slaDays),
		CreatedAt:             now,
	}

	if err := s.jobs.CreateIntake(ctx, employer, job); err != nil {
		return employer, job, err
	}
	return employer, job, nil
}

func (s *IntakeService) GetEmployer(ctx context.Context, employerID int64) (*model.Employer, error) {
	return s.jobs.GetEmployer(ctx, employerID)
}

func (s *IntakeService) GetJob(ctx context.Context, jobID int64) (*model.Job, error) {
	return s.jobs.GetJob(ctx, jobID)
}

func (s *IntakeService) ListJobs(ctx context.Context) ([]*model.Job, error) {
	return s.jobs.ListJobs(ctx)
}

func (s *IntakeService) CloseJob(ctx context.Context, jobID int64) (*model.Job, error) {
	return s.jobs.SetJobStatus(ctx, jobID, model.JobStatusClosed)
}
