package dto

import (
	"hireline.app/engine/internal/model"
	"hireline.app/engine/internal/service"
)

type CandidateIngestRequest struct {
	Name                string              `json:"name" binding:"required"`
	Phone               string              `json:"phone" binding:"required"`
	SourceChannel       model.SourceChannel `json:"source_channel" binding:"required"`
	Languages           []model.Language    `json:"languages,omitempty"`
	TherapyExperience   []string            `json:"therapy_experience,omitempty"`
	ExperienceYears     float64             `json:"experience_years,omitempty"`
	Certifications      []string            `json:"certifications,omitempty"`
	ExpectedPay         *int                `json:"expected_pay,omitempty"`
	CurrentLocation     *model.Coordinates  `json:"current_location,omitempty"`
	PreferredShiftStart *string             `json:"preferred_shift_start,omitempty"`
	PreferredShiftEnd   *string             `json:"preferred_shift_end,omitempty"`
	ReferredBy          *string             `json:"referred_by,omitempty"`
	LastEmployer        *string             `json:"last_employer,omitempty"`
	JobID               *int64              `json:"job_id,omitempty"`
}

type CandidateIngestResponse struct {
	Candidate    *model.Candidate `json:"candidate"`
	Deduplicated bool             `json:"deduplicated"`
}

type StageTransitionRequest struct {
	TargetStage model.Stage `json:"target_stage,omitempty"`
	JobID       *int64      `json:"job_id,omitempty"`
	Actor       string      `json:"actor" binding:"required"`
	Note        string      `json:"note,omitempty"`
}

type StageTransitionResponse struct {
	Event *model.StageEvent `json:"event"`
}

type StageTrailResponse struct {
	CandidateID int64               `json:"candidate_id"`
	Events      []*model.StageEvent `json:"events"`
}

type ScoreRequest struct {
	JobID int64 `json:"job_id" binding:"required"`
}

type ScoreResponse struct {
	CandidateID int64                  `json:"candidate_id"`
	JobID       int64                  `json:"job_id"`
	Breakdown   service.ScoreBreakdown `json:"breakdown"`
}
