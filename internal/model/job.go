package model

import "time"

type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

type Employer struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	ContactPhone string    `json:"contact_phone"`
	CreatedAt    time.Time `json:"created_at"`
}

// Job is immutable after creation except Status.
type Job struct {
	ID                    int64       `json:"id"`
	EmployerID            int64       `json:"employer_id"`
	Role                  string      `json:"role"`
	RequiredTherapies     []string    `json:"required_therapies,omitempty"`
	RequiredCertification string      `json:"required_certification,omitempty"`
	ShiftStart            string      `json:"shift_start"`
	ShiftEnd              string      `json:"shift_end"`
	PayMin                int         `json:"pay_min"`
	PayMax                int         `json:"pay_max"`
	LocationName          string      `json:"location_name"`
	Location              Coordinates `json:"location"`
	Languages             []Language  `json:"languages,omitempty"`
	Status                JobStatus   `json:"status"`
	SLADeadline           time.Time   `json:"sla_deadline"`
	CreatedAt             time.Time   `json:"created_at"`
}
