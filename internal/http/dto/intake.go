package dto

import "hireline.app/engine/internal/model"

type EmployerIntakeRequest struct {
	EmployerName          string            `json:"employer_name" binding:"required"`
	ContactPhone          string            `json:"contact_phone" binding:"required"`
	Role                  string            `json:"role" binding:"required"`
	RequiredTherapies     []string          `json:"required_therapies,omitempty"`
	RequiredCertification string            `json:"required_certification,omitempty"`
	ShiftStart            string            `json:"shift_start" binding:"required"`
	ShiftEnd              string            `json:"shift_end" binding:"required"`
	PayMin                int               `json:"pay_min" binding:"min=0"`
	PayMax                int               `json:"pay_max" binding:"min=0"`
	LocationName          string            `json:"location_name" binding:"required"`
	Location              model.Coordinates `json:"location" binding:"required"`
	Languages             []model.Language  `json:"languages,omitempty"`
	SLADays               int               `json:"sla_days,omitempty"`
}

type EmployerIntakeResponse struct {
	EmployerID int64      `json:"employer_id"`
	Job        *model.Job `json:"job"`
}
