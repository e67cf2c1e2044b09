package model

import "time"

type Language string

const (
	LanguageKannada Language = "kn"
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
	LanguageTamil   Language = "ta"
	LanguageTelugu  Language = "te"
)

type SourceChannel string

const (
	SourceWhatsApp SourceChannel = "whatsapp"
	SourceWalkIn   SourceChannel = "walk_in"
	SourceReferral SourceChannel = "referral"
	SourceAgent    SourceChannel = "agent"
	SourceWeb      SourceChannel = "web"
	SourceCall     SourceChannel = "call"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Candidate is owned exclusively by the workflow store. Stage changes only
// through the store's transition operations; FitScores holds the latest
// per-job score so pipeline reads do not recompute.
type Candidate struct {
	ID                  int64             `json:"id"`
	Name                string            `json:"name"`
	Phone               string            `json:"phone"`
	NormalizedPhone     string            `json:"normalized_phone"`
	SourceChannel       SourceChannel     `json:"source_channel"`
	Languages           []Language        `json:"languages,omitempty"`
	TherapyExperience   []string          `json:"therapy_experience,omitempty"`
	ExperienceYears     float64           `json:"experience_years"`
	Certifications      []string          `json:"certifications,omitempty"`
	ExpectedPay         *int              `json:"expected_pay,omitempty"`
	CurrentLocation     *Coordinates      `json:"current_location,omitempty"`
	PreferredShiftStart *string           `json:"preferred_shift_start,omitempty"`
	PreferredShiftEnd   *string           `json:"preferred_shift_end,omitempty"`
	ReferredBy          *string           `json:"referred_by,omitempty"`
	LastEmployer        *string           `json:"last_employer,omitempty"`
	Stage               Stage             `json:"stage"`
	FitScores           map[int64]float64 `json:"fit_scores,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}
