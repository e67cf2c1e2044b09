package service

import (
	"math"
	"strings"

	"hireline.app/engine/internal/model"
)

// Fixed weights for the total score. Stable, not tunable per call.
const (
	weightTherapy        = 0.35
	weightLanguage       = 0.25
	weightCommute        = 0.20
	weightCertExperience = 0.20
)

// Commute scoring distances in km. Full marks inside walking range, zero
// beyond the maximum acceptable commute, linear in between.
const (
	commuteFullKm = 2.0
	commuteZeroKm = 30.0
)

// ScoreBreakdown carries the weighted total and its sub-scores, all on a
// 0-100 scale rounded to one decimal.
type ScoreBreakdown struct {
	Total          float64 `json:"total"`
	Therapy        float64 `json:"therapy"`
	Language       float64 `json:"language"`
	Commute        float64 `json:"commute"`
	CertExperience float64 `json:"cert_experience"`
}

// ScoreCandidate rates a candidate's fit for a job. Pure and deterministic;
// identity fields beyond skills, languages, certifications, experience, and
// location never influence the result.
func ScoreCandidate(candidate *model.Candidate, job *model.Job) ScoreBreakdown {
	breakdown := ScoreBreakdown{
		Therapy:        round1(therapyScore(candidate, job)),
		Language:       round1(languageScore(candidate, job)),
		Commute:        round1(commuteScore(candidate, job)),
		CertExperience: round1(certExperienceScore(candidate, job)),
	}
	breakdown.Total = round1(
		weightTherapy*breakdown.Therapy +
			weightLanguage*breakdown.Language +
			weightCommute*breakdown.Commute +
			weightCertExperience*breakdown.CertExperience,
	)
	return breakdown
}

func therapyScore(candidate *model.Candidate, job *model.Job) float64 {
	if len(job.RequiredTherapies) == 0 {
		return 100
	}
	have := make(map[string]struct{}, len(candidate.TherapyExperience))
	for _, therapy := range candidate.TherapyExperience {
		have[strings.ToLower(strings.TrimSpace(therapy))] = struct{}{}
	}
	matched := 0
	for _, required := range job.RequiredTherapies {
		if _, ok := have[strings.ToLower(strings.TrimSpace(required))]; ok {
			matched++
		}
	}
	return 100 * float64(matched) / float64(len(job.RequiredTherapies))
}

func languageScore(candidate *model.Candidate, job *model.Job) float64 {
	if len(job.Languages) == 0 {
		return 100
	}
	have := make(map[model.Language]struct{}, len(candidate.Languages))
	for _, lang := range candidate.Languages {
		have[lang] = struct{}{}
	}
	matched := 0
	for _, required := range job.Languages {
		if _, ok := have[required]; ok {
			matched++
		}
	}
	return 100 * float64(matched) / float64(len(job.Languages))
}

func commuteScore(candidate *model.Candidate, job *model.Job) float64 {
	if candidate.CurrentLocation == nil {
		return 50
	}
	distance := haversineKm(*candidate.CurrentLocation, job.Location)
	switch {
	case distance <= commuteFullKm:
		return 100
	case distance >= commuteZeroKm:
		return 0
	default:
		return 100 * (commuteZeroKm - distance) / (commuteZeroKm - commuteFullKm)
	}
}

func certExperienceScore(candidate *model.Candidate, job *model.Job) float64 {
	hasCert := job.RequiredCertification == ""
	if !hasCert {
		required := strings.ToLower(strings.TrimSpace(job.RequiredCertification))
		for _, cert := range candidate.Certifications {
			if strings.ToLower(strings.TrimSpace(cert)) == required {
				hasCert = true
				break
			}
		}
	}
	years := candidate.ExperienceYears
	switch {
	case hasCert && years >= 2:
		return 100
	case hasCert || years >= 2:
		return 70
	case years >= 1:
		return 40
	default:
		return 20
	}
}

func haversineKm(a, b model.Coordinates) float64 {
	const earthRadiusKm = 6371.0
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
