package service_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"hireline.app/engine/internal/model"
	"hireline.app/engine/internal/service"
)

var _ = Describe("ScoreCandidate", func() {
	var (
		candidate *model.Candidate
		job       *model.Job
	)

	// Koramangala and Indiranagar, roughly 5 km apart.
	koramangala := model.Coordinates{Lat: 12.9352, Lon: 77.6245}
	indiranagar := model.Coordinates{Lat: 12.9719, Lon: 77.6412}

	BeforeEach(func() {
		candidate = &model.Candidate{
			TherapyExperience: []string{"Swedish", "Deep Tissue"},
			Languages:         []model.Language{model.LanguageKannada, model.LanguageEnglish},
			Certifications:    []string{"CIDESCO"},
			ExperienceYears:   3,
			CurrentLocation:   &koramangala,
		}
		job = &model.Job{
			RequiredTherapies:     []string{"swedish", "deep tissue"},
			Languages:             []model.Language{model.LanguageKannada},
			RequiredCertification: "cidesco",
			Location:              koramangala,
		}
	})

	It("gives a perfect fit the maximum on every sub-score", func() {
		breakdown := service.ScoreCandidate(candidate, job)
		Expect(breakdown.Therapy).To(Equal(100.0))
		Expect(breakdown.Language).To(Equal(100.0))
		Expect(breakdown.Commute).To(Equal(100.0))
		Expect(breakdown.CertExperience).To(Equal(100.0))
		Expect(breakdown.Total).To(Equal(100.0))
	})

	It("is deterministic", func() {
		first := service.ScoreCandidate(candidate, job)
		second := service.ScoreCandidate(candidate, job)
		Expect(second).To(Equal(first))
	})

	It("keeps every sub-score within [0, 100]", func() {
		candidate.TherapyExperience = nil
		candidate.Languages = nil
		candidate.Certifications = nil
		candidate.ExperienceYears = 0
		candidate.CurrentLocation = &model.Coordinates{Lat: 13.5, Lon: 78.5}

		breakdown := service.ScoreCandidate(candidate, job)
		for _, score := range []float64{breakdown.Therapy, breakdown.Language, breakdown.Commute, breakdown.CertExperience, breakdown.Total} {
			Expect(score).To(BeNumerically(">=", 0))
			Expect(score).To(BeNumerically("<=", 100))
		}
	})

	Describe("therapy sub-score", func() {
		It("is the matched fraction of required therapies, case-insensitive", func() {
			candidate.TherapyExperience = []string{"SWEDISH"}
			breakdown := service.ScoreCandidate(candidate, job)
			Expect(breakdown.Therapy).To(Equal(50.0))
		})

		It("is full when the job requires none", func() {
			job.RequiredTherapies = nil
			candidate.TherapyExperience = nil
			Expect(service.ScoreCandidate(candidate, job).Therapy).To(Equal(100.0))
		})
	})

	Describe("commute sub-score", func() {
		It("is neutral without a known location", func() {
			candidate.CurrentLocation = nil
			Expect(service.ScoreCandidate(candidate, job).Commute).To(Equal(50.0))
		})

		It("decays with distance and hits zero past the cutoff", func() {
			candidate.CurrentLocation = &indiranagar
			mid := service.ScoreCandidate(candidate, job).Commute
			Expect(mid).To(BeNumerically("<", 100))
			Expect(mid).To(BeNumerically(">", 0))

			candidate.CurrentLocation = &model.Coordinates{Lat: 13.6, Lon: 78.9}
			Expect(service.ScoreCandidate(candidate, job).Commute).To(Equal(0.0))
		})
	})

	Describe("cert/experience sub-score", func() {
		DescribeTable("steps on certification and years",
			func(certs []string, years float64, expected float64) {
				candidate.Certifications = certs
				candidate.ExperienceYears = years
				Expect(service.ScoreCandidate(candidate, job).CertExperience).To(Equal(expected))
			},
			Entry("cert and two years", []string{"CIDESCO"}, 2.0, 100.0),
			Entry("cert without experience", []string{"CIDESCO"}, 0.0, 70.0),
			Entry("two years without cert", []string{}, 2.0, 70.0),
			Entry("one year without cert", []string{}, 1.0, 40.0),
			Entry("fresher without cert", []string{}, 0.0, 20.0),
		)

		It("treats no required certification as satisfied", func() {
			job.RequiredCertification = ""
			candidate.Certifications = nil
			candidate.ExperienceYears = 2
			Expect(service.ScoreCandidate(candidate, job).CertExperience).To(Equal(100.0))
		})
	})

	It("weights the total 0.35/0.25/0.20/0.20", func() {
		candidate.TherapyExperience = []string{"Swedish"} // 50
		candidate.Languages = nil                         // 0
		candidate.CurrentLocation = nil                   // 50
		candidate.Certifications = nil
		candidate.ExperienceYears = 1 // 40

		breakdown := service.ScoreCandidate(candidate, job)
		Expect(breakdown.Total).To(Equal(35.5))
	})
})
