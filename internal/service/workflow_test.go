package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"hireline.app/engine/internal/model"
	"hireline.app/engine/internal/service"
	"hireline.app/engine/internal/store"
)

var _ = Describe("WorkflowService", func() {
	var (
		ctx      context.Context
		st       *store.Store
		intake   *service.IntakeService
		workflow *service.WorkflowService
	)

	BeforeEach(func() {
		ctx = context.Background()
		st = newMemStore()
		intake = service.NewIntakeService(st)
		workflow = service.NewWorkflowService(st, st, service.NewDedupeService(st))
	})

	newJob := func() *model.Job {
		_, job, err := intake.CreateEmployerAndJob(ctx, service.EmployerIntakeParams{
			EmployerName: "Serene Spa",
			Role:         "Therapist",
			PayMin:       18000,
			PayMax:       25000,
			Location:     model.Coordinates{Lat: 12.9352, Lon: 77.6245},
			Languages:    []model.Language{model.LanguageKannada},
		})
		Expect(err).NotTo(HaveOccurred())
		return job
	}

	ingest := func(name, phone string, jobID *int64) (*model.Candidate, bool) {
		candidate, deduplicated, err := workflow.IngestCandidate(ctx, service.IngestCandidateParams{
			Name:          name,
			Phone:         phone,
			SourceChannel: model.SourceWalkIn,
			JobID:         jobID,
			Actor:         "recruiter",
		})
		Expect(err).NotTo(HaveOccurred())
		return candidate, deduplicated
	}

	Describe("IngestCandidate", func() {
		It("rejects missing name and phone", func() {
			_, _, err := workflow.IngestCandidate(ctx, service.IngestCandidateParams{Phone: "919187351205"})
			Expect(err).To(MatchError(service.ErrValidation))

			_, _, err = workflow.IngestCandidate(ctx, service.IngestCandidateParams{Name: "Asha"})
			Expect(err).To(MatchError(service.ErrValidation))
		})

		It("rejects an unknown job reference before creating anything", func() {
			missing := int64(42)
			_, _, err := workflow.IngestCandidate(ctx, service.IngestCandidateParams{
				Name: "Asha Rao", Phone: "919187351205", JobID: &missing,
			})
			Expect(err).To(MatchError(store.ErrNotFound))

			candidates, err := st.ListCandidates(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(candidates).To(BeEmpty())
		})

		It("creates a new sourced candidate on first contact", func() {
			candidate, deduplicated := ingest("Asha Rao", "+91 91873-51205", nil)
			Expect(deduplicated).To(BeFalse())
			Expect(candidate.Stage).To(Equal(model.StageSourced))
			Expect(candidate.NormalizedPhone).To(Equal("919187351205"))
		})

		It("reuses the existing candidate on a repeat lead and still records the fit score", func() {
			job := newJob()
			first, _ := ingest("Asha Rao", "919187351205", nil)

			second, deduplicated := ingest("A. Rao", "+91 91873 51205", &job.ID)
			Expect(deduplicated).To(BeTrue())
			Expect(second.ID).To(Equal(first.ID))
			Expect(second.FitScores).To(HaveKey(job.ID))

			candidates, err := st.ListCandidates(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(candidates).To(HaveLen(1))
		})
	})

	Describe("Advance", func() {
		It("refuses rejected and withdrawn as advance targets", func() {
			candidate, _ := ingest("Asha Rao", "919187351205", nil)

			_, err := workflow.Advance(ctx, candidate.ID, nil, model.StageRejected, "recruiter", "")
			Expect(err).To(MatchError(service.ErrValidation))

			_, err = workflow.Advance(ctx, candidate.ID, nil, model.StageWithdrawn, "recruiter", "")
			Expect(err).To(MatchError(service.ErrValidation))
		})

		It("refuses a skipped forward stage", func() {
			candidate, _ := ingest("Asha Rao", "919187351205", nil)

			_, err := workflow.Advance(ctx, candidate.ID, nil, model.StageShortlisted, "recruiter", "")
			var invalid *store.InvalidTransitionError
			Expect(errors.As(err, &invalid)).To(BeTrue())
		})

		It("walks the forward chain and builds the audit trail", func() {
			candidate, _ := ingest("Asha Rao", "919187351205", nil)
			chain := []model.Stage{
				model.StageScreening,
				model.StageShortlisted,
				model.StageInterviewScheduled,
				model.StageOfferExtended,
				model.StageOfferAccepted,
				model.StageJoined,
			}
			for _, stage := range chain {
				event, err := workflow.Advance(ctx, candidate.ID, nil, stage, "recruiter", "")
				Expect(err).NotTo(HaveOccurred())
				Expect(event.To).To(Equal(stage))
			}

			trail, err := workflow.StageTrail(ctx, candidate.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(trail).To(HaveLen(len(chain) + 1))
			Expect(trail[0].From).To(Equal(model.Stage("")))
			Expect(trail[0].To).To(Equal(model.StageSourced))
		})

		It("refuses to leave joined", func() {
			candidate, _ := ingest("Asha Rao", "919187351205", nil)
			for _, stage := range []model.Stage{
				model.StageScreening, model.StageShortlisted, model.StageInterviewScheduled,
				model.StageOfferExtended, model.StageOfferAccepted, model.StageJoined,
			} {
				_, err := workflow.Advance(ctx, candidate.ID, nil, stage, "recruiter", "")
				Expect(err).NotTo(HaveOccurred())
			}

			_, err := workflow.Withdraw(ctx, candidate.ID, nil, "recruiter", "changed mind")
			var invalid *store.InvalidTransitionError
			Expect(errors.As(err, &invalid)).To(BeTrue())
		})
	})

	Describe("Reject and Withdraw", func() {
		It("rejects from any live stage", func() {
			candidate, _ := ingest("Asha Rao", "919187351205", nil)
			_, err := workflow.Advance(ctx, candidate.ID, nil, model.StageScreening, "recruiter", "")
			Expect(err).NotTo(HaveOccurred())

			event, err := workflow.Reject(ctx, candidate.ID, nil, "recruiter", "did not clear screening")
			Expect(err).NotTo(HaveOccurred())
			Expect(event.From).To(Equal(model.StageScreening))
			Expect(event.To).To(Equal(model.StageRejected))
		})

		It("withdraws from sourced", func() {
			candidate, _ := ingest("Asha Rao", "919187351205", nil)

			_, err := workflow.Withdraw(ctx, candidate.ID, nil, "candidate", "took another offer")
			Expect(err).NotTo(HaveOccurred())

			refreshed, err := workflow.GetCandidate(ctx, candidate.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(refreshed.Stage).To(Equal(model.StageWithdrawn))
		})
	})

	Describe("GetPipeline", func() {
		It("errors on an unknown job", func() {
			_, err := workflow.GetPipeline(ctx, 999)
			Expect(err).To(MatchError(store.ErrNotFound))
		})

		It("groups by stage and orders by score then arrival", func() {
			job := newJob()

			strong, _, err := workflow.IngestCandidate(ctx, service.IngestCandidateParams{
				Name: "Asha Rao", Phone: "919100000001", SourceChannel: model.SourceWalkIn,
				Languages:       []model.Language{model.LanguageKannada},
				ExperienceYears: 3, Certifications: []string{"any"},
				JobID: &job.ID, Actor: "recruiter",
			})
			Expect(err).NotTo(HaveOccurred())

			weak, _, err := workflow.IngestCandidate(ctx, service.IngestCandidateParams{
				Name: "Divya N", Phone: "919100000002", SourceChannel: model.SourceWalkIn,
				JobID: &job.ID, Actor: "recruiter",
			})
			Expect(err).NotTo(HaveOccurred())

			unrelated, _, err := workflow.IngestCandidate(ctx, service.IngestCandidateParams{
				Name: "Meena K", Phone: "919100000003", SourceChannel: model.SourceWalkIn,
				Actor: "recruiter",
			})
			Expect(err).NotTo(HaveOccurred())

			before, err := workflow.GetPipeline(ctx, job.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(before.Stages[model.StageSourced]).To(HaveLen(2))
			Expect(before.Stages[model.StageSourced][0].CandidateID).To(Equal(strong.ID))
			Expect(before.Stages[model.StageSourced][1].CandidateID).To(Equal(weak.ID))

			_, err = workflow.Advance(ctx, weak.ID, &job.ID, model.StageScreening, "recruiter", "")
			Expect(err).NotTo(HaveOccurred())

			pipeline, err := workflow.GetPipeline(ctx, job.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(pipeline.Counts[model.StageSourced]).To(Equal(1))
			Expect(pipeline.Counts[model.StageScreening]).To(Equal(1))
			Expect(pipeline.Stages[model.StageSourced][0].CandidateID).To(Equal(strong.ID))
			Expect(pipeline.Stages[model.StageScreening][0].CandidateID).To(Equal(weak.ID))

			for _, entries := range pipeline.Stages {
				for _, entry := range entries {
					Expect(entry.CandidateID).NotTo(Equal(unrelated.ID))
				}
			}
		})
	})
})
