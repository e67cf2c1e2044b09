package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"hireline.app/engine/internal/model"
	"hireline.app/engine/internal/service"
	"hireline.app/engine/internal/store"
)

var _ = Describe("NormalizePhone", func() {
	It("strips every non-digit character", func() {
		Expect(service.NormalizePhone("+91 91873-51205")).To(Equal("919187351205"))
		Expect(service.NormalizePhone("919187351205")).To(Equal("919187351205"))
		Expect(service.NormalizePhone("(91) 91873 51205")).To(Equal("919187351205"))
	})

	It("returns empty for input without digits", func() {
		Expect(service.NormalizePhone("no number")).To(BeEmpty())
	})
})

var _ = Describe("DedupeService", func() {
	var (
		ctx      context.Context
		st       *store.Store
		dedupe   *service.DedupeService
		workflow *service.WorkflowService
	)

	BeforeEach(func() {
		ctx = context.Background()
		st = newMemStore()
		dedupe = service.NewDedupeService(st)
		workflow = service.NewWorkflowService(st, st, dedupe)
	})

	ingest := func(name, phone string, languages ...model.Language) *model.Candidate {
		candidate, _, err := workflow.IngestCandidate(ctx, service.IngestCandidateParams{
			Name: name, Phone: phone, SourceChannel: model.SourceWalkIn,
			Languages: languages, Actor: "recruiter",
		})
		Expect(err).NotTo(HaveOccurred())
		return candidate
	}

	Context("phone matching", func() {
		It("resolves differently formatted numbers to the same candidate", func() {
			existing := ingest("Asha Rao", "+91 91873-51205")

			match, err := dedupe.FindMatch(ctx, "Completely Different", "919187351205", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(match.ID).To(Equal(existing.ID))
		})

		It("treats a distinct phone as a distinct person even with the same name", func() {
			ingest("Asha Rao", "919187351205")

			_, err := dedupe.FindMatch(ctx, "Asha Rao", "919000000009", nil)
			Expect(err).To(MatchError(store.ErrNotFound))
		})
	})

	Context("name and language fallback", func() {
		It("degrades to name matching when the phone has no digits", func() {
			existing := ingest("Asha Rao", "919187351205", model.LanguageKannada, model.LanguageHindi)

			match, err := dedupe.FindMatch(ctx, "  asha   RAO ", "", []model.Language{model.LanguageKannada})
			Expect(err).NotTo(HaveOccurred())
			Expect(match.ID).To(Equal(existing.ID))
		})

		It("requires half the smaller language set to overlap", func() {
			ingest("Asha Rao", "919187351205", model.LanguageKannada, model.LanguageHindi)

			_, err := dedupe.FindMatch(ctx, "Asha Rao", "", []model.Language{model.LanguageTamil, model.LanguageTelugu})
			Expect(err).To(MatchError(store.ErrNotFound))
		})

		It("matches on name alone when either language set is empty", func() {
			existing := ingest("Asha Rao", "919187351205", model.LanguageKannada)

			match, err := dedupe.FindMatch(ctx, "Asha Rao", "", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(match.ID).To(Equal(existing.ID))
		})

		It("never errors on an empty name with no phone", func() {
			ingest("Asha Rao", "919187351205")

			_, err := dedupe.FindMatch(ctx, "", "", nil)
			Expect(err).To(MatchError(store.ErrNotFound))
		})
	})
})
