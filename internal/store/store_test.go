package store

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"hireline.app/engine/common/id"
	"hireline.app/engine/internal/model"
	"hireline.app/engine/internal/persist"
)

func newMemStore() *Store {
	return New(persist.NewNoopSnapshotter(), persist.NewNoopMirror())
}

func newCandidate(name, phone string) *model.Candidate {
	now := time.Now().UTC()
	return &model.Candidate{
		ID:              id.New(),
		Name:            name,
		Phone:           phone,
		NormalizedPhone: phone,
		SourceChannel:   model.SourceWalkIn,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

var _ = Describe("Store", func() {
	var (
		ctx context.Context
		st  *Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		st = newMemStore()
	})

	Describe("CreateCandidate", func() {
		It("starts the candidate at sourced with a synthetic creation event", func() {
			created, err := st.CreateCandidate(ctx, newCandidate("Asha", "919000000001"), "recruiter")
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Stage).To(Equal(model.StageSourced))

			events, err := st.ListStageEvents(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(events).To(HaveLen(1))
			Expect(events[0].From).To(Equal(model.Stage("")))
			Expect(events[0].To).To(Equal(model.StageSourced))
		})

		It("returns copies that do not alias store state", func() {
			created, err := st.CreateCandidate(ctx, newCandidate("Asha", "919000000001"), "recruiter")
			Expect(err).NotTo(HaveOccurred())

			created.Name = "mutated"
			stored, err := st.GetCandidate(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Name).To(Equal("Asha"))
		})
	})

	Describe("Transition", func() {
		var candidateID int64

		BeforeEach(func() {
			created, err := st.CreateCandidate(ctx, newCandidate("Asha", "919000000001"), "recruiter")
			Expect(err).NotTo(HaveOccurred())
			candidateID = created.ID
		})

		It("walks the full forward chain to joined", func() {
			for _, target := range model.ForwardOrder[1:] {
				event, err := st.Transition(ctx, candidateID, nil, target, "recruiter", "")
				Expect(err).NotTo(HaveOccurred())
				Expect(event.To).To(Equal(target))
			}
			candidate, err := st.GetCandidate(ctx, candidateID)
			Expect(err).NotTo(HaveOccurred())
			Expect(candidate.Stage).To(Equal(model.StageJoined))
		})

		It("records from-stage equal to the stage before the event", func() {
			event, err := st.Transition(ctx, candidateID, nil, model.StageScreening, "recruiter", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(event.From).To(Equal(model.StageSourced))

			event, err = st.Transition(ctx, candidateID, nil, model.StageShortlisted, "recruiter", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(event.From).To(Equal(model.StageScreening))
		})

		It("rejects a forward skip and leaves state unchanged", func() {
			_, err := st.Transition(ctx, candidateID, nil, model.StageShortlisted, "recruiter", "")
			var invalid *InvalidTransitionError
			Expect(errors.As(err, &invalid)).To(BeTrue())
			Expect(invalid.From).To(Equal(model.StageSourced))

			candidate, getErr := st.GetCandidate(ctx, candidateID)
			Expect(getErr).NotTo(HaveOccurred())
			Expect(candidate.Stage).To(Equal(model.StageSourced))

			events, listErr := st.ListStageEvents(ctx, candidateID)
			Expect(listErr).NotTo(HaveOccurred())
			Expect(events).To(HaveLen(1))
		})

		It("rejects transitions out of a terminal stage", func() {
			_, err := st.Transition(ctx, candidateID, nil, model.StageRejected, "recruiter", "no fit")
			Expect(err).NotTo(HaveOccurred())

			_, err = st.Transition(ctx, candidateID, nil, model.StageScreening, "recruiter", "")
			var invalid *InvalidTransitionError
			Expect(errors.As(err, &invalid)).To(BeTrue())
		})

		It("does not allow withdraw after joined", func() {
			for _, target := range model.ForwardOrder[1:] {
				_, err := st.Transition(ctx, candidateID, nil, target, "recruiter", "")
				Expect(err).NotTo(HaveOccurred())
			}
			_, err := st.Transition(ctx, candidateID, nil, model.StageWithdrawn, "candidate", "")
			var invalid *InvalidTransitionError
			Expect(errors.As(err, &invalid)).To(BeTrue())
		})

		It("allows withdraw from every stage before joined", func() {
			for i, stage := range model.ForwardOrder[:len(model.ForwardOrder)-1] {
				created, err := st.CreateCandidate(ctx, newCandidate("W", "91900000010"+string(rune('0'+i))), "recruiter")
				Expect(err).NotTo(HaveOccurred())
				for _, target := range model.ForwardOrder[1 : i+1] {
					_, err := st.Transition(ctx, created.ID, nil, target, "recruiter", "")
					Expect(err).NotTo(HaveOccurred())
				}
				candidate, err := st.GetCandidate(ctx, created.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(candidate.Stage).To(Equal(stage))

				_, err = st.Transition(ctx, created.ID, nil, model.StageWithdrawn, "candidate", "")
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("returns Conflict while another transition holds the candidate", func() {
			release, ok := st.locks.tryAcquire(candidateLockKey(candidateID))
			Expect(ok).To(BeTrue())
			defer release()

			_, err := st.Transition(ctx, candidateID, nil, model.StageScreening, "recruiter", "")
			Expect(err).To(MatchError(ErrConflict))
		})

		It("replaying the trail reconstructs the live stage", func() {
			_, err := st.Transition(ctx, candidateID, nil, model.StageScreening, "recruiter", "")
			Expect(err).NotTo(HaveOccurred())
			_, err = st.Transition(ctx, candidateID, nil, model.StageShortlisted, "recruiter", "")
			Expect(err).NotTo(HaveOccurred())
			_, err = st.Transition(ctx, candidateID, nil, model.StageWithdrawn, "candidate", "left town")
			Expect(err).NotTo(HaveOccurred())

			events, err := st.ListStageEvents(ctx, candidateID)
			Expect(err).NotTo(HaveOccurred())
			Expect(events).To(HaveLen(4))

			replayed := model.Stage("")
			for _, event := range events {
				Expect(event.From).To(Equal(replayed))
				replayed = event.To
			}
			candidate, err := st.GetCandidate(ctx, candidateID)
			Expect(err).NotTo(HaveOccurred())
			Expect(replayed).To(Equal(candidate.Stage))
		})
	})

	Describe("ApplyFunnelEvent", func() {
		It("accumulates counters monotonically", func() {
			campaign, err := st.CreateCampaign(ctx, &model.Campaign{
				ID:            id.New(),
				EmployerName:  "Serenity Spa",
				TargetJoiners: 10,
				CreatedAt:     time.Now().UTC(),
			})
			Expect(err).NotTo(HaveOccurred())

			for _, count := range []int{5, 7, 8} {
				updated, err := st.ApplyFunnelEvent(ctx, campaign.ID, model.FunnelLeads, count)
				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Counts.Leads).To(BeNumerically(">=", count))
			}
			final, err := st.GetCampaign(ctx, campaign.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(final.Counts.Leads).To(Equal(20))
		})

		It("returns NotFound for an unknown campaign", func() {
			_, err := st.ApplyFunnelEvent(ctx, 404, model.FunnelLeads, 1)
			Expect(err).To(MatchError(ErrNotFound))
		})
	})

	Describe("snapshot persistence", func() {
		It("keeps the in-memory mutation when the snapshot write fails", func() {
			failing := &recordingSnapshotter{failSave: true}
			st := New(failing, persist.NewNoopMirror())

			created, err := st.CreateCandidate(ctx, newCandidate("Asha", "919000000001"), "recruiter")
			Expect(err).To(MatchError(persist.ErrSnapshot))
			Expect(created).NotTo(BeNil())

			stored, err := st.GetCandidate(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Stage).To(Equal(model.StageSourced))
		})

		It("reconstructs identical state after a restart", func() {
			recorder := &recordingSnapshotter{}
			st := New(recorder, persist.NewNoopMirror())

			created, err := st.CreateCandidate(ctx, newCandidate("Asha", "919000000001"), "recruiter")
			Expect(err).NotTo(HaveOccurred())
			_, err = st.Transition(ctx, created.ID, nil, model.StageScreening, "recruiter", "")
			Expect(err).NotTo(HaveOccurred())
			campaign, err := st.CreateCampaign(ctx, &model.Campaign{ID: id.New(), EmployerName: "Spa", TargetJoiners: 5, CreatedAt: time.Now().UTC()})
			Expect(err).NotTo(HaveOccurred())
			err = st.UpsertDelivery(ctx, &model.WebhookDelivery{
				ID:         id.New(),
				Channel:    model.ChannelWhatsApp,
				ExternalID: "evt-1",
				Status:     model.DeliveryProcessed,
				CreatedAt:  time.Now().UTC(),
				UpdatedAt:  time.Now().UTC(),
			})
			Expect(err).NotTo(HaveOccurred())

			restarted := New(&recordingSnapshotter{loadFrom: recorder.saved}, persist.NewNoopMirror())
			Expect(restarted.Hydrate(ctx)).To(Succeed())

			candidate, err := restarted.GetCandidate(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(candidate.Stage).To(Equal(model.StageScreening))

			events, err := restarted.ListStageEvents(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(events).To(HaveLen(2))

			loaded, err := restarted.GetCampaign(ctx, campaign.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.EmployerName).To(Equal("Spa"))

			delivery, err := restarted.GetDelivery(ctx, model.ChannelWhatsApp, "evt-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(delivery.Status).To(Equal(model.DeliveryProcessed))
		})

		It("does not let a slow earlier save overwrite a later one", func() {
			recorder := &recordingSnapshotter{}
			var stall sync.Once
			recorder.onSave = func() {
				stall.Do(func() { time.Sleep(50 * time.Millisecond) })
			}
			st := New(recorder, persist.NewNoopMirror())

			campaignIDs := make([]int64, 4)
			var wg sync.WaitGroup
			for i := range campaignIDs {
				campaignIDs[i] = id.New()
				wg.Add(1)
				go func(campaignID int64) {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := st.CreateCampaign(ctx, &model.Campaign{
						ID: campaignID, EmployerName: "Spa", TargetJoiners: 1, CreatedAt: time.Now().UTC(),
					})
					Expect(err).NotTo(HaveOccurred())
				}(campaignIDs[i])
			}
			wg.Wait()

			restarted := New(&recordingSnapshotter{loadFrom: recorder.saved}, persist.NewNoopMirror())
			Expect(restarted.Hydrate(ctx)).To(Succeed())
			for _, campaignID := range campaignIDs {
				_, err := restarted.GetCampaign(ctx, campaignID)
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("overlays newer delivery rows from the mirror", func() {
			base := time.Now().UTC()
			stale := model.WebhookDelivery{
				ID: id.New(), Channel: model.ChannelWhatsApp, ExternalID: "evt-9",
				Status: model.DeliveryRetryPending, RetryCount: 1,
				CreatedAt: base, UpdatedAt: base,
			}
			fresh := stale
			fresh.Status = model.DeliveryProcessed
			fresh.UpdatedAt = base.Add(time.Minute)

			mirror := newMemoryMirror()
			Expect(mirror.Upsert(ctx, &fresh)).To(Succeed())

			st := New(&recordingSnapshotter{loadFrom: &persist.Snapshot{Deliveries: []model.WebhookDelivery{stale}}}, mirror)
			Expect(st.Hydrate(ctx)).To(Succeed())

			delivery, err := st.GetDelivery(ctx, model.ChannelWhatsApp, "evt-9")
			Expect(err).NotTo(HaveOccurred())
			Expect(delivery.Status).To(Equal(model.DeliveryProcessed))
		})
	})

	Describe("AcquireDelivery", func() {
		It("rejects a second acquisition of the same key", func() {
			release, err := st.AcquireDelivery("whatsapp:evt-1")
			Expect(err).NotTo(HaveOccurred())

			_, err = st.AcquireDelivery("whatsapp:evt-1")
			Expect(err).To(MatchError(ErrConflict))

			release()
			release2, err := st.AcquireDelivery("whatsapp:evt-1")
			Expect(err).NotTo(HaveOccurred())
			release2()
		})

		It("allows different keys in parallel", func() {
			release1, err := st.AcquireDelivery("whatsapp:evt-1")
			Expect(err).NotTo(HaveOccurred())
			defer release1()

			release2, err := st.AcquireDelivery("telephony:evt-1")
			Expect(err).NotTo(HaveOccurred())
			release2()
		})
	})

	Describe("MarkWebsiteLeadContacted", func() {
		It("flags a breach only when contact lands after the due time", func() {
			now := time.Now().UTC()
			late := &model.WebsiteLead{
				ID: id.New(), CandidateID: 1, Name: "Asha", Phone: "919000000001",
				SLAMinutes: 30, FirstContactDue: now.Add(-time.Minute),
				CreatedAt: now.Add(-31 * time.Minute), UpdatedAt: now,
			}
			_, err := st.CreateWebsiteLead(ctx, late)
			Expect(err).NotTo(HaveOccurred())

			contacted, err := st.MarkWebsiteLeadContacted(ctx, late.ID, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(contacted.SLABreached).To(BeTrue())
			Expect(contacted.FirstContactAt).NotTo(BeNil())

			onTime := &model.WebsiteLead{
				ID: id.New(), CandidateID: 2, Name: "Divya", Phone: "919000000002",
				SLAMinutes: 30, FirstContactDue: now.Add(10 * time.Minute),
				CreatedAt: now, UpdatedAt: now,
			}
			_, err = st.CreateWebsiteLead(ctx, onTime)
			Expect(err).NotTo(HaveOccurred())

			contacted, err = st.MarkWebsiteLeadContacted(ctx, onTime.ID, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(contacted.SLABreached).To(BeFalse())
		})

		It("keeps the first contact timestamp on repeat calls", func() {
			now := time.Now().UTC()
			lead := &model.WebsiteLead{
				ID: id.New(), CandidateID: 1, Name: "Asha", Phone: "919000000001",
				SLAMinutes: 30, FirstContactDue: now.Add(10 * time.Minute),
				CreatedAt: now, UpdatedAt: now,
			}
			_, err := st.CreateWebsiteLead(ctx, lead)
			Expect(err).NotTo(HaveOccurred())

			first, err := st.MarkWebsiteLeadContacted(ctx, lead.ID, now)
			Expect(err).NotTo(HaveOccurred())
			again, err := st.MarkWebsiteLeadContacted(ctx, lead.ID, now.Add(time.Hour))
			Expect(err).NotTo(HaveOccurred())
			Expect(again.FirstContactAt.Equal(*first.FirstContactAt)).To(BeTrue())
		})
	})
})
