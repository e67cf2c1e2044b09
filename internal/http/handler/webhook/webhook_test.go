package webhook_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"hireline.app/engine/core/config"
	"hireline.app/engine/internal/http/handler/webhook"
	"hireline.app/engine/internal/persist"
	"hireline.app/engine/internal/service"
	"hireline.app/engine/internal/store"
)

var _ = Describe("Webhook endpoints", func() {
	const (
		whatsappSecret  = "wa-secret"
		telephonySecret = "tel-secret"
	)

	var (
		st     *store.Store
		router *gin.Engine
	)

	BeforeEach(func() {
		st = store.New(persist.NewNoopSnapshotter(), persist.NewNoopMirror())
		workflow := service.NewWorkflowService(st, st, service.NewDedupeService(st))
		funnel := service.NewFunnelService(st, 30, 30)
		leads := service.NewLeadService(st, st, workflow, 30, "+91 90000 00000")
		cfg := config.WebhookConfig{
			WhatsAppSecret:  whatsappSecret,
			TelephonySecret: telephonySecret,
			MaxRetries:      3,
		}
		ledger := service.NewLedgerService(st, leads, funnel, cfg.MaxRetries)

		handler := webhook.NewHandler(ledger, cfg)
		router = gin.New()
		router.POST("/webhooks/whatsapp", handler.WhatsApp)
		router.POST("/webhooks/telephony", handler.Telephony)
		router.GET("/webhooks/deliveries", handler.ListDeliveries)
	})

	sign := func(secret string, body []byte) string {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		return hex.EncodeToString(mac.Sum(nil))
	}

	post := func(path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		for name, value := range headers {
			req.Header.Set(name, value)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	decode := func(rec *httptest.ResponseRecorder) map[string]any {
		var body map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return body
	}

	leadBody := []byte(`{"event_id":"wamid.1","event_type":"candidate_lead","contact":{"name":"Asha Rao","wa_phone":"+91 91873-51205"}}`)

	It("processes a signed WhatsApp lead and creates the candidate", func() {
		rec := post("/webhooks/whatsapp", leadBody, map[string]string{
			"X-Hub-Signature-256": "sha256=" + sign(whatsappSecret, leadBody),
		})

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode(rec)["status"]).To(Equal("processed"))

		candidates, err := st.ListCandidates(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(candidates).To(HaveLen(1))
	})

	It("accepts the signature without the sha256 prefix", func() {
		rec := post("/webhooks/whatsapp", leadBody, map[string]string{
			"X-Webhook-Signature": sign(whatsappSecret, leadBody),
		})
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("suppresses a redelivery as a duplicate", func() {
		headers := map[string]string{
			"X-Hub-Signature-256": sign(whatsappSecret, leadBody),
		}
		post("/webhooks/whatsapp", leadBody, headers)

		rec := post("/webhooks/whatsapp", leadBody, headers)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode(rec)["status"]).To(Equal("duplicate"))

		candidates, err := st.ListCandidates(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(candidates).To(HaveLen(1))
	})

	It("rejects a bad signature and records the failed delivery", func() {
		rec := post("/webhooks/whatsapp", leadBody, map[string]string{
			"X-Hub-Signature-256": "sha256=deadbeef",
		})

		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(decode(rec)["status"]).To(Equal("failed"))

		candidates, err := st.ListCandidates(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(candidates).To(BeEmpty())

		deliveries, err := st.ListDeliveries(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(deliveries).To(HaveLen(1))
	})

	It("rejects a missing signature header outright", func() {
		rec := post("/webhooks/whatsapp", leadBody, nil)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})

	It("requires an event_id in the payload", func() {
		body := []byte(`{"event_type":"candidate_lead"}`)
		rec := post("/webhooks/whatsapp", body, map[string]string{
			"X-Hub-Signature-256": sign(whatsappSecret, body),
		})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 422 for a payload whose effect is invalid", func() {
		body := []byte(`{"event_id":"ev-bad","event_type":"campaign_event"}`)
		rec := post("/webhooks/whatsapp", body, map[string]string{
			"X-Hub-Signature-256": sign(whatsappSecret, body),
		})

		Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(decode(rec)["status"]).To(Equal("failed"))
	})

	It("verifies telephony calls against the telephony secret", func() {
		body := []byte(`{"event_id":"call-1","event_type":"call_lead","caller_name":"Asha Rao","caller_phone":"919187351205","duration_secs":45}`)

		rec := post("/webhooks/telephony", body, map[string]string{
			"X-Telephony-Signature": sign(whatsappSecret, body),
		})
		Expect(rec.Code).To(Equal(http.StatusForbidden))

		rec = post("/webhooks/telephony", body, map[string]string{
			"X-Telephony-Signature": sign(telephonySecret, body),
		})
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode(rec)["status"]).To(Equal("processed"))
	})

	It("lists recorded deliveries", func() {
		post("/webhooks/whatsapp", leadBody, map[string]string{
			"X-Hub-Signature-256": sign(whatsappSecret, leadBody),
		})

		req := httptest.NewRequest(http.MethodGet, "/webhooks/deliveries", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode(rec)["deliveries"]).To(HaveLen(1))
	})
})
