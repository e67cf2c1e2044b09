// Package webhook terminates provider callbacks: it verifies the HMAC
// signature against the raw body and hands the delivery to the idempotency
// ledger. All processing decisions live in the ledger, not here.
package webhook

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"hireline.app/engine/core/config"
	"hireline.app/engine/internal/http/dto"
	"hireline.app/engine/internal/model"
	"hireline.app/engine/internal/service"
)

type Handler struct {
	ledger *service.LedgerService
	cfg    config.WebhookConfig
}

func NewHandler(ledger *service.LedgerService, cfg config.WebhookConfig) *Handler {
	return &Handler{ledger: ledger, cfg: cfg}
}

// envelope is the minimal shape every provider payload must carry: the
// external delivery id that keys the idempotency ledger.
type envelope struct {
	EventID string `json:"event_id"`
}

func (h *Handler) WhatsApp(c *gin.Context) {
	h.handle(c, model.ChannelWhatsApp, h.cfg.WhatsAppSecret, whatsappSignatureHeaders)
}

func (h *Handler) Telephony(c *gin.Context) {
	h.handle(c, model.ChannelTelephony, h.cfg.TelephonySecret, telephonySignatureHeaders)
}

func (h *Handler) handle(c *gin.Context, channel model.Channel, secret string, headerNames []string) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || env.EventID == "" {
		slog.WarnContext(ctx, "webhook payload missing event id", "channel", channel)
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload must carry event_id"})
		return
	}

	signatureValid := verifySignature(c.Request.Header, body, secret, headerNames)

	outcome, err := h.ledger.RecordDelivery(ctx, service.DeliveryParams{
		Channel:        channel,
		ExternalID:     env.EventID,
		SignatureValid: signatureValid,
		Payload:        body,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	status := http.StatusOK
	switch {
	case !signatureValid:
		status = http.StatusForbidden
	case outcome.Status == model.DeliveryFailed:
		status = http.StatusUnprocessableEntity
	case outcome.Status == model.DeliveryRetryPending:
		status = http.StatusAccepted
	}
	c.JSON(status, dto.WebhookResponse{
		Status:     outcome.Status,
		RetryCount: outcome.RetryCount,
		Detail:     outcome.Detail,
	})
}

func (h *Handler) ListDeliveries(c *gin.Context) {
	deliveries, err := h.ledger.ListDeliveries(c.Request.Context())
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deliveries": deliveries})
}
