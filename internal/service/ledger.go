package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hireline.app/engine/common/id"
	"hireline.app/engine/common/logger"
	"hireline.app/engine/internal/model"
	"hireline.app/engine/internal/store"
)

// Ledger reason codes recorded in LastError. Codes only; payload contents
// never land in the ledger.
const (
	reasonBadSignature   = "bad_signature"
	reasonBadPayload     = "bad_payload"
	reasonRetryExhausted = "retry_exhausted"
	reasonEffectFailed   = "effect_failed"
)

type leadCreator interface {
	CreateManualLead(ctx context.Context, params ManualLeadParams) (*model.ManualLead, *model.Candidate, bool, error)
}

type funnelApplier interface {
	ApplyEvent(ctx context.Context, campaignID int64, eventType model.FunnelEventType, count int, note string) (*CampaignProgress, error)
}

// LedgerService applies webhook deliveries exactly once per external id. It
// never schedules retries itself; providers redeliver and the ledger only
// tracks eligibility and count.
type LedgerService struct {
	deliveries store.DeliveryStore
	leads      leadCreator
	funnel     funnelApplier
	maxRetries int
}

func NewLedgerService(deliveries store.DeliveryStore, leads leadCreator, funnel funnelApplier, maxRetries int) *LedgerService {
	return &LedgerService{
		deliveries: deliveries,
		leads:      leads,
		funnel:     funnel,
		maxRetries: maxRetries,
	}
}

type DeliveryParams struct {
	Channel        model.Channel
	ExternalID     string
	SignatureValid bool
	Payload        []byte
}

type DeliveryOutcome struct {
	Status     model.DeliveryStatus `json:"status"`
	RetryCount int                  `json:"retry_count"`
	Detail     string               `json:"detail,omitempty"`
}

// RecordDelivery is the single entry point for webhook processing. A key
// already holding a terminal outcome short-circuits to duplicate with no
// side effects; everything else runs the payload's effect inside the
// delivery's critical section.
func (s *LedgerService) RecordDelivery(ctx context.Context, params DeliveryParams) (*DeliveryOutcome, error) {
	if params.ExternalID == "" {
		return nil, invalidf("external delivery id is required")
	}
	if params.Channel != model.ChannelWhatsApp && params.Channel != model.ChannelTelephony {
		return nil, invalidf("unknown webhook channel %q", params.Channel)
	}

	key := model.DeliveryKey(params.Channel, params.ExternalID)
	release, err := s.deliveries.AcquireDelivery(key)
	if err != nil {
		return nil, err
	}
	defer release()

	ctx = logger.WithLogFields(ctx, logger.LogFields{Channel: logger.Ptr(string(params.Channel))})

	row, err := s.deliveries.GetDelivery(ctx, params.Channel, params.ExternalID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if row != nil && row.Terminal(s.maxRetries) {
		slog.InfoContext(ctx, "duplicate webhook delivery suppressed", "delivery_id", row.ID)
		return &DeliveryOutcome{Status: model.DeliveryDuplicate, RetryCount: row.RetryCount}, nil
	}

	now := time.Now().UTC()
	if row == nil {
		row = &model.WebhookDelivery{
			ID:         id.New(),
			Channel:    params.Channel,
			ExternalID: params.ExternalID,
			CreatedAt:  now,
		}
	}
	row.SignatureValid = params.SignatureValid
	row.UpdatedAt = now

	if !params.SignatureValid {
		return s.finish(ctx, row, model.DeliveryFailed, reasonBadSignature)
	}

	detail, err := s.applyEffect(ctx, params.Channel, params.Payload)
	if err == nil {
		outcome, werr := s.finish(ctx, row, model.DeliveryProcessed, "")
		outcome.Detail = detail
		return outcome, werr
	}

	if !transient(err) {
		slog.WarnContext(ctx, "webhook payload rejected", "delivery_id", row.ID, "error", err)
		return s.finish(ctx, row, model.DeliveryFailed, reasonBadPayload)
	}

	row.RetryCount++
	if row.RetryCount >= s.maxRetries {
		slog.WarnContext(ctx, "webhook retries exhausted", "delivery_id", row.ID, "retry_count", row.RetryCount)
		return s.finish(ctx, row, model.DeliveryFailed, reasonRetryExhausted)
	}
	slog.InfoContext(ctx, "webhook effect failed, awaiting redelivery", "delivery_id", row.ID, "retry_count", row.RetryCount)
	return s.finish(ctx, row, model.DeliveryRetryPending, reasonEffectFailed)
}

func (s *LedgerService) finish(ctx context.Context, row *model.WebhookDelivery, status model.DeliveryStatus, reason string) (*DeliveryOutcome, error) {
	row.Status = status
	if reason != "" {
		row.LastError = &reason
	} else {
		row.LastError = nil
	}
	if err := s.deliveries.UpsertDelivery(ctx, row); err != nil {
		return &DeliveryOutcome{Status: status, RetryCount: row.RetryCount}, err
	}
	return &DeliveryOutcome{Status: status, RetryCount: row.RetryCount}, nil
}

// channelEvent is the normalized form every channel payload decodes into
// before any field is trusted.
type channelEvent struct {
	kind        string
	name        string
	phone       string
	languages   []model.Language
	jobID       *int64
	campaignID  *int64
	funnelEvent model.FunnelEventType
	count       int
	source      model.SourceChannel
}

type whatsappPayload struct {
	EventType string `json:"event_type"`
	Contact   struct {
		Name    string `json:"name"`
		WAPhone string `json:"wa_phone"`
	} `json:"contact"`
	Languages   []model.Language      `json:"languages"`
	JobID       *int64                `json:"job_id"`
	CampaignID  *int64                `json:"campaign_id"`
	FunnelEvent model.FunnelEventType `json:"funnel_event"`
	Count       int                   `json:"count"`
}

type telephonyPayload struct {
	EventType    string                `json:"event_type"`
	CallerName   string                `json:"caller_name"`
	CallerPhone  string                `json:"caller_phone"`
	DurationSecs int                   `json:"duration_secs"`
	JobID        *int64                `json:"job_id"`
	CampaignID   *int64                `json:"campaign_id"`
	FunnelEvent  model.FunnelEventType `json:"funnel_event"`
	Count        int                   `json:"count"`
}

func decodeChannelEvent(channel model.Channel, payload []byte) (*channelEvent, error) {
	switch channel {
	case model.ChannelWhatsApp:
		var body whatsappPayload
		if err := json.Unmarshal(payload, &body); err != nil {
			return nil, fmt.Errorf("decoding whatsapp payload: %w", err)
		}
		return &channelEvent{
			kind:        body.EventType,
			name:        body.Contact.Name,
			phone:       body.Contact.WAPhone,
			languages:   body.Languages,
			jobID:       body.JobID,
			campaignID:  body.CampaignID,
			funnelEvent: body.FunnelEvent,
			count:       body.Count,
			source:      model.SourceWhatsApp,
		}, nil
	case model.ChannelTelephony:
		var body telephonyPayload
		if err := json.Unmarshal(payload, &body); err != nil {
			return nil, fmt.Errorf("decoding telephony payload: %w", err)
		}
		return &channelEvent{
			kind:        body.EventType,
			name:        body.CallerName,
			phone:       body.CallerPhone,
			jobID:       body.JobID,
			campaignID:  body.CampaignID,
			funnelEvent: body.FunnelEvent,
			count:       body.Count,
			source:      model.SourceCall,
		}, nil
	}
	return nil, fmt.Errorf("unsupported channel %q", channel)
}

// applyEffect decodes the payload and runs its side effect. Unknown event
// types are acknowledged without effect so providers stop redelivering them.
func (s *LedgerService) applyEffect(ctx context.Context, channel model.Channel, payload []byte) (string, error) {
	event, err := decodeChannelEvent(channel, payload)
	if err != nil {
		return "", err
	}

	switch event.kind {
	case "candidate_lead", "referral_lead", "call_lead":
		source := event.source
		if event.kind == "referral_lead" {
			source = model.SourceReferral
		}
		lead, _, deduplicated, err := s.leads.CreateManualLead(ctx, ManualLeadParams{
			SourceChannel: source,
			Name:          event.name,
			Phone:         event.phone,
			JobID:         event.jobID,
			Languages:     event.languages,
		})
		if err != nil {
			return "", err
		}
		if event.campaignID != nil {
			if _, err := s.funnel.ApplyEvent(ctx, *event.campaignID, model.FunnelLeads, 1, "webhook lead"); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("lead_created:%d:dedup=%t", lead.ID, deduplicated), nil
	case "campaign_event":
		if event.campaignID == nil {
			return "", invalidf("campaign event missing campaign id")
		}
		count := event.count
		if count == 0 {
			count = 1
		}
		if _, err := s.funnel.ApplyEvent(ctx, *event.campaignID, event.funnelEvent, count, "webhook funnel event"); err != nil {
			return "", err
		}
		return fmt.Sprintf("funnel_event_applied:%d", *event.campaignID), nil
	default:
		return "ignored_event_type", nil
	}
}

func (s *LedgerService) ListDeliveries(ctx context.Context) ([]*model.WebhookDelivery, error) {
	return s.deliveries.ListDeliveries(ctx)
}
