package model

import (
	"fmt"
	"time"
)

type Channel string

const (
	ChannelWhatsApp  Channel = "whatsapp"
	ChannelTelephony Channel = "telephony"
)

type DeliveryStatus string

const (
	DeliveryProcessed    DeliveryStatus = "processed"
	DeliveryRetryPending DeliveryStatus = "retry_pending"
	DeliveryFailed       DeliveryStatus = "failed"
	DeliveryDuplicate    DeliveryStatus = "duplicate"
)

// WebhookDelivery is the idempotency ledger row for one external delivery id.
// The key (channel, external id) is permanently associated with its first
// terminal outcome. LastError carries reason codes, never payload contents.
type WebhookDelivery struct {
	ID             int64          `json:"id"`
	Channel        Channel        `json:"channel"`
	ExternalID     string         `json:"external_id"`
	SignatureValid bool           `json:"signature_valid"`
	Status         DeliveryStatus `json:"status"`
	RetryCount     int            `json:"retry_count"`
	LastError      *string        `json:"last_error,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Terminal reports whether the delivery admits no further processing. A
// redelivery against a terminal record is answered with DeliveryDuplicate and
// applies no effect. A failed row is terminal only once its retries are
// exhausted; failures before that (bad signature, rejected payload) leave the
// key open so a later legitimate delivery of the same event still lands.
func (d *WebhookDelivery) Terminal(maxRetries int) bool {
	switch d.Status {
	case DeliveryProcessed, DeliveryDuplicate:
		return true
	case DeliveryFailed:
		return d.RetryCount >= maxRetries
	}
	return false
}

// Key returns the ledger lookup key for a channel and external delivery id.
func DeliveryKey(channel Channel, externalID string) string {
	return fmt.Sprintf("%s:%s", channel, externalID)
}

func (d *WebhookDelivery) Key() string {
	return DeliveryKey(d.Channel, d.ExternalID)
}
