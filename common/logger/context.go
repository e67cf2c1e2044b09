package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within
// a context. Only entity ids travel here, never names, phones, or notes.
type LogFields struct {
	CandidateID *int64  // workflow store candidate
	JobID       *int64  // job the operation targets
	CampaignID  *int64  // first-N campaign
	LeadID      *int64  // manual or website lead
	DeliveryID  *int64  // webhook delivery ledger row
	Channel     *string // webhook channel ("whatsapp", "telephony")
	Component   string  // component name, e.g. "engine.ledger"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking
// precedence. Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := mergeFields(GetLogFields(ctx), fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.CandidateID != nil {
		result.CandidateID = next.CandidateID
	}
	if next.JobID != nil {
		result.JobID = next.JobID
	}
	if next.CampaignID != nil {
		result.CampaignID = next.CampaignID
	}
	if next.LeadID != nil {
		result.LeadID = next.LeadID
	}
	if next.DeliveryID != nil {
		result.DeliveryID = next.DeliveryID
	}
	if next.Channel != nil {
		result.Channel = next.Channel
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{CandidateID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}
