package dto

import "hireline.app/engine/internal/model"

type WebhookResponse struct {
	Status     model.DeliveryStatus `json:"status"`
	RetryCount int                  `json:"retry_count"`
	Detail     string               `json:"detail,omitempty"`
}
