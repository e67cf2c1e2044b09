package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"hireline.app/engine/internal/model"
)

const deliveryHashKey = "engine:webhook_deliveries"

// RedisDeliveryMirror upserts every ledger row into a redis hash keyed by the
// (channel, external id) delivery key. The hash is read back on restart when
// the last full snapshot is missing or stale.
type RedisDeliveryMirror struct {
	client *redis.Client
}

func NewRedisDeliveryMirror(client *redis.Client) *RedisDeliveryMirror {
	return &RedisDeliveryMirror{client: client}
}

func (m *RedisDeliveryMirror) Upsert(ctx context.Context, delivery *model.WebhookDelivery) error {
	data, err := json.Marshal(delivery)
	if err != nil {
		return fmt.Errorf("encoding delivery %d: %w", delivery.ID, err)
	}
	if err := m.client.HSet(ctx, deliveryHashKey, delivery.Key(), data).Err(); err != nil {
		return fmt.Errorf("mirroring delivery %d: %w", delivery.ID, err)
	}
	return nil
}

func (m *RedisDeliveryMirror) List(ctx context.Context) ([]model.WebhookDelivery, error) {
	rows, err := m.client.HGetAll(ctx, deliveryHashKey).Result()
	if err != nil {
		return nil, fmt.Errorf("listing mirrored deliveries: %w", err)
	}

	deliveries := make([]model.WebhookDelivery, 0, len(rows))
	for key, raw := range rows {
		var delivery model.WebhookDelivery
		if err := json.Unmarshal([]byte(raw), &delivery); err != nil {
			return nil, fmt.Errorf("decoding mirrored delivery %q: %w", key, err)
		}
		deliveries = append(deliveries, delivery)
	}
	return deliveries, nil
}

func (m *RedisDeliveryMirror) Close() error {
	return m.client.Close()
}
