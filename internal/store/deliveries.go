package store

import (
	"context"
	"fmt"

	"hireline.app/engine/internal/model"
)

// AcquireDelivery enters the critical section for one delivery key. The
// ledger holds it across read-decide-write so two concurrent deliveries of
// the same external id cannot both apply effects.
func (s *Store) AcquireDelivery(key string) (release func(), err error) {
	release, ok := s.locks.tryAcquire(deliveryLockKey(key))
	if !ok {
		return nil, ErrConflict
	}
	return release, nil
}

func (s *Store) GetDelivery(ctx context.Context, channel model.Channel, externalID string) (*model.WebhookDelivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	delivery, ok := s.deliveries[model.DeliveryKey(channel, externalID)]
	if !ok {
		return nil, ErrNotFound
	}
	out := *delivery
	return &out, nil
}

func (s *Store) ListDeliveries(ctx context.Context) ([]*model.WebhookDelivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deliveries := make([]*model.WebhookDelivery, 0, len(s.deliveries))
	for _, delivery := range s.deliveries {
		out := *delivery
		deliveries = append(deliveries, &out)
	}
	return deliveries, nil
}

// UpsertDelivery writes a ledger row, snapshots, and mirrors the row. The
// mirror write happens even when the snapshot fails so the ledger row is
// never less durable than the rest of the state.
func (s *Store) UpsertDelivery(ctx context.Context, delivery *model.WebhookDelivery) error {
	s.mu.Lock()
	row := *delivery
	s.deliveries[row.Key()] = &row
	s.mu.Unlock()

	snapErr := s.persistState(ctx)
	if err := s.mirror.Upsert(ctx, delivery); err != nil {
		return fmt.Errorf("mirroring delivery %d: %w", delivery.ID, err)
	}
	return snapErr
}
