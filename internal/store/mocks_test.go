package store

import (
	"context"
	"fmt"

	"hireline.app/engine/internal/model"
	"hireline.app/engine/internal/persist"
)

// recordingSnapshotter keeps the last saved snapshot in memory and can serve
// it back on Load, standing in for the Postgres adapter.
type recordingSnapshotter struct {
	saved    *persist.Snapshot
	loadFrom *persist.Snapshot
	failSave bool
	onSave   func()
}

func (r *recordingSnapshotter) Save(_ context.Context, snapshot *persist.Snapshot) error {
	if r.onSave != nil {
		r.onSave()
	}
	if r.failSave {
		return fmt.Errorf("%w: disk full", persist.ErrSnapshot)
	}
	r.saved = snapshot
	return nil
}

func (r *recordingSnapshotter) Load(context.Context) (*persist.Snapshot, error) {
	return r.loadFrom, nil
}

func (r *recordingSnapshotter) Close() {}

type memoryMirror struct {
	rows map[string]model.WebhookDelivery
}

func newMemoryMirror() *memoryMirror {
	return &memoryMirror{rows: make(map[string]model.WebhookDelivery)}
}

func (m *memoryMirror) Upsert(_ context.Context, delivery *model.WebhookDelivery) error {
	m.rows[delivery.Key()] = *delivery
	return nil
}

func (m *memoryMirror) List(context.Context) ([]model.WebhookDelivery, error) {
	out := make([]model.WebhookDelivery, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, row)
	}
	return out, nil
}

func (m *memoryMirror) Close() error { return nil }
