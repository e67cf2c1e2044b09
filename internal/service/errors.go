package service

import (
	"errors"
	"fmt"

	"hireline.app/engine/internal/persist"
	"hireline.app/engine/internal/store"
)

// ErrValidation marks malformed input rejected before any mutation.
var ErrValidation = errors.New("validation failed")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// transient reports whether a webhook effect failure is worth a redelivery.
// Snapshot hiccups and lock conflicts clear on their own; everything else is
// a payload problem that will fail the same way every time.
func transient(err error) bool {
	return errors.Is(err, persist.ErrSnapshot) || errors.Is(err, store.ErrConflict)
}
