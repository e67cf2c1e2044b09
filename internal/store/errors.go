package store

import (
	"errors"
	"fmt"

	"hireline.app/engine/internal/model"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an entity's critical section is already
	// held by a concurrent operation. Callers retry; state is untouched.
	ErrConflict = errors.New("concurrent update conflict")
)

// InvalidTransitionError rejects a stage change the transition table does not
// allow. It names stages only, never candidate details.
type InvalidTransitionError struct {
	From model.Stage
	To   model.Stage
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid stage transition %s -> %s", e.From, e.To)
}
