package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the root of every input validation failure.
	ErrValidation = errors.New("invalid input")

	// ErrUnknownCategory is returned when an operation names a category that does not exist.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrDuplicateCategory is returned when adding a category that already exists.
	ErrDuplicateCategory = errors.New("category already exists")

	// ErrGoalNotFound is returned when no goal has the given ID.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrPersist is returned when a mutation was applied in memory but could
	// not be written to the store.
	ErrPersist = errors.New("saving snapshot")
)

// ValidationError reports which input field was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
