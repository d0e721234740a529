// Package domainerr defines the error taxonomy shared by all use cases.
// Callers discover the failure kind with errors.Is against the sentinels
// below; raw infrastructure errors are never surfaced past a use-case
// boundary, they are wrapped with ErrUnknown first.
package domainerr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced aggregate does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidTransition is returned when the requested state change is not on the graph
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrUnauthorized is returned when the edge exists but the actor role lacks permission
	ErrUnauthorized = errors.New("role not permitted for transition")

	// ErrInsufficientStock is returned when the aggregate stock check failed
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrBudgetExpired is returned when a budget validity period has elapsed
	ErrBudgetExpired = errors.New("budget expired")

	// ErrValidation is returned when entity invariants are violated
	ErrValidation = errors.New("validation failed")

	// ErrPersistence is returned when the underlying store raised an unexpected error
	ErrPersistence = errors.New("persistence failure")

	// ErrConflict is returned when a compare-and-set update lost against a concurrent writer
	ErrConflict = errors.New("concurrent modification")

	// ErrUnknown wraps any error not recognized as a domain error
	ErrUnknown = errors.New("unexpected internal error")
)

var sentinels = []error{
	ErrNotFound,
	ErrInvalidTransition,
	ErrUnauthorized,
	ErrInsufficientStock,
	ErrBudgetExpired,
	ErrValidation,
	ErrPersistence,
	ErrConflict,
}

// IsDomain reports whether err carries one of the domain sentinels
func IsDomain(err error) bool {
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}

// Shield passes domain errors through unchanged and wraps anything else
// with ErrUnknown so callers never observe raw infrastructure errors.
func Shield(err error) error {
	if err == nil {
		return nil
	}
	if IsDomain(err) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnknown, err)
}
