// Package apperrors defines the failure taxonomy shared by the core services
// and the HTTP layer. Every business-rule failure is detected before any write
// and carries a human-readable reason.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated: missing or invalid credential, rejected before
	// any business logic runs.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden: credential valid but the authorization gate denies the
	// specific field or action.
	ErrForbidden = errors.New("not allowed")

	// ErrQuotaExceeded: requester already has the maximum number of active
	// complaints.
	ErrQuotaExceeded = errors.New("active complaint limit reached")

	// ErrInvalidTransition: a status change not permitted for the caller's
	// role from the complaint's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotFound: the referenced complaint or worker does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation: a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrStore: the persistence layer failed. Retryable by the caller, not
	// retried internally.
	ErrStore = errors.New("storage failure")
)

// Forbidden wraps ErrForbidden with the concrete deny reason.
func Forbidden(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

// Invalid wraps ErrValidation with the concrete field problem.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Transition wraps ErrInvalidTransition with the attempted move.
func Transition(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidTransition, fmt.Sprintf(format, args...))
}

// Store wraps a persistence error so handlers can map it uniformly.
func Store(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStore, err)
}
