package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for the four failure kinds the API surfaces. Match with
// errors.Is; the concrete error in the chain is always a *ServiceError
// carrying the human-readable message.
var (
	// ErrNotFound indicates the referenced entity does not exist or is inactive.
	ErrNotFound = errors.New("not found")

	// ErrInvalidReference indicates a transaction references an actor or
	// employee that does not exist, is inactive, or is not on the project roster.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrAllocationFailed indicates the atomic counter increment could not be
	// committed after bounded retries.
	ErrAllocationFailed = errors.New("allocation failed")

	// ErrValidation indicates a malformed payload caught before storage.
	ErrValidation = errors.New("validation failed")
)

// ServiceError wraps one of the sentinel kinds with context for the caller.
// Messages name the offending ids but never expose storage internals.
type ServiceError struct {
	Kind    error
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func (e *ServiceError) Unwrap() error { return e.Kind }

func notFound(format string, args ...interface{}) error {
	return &ServiceError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func invalidReference(format string, args ...interface{}) error {
	return &ServiceError{Kind: ErrInvalidReference, Message: fmt.Sprintf(format, args...)}
}

func allocationFailed(format string, args ...interface{}) error {
	return &ServiceError{Kind: ErrAllocationFailed, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...interface{}) error {
	return &ServiceError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}
