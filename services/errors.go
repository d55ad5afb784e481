package services

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a referenced request, match, event or member that
// does not exist. Controllers map it to 404.
var ErrNotFound = errors.New("not found")

// ValidationError is a malformed input: bad enum value, missing
// required field. Nothing is mutated when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError is a non-retryable rejection: capacity exceeded,
// duplicate open request, duplicate RSVP. The transaction guarantees
// no partial effect occurred.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflictError builds a ConflictError with a formatted message.
func NewConflictError(format string, args ...interface{}) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflictError reports whether err is a ConflictError.
func IsConflictError(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
