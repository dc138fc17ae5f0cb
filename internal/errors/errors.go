// Package errors classifies the failures an action can run into: sentinel
// conditions, user input that fails a field check, and outbound service
// faults carrying a Kind.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrTimeout        = errors.New("operation timed out")
	ErrMissingAddress = errors.New("service address not configured")
	// ErrEmptyResponse marks a 2xx answer that carried nothing usable.
	ErrEmptyResponse = errors.New("empty response")
)

// ValidationError rejects one slot value. Message is shown to the user as
// the corrective prompt; Field names the slot to clear.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Field, e.Message)
}

// Is matches any ValidationError for the same field, so callers can test
// errors.Is(err, &ValidationError{Field: "date"}).
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Field == e.Field
}
