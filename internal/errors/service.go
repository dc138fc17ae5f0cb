package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/soulpath-wellness/soulpath-actions-go/internal/stringutil"
)

// MaxBodyLogLength bounds the response body kept on a ServiceError.
const MaxBodyLogLength = 200

// Kind classifies an outbound call failure.
type Kind int

const (
	// KindUnexpected is any fault that fits no other kind.
	KindUnexpected Kind = iota
	// KindConnection covers dial, TLS, and timeout failures.
	KindConnection
	// KindStatus is a non-success HTTP status.
	KindStatus
	// KindMalformed is an empty or undecodable body.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindStatus:
		return "status"
	case KindMalformed:
		return "malformed"
	default:
		return "unexpected"
	}
}

// ServiceError describes a failed call to an external service.
type ServiceError struct {
	Service    string
	Kind       Kind
	StatusCode int
	Body       string // truncated
	Err        error
}

func (e *ServiceError) Error() string {
	switch {
	case e.StatusCode > 0 && e.Err != nil:
		return fmt.Sprintf("%s %s failure (status=%d): %v", e.Service, e.Kind, e.StatusCode, e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s %s failure (status=%d)", e.Service, e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s %s failure: %v", e.Service, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s %s failure", e.Service, e.Kind)
	}
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewStatusError records a non-success status and the start of its body.
func NewStatusError(service string, statusCode int, body string) *ServiceError {
	return &ServiceError{
		Service:    service,
		Kind:       KindStatus,
		StatusCode: statusCode,
		Body:       stringutil.Truncate(body, MaxBodyLogLength),
	}
}

// NewMalformedError records a successful status whose body could not be used.
func NewMalformedError(service, body string, err error) *ServiceError {
	if err == nil {
		err = ErrEmptyResponse
	}
	return &ServiceError{
		Service: service,
		Kind:    KindMalformed,
		Body:    stringutil.Truncate(body, MaxBodyLogLength),
		Err:     err,
	}
}

// NewServiceError classifies err with KindOf and attaches the service name.
// Returns nil if err is nil.
func NewServiceError(service string, err error) *ServiceError {
	if err == nil {
		return nil
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}
	return &ServiceError{Service: service, Kind: KindOf(err), Err: err}
}

// KindOf classifies an error returned by an outbound call.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnexpected
	}

	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return KindConnection
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindConnection
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return KindConnection
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, ErrEmptyResponse) {
		return KindMalformed
	}

	return KindUnexpected
}

// StatusCodeOf returns the HTTP status carried by err, or 0.
func StatusCodeOf(err error) int {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
