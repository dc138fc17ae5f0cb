package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("date", "expected DD/MM/YYYY")
	assert.Equal(t, "date rejected: expected DD/MM/YYYY", err.Error())

	wrapped := fmt.Errorf("booking: %w", err)
	assert.ErrorIs(t, wrapped, &ValidationError{Field: "date"})
	assert.NotErrorIs(t, wrapped, &ValidationError{Field: "time"})
}

func TestKindOf(t *testing.T) {
	var syntaxErr error
	{
		var v any
		syntaxErr = json.Unmarshal([]byte("{not json"), &v)
	}

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnexpected},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), KindConnection},
		{"timeout sentinel", ErrTimeout, KindConnection},
		{"url error", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("refused")}, KindConnection},
		{"net op error", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, KindConnection},
		{"json syntax", syntaxErr, KindMalformed},
		{"empty", fmt.Errorf("decode: %w", ErrEmptyResponse), KindMalformed},
		{"status", NewStatusError("catalog", 502, "bad gateway"), KindStatus},
		{"wrapped service error", fmt.Errorf("outer: %w", NewMalformedError("catalog", "", nil)), KindMalformed},
		{"plain", errors.New("boom"), KindUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "connection", KindConnection.String())
	assert.Equal(t, "status", KindStatus.String())
	assert.Equal(t, "malformed", KindMalformed.String())
	assert.Equal(t, "unexpected", KindUnexpected.String())
	assert.Equal(t, "unexpected", Kind(42).String())
}

func TestNewStatusError_TruncatesBody(t *testing.T) {
	body := strings.Repeat("x", MaxBodyLogLength+50)
	err := NewStatusError("speech", 500, body)

	assert.Equal(t, 500, err.StatusCode)
	assert.Equal(t, MaxBodyLogLength+len("..."), len(err.Body))
	assert.Contains(t, err.Error(), "status=500")
	assert.Equal(t, 500, StatusCodeOf(fmt.Errorf("wrap: %w", err)))
	assert.Equal(t, 0, StatusCodeOf(errors.New("other")))
}

func TestNewMalformedError_DefaultsCause(t *testing.T) {
	err := NewMalformedError("catalog", "[]", nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.Equal(t, KindMalformed, err.Kind)
}

func TestNewServiceError(t *testing.T) {
	assert.Nil(t, NewServiceError("catalog", nil))

	status := NewStatusError("catalog", 404, "")
	assert.Same(t, status, NewServiceError("catalog", fmt.Errorf("wrap: %w", status)))

	se := NewServiceError("speech", context.DeadlineExceeded)
	assert.Equal(t, KindConnection, se.Kind)
	assert.Equal(t, "speech", se.Service)
	assert.ErrorIs(t, se, context.DeadlineExceeded)
	assert.Equal(t, "speech connection failure: context deadline exceeded", se.Error())
}
