package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name: "with wrapped error",
			err: &DomainError{
				Code:    "send_failed",
				Message: "send processing failed",
				Err:     errors.New("provider timeout"),
			},
			expected: "send processing failed: provider timeout",
		},
		{
			name: "without wrapped error",
			err: &DomainError{
				Code:    "invalid_state",
				Message: "cannot confirm without validation",
				Err:     nil,
			},
			expected: "cannot confirm without validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	domainErr := NewDomainError("test", "test message", originalErr)

	assert.Equal(t, originalErr, domainErr.Unwrap())
	assert.True(t, errors.Is(domainErr, originalErr))
}

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError("phrn", "required validation failed")

	assert.Equal(t, "validation failed for field phrn: required validation failed", err.Error())
	assert.True(t, errors.Is(err, ErrValidationFailed))
}

func TestUpstreamError(t *testing.T) {
	t.Run("matches ErrUpstreamFailed", func(t *testing.T) {
		err := &UpstreamError{Endpoint: "/send/validate", HTTPStatus: 200, Code: 400, Message: "invalid partner"}

		assert.True(t, errors.Is(err, ErrUpstreamFailed))
		assert.Equal(t, "upstream /send/validate failed (http 200, code 400): invalid partner", err.Error())
	})

	t.Run("without message", func(t *testing.T) {
		err := &UpstreamError{Endpoint: "/inquire", HTTPStatus: 503}

		assert.Equal(t, "upstream /inquire failed (http 503, code 0)", err.Error())
	})

	t.Run("survives wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("payout: %w", &UpstreamError{Endpoint: "/receive/confirm", HTTPStatus: 500})

		var upstreamErr *UpstreamError
		assert.True(t, errors.As(wrapped, &upstreamErr))
		assert.Equal(t, 500, upstreamErr.HTTPStatus)
	})
}

func TestNotFoundError(t *testing.T) {
	err := NewTransactionNotFound("PH1")

	assert.True(t, errors.Is(err, ErrTransactionNotFound))
	assert.False(t, errors.Is(err, ErrReferenceNotFound))
	assert.Contains(t, err.Error(), `"PH1"`)

	refErr := NewReferenceNotFound("partner", "XYZ")
	assert.True(t, errors.Is(refErr, ErrReferenceNotFound))
	assert.Equal(t, `partner "XYZ" not found`, refErr.Error())
}
