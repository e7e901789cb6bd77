package errors

import (
	"errors"
	"fmt"
)

var (
	// Transaction lookup errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrMissingReference    = errors.New("missing reference number in upstream response")

	// Upstream errors
	ErrUpstreamFailed      = errors.New("upstream request failed")
	ErrUpstreamUnavailable = errors.New("upstream gateway unavailable")

	// Reference data errors
	ErrReferenceNotFound    = errors.New("reference code not found")
	ErrReferenceUnavailable = errors.New("reference data unavailable")

	// Auth errors
	ErrUnauthorized    = errors.New("unauthorized")
	ErrPartnerMismatch = errors.New("partner code does not match credentials")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
)

// DomainError wraps errors with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// UpstreamError is returned when the remittance provider rejects a call, either
// with a non-2xx HTTP status or with an application code other than 200.
type UpstreamError struct {
	Endpoint   string
	HTTPStatus int
	Code       int
	Message    string
	Body       []byte
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream %s failed (http %d, code %d): %s", e.Endpoint, e.HTTPStatus, e.Code, e.Message)
	}
	return fmt.Sprintf("upstream %s failed (http %d, code %d)", e.Endpoint, e.HTTPStatus, e.Code)
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstreamFailed
}

// NotFoundError names the identifier a lookup could not resolve.
type NotFoundError struct {
	Kind string
	ID   string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// NewTransactionNotFound returns an error matching ErrTransactionNotFound that carries the phrn.
func NewTransactionNotFound(phrn string) *NotFoundError {
	return &NotFoundError{Kind: "transaction", ID: phrn, Err: ErrTransactionNotFound}
}

// NewReferenceNotFound returns an error matching ErrReferenceNotFound for a reference code.
func NewReferenceNotFound(kind, code string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: code, Err: ErrReferenceNotFound}
}
