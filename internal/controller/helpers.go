package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	domainErrors "github.com/cassiomorais/remittance/internal/domain/errors"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	statusSuccess = "success"
	statusFailed  = "failed"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// Amount rules such as gt=0 compare the decimal's float value.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{domainErrors.ErrTransactionNotFound, http.StatusNotFound, "not_found", ""},
	{domainErrors.ErrMissingReference, http.StatusBadGateway, "missing_reference", ""},
	{domainErrors.ErrUpstreamUnavailable, http.StatusBadGateway, "upstream_unavailable", "remittance gateway unavailable"},
	{domainErrors.ErrReferenceNotFound, http.StatusForbidden, "reference_not_found", ""},
	{domainErrors.ErrReferenceUnavailable, http.StatusInternalServerError, "reference_unavailable", "unable to fetch reference data"},
	{domainErrors.ErrPartnerMismatch, http.StatusForbidden, "partner_mismatch", ""},
	{domainErrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", ""},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Envelope{
		ResponseCode: http.StatusOK,
		Status:       statusSuccess,
		Message:      message,
		Data:         data,
	})
}

func writeList[T any](w http.ResponseWriter, message string, rows []T) {
	count := len(rows)
	writeJSON(w, http.StatusOK, Envelope{
		ResponseCode: http.StatusOK,
		Status:       statusSuccess,
		Message:      message,
		Count:        &count,
		Data:         rows,
	})
}

func writeFailure(w http.ResponseWriter, status int, message string, details any) {
	writeJSON(w, status, Envelope{
		ResponseCode: status,
		Status:       statusFailed,
		Message:      message,
		Errors:       details,
	})
}

// writeError maps an error to the failed envelope. Upstream rejections carry
// the provider's HTTP status when it is an error status, otherwise 502.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *domainErrors.ValidationError
	if errors.As(err, &validationErr) {
		writeFailure(w, http.StatusBadRequest, validationErr.Error(), map[string]string{
			"code":    "validation_error",
			"field":   validationErr.Field,
			"message": validationErr.Message,
		})
		return
	}

	var upstreamErr *domainErrors.UpstreamError
	if errors.As(err, &upstreamErr) {
		status := upstreamErr.HTTPStatus
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		message := upstreamErr.Message
		if message == "" {
			message = "upstream request failed"
		}
		writeFailure(w, status, message, UpstreamErrorDetails{
			Code:         "upstream_error",
			Endpoint:     upstreamErr.Endpoint,
			HTTPStatus:   upstreamErr.HTTPStatus,
			UpstreamCode: upstreamErr.Code,
			Details:      rawOrString(upstreamErr.Body),
		})
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			message := m.message
			if message == "" {
				message = err.Error()
			}
			writeFailure(w, m.status, message, map[string]string{"code": m.code})
			return
		}
	}

	log.Error().Err(err).Msg("unhandled error in handler")
	writeFailure(w, http.StatusInternalServerError, "internal server error", map[string]string{"code": "internal_error"})
}

func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domainErrors.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			return domainErrors.NewValidationError(ve[0].Field(), ve[0].Tag()+" validation failed")
		}
		return domainErrors.NewValidationError("body", err.Error())
	}
	return nil
}

// rawOrString embeds b as JSON when it is valid JSON, otherwise as a string.
func rawOrString(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	if json.Valid(b) {
		return json.RawMessage(b)
	}
	return string(b)
}
