package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domainErrors "github.com/cassiomorais/remittance/internal/domain/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusCreated, map[string]string{"message": "hello"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"hello"}`, w.Body.String())
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	writeSuccess(w, "Send successful", json.RawMessage(`{"phrn":"PH1"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"response_code":200,"status":"success","message":"Send successful","data":{"phrn":"PH1"}}`, w.Body.String())
}

func TestWriteList_EmptyKeepsCount(t *testing.T) {
	w := httptest.NewRecorder()
	writeList(w, "none", []TransactionLogResponse{})

	assert.JSONEq(t, `{"response_code":200,"status":"success","message":"none","count":0,"data":[]}`, w.Body.String())
}

func TestWriteError_ValidationError(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, domainErrors.NewValidationError("phrn", "required validation failed"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "failed", env["status"])
	assert.EqualValues(t, 400, env["response_code"])
	errs := env["errors"].(map[string]any)
	assert.Equal(t, "validation_error", errs["code"])
	assert.Equal(t, "phrn", errs["field"])
}

func TestWriteError_UpstreamError(t *testing.T) {
	tests := []struct {
		name           string
		httpStatus     int
		expectedStatus int
	}{
		{"logical failure on http 200", http.StatusOK, http.StatusBadGateway},
		{"conflict passes through", http.StatusConflict, http.StatusConflict},
		{"server error passes through", http.StatusServiceUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(w, &domainErrors.UpstreamError{
				Endpoint:   "/send/validate",
				HTTPStatus: tt.httpStatus,
				Code:       400,
				Message:    "invalid partner",
				Body:       []byte(`{"code":400,"message":"invalid partner"}`),
			})

			assert.Equal(t, tt.expectedStatus, w.Code)
			env := decodeEnvelope(t, w)
			assert.Equal(t, "invalid partner", env["message"])
			errs := env["errors"].(map[string]any)
			assert.Equal(t, "upstream_error", errs["code"])
			assert.EqualValues(t, 400, errs["upstream_code"])
			assert.Equal(t, "invalid partner", errs["details"].(map[string]any)["message"])
		})
	}
}

func TestWriteError_UpstreamErrorJoinedWithStoreFailure(t *testing.T) {
	w := httptest.NewRecorder()
	err := errors.Join(
		&domainErrors.UpstreamError{Endpoint: "/inquire", HTTPStatus: http.StatusNotFound, Message: "not found"},
		errors.New("record pending: connection reset"),
	)

	writeError(w, err)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWriteError_DomainErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"transaction not found", domainErrors.NewTransactionNotFound("PH1"), http.StatusNotFound, "not_found"},
		{"missing reference", fmt.Errorf("/send/validate: %w", domainErrors.ErrMissingReference), http.StatusBadGateway, "missing_reference"},
		{"gateway unreachable", fmt.Errorf("call /inquire: %w", domainErrors.ErrUpstreamUnavailable), http.StatusBadGateway, "upstream_unavailable"},
		{"unknown reference", domainErrors.NewReferenceNotFound("partner", "XX"), http.StatusForbidden, "reference_not_found"},
		{"reference list down", domainErrors.ErrReferenceUnavailable, http.StatusInternalServerError, "reference_unavailable"},
		{"partner mismatch", domainErrors.ErrPartnerMismatch, http.StatusForbidden, "partner_mismatch"},
		{"unauthorized", domainErrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(w, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			env := decodeEnvelope(t, w)
			assert.Equal(t, "failed", env["status"])
			assert.Equal(t, tt.expectedCode, env["errors"].(map[string]any)["code"])
		})
	}
}

func TestWriteError_InternalHidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, errors.New("pq: password authentication failed"))

	env := decodeEnvelope(t, w)
	assert.Equal(t, "internal server error", env["message"])
	assert.NotContains(t, w.Body.String(), "password")
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		expectedField string
	}{
		{"invalid json", `{`, "body"},
		{"missing phrn", `{"send_partner_code":"SP1"}`, "phrn"},
		{"missing partner", `{"phrn":"PH1"}`, "send_partner_code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var req InquireRequest

			err := decodeAndValidate(r, &req)
			require.Error(t, err)

			var ve *domainErrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.expectedField, ve.Field)
		})
	}
}

func TestDecodeAndValidate_DecimalAmounts(t *testing.T) {
	tests := []struct {
		name          string
		principal     string
		fee           string
		expectedField string
	}{
		{"zero principal", `0`, `5`, "principal_amount"},
		{"negative fee", `100`, `-1`, "service_fee"},
		{"quoted amounts accepted", `"100.50"`, `"5"`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validSendJSON(map[string]string{"principal_amount": tt.principal, "service_fee": tt.fee})
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			var req SendRequest

			err := decodeAndValidate(r, &req)
			if tt.expectedField == "" {
				require.NoError(t, err)
				assert.True(t, req.PrincipalAmount.Equal(decimal.RequireFromString("100.50")))
				return
			}
			var ve *domainErrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.expectedField, ve.Field)
		})
	}
}
