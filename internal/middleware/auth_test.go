package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestRequireAuth(t *testing.T) {
	valid := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), Claims{
		PartnerCode: "SP1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "partner-api",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	expired := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "partner-api",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	wrongKey := signToken(t, jwt.SigningMethodHS256, []byte("another-secret-another-secret-xx"), Claims{})

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "auth_required"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "auth_invalid_scheme"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "auth_invalid"},
		{"wrong key", "Bearer " + wrongKey, http.StatusUnauthorized, "auth_invalid"},
		{"garbage", "Bearer not.a.jwt", http.StatusUnauthorized, "auth_invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var subject, partner string
			handler := RequireAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				subject, _ = GetSubject(r.Context())
				partner, _ = GetPartnerCode(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/send", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "partner-api", subject)
				assert.Equal(t, "SP1", partner)
				return
			}

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, float64(http.StatusUnauthorized), resp["response_code"])
			assert.Equal(t, "failed", resp["status"])
			assert.Equal(t, tt.code, resp["errors"].(map[string]any)["code"])
		})
	}
}

func TestRateLimit_EnvelopeOnLimit(t *testing.T) {
	handler := RateLimit(1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/logs", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/logs", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), `"rate limit exceeded"`)
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}
