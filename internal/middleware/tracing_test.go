package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func TestTracing_NamesSpanAfterRoute(t *testing.T) {
	recorder := withRecorder(t)

	r := chi.NewRouter()
	r.Use(Tracing())
	r.Get("/api/v1/transactions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/PH1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/v1/transactions/{id}", spans[0].Name())
}

func TestTracing_NameIndependentOfMiddlewareOrder(t *testing.T) {
	tests := []struct {
		name  string
		chain []func(http.Handler) http.Handler
	}{
		{"tracing only", []func(http.Handler) http.Handler{Tracing()}},
		{"request id first", []func(http.Handler) http.Handler{chimw.RequestID, Tracing()}},
		{"request copied below tracing", []func(http.Handler) http.Handler{Tracing(), chimw.RequestID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := withRecorder(t)

			r := chi.NewRouter()
			r.Use(tt.chain...)
			r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

			spans := recorder.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, "GET /health", spans[0].Name())
		})
	}
}

func TestTracing_WithoutChiRoutePattern(t *testing.T) {
	recorder := withRecorder(t)

	handler := Tracing()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/unknown", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "POST /unknown", spans[0].Name())
}

func TestTracing_PreservesResponseStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"200 OK", http.StatusOK},
		{"400 Bad Request", http.StatusBadRequest},
		{"404 Not Found", http.StatusNotFound},
		{"502 Bad Gateway", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Tracing()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			assert.Equal(t, tt.statusCode, w.Code)
		})
	}
}
