package controller

import (
	"net/http"
	"time"

	"github.com/cassiomorais/remittance/internal/infrastructure/config"
	"github.com/cassiomorais/remittance/internal/infrastructure/observability"
	customMW "github.com/cassiomorais/remittance/internal/middleware"
	"github.com/cassiomorais/remittance/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// defaultRequestTimeout matches config.RequestTimeout for the default 30s perahub.timeout.
const defaultRequestTimeout = 65 * time.Second

type RouterDeps struct {
	DB                Pinger
	Cache             Pinger
	RemittanceService *service.RemittanceService
	AuditLogger       *service.AuditLogger
	TransactionStore  *service.TransactionStore
	References        customMW.ReferenceResolver
	Metrics           *observability.Metrics
	CORSConfig        config.CORSConfig
	JWTSecret         string
	RequestsPerMinute int
	RequestTimeout    time.Duration
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Send and payout make two sequential gateway calls; the timeout must
	// cover both or the client gets a 504 while the detached operation
	// still completes.
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSConfig.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: deps.CORSConfig.AllowCredentials,
		MaxAge:           300,
	}))
	r.Use(customMW.Metrics(deps.Metrics))
	r.Use(customMW.SecurityHeaders())

	healthH := NewHealthController(deps.DB, deps.Cache)
	remitH := NewRemittanceController(deps.RemittanceService)
	queryH := NewQueryController(deps.AuditLogger, deps.TransactionStore)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(customMW.RateLimit(deps.RequestsPerMinute))
		if deps.JWTSecret != "" {
			r.Use(customMW.RequireAuth(deps.JWTSecret))
		}

		inquireMW := passThrough
		sendMW := passThrough
		if deps.References != nil {
			inquireMW = customMW.Enrich(deps.References, customMW.InquireReferences)
			sendMW = customMW.Enrich(deps.References, customMW.SendReferences)
		}

		// Remittance operations
		r.With(inquireMW).Post("/inquire", remitH.Inquire)
		r.With(sendMW).Post("/send", remitH.Send)
		r.Post("/payout", remitH.Payout)

		// Audit and bookkeeping views
		r.Get("/logs", queryH.ListLogs)
		r.Get("/transactions", queryH.ListTransactions)
		r.Get("/pending", queryH.ListPending)
	})

	return r
}

func passThrough(next http.Handler) http.Handler {
	return next
}
