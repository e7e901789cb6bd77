package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cassiomorais/remittance/internal/bootstrap"
	"github.com/cassiomorais/remittance/internal/controller"
	"github.com/cassiomorais/remittance/internal/infrastructure/perahub"
	infraRedis "github.com/cassiomorais/remittance/internal/infrastructure/redis"
	"github.com/cassiomorais/remittance/internal/repository/postgres"
	"github.com/cassiomorais/remittance/internal/service"
	"github.com/sony/gobreaker/v2"
)

func main() {
	ctx := context.Background()

	app, err := bootstrap.New(ctx, "remittance-api", "remittance")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	logRepo := postgres.NewTransactionLogRepository(app.Pool)
	pendingRepo := postgres.NewPendingRepository(app.Pool)
	successfulRepo := postgres.NewSuccessfulRepository(app.Pool)
	txManager := postgres.NewTxManager(app.Pool)

	// --- Upstream gateway ---
	gateway := perahub.NewClient(&app.Config.Perahub,
		perahub.WithBreakerStateHook(func(name string, from, to gobreaker.State) {
			app.Metrics.SetBreakerState(name, float64(to))
			app.Logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		}),
	)
	referenceCache := infraRedis.NewReferenceCache(app.Redis, app.Config.Redis.ReferenceTTL)

	// --- Services ---
	audit := service.NewAuditLogger(logRepo, app.Metrics, app.Logger)
	store := service.NewTransactionStore(pendingRepo, successfulRepo, txManager,
		app.Config.Remittance.PendingMode, app.Metrics, app.Logger)
	remittanceSvc := service.NewRemittanceService(gateway, audit, store, app.Metrics, app.Logger)
	referenceSvc := service.NewReferenceService(gateway, referenceCache, app.Metrics, app.Logger)

	// --- Build router ---
	router := controller.NewRouter(controller.RouterDeps{
		DB:                app.Pool,
		Cache:             controller.RedisPinger{Client: app.Redis},
		RemittanceService: remittanceSvc,
		AuditLogger:       audit,
		TransactionStore:  store,
		References:        referenceSvc,
		Metrics:           app.Metrics,
		CORSConfig:        app.Config.Server.CORS,
		JWTSecret:         app.Config.Auth.JWTSecret,
		RequestsPerMinute: app.Config.Server.RequestsPerMinute,
		RequestTimeout:    app.Config.RequestTimeout(),
	})

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	go func() {
		app.Logger.Info().Str("addr", addr).Str("pending_mode", app.Config.Remittance.PendingMode).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	app.Logger.Info().Msg("Server exited")
}
