package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/cassiomorais/remittance/internal/infrastructure/config"
	"github.com/cassiomorais/remittance/internal/infrastructure/observability"
	infraRedis "github.com/cassiomorais/remittance/internal/infrastructure/redis"
	"github.com/cassiomorais/remittance/internal/repository/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Pool    *pgxpool.Pool
	Redis   *redis.Client
	Metrics *observability.Metrics
	tracer  *sdktrace.TracerProvider
}

func New(ctx context.Context, serviceName string, metricsNamespace string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.InitLogger(cfg.Observability.LogLevel, os.Stdout, serviceName, cfg.InstanceID)
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger
	logger.Info().Msg("Starting")

	app := &App{Config: cfg, Logger: logger}

	if cfg.Observability.EnableTracing {
		tp, err := observability.InitTracer(serviceName, cfg.Observability.JaegerEndpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		} else {
			app.tracer = tp
			logger.Info().Msg("Tracing enabled")
		}
	}

	if cfg.Observability.EnableMetrics {
		app.Metrics = observability.NewMetrics(metricsNamespace, nil)
		logger.Info().Msg("Metrics initialized")
	}

	app.Pool, err = postgres.NewPool(ctx, &cfg.Database, logger)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info().Msg("Connected to PostgreSQL")

	app.Redis, err = infraRedis.NewClient(ctx, &cfg.Redis, logger)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info().Msg("Connected to Redis")

	return app, nil
}

// Close releases connections and flushes pending spans.
func (a *App) Close() {
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
	if err := observability.Shutdown(context.Background(), a.tracer); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to flush traces")
	}
}
