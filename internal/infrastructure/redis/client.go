package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cassiomorais/remittance/internal/infrastructure/config"
	"github.com/cassiomorais/remittance/pkg/retry"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewClient creates a new Redis client, retrying the initial ping with
// configurable attempts and delay.
func NewClient(ctx context.Context, cfg *config.RedisConfig, logger zerolog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
	})

	retryCfg := retry.DefaultConfig()
	if cfg.ConnectRetries > 0 {
		retryCfg.MaxAttempts = cfg.ConnectRetries
	}
	if cfg.ConnectRetryDelay > 0 {
		retryCfg.InitialDelay = cfg.ConnectRetryDelay
	}

	err := retry.Do(ctx, retryCfg, func() error {
		return client.Ping(ctx).Err()
	}, func(n uint, err error) {
		logger.Warn().Err(err).Uint("attempt", n).Msg("Redis not reachable, retrying")
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis after %d attempts: %w", retryCfg.MaxAttempts, err)
	}

	return client, nil
}
