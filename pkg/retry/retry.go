package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts  uint
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultConfig returns the backoff used when connecting to backing services at startup.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  5,
		InitialDelay: 1 * time.Second,
		MaxDelay:     10 * time.Second,
	}
}

// Do executes fn with exponential backoff. onRetry, when non-nil, is called
// before each new attempt with the attempt number and the error that caused it.
func Do(ctx context.Context, cfg Config, fn func() error, onRetry func(n uint, err error)) error {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 1
	}
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(cfg.MaxAttempts),
		retry.Delay(cfg.InitialDelay),
		retry.MaxDelay(cfg.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			if onRetry != nil {
				onRetry(n+1, err)
			}
		}),
	)
}

// DoWithResult executes fn with exponential backoff and returns its result.
func DoWithResult[T any](ctx context.Context, cfg Config, fn func() (T, error), onRetry func(n uint, err error)) (T, error) {
	var result T
	err := Do(ctx, cfg, func() error {
		var err error
		result, err = fn()
		return err
	}, onRetry)
	return result, err
}
