// Package retry retries startup dependencies (nonce store connections) with exponential
// backoff. Facilitator calls are never retried.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/DanielPopoola/x402-gateway/internal/config"
)

type Retrier struct {
	baseDelay   time.Duration
	maxAttempts int
	logger      *slog.Logger
	jitter      func() time.Duration
}

func New(cfg config.RetryConfig, logger *slog.Logger) *Retrier {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Retrier{
		baseDelay:   cfg.BaseDelay,
		maxAttempts: attempts,
		logger:      logger,
		jitter: func() time.Duration {
			return time.Duration(rand.IntN(250)) * time.Millisecond
		},
	}
}

// Do runs op until it succeeds, attempts run out or ctx ends.
func Do[T any](ctx context.Context, r *Retrier, name string, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		resp, err := op(ctx)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt == r.maxAttempts-1 {
			break
		}

		delay := r.backoff(attempt)
		r.logger.Warn("dependency not ready, retrying",
			"dependency", name,
			"attempt", attempt+1,
			"delay", delay,
			"error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, fmt.Errorf("%s: maximum attempts exceeded: %w", name, lastErr)
}

func (r *Retrier) backoff(attempt int) time.Duration {
	return r.baseDelay*time.Duration(1<<attempt) + r.jitter()
}
