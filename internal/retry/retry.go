// Package retry provides a bounded retry-with-backoff decorator for
// asynchronous operations against the study API.
package retry

import (
	"context"
	"time"

	"github.com/pkoerner/revise/internal/apierr"
)

// Config controls the retry behaviour of Do.
type Config struct {
	// MaxRetries is the number of retries after the first attempt, so an
	// operation runs at most MaxRetries+1 times.
	MaxRetries int

	// BaseDelay is the wait before the first retry; attempt n waits
	// BaseDelay * 2^n.
	BaseDelay time.Duration

	// Label identifies the operation in logs and error messages.
	Label string
}

// DefaultConfig matches the sync layer's write policy: three total attempts
// starting at half a second.
func DefaultConfig(label string) Config {
	return Config{MaxRetries: 2, BaseDelay: 500 * time.Millisecond, Label: label}
}

// Do runs op until it succeeds or the retry budget is exhausted, returning
// the last error. Cancellation is never retried: an aborted operation is an
// intentional teardown, not a transient failure.
func Do[T any](ctx context.Context, cfg Config, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := range cfg.MaxRetries + 1 {
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if apierr.IsCanceled(err) || ctx.Err() != nil {
			return zero, err
		}
		if attempt == cfg.MaxRetries {
			break
		}

		wait := cfg.BaseDelay * (1 << attempt)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(wait):
		}
	}

	return zero, lastErr
}
