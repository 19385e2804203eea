package llm

import (
	"context"
	"log"
	"math/rand/v2"
	"time"
)

// RetryConfig controls the bounded exponential-backoff retry wrapped
// around every provider call.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt
	// (default 3, i.e. 4 total attempts).
	MaxRetries int
	// BaseDelay is the backoff base (default 1s). Attempt n sleeps
	// BaseDelay*2^n plus up to 1s of jitter.
	BaseDelay time.Duration
	// Logf receives retry/give-up notices. Defaults to log.Printf.
	Logf func(format string, args ...any)
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.BaseDelay == 0 {
		c.BaseDelay = time.Second
	}
	if c.Logf == nil {
		c.Logf = log.Printf
	}
	return c
}

// WithRetry runs fn until it succeeds, fails permanently, or exhausts
// the retry budget. transient classifies an error as worth retrying;
// permanent errors (auth, invalid request) surface immediately with no
// wasted attempts. The backoff sleep is context-cancellable so an
// abandoned invocation does not hold its goroutine. fn is opaque and
// classifier-agnostic, so the same loop serves every provider.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, transient func(error) bool, fn func() (T, error)) (T, error) {
	cfg = cfg.withDefaults()
	var zero T
	var lastErr error

	for attempt := 0; ; attempt++ {
		result, err := fn()
		if err == nil {
			if attempt > 0 {
				cfg.Logf("[RETRY] succeeded on attempt %d", attempt+1)
			}
			return result, nil
		}
		lastErr = err

		if attempt >= cfg.MaxRetries {
			cfg.Logf("[RETRY] giving up after %d attempts: %v", attempt+1, err)
			break
		}
		if !transient(err) {
			return zero, err
		}

		delay := cfg.BaseDelay<<attempt + rand.N(time.Second)
		cfg.Logf("[RETRY] attempt %d/%d failed (%v), retrying in %v",
			attempt+1, cfg.MaxRetries+1, err, delay)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}

	return zero, lastErr
}
