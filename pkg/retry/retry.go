// Package retry re-invokes a fallible operation with exponential backoff.
package retry

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clinekit/clinekit/pkg/exterr"
)

// Defaults applied to zero-valued Config fields.
const (
	DefaultMaxAttempts  = 3
	DefaultInitialDelay = 1000 * time.Millisecond
	DefaultBackoff      = 2.0
	DefaultMaxDelay     = 10000 * time.Millisecond
)

// FailedMessage is the message of the error returned after exhaustion.
const FailedMessage = "operation failed"

// Config configures retry behavior.
type Config struct {
	// MaxAttempts is the total number of tries, including the first one.
	MaxAttempts int

	// InitialDelay is the wait after the first failure. Zero selects the
	// default; a negative value disables waiting.
	InitialDelay time.Duration

	// Backoff multiplies the delay after each further failure.
	Backoff float64

	// MaxDelay caps the delay. Zero means uncapped.
	MaxDelay time.Duration

	// ReturnLastError makes Do return the last failure as is instead of
	// wrapping it in a RETRY_FAILED error.
	ReturnLastError bool

	// RetryIf reports whether a failure is worth another attempt. Nil
	// retries every error.
	RetryIf func(err error) bool

	// Sleep waits between attempts. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error

	// Logger receives one debug entry per failed attempt. Optional.
	Logger logrus.FieldLogger
}

// DefaultConfig returns the uncapped default configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  DefaultMaxAttempts,
		InitialDelay: DefaultInitialDelay,
		Backoff:      DefaultBackoff,
	}
}

// DefaultCappedConfig returns the default configuration with the delay
// capped at DefaultMaxDelay.
func DefaultCappedConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxDelay = DefaultMaxDelay
	return cfg
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.InitialDelay < 0 {
		c.InitialDelay = 0
	} else if c.InitialDelay == 0 {
		c.InitialDelay = DefaultInitialDelay
	}
	if c.Backoff <= 0 {
		c.Backoff = DefaultBackoff
	}
	if c.Sleep == nil {
		c.Sleep = sleep
	}
	return c
}

// Delay returns the wait after the given failed attempt (1-indexed).
func (c Config) Delay(attempt int) time.Duration {
	c = c.withDefaults()
	if attempt < 1 {
		attempt = 1
	}
	d := float64(c.InitialDelay) * math.Pow(c.Backoff, float64(attempt-1))
	if d > math.MaxInt64 {
		d = math.MaxInt64
	}
	delay := time.Duration(d)
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	return delay
}

// Do calls fn until it succeeds or cfg.MaxAttempts tries have failed.
// After the k-th failure it waits cfg.Delay(k) before trying again; no wait
// follows the last attempt, and a failure rejected by cfg.RetryIf ends the
// sequence early. On exhaustion the last error is returned wrapped
// in an *exterr.Error with code RETRY_FAILED, or unwrapped when
// cfg.ReturnLastError is set. A cancelled ctx stops the sequence and its
// error is returned.
func Do[T any](ctx context.Context, fn func(ctx context.Context) (T, error), cfg Config) (T, error) {
	cfg = cfg.withDefaults()

	var zero T
	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == cfg.MaxAttempts || (cfg.RetryIf != nil && !cfg.RetryIf(err)) {
			break
		}

		delay := cfg.Delay(attempt)
		if cfg.Logger != nil {
			cfg.Logger.WithFields(logrus.Fields{
				"attempt":      attempt,
				"max_attempts": cfg.MaxAttempts,
				"delay":        delay,
			}).WithError(err).Debug("attempt failed, retrying")
		}
		if err := cfg.Sleep(ctx, delay); err != nil {
			return zero, err
		}
	}

	if cfg.ReturnLastError {
		return zero, lastErr
	}
	return zero, exterr.New(exterr.CodeRetryFailed, FailedMessage, lastErr)
}

// Run is Do for operations without a result.
func Run(ctx context.Context, fn func(ctx context.Context) error, cfg Config) error {
	_, err := Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, cfg)
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
