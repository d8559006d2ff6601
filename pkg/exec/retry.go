package exec

import (
	"context"
	"errors"
	"os/exec"

	"github.com/clinekit/clinekit/pkg/retry"
)

// RetryRunner decorates a Runner so that Run is retried with backoff when
// the process could not be started. A command that ran and exited non-zero
// is not retried. LookPath is passed through unchanged.
type RetryRunner struct {
	Runner Runner
	Config retry.Config
}

// WithRetry wraps r. A config with MaxAttempts of 1 or less returns r as is.
func WithRetry(r Runner, cfg retry.Config) Runner {
	if cfg.MaxAttempts <= 1 {
		return r
	}
	return &RetryRunner{Runner: r, Config: cfg}
}

// LookPath searches for an executable in PATH.
func (r *RetryRunner) LookPath(file string) (string, error) {
	return r.Runner.LookPath(file)
}

// Retryable reports whether a Run error may succeed on another attempt:
// the process did not start, and not because the executable is missing.
func Retryable(err error) bool {
	return ExitCode(err) == -1 && !errors.Is(err, exec.ErrNotFound)
}

// Run executes the command, retrying errors accepted by Config.RetryIf
// (Retryable when unset). The output of the last attempt is returned
// together with its raw error.
func (r *RetryRunner) Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error) {
	cfg := r.Config
	cfg.ReturnLastError = true
	if cfg.RetryIf == nil {
		cfg.RetryIf = Retryable
	}
	_, err = retry.Do(ctx, func(ctx context.Context) (struct{}, error) {
		var runErr error
		stdout, stderr, runErr = r.Runner.Run(ctx, name, args...)
		return struct{}{}, runErr
	}, cfg)
	return stdout, stderr, err
}
