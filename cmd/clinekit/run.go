package main

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clinekit/clinekit/pkg/check"
	"github.com/clinekit/clinekit/pkg/config"
	"github.com/clinekit/clinekit/pkg/envcheck"
	"github.com/clinekit/clinekit/pkg/exec"
	"github.com/clinekit/clinekit/pkg/logging"
	"github.com/clinekit/clinekit/pkg/output"
)

// ErrCheckFailed is returned when a check fails.
var ErrCheckFailed = errors.New("check failed")

// Replaced in tests.
var (
	newRunner      = func() exec.Runner { return &exec.RealRunner{} }
	newGetter      = func() envcheck.Getter { return &envcheck.RealEnvGetter{} }
	configStartDir = "."
)

// app is the state shared by every subcommand.
type app struct {
	cfg    config.Config
	logger *logrus.Logger
	runner exec.Runner // retries probes per cfg.Probe
	direct exec.Runner // no retries
	getter envcheck.Getter
	out    io.Writer
}

// setup loads env files and configuration and builds the logger and
// runner for one command invocation.
func setup(cmd *cobra.Command) (*app, error) {
	bootstrap := logging.New(logging.Config{Level: logLevelOr("warn"), Output: cmd.ErrOrStderr()})

	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	if err := config.LoadEnv(bootstrap, files...); err != nil {
		return nil, err
	}

	getter := newGetter()
	cfg, path, err := config.Load(configStartDir, configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(getter)
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cmd.ErrOrStderr()})
	if path != "" {
		logger.WithField("path", path).Debug("loaded config")
	}

	retryCfg := cfg.Probe.RetryConfig()
	retryCfg.Logger = logger
	direct := newRunner()
	return &app{
		cfg:    cfg,
		logger: logger,
		runner: exec.WithRetry(direct, retryCfg),
		direct: direct,
		getter: getter,
		out:    cmd.OutOrStdout(),
	}, nil
}

func logLevelOr(def string) string {
	if logLevel != "" {
		return logLevel
	}
	return def
}

// runChecks executes the checks in order, prints each result, and returns
// ErrCheckFailed if any failed. Later checks are skipped after a failure.
func runChecks(w io.Writer, checkers ...check.Checker) error {
	results, ok := check.RunAll(checkers, true)
	for _, r := range results {
		output.PrintResult(w, r)
	}
	if !ok {
		return ErrCheckFailed
	}
	return nil
}
