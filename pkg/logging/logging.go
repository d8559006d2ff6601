// Package logging builds the logrus loggers used across clinekit.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger represents a logger instance
type Logger = *logrus.Logger

// Fields represents structured logging fields
type Fields = logrus.Fields

// Config contains logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// Format is "text" or "json".
	Format string
	// Output defaults to stderr so command output on stdout stays clean.
	Output io.Writer
}

// New creates a configured logger instance.
func New(cfg Config) *logrus.Logger {
	logger := logrus.New()
	if cfg.Output != nil {
		logger.SetOutput(cfg.Output)
	} else {
		logger.SetOutput(os.Stderr)
	}
	if strings.EqualFold(cfg.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	logger.SetLevel(ParseLevel(cfg.Level))
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return Discard()
	}
	return l
}

// ParseLevel converts a level name to a logrus level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
