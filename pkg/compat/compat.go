// Package compat checks whether the local machine can run the configured
// MCP servers: system binaries, per-server commands and environment, and
// the variables the extension itself needs.
package compat

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/clinekit/clinekit/pkg/cmdcheck"
	"github.com/clinekit/clinekit/pkg/envcheck"
	"github.com/clinekit/clinekit/pkg/exec"
	"github.com/clinekit/clinekit/pkg/logging"
	"github.com/clinekit/clinekit/pkg/mcpcheck"
)

// DefaultRequirements returns the built-in system requirements.
func DefaultRequirements() []cmdcheck.Requirement {
	return []cmdcheck.Requirement{
		{Name: "Node.js", MinVersion: "20.0.0", Command: "node", VersionFlag: "--version"},
		{Name: "npm", MinVersion: "10.0.0", Command: "npm", VersionFlag: "--version"},
	}
}

// DefaultVariables returns the built-in required environment variables.
func DefaultVariables() []string {
	return []string{"CLINE_HOME", "CLINE_CONFIG_PATH"}
}

// Details holds the itemized results of one check cycle.
type Details struct {
	SystemRequirements     []cmdcheck.Result `json:"systemRequirements"`
	MCPServerCompatibility []mcpcheck.Result `json:"mcpServerCompatibility"`
	EnvironmentVariables   []envcheck.Result `json:"environmentVariables"`
}

// Report is the aggregate result of one check cycle.
type Report struct {
	Success bool    `json:"success"`
	Details Details `json:"details"`
}

// Checker runs the environment compatibility checks.
type Checker struct {
	servers      map[string]mcpcheck.ServerConfig
	requirements []cmdcheck.Requirement
	variables    []string
	runner       exec.Runner
	getter       envcheck.Getter
	logger       logrus.FieldLogger
}

// Option configures a Checker.
type Option func(*Checker)

// WithRequirements replaces the built-in system requirements.
func WithRequirements(reqs []cmdcheck.Requirement) Option {
	return func(c *Checker) {
		c.requirements = append([]cmdcheck.Requirement(nil), reqs...)
	}
}

// WithVariables replaces the built-in required environment variables.
func WithVariables(names []string) Option {
	return func(c *Checker) {
		c.variables = append([]string(nil), names...)
	}
}

// WithRunner sets the command runner used by all probes.
func WithRunner(r exec.Runner) Option {
	return func(c *Checker) {
		c.runner = r
	}
}

// WithGetter sets the environment lookup.
func WithGetter(g envcheck.Getter) Option {
	return func(c *Checker) {
		c.getter = g
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Checker) {
		c.logger = l
	}
}

// New creates a Checker for the given servers. The map is copied.
func New(servers map[string]mcpcheck.ServerConfig, opts ...Option) *Checker {
	c := &Checker{
		servers:      make(map[string]mcpcheck.ServerConfig, len(servers)),
		requirements: DefaultRequirements(),
		variables:    DefaultVariables(),
		runner:       &exec.RealRunner{},
		getter:       &envcheck.RealEnvGetter{},
	}
	for name, cfg := range servers {
		c.servers[name] = cfg
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrDiscard(c.logger)
	return c
}

// CheckEnvironment runs every probe concurrently and aggregates the
// results. It always returns a Report; individual probe failures are
// recorded in the matching item.
func (c *Checker) CheckEnvironment(ctx context.Context) Report {
	log := c.logger.WithField("check_id", uuid.NewString())
	log.WithFields(logrus.Fields{
		"requirements": len(c.requirements),
		"servers":      len(c.servers),
		"variables":    len(c.variables),
	}).Debug("environment check started")

	names := make([]string, 0, len(c.servers))
	for name := range c.servers {
		names = append(names, name)
	}
	sort.Strings(names)

	details := Details{
		SystemRequirements:     make([]cmdcheck.Result, len(c.requirements)),
		MCPServerCompatibility: make([]mcpcheck.Result, len(names)),
	}

	var g errgroup.Group
	for i, req := range c.requirements {
		g.Go(func() error {
			defer recoverProbe(log, func(msg string) {
				details.SystemRequirements[i] = cmdcheck.Result{
					Name:            req.Name,
					RequiredVersion: req.MinVersion,
					Error:           msg,
				}
			})
			probe := &cmdcheck.Check{Requirement: req, Runner: c.runner, Logger: log}
			details.SystemRequirements[i] = probe.Run(ctx)
			return nil
		})
	}
	for i, name := range names {
		g.Go(func() error {
			defer recoverProbe(log, func(msg string) {
				details.MCPServerCompatibility[i] = mcpcheck.Result{Name: name, Details: msg}
			})
			probe := &mcpcheck.Check{
				Name:   name,
				Config: c.servers[name],
				Runner: c.runner,
				Getter: c.getter,
				Logger: log,
			}
			details.MCPServerCompatibility[i] = probe.Run(ctx)
			return nil
		})
	}
	g.Go(func() error {
		defer recoverProbe(log, func(msg string) {
			failed := make([]envcheck.Result, len(c.variables))
			for i, name := range c.variables {
				failed[i] = envcheck.Result{Name: name, Error: msg}
			}
			details.EnvironmentVariables = failed
		})
		details.EnvironmentVariables = envcheck.CheckAll(c.getter, c.variables)
		return nil
	})
	_ = g.Wait()

	report := Report{Success: details.passed(), Details: details}
	log.WithField("success", report.Success).Debug("environment check finished")
	return report
}

// recoverProbe turns a panicking probe into a failed item.
func recoverProbe(log logrus.FieldLogger, record func(msg string)) {
	if r := recover(); r != nil {
		msg := fmt.Sprintf("probe panicked: %v", r)
		log.Error(msg)
		record(msg)
	}
}

func (d Details) passed() bool {
	for _, r := range d.SystemRequirements {
		if !r.Satisfied {
			return false
		}
	}
	for _, r := range d.MCPServerCompatibility {
		if !r.Compatible {
			return false
		}
	}
	for _, r := range d.EnvironmentVariables {
		if !r.Exists {
			return false
		}
	}
	return true
}

// CheckEnvironment is a convenience wrapper around New and
// Checker.CheckEnvironment.
func CheckEnvironment(ctx context.Context, servers map[string]mcpcheck.ServerConfig, opts ...Option) Report {
	return New(servers, opts...).CheckEnvironment(ctx)
}
