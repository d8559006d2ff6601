package cmdcheck

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/clinekit/clinekit/pkg/exec"
	"github.com/clinekit/clinekit/pkg/logging"
	"github.com/clinekit/clinekit/pkg/version"
)

// DefaultVersionFlag is used when a Requirement leaves VersionFlag empty.
const DefaultVersionFlag = "--version"

// Requirement describes a system binary with a minimum version.
type Requirement struct {
	Name        string `json:"name" yaml:"name" validate:"required"`
	MinVersion  string `json:"minVersion" yaml:"min_version" validate:"required"`
	Command     string `json:"command" yaml:"command" validate:"required"`
	VersionFlag string `json:"versionFlag" yaml:"version_flag"`
}

// Result is the outcome of probing one Requirement.
type Result struct {
	Name            string `json:"name"`
	Satisfied       bool   `json:"satisfied"`
	CurrentVersion  string `json:"currentVersion,omitempty"`
	RequiredVersion string `json:"requiredVersion"`
	Error           string `json:"error,omitempty"`
}

// Check probes the installed version of a Requirement.
type Check struct {
	Requirement Requirement
	Runner      exec.Runner        // injected for testing
	Logger      logrus.FieldLogger // optional
}

// Run executes the version command and compares its output with the
// minimum version. It never returns an error: failures are reported in the
// Result with Satisfied set to false.
func (c *Check) Run(ctx context.Context) Result {
	req := c.Requirement
	result := Result{
		Name:            req.Name,
		RequiredVersion: req.MinVersion,
	}

	flag := req.VersionFlag
	if flag == "" {
		flag = DefaultVersionFlag
	}

	stdout, stderr, err := c.Runner.Run(ctx, req.Command, strings.Fields(flag)...)
	if err != nil {
		if msg := strings.TrimSpace(stderr); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return c.fail(result, err)
	}

	current, err := version.Parse(stdout)
	if err != nil {
		return c.fail(result, err)
	}
	result.CurrentVersion = version.Normalize(stdout)

	minimum, err := version.Parse(req.MinVersion)
	if err != nil {
		return c.fail(result, fmt.Errorf("invalid minimum version: %w", err))
	}

	result.Satisfied = current.GreaterThanOrEqual(minimum)
	c.log().WithFields(logrus.Fields{
		"requirement": req.Name,
		"current":     result.CurrentVersion,
		"required":    req.MinVersion,
		"satisfied":   result.Satisfied,
	}).Debug("version probe finished")
	return result
}

func (c *Check) fail(result Result, err error) Result {
	result.Satisfied = false
	result.Error = fmt.Sprintf("Failed to check %s version: %v", c.Requirement.Name, err)
	c.log().WithField("requirement", c.Requirement.Name).WithError(err).Debug("version probe failed")
	return result
}

func (c *Check) log() logrus.FieldLogger {
	return logging.OrDiscard(c.Logger)
}
