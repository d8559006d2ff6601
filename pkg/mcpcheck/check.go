// Package mcpcheck verifies that a configured MCP server can be launched
// on this machine.
package mcpcheck

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/clinekit/clinekit/pkg/envcheck"
	"github.com/clinekit/clinekit/pkg/exec"
	"github.com/clinekit/clinekit/pkg/logging"
)

// Detail strings reported by Check.
const (
	DetailPassed             = "All compatibility checks passed"
	detailCommandNotFound    = "Command '%s' not found in system PATH"
	detailMissingEnvironment = "Missing required environment variables: %s"
)

// ServerConfig is one entry of the mcpServers settings map.
type ServerConfig struct {
	Command     string            `json:"command" validate:"required"`
	Args        []string          `json:"args"`
	Env         map[string]string `json:"env"`
	Disabled    bool              `json:"disabled"`
	AlwaysAllow []string          `json:"alwaysAllow"`
}

// Executable returns the first whitespace-separated token of Command.
func (c ServerConfig) Executable() string {
	fields := strings.Fields(c.Command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Result is the compatibility verdict for one server.
type Result struct {
	Name       string `json:"name"`
	Compatible bool   `json:"compatible"`
	Details    string `json:"details"`
}

// Check verifies one MCP server configuration.
type Check struct {
	Name   string
	Config ServerConfig
	Runner exec.Runner        // injected for testing
	Getter envcheck.Getter    // injected for testing
	Logger logrus.FieldLogger // optional
}

// Run locates the server's executable, then checks that every variable in
// Config.Env is set. Only presence is checked; the configured values are
// not compared.
func (c *Check) Run(ctx context.Context) Result {
	result := Result{Name: c.Name}
	log := logging.OrDiscard(c.Logger).WithField("server", c.Name)

	executable := c.Config.Executable()
	if executable == "" {
		result.Details = fmt.Sprintf(detailCommandNotFound, c.Config.Command)
		return result
	}

	path, err := exec.Locate(ctx, c.Runner, executable)
	if err != nil || path == "" {
		log.WithError(err).Debug("server command not found")
		result.Details = fmt.Sprintf(detailCommandNotFound, c.Config.Command)
		return result
	}
	log.WithField("path", path).Debug("server command located")

	if missing := envcheck.Missing(c.Getter, c.Config.Env); len(missing) > 0 {
		result.Details = fmt.Sprintf(detailMissingEnvironment, strings.Join(missing, ", "))
		return result
	}

	result.Compatible = true
	result.Details = DetailPassed
	return result
}
