package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/clinekit/clinekit/pkg/config"
	"github.com/clinekit/clinekit/pkg/updates"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	configPath string
	envFile    string
	logLevel   string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:          "clinekit",
	Short:        "Environment and update checks for Cline extensions",
	Long:         "clinekit checks that a machine can run the configured MCP servers, reports pending updates and serves a small MCP server.",
	Version:      Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to "+config.FileName+" (default: search upward from the working directory)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load variables from this .env file (default: .env if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print machine-readable JSON")
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	var uerr *updates.UpdateError
	if errors.As(err, &uerr) {
		return uerr.Code
	}
	return 1
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}
