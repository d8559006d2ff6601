package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinekit/clinekit/pkg/compat"
	"github.com/clinekit/clinekit/pkg/mcpcheck"
	"github.com/clinekit/clinekit/pkg/output"
	"github.com/clinekit/clinekit/pkg/settings"
)

var settingsDir string

var checkEnvCmd = &cobra.Command{
	Use:   "check-env",
	Short: "Check system requirements, MCP servers and environment variables",
	Args:  cobra.NoArgs,
	RunE:  runCheckEnv,
}

func init() {
	checkEnvCmd.Flags().StringVar(&settingsDir, "settings-dir", "", "directory holding "+settings.FileName+" (default: $CLINE_CONFIG_PATH)")
	rootCmd.AddCommand(checkEnvCmd)
}

// loadServers reads the MCP server map from --settings-dir, the config
// file, or CLINE_CONFIG_PATH, in that order.
func (a *app) loadServers() (map[string]mcpcheck.ServerConfig, error) {
	loader := &settings.Loader{}
	dir := settingsDir
	if dir == "" {
		dir = a.cfg.SettingsDir
	}
	if dir == "" {
		return loader.FromEnv(a.getter)
	}
	return loader.Load(dir)
}

func (a *app) checker(servers map[string]mcpcheck.ServerConfig) *compat.Checker {
	return compat.New(servers,
		compat.WithRequirements(a.cfg.Requirements),
		compat.WithVariables(a.cfg.RequiredVariables),
		compat.WithRunner(a.runner),
		compat.WithGetter(a.getter),
		compat.WithLogger(a.logger),
	)
}

func runCheckEnv(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	servers, err := a.loadServers()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !jsonOutput {
		fmt.Fprintln(a.out, "Checking environment compatibility...")
		fmt.Fprintln(a.out)
	}
	report := a.checker(servers).CheckEnvironment(ctx)

	if jsonOutput {
		if err := output.PrintJSON(a.out, report); err != nil {
			return err
		}
	} else {
		output.PrintReport(a.out, report)
	}

	if !report.Success {
		return ErrCheckFailed
	}
	return nil
}
