package main

import (
	"github.com/spf13/cobra"

	"github.com/clinekit/clinekit/pkg/check"
	"github.com/clinekit/clinekit/pkg/extension"
	"github.com/clinekit/clinekit/pkg/mcpcheck"
	"github.com/clinekit/clinekit/pkg/settings"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Verify the extension directories and settings",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}

	var paths extension.Paths
	var servers map[string]mcpcheck.ServerConfig

	return runChecks(a.out,
		check.Func(func() check.Result {
			r := check.Result{Name: "extension: directories"}
			p, err := extension.Initialize(a.getter, a.logger)
			if err != nil {
				return r.Fail(err.Error(), err)
			}
			paths = p
			r.AddDetailf("home: %s", p.Home)
			r.AddDetailf("config: %s", p.Config)
			return r.Pass()
		}),
		check.Func(func() check.Result {
			path := settings.Path(paths.Config)
			r := check.Result{Name: "settings: " + path}
			s, err := (&settings.Loader{}).Load(paths.Config)
			if err != nil {
				return r.Fail(err.Error(), err)
			}
			servers = s
			r.AddDetailf("servers: %d", len(s))
			return r.Pass()
		}),
		check.Func(func() check.Result {
			r := check.Result{Name: "config: extension"}
			cfg := extension.DefaultConfig()
			cfg.MCP.Servers = servers
			if err := cfg.Validate(); err != nil {
				return r.Fail(err.Error(), err)
			}
			r.AddDetailf("core version: %s", cfg.Settings.Core.Version)
			r.AddDetailf("update strategy: %s", cfg.Settings.Core.UpdateStrategy)
			return r.Pass()
		}),
	)
}
