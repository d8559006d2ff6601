package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/clinekit/clinekit/pkg/output"
	"github.com/clinekit/clinekit/pkg/updates"
)

var checkUpdatesCmd = &cobra.Command{
	Use:   "check-updates",
	Short: "Report pending submodule and npm package updates",
	Long: `Report pending submodule and npm package updates.

Exit status is 1 when the working directory is dirty, 2 when updates are
available and 99 on unexpected failures.`,
	Args: cobra.NoArgs,
	RunE: runCheckUpdates,
}

func init() {
	rootCmd.AddCommand(checkUpdatesCmd)
}

func runCheckUpdates(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c := &updates.Checker{
		Git:    &updates.RealGitRunner{Runner: a.direct},
		Runner: a.direct,
		Logger: a.logger,
	}
	if !jsonOutput {
		c.Out = a.out
	}

	found, err := c.Run(ctx)
	if jsonOutput && found != nil {
		if perr := output.PrintJSON(a.out, found); perr != nil {
			return perr
		}
	}
	return err
}
