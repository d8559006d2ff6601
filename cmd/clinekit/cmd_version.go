package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinekit/clinekit/pkg/extension"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "clinekit %s (core %s)\n", Version, extension.CoreVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
