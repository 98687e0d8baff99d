package cmd

import (
	"cmdsaver/ui"

	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse, filter and run saved commands interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ui.Run(cmd.Context(), svc, cfg.Shell)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
