package cmd

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved commands in stored order",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	records, err := svc.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		printNotice("No commands saved yet.")
		return nil
	}
	for _, r := range records {
		printRecordLine(r)
	}
	return nil
}
