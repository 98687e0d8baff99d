package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy search descriptions and tags",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	matches, err := svc.Search(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		printNotice("No matching commands found.")
		return nil
	}
	for _, r := range matches {
		printRecordLine(r)
	}
	return nil
}
