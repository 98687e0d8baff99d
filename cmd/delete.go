package cmd

import (
	"errors"
	"fmt"

	"cmdsaver/snippets"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id-prefix>",
	Aliases: []string{"rm"},
	Short:   "Delete every command whose id starts with the prefix",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if err := requirePrefix(args[0]); err != nil {
		return err
	}

	removed, err := svc.Delete(cmd.Context(), args[0])
	if errors.Is(err, snippets.ErrNotFound) {
		printNotice(err.Error())
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("🗑️ Deleted %d command(s).\n", len(removed))
	for _, r := range removed {
		printRecordLine(r)
	}
	return nil
}
