package cmd

import (
	"fmt"
	"strings"

	"cmdsaver/model"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <command> <description>",
	Short: "Save a new command",
	Args:  cobra.ExactArgs(2),
	RunE:  runAdd,
}

var addTags string

func init() {
	addCmd.Flags().StringVar(&addTags, "tags", "", "Comma-separated tags")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	command := strings.TrimSpace(args[0])
	if command == "" {
		return fmt.Errorf("command must not be empty")
	}

	rec, err := svc.Add(cmd.Context(), command, args[1], model.ParseTags(addTags))
	if err != nil {
		return err
	}
	fmt.Printf("✅ Command added. %s\n", idStyle.Render(rec.ShortID()))
	return nil
}
