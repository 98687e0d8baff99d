package cmd

import (
	"errors"
	"fmt"
	"strings"

	"cmdsaver/model"
	"cmdsaver/snippets"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id-prefix>",
	Short: "Change the command, description or tags of a saved command",
	Long: `Change fields of the first command whose id starts with the prefix.
Only flags that are given are changed. --tags "" clears all tags.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editCommand     string
	editDescription string
	editTags        string
)

func init() {
	editCmd.Flags().StringVar(&editCommand, "command", "", "New command text")
	editCmd.Flags().StringVar(&editDescription, "description", "", "New description")
	editCmd.Flags().StringVar(&editTags, "tags", "", "New comma-separated tags; empty clears them")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	if err := requirePrefix(args[0]); err != nil {
		return err
	}

	var e snippets.Edit
	flags := cmd.Flags()
	if flags.Changed("command") {
		c := strings.TrimSpace(editCommand)
		if c == "" {
			return fmt.Errorf("--command must not be empty")
		}
		e.Command = &c
	}
	if flags.Changed("description") {
		e.Description = &editDescription
	}
	if flags.Changed("tags") {
		tags := model.ParseTags(editTags)
		e.Tags = &tags
	}
	if e.Command == nil && e.Description == nil && e.Tags == nil {
		return fmt.Errorf("no fields specified; use --command, --description or --tags")
	}

	rec, err := svc.Edit(cmd.Context(), args[0], e)
	if errors.Is(err, snippets.ErrNotFound) {
		printNotice(err.Error())
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("✏️ Command updated. %s\n", idStyle.Render(rec.ShortID()))
	return nil
}
