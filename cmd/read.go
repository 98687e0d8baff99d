package cmd

import (
	"errors"

	"cmdsaver/history"
	"cmdsaver/snippets"

	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read <id-prefix>",
	Short: "Show the first command whose id starts with the prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	if err := requirePrefix(args[0]); err != nil {
		return err
	}

	rec, err := svc.Read(cmd.Context(), args[0])
	if errors.Is(err, snippets.ErrNotFound) {
		printNotice(err.Error())
		return nil
	}
	if err != nil {
		return err
	}

	var usage *history.Usage
	if u, ok, err := svc.Usage(rec.ID); err != nil {
		logger.Warn("reading usage history", "err", err)
	} else if ok {
		usage = &u
	}
	printRecordDetail(rec, usage)
	return nil
}
