package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all commands to a markdown file",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	n, err := svc.Export(cmd.Context())
	if err != nil {
		return err
	}
	if n == 0 {
		printNotice("Nothing to export.")
		return nil
	}
	fmt.Printf("📝 Exported %d command(s) to `%s`.\n", n, svc.ExportPath())
	return nil
}
