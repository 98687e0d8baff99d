package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"cmdsaver/runner"
	"cmdsaver/snippets"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <id-prefix>",
	Short: "Run a saved command, filling in {{param}} placeholders",
	Long: `Run the first command whose id starts with the prefix through the
configured shell. Placeholders like {{host}} are filled from --param flags;
--last reuses the values from the previous run for any not given.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

var (
	runParams []string
	runLast   bool
	runDryRun bool
)

func init() {
	runCmd.Flags().StringArrayVarP(&runParams, "param", "p", nil, "Placeholder value as name=value (repeatable)")
	runCmd.Flags().BoolVar(&runLast, "last", false, "Reuse parameter values from the previous run")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Print the command instead of running it")
	rootCmd.AddCommand(runCmd)
}

// parseParams turns name=value pairs into a map.
func parseParams(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q, want name=value", p)
		}
		values[name] = value
	}
	return values, nil
}

func runRun(cmd *cobra.Command, args []string) error {
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

	values, err := parseParams(runParams)
	if err != nil {
		return err
	}
	if runLast {
		if u, ok, err := svc.Usage(rec.ID); err != nil {
			logger.Warn("reading usage history", "err", err)
		} else if ok {
			for k, v := range u.LastParams {
				if _, set := values[k]; !set {
					values[k] = v
				}
			}
		}
	}
	if missing := runner.MissingParams(rec.Command, values); len(missing) > 0 {
		return fmt.Errorf("missing values for %s; pass --param name=value", strings.Join(missing, ", "))
	}

	final := runner.SubstituteParams(rec.Command, values)
	fmt.Fprintln(os.Stderr, mutedStyle.Render("$ "+final))
	if runDryRun {
		return nil
	}

	if err := svc.MarkUsed(rec.ID, values); err != nil {
		logger.Warn("recording usage", "err", err)
	}

	output := make(chan runner.OutputMsg)
	go runner.Run(cmd.Context(), cfg.Shell, final, output)

	var runErr string
	for msg := range output {
		switch {
		case msg.Done:
			runErr = msg.ErrMsg
		case msg.IsErr:
			fmt.Fprintln(os.Stderr, msg.Line)
		default:
			fmt.Println(msg.Line)
		}
	}
	if runErr != "" {
		return fmt.Errorf("command failed: %s", runErr)
	}
	return nil
}
