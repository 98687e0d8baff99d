package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"cmdsaver/config"
	"cmdsaver/history"
	"cmdsaver/snippets"
	"cmdsaver/store"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	flagStore   string
	flagConfig  string
	flagVerbose bool
)

// Set up by the root command before any subcommand runs.
var (
	cfg    *config.Config
	svc    *snippets.Service
	hist   *history.DB
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cmdsaver",
	Short: "Save, search and run frequently used shell commands",
	Long: `cmdsaver keeps a personal collection of shell commands with a description
and tags. Records live in a single JSON file that is snapshotted before every
write; commands can be listed, searched with fuzzy matching, exported to
markdown, run with {{param}} substitution, or browsed interactively.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "Path to the commands JSON file")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.Version = Version
}

// configError marks failures resolving configuration.
type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

func setup(cmd *cobra.Command, args []string) error {
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "cmdsaver"})
	logger.SetLevel(log.WarnLevel)
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	var err error
	cfg, err = config.Resolve(config.Overrides{ConfigPath: flagConfig, StorePath: flagStore})
	if err != nil {
		return &configError{err}
	}
	logger.Debug("resolved config", "store", cfg.StorePath, "history", cfg.HistoryPath, "export", cfg.ExportPath)

	st, err := store.New(cfg.StorePath, store.WithLogger(logger))
	if err != nil {
		return err
	}

	opts := []snippets.Option{
		snippets.WithExportPath(cfg.ExportPath),
		snippets.WithLogger(logger),
	}
	if cfg.DeleteBackup == config.DeleteBackupSingle {
		opts = append(opts, snippets.WithBackupPolicy(snippets.BackupOncePerWrite))
	}
	if cfg.HistoryPath != "" {
		hist, err = history.Open(cfg.HistoryPath)
		if err != nil {
			logger.Warn("usage history disabled", "err", err)
		} else {
			opts = append(opts, snippets.WithHistory(hist))
		}
	}

	svc = snippets.New(st, opts...)
	return nil
}

// Execute runs the root command and exits with a code describing the failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if hist != nil {
		hist.Close()
	}
	if err != nil {
		printError(err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var (
		cfgErr   *configError
		readErr  *store.ReadError
		writeErr *store.WriteError
	)
	switch {
	case errors.As(err, &cfgErr):
		return ExitConfigError
	case errors.As(err, &readErr):
		return ExitReadError
	case errors.As(err, &writeErr):
		return ExitWriteError
	default:
		return ExitError
	}
}

// requirePrefix rejects an empty id prefix, which would match every record.
func requirePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("id prefix must not be empty")
	}
	return nil
}
