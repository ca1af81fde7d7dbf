// Package cli provides the command-line interface for studentctl.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/studentctl/internal/adapter"
	"github.com/leapstack-labs/studentctl/internal/config"
	"github.com/leapstack-labs/studentctl/internal/shell"
	"github.com/leapstack-labs/studentctl/internal/store"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var Version = "0.1.0"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "studentctl",
		Short: "Interactive manager for a students table",
		Long: `studentctl is an interactive menu shell over a students table.

Connection settings come from the standard PG* environment variables
(PGHOST, PGPORT, PGDATABASE, PGUSER, PGPASSWORD), each with a local
default. STUDENTCTL_DRIVER selects the database engine (postgres or
sqlite). The schema is created on startup if it does not exist.`,
		Version: Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.AddCommand(NewVersionCommand(Version))

	return rootCmd
}

// runShell wires config, adapter, store and shell, then runs the loop.
// Any error before the loop starts aborts the process.
func runShell(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)

	ad, err := adapter.New(cfg, logger)
	if err != nil {
		return err
	}

	st := store.New(ad, logger)
	if err := st.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Info("database initialized", slog.String("driver", ad.Name()))

	in, err := shell.NewLineReader(os.Stdin, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	sh := shell.New(st, in, cmd.OutOrStdout(), ad.Name(), logger)
	return sh.Run(ctx)
}

// newLogger builds the process logger writing timestamped lines to stderr.
func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
}

// parseLevel maps a level name to a slog level, defaulting to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
