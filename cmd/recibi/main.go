// Package main provides the recibi CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/brettviren/recibi/internal/config"
	"github.com/brettviren/recibi/internal/logging"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether summaries and errors are plain text
	humanOutput bool

	logLevel  string
	logFormat string

	// settings and logger are ready once the root pre-run has finished
	settings config.Settings
	logger   = zerolog.Nop()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "recibi",
	Short: "Manage bibliographic records",
	Long: `recibi merges, filters, tags and fetches bibliographic records.

Inputs are BibTeX by default; files ending in .json or .db are read as
JSON or SQLite. An input of "-" (or no input at all) reads BibTeX from
stdin. Records go to stdout unless -o names a file.

Records are cleaned of stray Unicode as they are loaded. When two inputs
share a key, later records replace earlier ones, except for merge and
convert which combine them field by field.

Configuration is read from $XDG_CONFIG_HOME/recibi/config.yml and a .env
file in the working directory.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console or json")
	rootCmd.Version = Version
}

// setup loads .env and the global config, then builds the logger. Flags
// override the config file.
func setup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	s, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if logLevel != "" {
		s.LogLevel = logLevel
	}
	if logFormat != "" {
		s.LogFormat = logFormat
	}
	settings = s

	logger = logging.New(logging.Config{Level: s.LogLevel, Format: s.LogFormat}).
		With().Str("cmd", cmd.Name()).Logger()
	logger.Debug().Str("config", config.GlobalConfigPath()).Msg("configured")
	return nil
}
