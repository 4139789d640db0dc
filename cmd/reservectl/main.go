// Reservectl manages restaurant reservation settings from the terminal.
//
// It reads the branch → section → table hierarchy from the back-office API
// and changes the "accepts reservations" flag at any level, including a
// bulk switch that disables or enables every branch at once.
//
// Usage:
//
//	reservectl [command] [flags]
//
// The API token is read from RESERVECTL_API_TOKEN (or a .env file).
// See 'reservectl --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/branchdesk/reservectl/internal/config"
	"github.com/branchdesk/reservectl/internal/logging"
	"github.com/branchdesk/reservectl/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reservectl",
	Short: "Restaurant reservation settings tool",
	Long: `Inspect and change reservation settings for every branch, section and
table of a restaurant account.

Bulk commands update all branches concurrently and report exactly which
branches failed. Successful updates are never rolled back.`,
	Version:           version.Full(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Global flags
var (
	baseURL    string
	timeout    time.Duration
	format     string
	logLevel   string
	configPath string
)

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API root URL (overrides settings)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout, e.g. 15s (overrides settings)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "Output format (detailed, compact, json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); logs go to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default: OS config dir)")

	rootCmd.AddCommand(versionCmd)
}

// setup loads .env and starts logging before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	return logging.Initialize(logLevel)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "reservectl %s\n", version.Full())
	},
}
