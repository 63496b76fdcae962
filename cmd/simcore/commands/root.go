package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/simcore/internal/calendar"
	"github.com/wonny/simcore/pkg/config"
	"github.com/wonny/simcore/pkg/logger"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "simcore",
	Short: "simcore - discrete-step backtest clock and shared-state registries",
	Long: `simcore steps a simulation through a bar-aligned trading timeline
and shares state across nested scheduling levels.

Usage:
  go run ./cmd/simcore [command]

Examples:
  go run ./cmd/simcore steps --freq day --from 2023-01-02 --to 2023-01-06
  go run ./cmd/simcore run --outer day --inner 30min --from 2023-01-02 --to 2023-01-06
  go run ./cmd/simcore api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// bootstrap loads config, builds the logger, and constructs the default
// in-memory calendar source shared by every command.
func bootstrap() (*config.Config, *logger.Logger, calendar.Locator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	source, err := calendar.NewMarketSource(cfg.Calendar)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build calendar source: %w", err)
	}

	return cfg, log, source, nil
}

// parseWindow parses --from/--to day flags into a calendar window covering
// the whole "to" day.
func parseWindow(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date: %w", err)
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date: %w", err)
	}
	return from, to.AddDate(0, 0, 1).Add(-calendar.MinTimeUnit), nil
}
