package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/simcore/internal/calendar"
)

// stepsCmd prints the discretized steps of a calendar window
var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Print the discretized steps of a calendar window",
	Long: `Resolves a frequency and date window against the trading calendar and
prints every step with its inclusive open/close interval.

Example:
  go run ./cmd/simcore steps --freq day --from 2023-01-02 --to 2023-01-06
  go run ./cmd/simcore steps --freq 30min --from 2023-01-02 --to 2023-01-02`,
	RunE: runSteps,
}

var (
	stepsFreq string
	stepsFrom string
	stepsTo   string
)

func init() {
	rootCmd.AddCommand(stepsCmd)

	stepsCmd.Flags().StringVar(&stepsFreq, "freq", "day", "bar frequency (day, 30min, 5min, 1min)")
	stepsCmd.Flags().StringVar(&stepsFrom, "from", "", "start date (YYYY-MM-DD)")
	stepsCmd.Flags().StringVar(&stepsTo, "to", "", "end date (YYYY-MM-DD)")

	stepsCmd.MarkFlagRequired("from")
	stepsCmd.MarkFlagRequired("to")
}

func runSteps(cmd *cobra.Command, args []string) error {
	_, log, locator, err := bootstrap()
	if err != nil {
		return err
	}

	freq, err := calendar.ParseFreq(stepsFreq)
	if err != nil {
		return err
	}

	start, end, err := parseWindow(stepsFrom, stepsTo)
	if err != nil {
		return err
	}

	cal, err := calendar.NewManager(cmd.Context(), locator, log, freq, start, end)
	if err != nil {
		return err
	}

	fmt.Printf("%s calendar, %d steps\n", freq, cal.TradeLen())
	for i := 0; i < cal.TradeLen(); i++ {
		open, close, err := cal.StepTime(i, 0)
		if err != nil {
			return err
		}
		fmt.Printf("  [%3d] %s ~ %s\n", i, open.Format("2006-01-02 15:04:05"), close.Format("2006-01-02 15:04:05"))
	}

	return nil
}
