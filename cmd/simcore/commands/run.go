package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/simcore/internal/calendar"
	"github.com/wonny/simcore/internal/decision"
	"github.com/wonny/simcore/internal/executor"
)

// runCmd runs a nested simulation
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a nested step simulation",
	Long: `Walks an outer calendar step by step and delegates each step's window
to an inner calendar at a finer frequency, printing every processed window.

Example:
  go run ./cmd/simcore run --outer day --inner 30min --from 2023-01-02 --to 2023-01-06
  go run ./cmd/simcore run --outer day --from 2023-01-02 --to 2023-01-31 --range-start 5 --range-end 9`,
	RunE: runSimulation,
}

var (
	runOuter      string
	runInner      string
	runFrom       string
	runTo         string
	runRangeStart int
	runRangeEnd   int
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runOuter, "outer", "day", "outer bar frequency")
	runCmd.Flags().StringVar(&runInner, "inner", "", "inner bar frequency (optional)")
	runCmd.Flags().StringVar(&runFrom, "from", "", "start date (YYYY-MM-DD)")
	runCmd.Flags().StringVar(&runTo, "to", "", "end date (YYYY-MM-DD)")
	runCmd.Flags().IntVar(&runRangeStart, "range-start", -1, "restrict to outer steps >= this index")
	runCmd.Flags().IntVar(&runRangeEnd, "range-end", -1, "restrict to outer steps <= this index")

	runCmd.MarkFlagRequired("from")
	runCmd.MarkFlagRequired("to")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	_, log, locator, err := bootstrap()
	if err != nil {
		return err
	}

	outerFreq, err := calendar.ParseFreq(runOuter)
	if err != nil {
		return err
	}

	var inner *executor.NestedExecutor
	if runInner != "" {
		innerFreq, err := calendar.ParseFreq(runInner)
		if err != nil {
			return err
		}
		inner = executor.New(innerFreq, locator, nil, log)
	}

	start, end, err := parseWindow(runFrom, runTo)
	if err != nil {
		return err
	}

	exec := executor.New(outerFreq, locator, inner, log)
	if err := exec.Reset(cmd.Context(), start, end); err != nil {
		return err
	}

	var outer decision.Decision
	if runRangeStart >= 0 && runRangeEnd >= 0 {
		outer = decision.NewRangeLimited(nil, runRangeStart, runRangeEnd)
	}

	windows, err := exec.Run(cmd.Context(), outer)
	if err != nil {
		return err
	}

	fmt.Printf("%d windows processed\n", len(windows))
	for _, w := range windows {
		indent := ""
		if w.Freq != outerFreq {
			indent = "    "
		}
		fmt.Printf("%s[%s %3d] %s ~ %s\n", indent, w.Freq, w.Step,
			w.Open.Format("2006-01-02 15:04:05"), w.Close.Format("2006-01-02 15:04:05"))
	}

	return nil
}
