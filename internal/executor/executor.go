// Package executor runs nested discrete-step simulations: an outer level
// walks its trade calendar one step at a time and delegates each step's time
// window to an inner level running at a finer frequency.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/simcore/internal/calendar"
	"github.com/wonny/simcore/internal/decision"
	"github.com/wonny/simcore/internal/infra"
	"github.com/wonny/simcore/pkg/logger"
)

// Window is one processed step: the level's frequency, the step index within
// that level's calendar, and the inclusive wall-clock interval it covered.
type Window struct {
	Freq  calendar.Freq `json:"freq"`
	Step  int           `json:"step"`
	Open  time.Time     `json:"open"`
	Close time.Time     `json:"close"`
}

// NestedExecutor owns one level of the hierarchy: its frequency, its level
// infrastructure, and optionally the next-deeper executor. Levels share
// account and exchange state through a CommonInfrastructure merged down the
// chain with ResetCommon.
type NestedExecutor struct {
	freq   calendar.Freq
	level  *infra.LevelInfrastructure
	common *infra.CommonInfrastructure
	inner  *NestedExecutor
	log    *logger.Logger
}

// New creates an executor for freq. inner may be nil for the innermost level.
func New(freq calendar.Freq, locator calendar.Locator, inner *NestedExecutor, log *logger.Logger) *NestedExecutor {
	return &NestedExecutor{
		freq:   freq,
		level:  infra.NewLevelInfrastructure(locator, log),
		common: infra.NewCommonInfrastructure(log, nil),
		inner:  inner,
		log:    log,
	}
}

// Level exposes this level's registry to strategies on the same level.
func (e *NestedExecutor) Level() *infra.LevelInfrastructure {
	return e.level
}

// Common exposes the cross-level shared state held at this level.
func (e *NestedExecutor) Common() *infra.CommonInfrastructure {
	return e.common
}

// ResetCommon merges shared account/exchange state into this level and every
// level below it. Merging goes through the registry's gated write path, so
// slots a level never declared cannot leak in.
func (e *NestedExecutor) ResetCommon(other infra.Registry) {
	e.common.Update(other)
	if e.inner != nil {
		e.inner.ResetCommon(other)
	}
}

// Reset points this level's calendar at [start, end] and links the level
// chain down to the innermost executor. Inner calendars are reset again per
// outer step, to that step's window.
func (e *NestedExecutor) Reset(ctx context.Context, start, end time.Time) error {
	if err := e.level.ResetCalendar(ctx, e.freq, start, end); err != nil {
		return fmt.Errorf("reset %s level calendar: %w", e.freq, err)
	}

	if e.inner != nil {
		e.level.SetSubLevel(e.inner.Level())
	}
	return nil
}

// Run walks this level's calendar from its current cursor to the end,
// honoring the outer decision's range limit, and returns every window
// processed across this level and all inner levels, outermost first within
// each step.
func (e *NestedExecutor) Run(ctx context.Context, outer decision.Decision) ([]Window, error) {
	cal, ok := e.level.TradeCalendar()
	if !ok {
		return nil, fmt.Errorf("%s executor has no calendar, call Reset first", e.freq)
	}

	startIdx, endIdx := decision.StartEndIndex(cal, outer)

	e.log.WithFields(map[string]interface{}{
		"freq":      e.freq.String(),
		"trade_len": cal.TradeLen(),
		"start_idx": startIdx,
		"end_idx":   endIdx,
	}).Debug("Executor run started")

	var windows []Window
	for !cal.Finished() {
		step := cal.TradeStep()

		if step >= startIdx && step <= endIdx {
			open, close, err := cal.CurStepTime()
			if err != nil {
				return nil, err
			}

			windows = append(windows, Window{
				Freq:  e.freq,
				Step:  step,
				Open:  open,
				Close: close,
			})

			if e.inner != nil {
				if err := e.inner.Reset(ctx, open, close); err != nil {
					return nil, err
				}
				sub, err := e.inner.Run(ctx, nil)
				if err != nil {
					return nil, err
				}
				windows = append(windows, sub...)
			}
		}

		if err := cal.Step(); err != nil {
			return nil, err
		}
	}

	return windows, nil
}
