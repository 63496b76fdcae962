// Package calendar turns a frequency and a wall-clock window into a
// discretized, bar-aligned timeline and steps a simulation through it.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/simcore/pkg/logger"
)

// ErrCalendarFinished is returned by Step once the cursor has consumed every
// governed step. The only recovery is an explicit Reset.
var ErrCalendarFinished = errors.New("trade calendar is finished, reset it before stepping")

// Manager owns one discretized trading timeline and a monotonic step cursor
// over it. Both strategies and executors read their level's Manager through
// the level infrastructure; exactly one goroutine may step a given instance.
//
// The requested start/end bounds are kept separately from the located index
// range: the bounds are what the caller asked for, the index range is the
// bar-aligned window actually iterated. They differ whenever a bound falls
// inside a bar.
type Manager struct {
	locator Locator
	log     *logger.Logger

	freq      Freq
	startTime time.Time
	endTime   time.Time

	times      []time.Time
	startIndex int
	endIndex   int
	tradeLen   int
	tradeStep  int
}

// NewManager creates a Manager and, when both bounds are concrete, resolves
// its timeline immediately. With a zero bound the Manager starts out
// unusable (zero steps, Finished() == true) and must be Reset with concrete
// bounds before any stepping is attempted.
func NewManager(ctx context.Context, locator Locator, log *logger.Logger, freq Freq, start, end time.Time) (*Manager, error) {
	m := &Manager{
		locator: locator,
		log:     log,
		freq:    freq,
	}

	if start.IsZero() || end.IsZero() {
		m.startTime = start
		m.endTime = end
		return m, nil
	}

	if err := m.Reset(ctx, freq, start, end); err != nil {
		return nil, err
	}
	return m, nil
}

// Reset re-derives the discretized timeline for (freq, start, end) and
// rewinds the step cursor to zero. The previous sequence is replaced
// wholesale, never mutated in place.
func (m *Manager) Reset(ctx context.Context, freq Freq, start, end time.Time) error {
	sched, err := m.locator.Locate(ctx, freq, start, end)
	if err != nil {
		return fmt.Errorf("locate %s calendar [%s, %s]: %w", freq, start, end, err)
	}

	m.freq = sched.Freq
	m.startTime = start
	m.endTime = end
	m.times = sched.Times
	m.startIndex = sched.StartIndex
	m.endIndex = sched.EndIndex
	m.tradeLen = sched.Len()
	m.tradeStep = 0

	m.log.WithFields(map[string]interface{}{
		"freq":      m.freq.String(),
		"start":     start.Format(time.RFC3339),
		"end":       end.Format(time.RFC3339),
		"trade_len": m.tradeLen,
	}).Debug("Trade calendar reset")

	return nil
}

// Finished reports whether every governed step has been consumed. Check it
// before generating decisions or executing a step.
func (m *Manager) Finished() bool {
	return m.tradeStep >= m.tradeLen
}

// Step advances the cursor by exactly one. Stepping a finished calendar is a
// logic error and fails with ErrCalendarFinished.
func (m *Manager) Step() error {
	if m.Finished() {
		return ErrCalendarFinished
	}
	m.tradeStep++
	return nil
}

// StepTime returns the inclusive wall-clock interval of a step. shift looks
// shift bars earlier when positive and later when negative; the effective
// step is step-shift. The right endpoint is the next bar's open minus one
// MinTimeUnit, matching the closed-interval selection used for time-series
// data throughout the system.
func (m *Manager) StepTime(step, shift int) (time.Time, time.Time, error) {
	effective := step - shift
	if effective < 0 || effective >= m.tradeLen {
		return time.Time{}, time.Time{}, fmt.Errorf(
			"step %d with shift %d is outside the trade calendar [0, %d)", step, shift, m.tradeLen)
	}

	pos := m.startIndex + effective
	return m.times[pos], m.times[pos+1].Add(-MinTimeUnit), nil
}

// CurStepTime returns the interval of the current step.
func (m *Manager) CurStepTime() (time.Time, time.Time, error) {
	return m.StepTime(m.tradeStep, 0)
}

// AllTime returns the originally requested bounds, which are zero if never
// supplied.
func (m *Manager) AllTime() (time.Time, time.Time) {
	return m.startTime, m.endTime
}

// Freq returns the resolved frequency.
func (m *Manager) Freq() Freq {
	return m.freq
}

// TradeLen returns the total number of governed steps.
func (m *Manager) TradeLen() int {
	return m.tradeLen
}

// TradeStep returns the number of steps already finished, in [0, TradeLen()].
func (m *Manager) TradeStep() int {
	return m.tradeStep
}

func (m *Manager) String() string {
	return fmt.Sprintf("%s[%d]~%s[%d]: [%d/%d]",
		m.startTime, m.startIndex, m.endTime, m.endIndex, m.tradeStep, m.tradeLen)
}
