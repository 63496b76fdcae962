package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/simcore/pkg/logger"
)

// fiveDayManager covers 2023-01-02 (Mon) through 2023-01-06 (Fri): 5 steps.
func fiveDayManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(context.Background(), mustSource(t), logger.Nop(),
		FreqDay, day(2023, 1, 2), day(2023, 1, 6))
	require.NoError(t, err)
	return m
}

func TestManagerReset(t *testing.T) {
	m := fiveDayManager(t)

	assert.Equal(t, 5, m.TradeLen())
	assert.Equal(t, 0, m.TradeStep())
	assert.False(t, m.Finished())

	start, end := m.AllTime()
	assert.True(t, start.Equal(day(2023, 1, 2)), "AllTime start is the requested bound")
	assert.True(t, end.Equal(day(2023, 1, 6)), "AllTime end is the requested bound")
}

func TestManagerStepToEnd(t *testing.T) {
	m := fiveDayManager(t)

	for i := 0; i < m.TradeLen(); i++ {
		require.False(t, m.Finished(), "not finished before step %d", i)
		require.NoError(t, m.Step())
	}

	assert.True(t, m.Finished())
	assert.Equal(t, m.TradeLen(), m.TradeStep())

	// One step past the end is a logic error.
	err := m.Step()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCalendarFinished))

	// The current step no longer maps to a bar either.
	_, _, err = m.CurStepTime()
	assert.Error(t, err)
}

func TestManagerResetRecovers(t *testing.T) {
	m := fiveDayManager(t)

	for !m.Finished() {
		require.NoError(t, m.Step())
	}

	require.NoError(t, m.Reset(context.Background(), FreqDay, day(2023, 1, 2), day(2023, 1, 6)))
	assert.Equal(t, 0, m.TradeStep())
	assert.False(t, m.Finished())
	require.NoError(t, m.Step())
}

func TestManagerStepTimeEndpoints(t *testing.T) {
	m := fiveDayManager(t)

	for s := 0; s < m.TradeLen()-1; s++ {
		_, close, err := m.StepTime(s, 0)
		require.NoError(t, err)
		nextOpen, _, err := m.StepTime(s+1, 0)
		require.NoError(t, err)

		assert.True(t, close.Before(nextOpen), "step %d close precedes step %d open", s, s+1)
		assert.True(t, close.Equal(nextOpen.Add(-MinTimeUnit)),
			"step %d close is the next open minus one time unit", s)
	}
}

func TestManagerStepTimeWeekendGap(t *testing.T) {
	m := fiveDayManager(t)

	// Friday's bar closes one time unit before Monday's open.
	open, close, err := m.StepTime(4, 0)
	require.NoError(t, err)
	assert.True(t, open.Equal(day(2023, 1, 6)))
	assert.True(t, close.Equal(day(2023, 1, 9).Add(-MinTimeUnit)))
}

func TestManagerStepTimeShift(t *testing.T) {
	m := fiveDayManager(t)

	// Shift is pure reindexing: (s, shift) == (s-shift, 0).
	for s := 0; s < m.TradeLen(); s++ {
		for shift := -(m.TradeLen() - 1 - s); shift <= s; shift++ {
			o1, c1, err := m.StepTime(s, shift)
			require.NoError(t, err)
			o2, c2, err := m.StepTime(s-shift, 0)
			require.NoError(t, err)
			assert.True(t, o1.Equal(o2), "open mismatch at step %d shift %d", s, shift)
			assert.True(t, c1.Equal(c2), "close mismatch at step %d shift %d", s, shift)
		}
	}

	o1, c1, err := m.StepTime(2, 1)
	require.NoError(t, err)
	o2, c2, err := m.StepTime(1, 0)
	require.NoError(t, err)
	assert.True(t, o1.Equal(o2))
	assert.True(t, c1.Equal(c2))
}

func TestManagerStepTimeOutOfRange(t *testing.T) {
	m := fiveDayManager(t)

	_, _, err := m.StepTime(0, 1)
	assert.Error(t, err, "shift past the left edge")

	_, _, err = m.StepTime(m.TradeLen(), 0)
	assert.Error(t, err, "step past the right edge")

	_, _, err = m.StepTime(0, -m.TradeLen())
	assert.Error(t, err, "negative shift past the right edge")
}

func TestManagerCurStepTimeTracksCursor(t *testing.T) {
	m := fiveDayManager(t)

	require.NoError(t, m.Step())
	require.NoError(t, m.Step())

	o1, c1, err := m.CurStepTime()
	require.NoError(t, err)
	o2, c2, err := m.StepTime(2, 0)
	require.NoError(t, err)
	assert.True(t, o1.Equal(o2))
	assert.True(t, c1.Equal(c2))
}

func TestManagerIntraday(t *testing.T) {
	end := day(2023, 1, 2).AddDate(0, 0, 1).Add(-time.Second)
	m, err := NewManager(context.Background(), mustSource(t), logger.Nop(),
		Freq30Min, day(2023, 1, 2), end)
	require.NoError(t, err)

	require.Equal(t, 13, m.TradeLen())

	open, close, err := m.StepTime(0, 0)
	require.NoError(t, err)
	assert.True(t, open.Equal(time.Date(2023, 1, 2, 9, 0, 0, 0, time.UTC)))
	assert.True(t, close.Equal(time.Date(2023, 1, 2, 9, 29, 59, 0, time.UTC)))
}

func TestManagerUnusableWithoutBounds(t *testing.T) {
	m, err := NewManager(context.Background(), mustSource(t), logger.Nop(),
		FreqDay, time.Time{}, time.Time{})
	require.NoError(t, err)

	// No timeline yet: zero steps, stepping fails until a concrete Reset.
	assert.Equal(t, 0, m.TradeLen())
	assert.True(t, m.Finished())
	assert.Error(t, m.Step())

	require.NoError(t, m.Reset(context.Background(), FreqDay, day(2023, 1, 2), day(2023, 1, 6)))
	assert.Equal(t, 5, m.TradeLen())
	require.NoError(t, m.Step())
}
