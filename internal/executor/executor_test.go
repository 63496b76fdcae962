package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/simcore/internal/calendar"
	"github.com/wonny/simcore/internal/decision"
	"github.com/wonny/simcore/internal/infra"
	"github.com/wonny/simcore/pkg/config"
	"github.com/wonny/simcore/pkg/logger"
)

func testLocator(t *testing.T) calendar.Locator {
	t.Helper()
	src, err := calendar.NewMarketSource(config.CalendarConfig{
		Timezone:     "UTC",
		SessionOpen:  "09:00",
		SessionClose: "15:30",
		SpanStart:    "2022-12-01",
		SpanEnd:      "2023-12-29",
	})
	require.NoError(t, err)
	return src
}

func window(from, to string) (time.Time, time.Time) {
	start, _ := time.Parse("2006-01-02", from)
	end, _ := time.Parse("2006-01-02", to)
	return start, end.AddDate(0, 0, 1).Add(-calendar.MinTimeUnit)
}

func TestSingleLevelRun(t *testing.T) {
	locator := testLocator(t)
	exec := New(calendar.FreqDay, locator, nil, logger.Nop())

	start, end := window("2023-01-02", "2023-01-06")
	require.NoError(t, exec.Reset(context.Background(), start, end))

	windows, err := exec.Run(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, windows, 5)
	for i, w := range windows {
		assert.Equal(t, calendar.FreqDay, w.Freq)
		assert.Equal(t, i, w.Step)
		assert.True(t, w.Close.Before(w.Open.AddDate(0, 0, 4)), "window spans at most the weekend gap")
	}

	// The calendar is consumed; the next run has nothing to do.
	cal, ok := exec.Level().TradeCalendar()
	require.True(t, ok)
	assert.True(t, cal.Finished())
}

func TestNestedRun(t *testing.T) {
	locator := testLocator(t)
	inner := New(calendar.Freq30Min, locator, nil, logger.Nop())
	exec := New(calendar.FreqDay, locator, inner, logger.Nop())

	start, end := window("2023-01-02", "2023-01-03")
	require.NoError(t, exec.Reset(context.Background(), start, end))

	// Reset links the level chain.
	sub, ok := exec.Level().SubLevel()
	require.True(t, ok)
	assert.Same(t, inner.Level(), sub)

	windows, err := exec.Run(context.Background(), nil)
	require.NoError(t, err)

	// 2 outer day windows, each delegating 13 thirty-minute bars.
	require.Len(t, windows, 2+2*13)

	assert.Equal(t, calendar.FreqDay, windows[0].Freq)
	for i := 1; i <= 13; i++ {
		assert.Equal(t, calendar.Freq30Min, windows[i].Freq, "window %d", i)
		assert.Equal(t, i-1, windows[i].Step)
	}
	assert.Equal(t, calendar.FreqDay, windows[14].Freq)

	// Inner bars open inside their outer step's interval. The last bar's
	// close runs to the eve of the next session, so only opens are bounded.
	outer := windows[0]
	for i := 1; i <= 13; i++ {
		assert.False(t, windows[i].Open.Before(outer.Open), "inner open within outer window")
		assert.False(t, windows[i].Open.After(outer.Close), "inner open within outer window")
		assert.True(t, windows[i].Close.After(windows[i].Open), "inner close follows its open")
	}
}

func TestRunHonorsRangeLimit(t *testing.T) {
	locator := testLocator(t)
	exec := New(calendar.FreqDay, locator, nil, logger.Nop())

	start, end := window("2023-01-02", "2023-01-06")
	require.NoError(t, exec.Reset(context.Background(), start, end))

	windows, err := exec.Run(context.Background(), decision.NewRangeLimited(nil, 1, 3))
	require.NoError(t, err)

	require.Len(t, windows, 3)
	assert.Equal(t, 1, windows[0].Step)
	assert.Equal(t, 3, windows[2].Step)

	// Steps outside the limit are still consumed by the walk.
	cal, ok := exec.Level().TradeCalendar()
	require.True(t, ok)
	assert.True(t, cal.Finished())
}

func TestRunWithoutResetFails(t *testing.T) {
	exec := New(calendar.FreqDay, testLocator(t), nil, logger.Nop())

	_, err := exec.Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestResetCommonPropagates(t *testing.T) {
	locator := testLocator(t)
	inner := New(calendar.Freq30Min, locator, nil, logger.Nop())
	exec := New(calendar.FreqDay, locator, inner, logger.Nop())

	shared := infra.NewCommonInfrastructure(logger.Nop(), map[infra.Slot]interface{}{
		infra.SlotTradeAccount:  "acct",
		infra.SlotTradeExchange: "exch",
	})

	exec.ResetCommon(shared)

	for _, level := range []*NestedExecutor{exec, inner} {
		acct, ok := level.Common().TradeAccount()
		require.True(t, ok)
		assert.Equal(t, "acct", acct)

		exch, ok := level.Common().TradeExchange()
		require.True(t, ok)
		assert.Equal(t, "exch", exch)
	}
}
