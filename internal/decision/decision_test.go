package decision

import (
	"context"
	"testing"
	"time"

	"github.com/wonny/simcore/internal/calendar"
	"github.com/wonny/simcore/pkg/config"
	"github.com/wonny/simcore/pkg/logger"
)

func fiveDayCalendar(t *testing.T) *calendar.Manager {
	t.Helper()

	src, err := calendar.NewMarketSource(config.CalendarConfig{
		Timezone:     "UTC",
		SessionOpen:  "09:00",
		SessionClose: "15:30",
		SpanStart:    "2022-12-01",
		SpanEnd:      "2023-12-29",
	})
	if err != nil {
		t.Fatalf("NewMarketSource failed: %v", err)
	}

	m, err := calendar.NewManager(context.Background(), src, logger.Nop(), calendar.FreqDay,
		time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 6, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestStartEndIndexWithoutCapability(t *testing.T) {
	cal := fiveDayCalendar(t)

	start, end := StartEndIndex(cal, NewBase(nil))
	if start != 0 || end != 4 {
		t.Errorf("StartEndIndex = (%d, %d), want (0, 4)", start, end)
	}
}

func TestStartEndIndexNilDecision(t *testing.T) {
	cal := fiveDayCalendar(t)

	start, end := StartEndIndex(cal, nil)
	if start != 0 || end != 4 {
		t.Errorf("StartEndIndex = (%d, %d), want (0, 4)", start, end)
	}
}

func TestStartEndIndexWithCapability(t *testing.T) {
	cal := fiveDayCalendar(t)

	start, end := StartEndIndex(cal, NewRangeLimited(nil, 1, 3))
	if start != 1 || end != 3 {
		t.Errorf("StartEndIndex = (%d, %d), want (1, 3)", start, end)
	}

	// The limiter's values are taken verbatim, even outside the calendar.
	start, end = StartEndIndex(cal, NewRangeLimited(nil, 2, 9))
	if start != 2 || end != 9 {
		t.Errorf("StartEndIndex = (%d, %d), want (2, 9)", start, end)
	}
}

func TestDecisionCarriesOrders(t *testing.T) {
	orders := []Order{
		{Code: "005930", Amount: 100, Direction: Buy},
		{Code: "000660", Amount: 50, Direction: Sell},
	}

	d := NewBase(orders)
	if len(d.Orders()) != 2 {
		t.Fatalf("Orders() len = %d, want 2", len(d.Orders()))
	}
	if d.Orders()[0].Code != "005930" || d.Orders()[0].Direction != Buy {
		t.Errorf("first order mismatch: %+v", d.Orders()[0])
	}

	rl := NewRangeLimited(orders, 0, 1)
	if len(rl.Orders()) != 2 {
		t.Errorf("range-limited decision should carry its orders")
	}
}
