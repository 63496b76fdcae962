package calendar

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Schedule is the output of calendar location: the master sequence of bar
// opens for the resolved frequency, plus the inclusive index range governed
// by the requested window. Times always extends at least one bar past
// EndIndex so the bar following the last governed step has a known open.
type Schedule struct {
	Times      []time.Time `json:"times"`
	Freq       Freq        `json:"freq"`
	StartIndex int         `json:"start_index"`
	EndIndex   int         `json:"end_index"`
}

// Len returns the number of governed steps.
func (s *Schedule) Len() int {
	return s.EndIndex - s.StartIndex + 1
}

// Locator resolves a frequency and wall-clock window into a Schedule.
// The step calendar treats its output as authoritative.
type Locator interface {
	Locate(ctx context.Context, freq Freq, start, end time.Time) (*Schedule, error)
}

// locateRange finds the closed-interval index range of [start, end] within an
// ordered sequence of bar opens: the first bar opening at or after start
// through the last bar opening at or before end.
func locateRange(times []time.Time, start, end time.Time) (int, int, error) {
	if end.Before(start) {
		return 0, 0, fmt.Errorf("calendar window end %s precedes start %s", end, start)
	}

	startIdx := sort.Search(len(times), func(i int) bool {
		return !times[i].Before(start)
	})
	if startIdx == len(times) {
		return 0, 0, fmt.Errorf("calendar window starts after the master calendar ends")
	}

	endIdx := sort.Search(len(times), func(i int) bool {
		return times[i].After(end)
	}) - 1
	if endIdx < startIdx {
		return 0, 0, fmt.Errorf("calendar window [%s, %s] contains no bars", start, end)
	}

	// The bar after endIdx supplies the last step's close.
	if endIdx+1 >= len(times) {
		return 0, 0, fmt.Errorf("calendar window reaches the end of the master calendar")
	}

	return startIdx, endIdx, nil
}
