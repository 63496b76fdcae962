package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Freq is a trading-bar frequency token: "day" or "<N>min" (e.g. "30min").
type Freq string

// Supported frequency tokens
const (
	FreqDay   Freq = "day"
	Freq1Min  Freq = "1min"
	Freq5Min  Freq = "5min"
	Freq30Min Freq = "30min"
)

// MinTimeUnit is subtracted from a bar's exclusive right boundary to turn it
// into the inclusive close used by range selection. It must stay below the
// finest supported frequency (1min).
const MinTimeUnit = time.Second

// ParseFreq validates a frequency token.
func ParseFreq(s string) (Freq, error) {
	f := Freq(strings.ToLower(strings.TrimSpace(s)))
	if _, err := f.Bar(); err != nil {
		return "", err
	}
	return f, nil
}

// IsDaily reports whether the frequency is the daily calendar.
func (f Freq) IsDaily() bool {
	return f == FreqDay
}

// Bar returns the bar duration for intraday frequencies, or 24h for "day".
func (f Freq) Bar() (time.Duration, error) {
	if f.IsDaily() {
		return 24 * time.Hour, nil
	}

	s := string(f)
	if !strings.HasSuffix(s, "min") {
		return 0, fmt.Errorf("unsupported frequency %q", s)
	}

	n, err := strconv.Atoi(strings.TrimSuffix(s, "min"))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("unsupported frequency %q", s)
	}

	return time.Duration(n) * time.Minute, nil
}

func (f Freq) String() string {
	return string(f)
}
