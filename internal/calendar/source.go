package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/simcore/pkg/config"
)

// MarketSource generates discretized bar sequences for a single market from
// its session hours and trading days. The daily sequence holds one bar per
// trading day (opening at midnight, as daily data is date-indexed); intraday
// sequences tile [session open, session close) with fixed-size bars.
type MarketSource struct {
	loc        *time.Location
	openClock  time.Duration // offset of session open from midnight
	closeClock time.Duration
	days       []time.Time // trading-day midnights in loc, ascending

	mu   sync.RWMutex
	seqs map[Freq][]time.Time
}

// NewMarketSource builds a source whose trading days are the weekdays of the
// configured span.
func NewMarketSource(cfg config.CalendarConfig) (*MarketSource, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load calendar timezone: %w", err)
	}

	spanStart, err := time.ParseInLocation("2006-01-02", cfg.SpanStart, loc)
	if err != nil {
		return nil, fmt.Errorf("parse calendar span start: %w", err)
	}
	spanEnd, err := time.ParseInLocation("2006-01-02", cfg.SpanEnd, loc)
	if err != nil {
		return nil, fmt.Errorf("parse calendar span end: %w", err)
	}
	if spanEnd.Before(spanStart) {
		return nil, fmt.Errorf("calendar span end %s precedes start %s", cfg.SpanEnd, cfg.SpanStart)
	}

	days := make([]time.Time, 0, 260)
	for d := spanStart; !d.After(spanEnd); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		days = append(days, d)
	}

	return NewMarketSourceFromDays(days, cfg)
}

// NewMarketSourceFromDays builds a source over an explicit ordered list of
// trading days (e.g. loaded from the sessions table, holidays removed).
// Days are normalized to midnight in the configured timezone.
func NewMarketSourceFromDays(days []time.Time, cfg config.CalendarConfig) (*MarketSource, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load calendar timezone: %w", err)
	}

	open, err := clockOffset(cfg.SessionOpen)
	if err != nil {
		return nil, fmt.Errorf("parse session open: %w", err)
	}
	closeAt, err := clockOffset(cfg.SessionClose)
	if err != nil {
		return nil, fmt.Errorf("parse session close: %w", err)
	}
	if closeAt <= open {
		return nil, fmt.Errorf("session close %s is not after open %s", cfg.SessionClose, cfg.SessionOpen)
	}

	if len(days) == 0 {
		return nil, fmt.Errorf("calendar source requires at least one trading day")
	}

	normalized := make([]time.Time, len(days))
	for i, d := range days {
		d = d.In(loc)
		normalized[i] = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	}

	return &MarketSource{
		loc:        loc,
		openClock:  open,
		closeClock: closeAt,
		days:       normalized,
		seqs:       make(map[Freq][]time.Time),
	}, nil
}

// Locate implements Locator.
func (s *MarketSource) Locate(_ context.Context, freq Freq, start, end time.Time) (*Schedule, error) {
	times, err := s.sequence(freq)
	if err != nil {
		return nil, err
	}

	startIdx, endIdx, err := locateRange(times, start, end)
	if err != nil {
		return nil, err
	}

	return &Schedule{
		Times:      times,
		Freq:       freq,
		StartIndex: startIdx,
		EndIndex:   endIdx,
	}, nil
}

// sequence returns the memoized master bar sequence for freq.
func (s *MarketSource) sequence(freq Freq) ([]time.Time, error) {
	s.mu.RLock()
	times, ok := s.seqs[freq]
	s.mu.RUnlock()
	if ok {
		return times, nil
	}

	bar, err := freq.Bar()
	if err != nil {
		return nil, err
	}

	if freq.IsDaily() {
		times = s.days
	} else {
		perDay := int(s.sessionLen() / bar)
		times = make([]time.Time, 0, perDay*len(s.days))
		for _, day := range s.days {
			open := day.Add(s.openClock)
			for t := open; day.Add(s.closeClock).Sub(t) >= bar; t = t.Add(bar) {
				times = append(times, t)
			}
		}
		if len(times) == 0 {
			return nil, fmt.Errorf("session is shorter than one %s bar", freq)
		}
	}

	s.mu.Lock()
	s.seqs[freq] = times
	s.mu.Unlock()

	return times, nil
}

func (s *MarketSource) sessionLen() time.Duration {
	return s.closeClock - s.openClock
}

// clockOffset turns "HH:MM" into an offset from midnight.
func clockOffset(v string) (time.Duration, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
