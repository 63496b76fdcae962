package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/simcore/internal/calendar"
	"github.com/wonny/simcore/pkg/config"
	"github.com/wonny/simcore/pkg/logger"
)

// CalendarRefreshJob extends the trading-day table through the configured
// span and drops cached schedules so the next Locate sees fresh days.
type CalendarRefreshJob struct {
	repo   *calendar.SessionRepository
	cached *calendar.CachedLocator
	cfg    config.CalendarConfig
	logger *logger.Logger
}

// NewCalendarRefreshJob creates a new calendar refresh job
func NewCalendarRefreshJob(repo *calendar.SessionRepository, cached *calendar.CachedLocator, cfg config.CalendarConfig, log *logger.Logger) *CalendarRefreshJob {
	return &CalendarRefreshJob{
		repo:   repo,
		cached: cached,
		cfg:    cfg,
		logger: log,
	}
}

// Name returns the job name
func (j *CalendarRefreshJob) Name() string {
	return "calendar_refresh"
}

// Schedule returns the cron schedule (daily at 00:10)
func (j *CalendarRefreshJob) Schedule() string {
	return "0 10 0 * * *"
}

// Run executes the calendar refresh
func (j *CalendarRefreshJob) Run(ctx context.Context) error {
	loc, err := time.LoadLocation(j.cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load calendar timezone: %w", err)
	}

	spanStart, err := time.ParseInLocation("2006-01-02", j.cfg.SpanStart, loc)
	if err != nil {
		return fmt.Errorf("parse calendar span start: %w", err)
	}
	spanEnd, err := time.ParseInLocation("2006-01-02", j.cfg.SpanEnd, loc)
	if err != nil {
		return fmt.Errorf("parse calendar span end: %w", err)
	}

	days := make([]time.Time, 0, 260)
	for d := spanStart; !d.After(spanEnd); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		days = append(days, d)
	}

	if err := j.repo.UpsertDays(ctx, days); err != nil {
		return fmt.Errorf("upsert trading days: %w", err)
	}

	if j.cached != nil {
		if err := j.cached.Invalidate(ctx); err != nil {
			return fmt.Errorf("invalidate schedule cache: %w", err)
		}
	}

	j.logger.WithField("days", len(days)).Info("Trading days refreshed")
	return nil
}
