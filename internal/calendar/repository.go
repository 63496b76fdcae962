package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/simcore/pkg/config"
)

// SessionRepository reads and maintains the trading-day table. Holidays are
// represented by absence: a date present in data.trading_days is a session.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// TradingDays retrieves trading days within [from, to], ascending.
func (r *SessionRepository) TradingDays(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	query := `
		SELECT trade_date
		FROM data.trading_days
		WHERE trade_date BETWEEN $1 AND $2
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// UpsertDays inserts trading days, ignoring ones already present.
func (r *SessionRepository) UpsertDays(ctx context.Context, days []time.Time) error {
	query := `
		INSERT INTO data.trading_days (trade_date)
		VALUES ($1)
		ON CONFLICT (trade_date) DO NOTHING
	`

	for _, d := range days {
		if _, err := r.pool.Exec(ctx, query, d); err != nil {
			return fmt.Errorf("upsert trading day %s: %w", d.Format("2006-01-02"), err)
		}
	}
	return nil
}

// DBSource is a Locator whose trading days come from the sessions table
// instead of the weekday heuristic. The day list is loaded once per Locate;
// wrap it in a CachedLocator to avoid repeated loads.
type DBSource struct {
	repo *SessionRepository
	cfg  config.CalendarConfig
}

// NewDBSource creates a database-backed calendar source.
func NewDBSource(repo *SessionRepository, cfg config.CalendarConfig) *DBSource {
	return &DBSource{repo: repo, cfg: cfg}
}

// Locate implements Locator.
func (s *DBSource) Locate(ctx context.Context, freq Freq, start, end time.Time) (*Schedule, error) {
	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load calendar timezone: %w", err)
	}

	spanStart, err := time.ParseInLocation("2006-01-02", s.cfg.SpanStart, loc)
	if err != nil {
		return nil, fmt.Errorf("parse calendar span start: %w", err)
	}
	spanEnd, err := time.ParseInLocation("2006-01-02", s.cfg.SpanEnd, loc)
	if err != nil {
		return nil, fmt.Errorf("parse calendar span end: %w", err)
	}

	days, err := s.repo.TradingDays(ctx, spanStart, spanEnd)
	if err != nil {
		return nil, fmt.Errorf("load trading days: %w", err)
	}

	src, err := NewMarketSourceFromDays(days, s.cfg)
	if err != nil {
		return nil, err
	}
	return src.Locate(ctx, freq, start, end)
}
