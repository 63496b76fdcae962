package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/simcore/pkg/redis"
)

const scheduleKeyPrefix = "schedule:"

// CachedLocator caches resolved Schedules in Redis so repeated resets over
// the same window (the common case for nested executors) skip regeneration.
type CachedLocator struct {
	inner Locator
	cache *redis.Cache
}

// NewCachedLocator wraps a Locator with a Redis-backed schedule cache.
func NewCachedLocator(inner Locator, cache *redis.Cache) *CachedLocator {
	return &CachedLocator{inner: inner, cache: cache}
}

// Locate implements Locator.
func (c *CachedLocator) Locate(ctx context.Context, freq Freq, start, end time.Time) (*Schedule, error) {
	key := fmt.Sprintf("%s%s:%d:%d", scheduleKeyPrefix, freq, start.Unix(), end.Unix())

	var sched Schedule
	err := c.cache.GetOrSet(ctx, key, &sched, redis.TTLDaily, func() (interface{}, error) {
		return c.inner.Locate(ctx, freq, start, end)
	})
	if err != nil {
		return nil, err
	}
	return &sched, nil
}

// Invalidate drops every cached schedule. Called after the trading-day table
// is refreshed.
func (c *CachedLocator) Invalidate(ctx context.Context) error {
	return c.cache.DeletePrefix(ctx, scheduleKeyPrefix)
}
