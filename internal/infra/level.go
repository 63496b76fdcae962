package infra

import (
	"context"
	"time"

	"github.com/wonny/simcore/internal/calendar"
	"github.com/wonny/simcore/pkg/logger"
)

// LevelInfrastructure is created by an executor and shared with the
// strategies on the same level. It holds that level's trade calendar and,
// once linked, a reference to the next-deeper level's registry.
type LevelInfrastructure struct {
	base

	locator calendar.Locator
}

// NewLevelInfrastructure creates an empty level registry. The locator is
// used when ResetCalendar has to construct a fresh calendar manager.
func NewLevelInfrastructure(locator calendar.Locator, log *logger.Logger) *LevelInfrastructure {
	return &LevelInfrastructure{
		base:    newBase(log, SlotTradeCalendar, SlotSubLevelInfra),
		locator: locator,
	}
}

// ResetCalendar resets the held calendar manager in place, preserving its
// identity so every holder of the reference observes the update, or
// constructs and stores a fresh one when none is held yet.
func (l *LevelInfrastructure) ResetCalendar(ctx context.Context, freq calendar.Freq, start, end time.Time) error {
	if cal, ok := l.TradeCalendar(); ok {
		return cal.Reset(ctx, freq, start, end)
	}

	cal, err := calendar.NewManager(ctx, l.locator, l.log, freq, start, end)
	if err != nil {
		return err
	}
	l.ResetInfra(map[Slot]interface{}{SlotTradeCalendar: cal})
	return nil
}

// SetSubLevel links the next-deeper level's registry. The level chain exists
// only after this call; it is never established implicitly by construction.
func (l *LevelInfrastructure) SetSubLevel(child *LevelInfrastructure) {
	l.ResetInfra(map[Slot]interface{}{SlotSubLevelInfra: child})
}

// TradeCalendar returns the held calendar manager, if any.
func (l *LevelInfrastructure) TradeCalendar() (*calendar.Manager, bool) {
	if !l.Has(SlotTradeCalendar) {
		return nil, false
	}
	cal, ok := l.slots[SlotTradeCalendar].(*calendar.Manager)
	return cal, ok
}

// SubLevel returns the linked deeper-level registry, if any.
func (l *LevelInfrastructure) SubLevel() (*LevelInfrastructure, bool) {
	if !l.Has(SlotSubLevelInfra) {
		return nil, false
	}
	sub, ok := l.slots[SlotSubLevelInfra].(*LevelInfrastructure)
	return sub, ok
}
