// Package decision models what an outer strategy hands down to an inner
// scheduling level for one of its steps, and resolves how much of the inner
// calendar that decision is allowed to span.
package decision

import (
	"github.com/wonny/simcore/internal/calendar"
)

// Direction of an order
type Direction int

// Order directions
const (
	Buy Direction = iota
	Sell
)

// Order is an instruction carried by a decision. This core never executes
// orders; they pass through to whatever execution layer consumes them.
type Order struct {
	Code      string
	Amount    float64
	Direction Direction
}

// Decision is a trade decision produced by an outer strategy.
type Decision interface {
	Orders() []Order
}

// RangeLimiter is the optional capability a decision may implement to bound
// which inner calendar steps it applies to. Absence of the capability means
// the decision spans the inner calendar's full range.
type RangeLimiter interface {
	// RangeLimit returns inclusive step indices into the inner calendar.
	RangeLimit() (startIdx, endIdx int)
}

// Base is a plain decision with no range limit.
type Base struct {
	orders []Order
}

// NewBase creates a decision carrying the given orders.
func NewBase(orders []Order) *Base {
	return &Base{orders: orders}
}

// Orders implements Decision.
func (d *Base) Orders() []Order {
	return d.orders
}

// RangeLimited is a decision restricted to a sub-range of the inner
// calendar's steps.
type RangeLimited struct {
	Base

	startIdx int
	endIdx   int
}

// NewRangeLimited creates a decision bounded to inclusive inner step indices
// [startIdx, endIdx]. The range is taken verbatim; whether it lies inside
// the inner calendar is the caller's concern.
func NewRangeLimited(orders []Order, startIdx, endIdx int) *RangeLimited {
	return &RangeLimited{
		Base:     Base{orders: orders},
		startIdx: startIdx,
		endIdx:   endIdx,
	}
}

// RangeLimit implements RangeLimiter.
func (d *RangeLimited) RangeLimit() (int, int) {
	return d.startIdx, d.endIdx
}

// StartEndIndex reconciles an outer decision's optional range limit with the
// inner calendar's full range. A decision without the capability, or a nil
// decision, yields the full span [0, TradeLen()-1]. Not applicable to
// order-level scheduling.
func StartEndIndex(cal *calendar.Manager, outer Decision) (int, int) {
	if limiter, ok := outer.(RangeLimiter); ok {
		return limiter.RangeLimit()
	}
	return 0, cal.TradeLen() - 1
}
