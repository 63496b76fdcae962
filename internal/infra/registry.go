// Package infra holds the capability-gated shared-state registries an
// executor shares with the strategies on its level. Each registry variant
// declares a closed set of slots it supports; writes outside that set are
// dropped with a warning rather than failing, so slot typos and optional
// feature probing during composition never crash a run.
package infra

import (
	"github.com/wonny/simcore/pkg/logger"
)

// Slot names a storage location in a registry. Only slots in a variant's
// supported set can ever be stored through its own setters.
type Slot string

// All slots known to the system
const (
	SlotTradeAccount  Slot = "trade_account"
	SlotTradeExchange Slot = "trade_exchange"
	SlotTradeCalendar Slot = "trade_calendar"
	SlotSubLevelInfra Slot = "sub_level_infra"
)

// Registry is the only surface through which shared state is read or
// written; direct slot access is never exposed, so the supported-set
// contract is enforced uniformly.
type Registry interface {
	// Supported returns the variant's fixed slot allow-list.
	Supported() []Slot

	// ResetInfra stores each supported (slot, value) pair, replacing any
	// prior value. Unsupported slots are dropped with a warning.
	ResetInfra(values map[Slot]interface{})

	// Get returns the held value for slot, or nil with a warning when the
	// slot holds nothing. Lookup is unrestricted; only writes are gated.
	Get(slot Slot) interface{}

	// Has reports whether slot is both supported and currently held.
	Has(slot Slot) bool

	// Update copies every slot the other registry supports and holds into
	// this one, through the same gated write path.
	Update(other Registry)
}

// base carries the slot store and the shared registry behavior. Variants
// embed it and supply their allow-list at construction.
type base struct {
	supported []Slot
	slots     map[Slot]interface{}
	log       *logger.Logger
}

func newBase(log *logger.Logger, supported ...Slot) base {
	return base{
		supported: supported,
		slots:     make(map[Slot]interface{}),
		log:       log,
	}
}

func (b *base) Supported() []Slot {
	out := make([]Slot, len(b.supported))
	copy(out, b.supported)
	return out
}

func (b *base) supports(slot Slot) bool {
	for _, s := range b.supported {
		if s == slot {
			return true
		}
	}
	return false
}

func (b *base) ResetInfra(values map[Slot]interface{}) {
	for slot, value := range values {
		if !b.supports(slot) {
			b.log.Warnf("slot %q is not supported and was ignored", slot)
			continue
		}
		b.slots[slot] = value
	}
}

func (b *base) Get(slot Slot) interface{} {
	value, ok := b.slots[slot]
	if !ok {
		b.log.Warnf("slot %q holds no value", slot)
		return nil
	}
	return value
}

func (b *base) Has(slot Slot) bool {
	if !b.supports(slot) {
		return false
	}
	_, ok := b.slots[slot]
	return ok
}

func (b *base) Update(other Registry) {
	values := make(map[Slot]interface{})
	for _, slot := range other.Supported() {
		if other.Has(slot) {
			values[slot] = other.Get(slot)
		}
	}
	b.ResetInfra(values)
}
