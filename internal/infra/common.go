package infra

import (
	"github.com/wonny/simcore/pkg/logger"
)

// CommonInfrastructure holds state shared across every level of an executor
// hierarchy: the trading account and the execution venue. Both are opaque
// references; this registry does not interpret them.
type CommonInfrastructure struct {
	base
}

// NewCommonInfrastructure creates the registry, optionally pre-populated.
func NewCommonInfrastructure(log *logger.Logger, values map[Slot]interface{}) *CommonInfrastructure {
	c := &CommonInfrastructure{
		base: newBase(log, SlotTradeAccount, SlotTradeExchange),
	}
	if values != nil {
		c.ResetInfra(values)
	}
	return c
}

// TradeAccount returns the held account reference, if any.
func (c *CommonInfrastructure) TradeAccount() (interface{}, bool) {
	if !c.Has(SlotTradeAccount) {
		return nil, false
	}
	return c.slots[SlotTradeAccount], true
}

// TradeExchange returns the held exchange reference, if any.
func (c *CommonInfrastructure) TradeExchange() (interface{}, bool) {
	if !c.Has(SlotTradeExchange) {
		return nil, false
	}
	return c.slots[SlotTradeExchange], true
}
