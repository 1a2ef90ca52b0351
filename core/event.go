package core

import (
	"context"

	"github.com/shopspring/decimal"
)

const (
	// EventActionDeposit deposit
	EventActionDeposit = "deposit"
	// EventActionWithdraw withdraw
	EventActionWithdraw = "withdraw"
	// EventActionBorrow borrow
	EventActionBorrow = "borrow"
	// EventActionRepay repay
	EventActionRepay = "repay"
	// EventActionCollateralDeposited coll_dep
	EventActionCollateralDeposited = "coll_dep"
	// EventActionCollateralWithdrawn coll_wth
	EventActionCollateralWithdrawn = "coll_wth"
	// EventActionLiquidate liquidate
	EventActionLiquidate = "liquidate"
	// EventActionSetPrice set_price
	EventActionSetPrice = "set_price"
	// EventActionPriceChaos chaos
	EventActionPriceChaos = "chaos"
	// EventActionAccrue accrue
	EventActionAccrue = "accrue"
)

// Event fire-and-forget notification
type Event struct {
	Action string            `json:"action"`
	UserID string            `json:"user_id,omitempty"`
	Asset  string            `json:"asset,omitempty"`
	Amount decimal.Decimal   `json:"amount,omitempty"`
	Extra  map[string]string `json:"extra,omitempty"`
}

// IEventService event sink, best effort, not part of correctness
type IEventService interface {
	Emit(ctx context.Context, event *Event)
}
