package views

import (
	"stellend/core"

	"github.com/shopspring/decimal"
)

// Account account view
type Account struct {
	core.Account
	Debt            decimal.Decimal `json:"debt"`
	CollateralValue decimal.Decimal `json:"collateral_value"`
	MaxBorrow       decimal.Decimal `json:"max_borrow"`
	HealthFactor    decimal.Decimal `json:"health_factor"`
	Liquidatable    bool            `json:"liquidatable"`
}
