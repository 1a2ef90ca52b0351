package views

import (
	"stellend/core"

	"github.com/shopspring/decimal"
)

// Pool pool view
type Pool struct {
	core.Pool
	Liquidity   decimal.Decimal `json:"liquidity"`
	Utilization decimal.Decimal `json:"utilization"`
	BorrowRate  decimal.Decimal `json:"borrow_rate"`
	SupplyRate  decimal.Decimal `json:"supply_rate"`
}
