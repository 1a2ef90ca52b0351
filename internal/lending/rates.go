package lending

import (
	"github.com/shopspring/decimal"

	"stellend/pkg/number"
)

// Curve is a kinked interest rate curve. All fields are scaled by 1e7.
type Curve struct {
	BaseRate           decimal.Decimal
	Slope1             decimal.Decimal
	Slope2             decimal.Decimal
	OptimalUtilization decimal.Decimal
}

// BorrowRate returns the annual borrow rate at the given utilization,
// scaled by 1e7. Below the kink the rate climbs linearly from the base
// along slope1; above it the excess utilization is renormalized to the
// remaining headroom and slope2 applies.
func (c Curve) BorrowRate(utilization decimal.Decimal) decimal.Decimal {
	if utilization.LessThanOrEqual(c.OptimalUtilization) {
		return c.BaseRate.Add(number.DivTrunc(utilization.Mul(c.Slope1), c.OptimalUtilization))
	}

	excess := number.DivTrunc(
		utilization.Sub(c.OptimalUtilization).Mul(Scale),
		Scale.Sub(c.OptimalUtilization),
	)

	return c.BaseRate.Add(c.Slope1).Add(number.DivTrunc(excess.Mul(c.Slope2), Scale))
}

// SupplyRate is the borrow rate earned pro rata by suppliers:
// borrowRate * utilization / 1e7, truncated.
func (c Curve) SupplyRate(utilization decimal.Decimal) decimal.Decimal {
	return number.DivTrunc(c.BorrowRate(utilization).Mul(utilization), Scale)
}
