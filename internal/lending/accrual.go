package lending

import (
	"github.com/shopspring/decimal"

	"stellend/pkg/number"
)

// InterestAccrued returns the simple interest on totalBorrows at the
// given annual rate over elapsed seconds, truncated toward zero.
func InterestAccrued(totalBorrows, rate decimal.Decimal, elapsed int64) decimal.Decimal {
	if elapsed <= 0 || totalBorrows.IsZero() || rate.IsZero() {
		return decimal.Zero
	}

	return number.DivTrunc(
		totalBorrows.Mul(rate).Mul(decimal.NewFromInt(elapsed)),
		SecondsPerYear.Mul(Scale),
	)
}

// AdvanceBorrowIndex compounds the borrow index by the interest accrued
// over elapsed seconds. The growth term truncates before it is added, so
// the index never moves faster than the interest actually charged.
func AdvanceBorrowIndex(index, rate decimal.Decimal, elapsed int64) decimal.Decimal {
	if elapsed <= 0 || rate.IsZero() {
		return index
	}

	growth := number.DivTrunc(
		index.Mul(rate).Mul(decimal.NewFromInt(elapsed)),
		SecondsPerYear.Mul(Scale),
	)

	return index.Add(growth)
}

// RefreshDebt scales a principal recorded at snapshot up to the current
// borrow index. A zero snapshot means the account never borrowed.
func RefreshDebt(principal, snapshot, index decimal.Decimal) decimal.Decimal {
	if principal.IsZero() || snapshot.IsZero() {
		return principal
	}

	return number.DivTrunc(principal.Mul(index), snapshot)
}
