package lending

import (
	"github.com/shopspring/decimal"

	"stellend/pkg/number"
)

// Fixed-point scales used throughout the ledger. All amounts, rates and
// indexes are integer-valued decimals; divisions truncate toward zero.
var (
	// Scale is the rate scale: 1e7 == 100%.
	Scale = decimal.New(1, 7)

	// BorrowIndexScale is the borrow index scale: 1e9 == 1.0.
	BorrowIndexScale = decimal.New(1, 9)

	// InitialBorrowIndex is the index a fresh pool starts from.
	InitialBorrowIndex = decimal.New(1, 9)

	// BasisPoints scales LTV ratios and liquidation parameters: 10000 == 100%.
	BasisPoints = decimal.New(1, 4)

	// SecondsPerYear is the accrual year, 365 days.
	SecondsPerYear = decimal.NewFromInt(31_536_000)

	// HealthFactorInfinite is reported for accounts with no outstanding debt.
	HealthFactorInfinite = decimal.NewFromInt(999_000_000)

	// HealthFactorFloor is the scaled 1.0 below which a position is liquidatable.
	HealthFactorFloor = decimal.New(1, 7)
)

// UtilizationRate returns borrows over deposits scaled by 1e7, truncated.
// An empty pool utilizes nothing.
func UtilizationRate(totalDeposits, totalBorrows decimal.Decimal) decimal.Decimal {
	if totalDeposits.IsZero() {
		return decimal.Zero
	}

	return number.DivTrunc(totalBorrows.Mul(Scale), totalDeposits)
}
