package lending

import (
	"github.com/shopspring/decimal"

	"stellend/pkg/number"
)

// AssetToUsd converts an asset amount to its scaled USD value. Prices
// carry the 1e7 scale, so the product keeps it.
func AssetToUsd(amount, price decimal.Decimal) decimal.Decimal {
	return number.DivTrunc(amount.Mul(price), Scale)
}

// UsdToAsset converts a scaled USD value back into asset units.
func UsdToAsset(value, price decimal.Decimal) decimal.Decimal {
	if price.IsZero() {
		return decimal.Zero
	}

	return number.DivTrunc(value.Mul(Scale), price)
}

// MaxBorrowUsd caps new debt at the LTV share of collateral value.
// ltvRatio is in basis points.
func MaxBorrowUsd(collateralValue, ltvRatio decimal.Decimal) decimal.Decimal {
	return number.DivTrunc(collateralValue.Mul(ltvRatio), BasisPoints)
}

// HealthFactor returns collateral weighted by the liquidation threshold
// over debt, scaled by 1e7. Debt-free accounts get the infinite sentinel.
// liquidationThreshold is in basis points.
func HealthFactor(collateralValue, borrowValue, liquidationThreshold decimal.Decimal) decimal.Decimal {
	if borrowValue.IsZero() {
		return HealthFactorInfinite
	}

	return number.DivTrunc(
		collateralValue.Mul(liquidationThreshold).Mul(Scale),
		borrowValue.Mul(BasisPoints),
	)
}

// Liquidatable reports whether the health factor has fallen strictly
// below 1.0.
func Liquidatable(healthFactor decimal.Decimal) bool {
	return healthFactor.LessThan(HealthFactorFloor)
}

// SeizeValueUsd is the repaid value grossed up by the liquidation bonus,
// in basis points.
func SeizeValueUsd(repaidValue, bonus decimal.Decimal) decimal.Decimal {
	return number.DivTrunc(repaidValue.Mul(BasisPoints.Add(bonus)), BasisPoints)
}
