package number

import (
	"github.com/shopspring/decimal"
)

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// DivTrunc exact integer division truncated toward zero.
// QuoRem keeps the arithmetic exact regardless of magnitude, unlike Div
// which rounds at DivisionPrecision.
func DivTrunc(a, b decimal.Decimal) decimal.Decimal {
	q, _ := a.QuoRem(b, 0)
	return q
}

// IsIntegral reports whether d has no fractional part
func IsIntegral(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(0))
}

func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

func Ceil(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Ceil().Shift(-precision)
}
