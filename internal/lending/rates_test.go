package lending

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCurve() Curve {
	return Curve{
		BaseRate:           decimal.Zero,
		Slope1:             decimal.NewFromInt(400_000),
		Slope2:             decimal.NewFromInt(7_500_000),
		OptimalUtilization: decimal.NewFromInt(8_000_000),
	}
}

func TestBorrowRate(t *testing.T) {
	c := testCurve()

	cases := []struct {
		name        string
		utilization int64
		want        int64
	}{
		{"zero", 0, 0},
		{"half of optimal", 4_000_000, 200_000},
		{"at the kink", 8_000_000, 400_000},
		{"above the kink", 9_000_000, 4_150_000},
		{"full", 10_000_000, 7_900_000},
	}

	for _, c2 := range cases {
		t.Run(c2.name, func(t *testing.T) {
			got := c.BorrowRate(decimal.NewFromInt(c2.utilization))
			assert.Equal(t, c2.want, got.IntPart())
		})
	}
}

func TestBorrowRateWithBase(t *testing.T) {
	c := testCurve()
	c.BaseRate = decimal.NewFromInt(100_000)

	got := c.BorrowRate(decimal.Zero)
	assert.Equal(t, int64(100_000), got.IntPart())

	got = c.BorrowRate(decimal.NewFromInt(8_000_000))
	assert.Equal(t, int64(500_000), got.IntPart())
}

func TestSupplyRate(t *testing.T) {
	c := testCurve()

	got := c.SupplyRate(decimal.NewFromInt(8_000_000))
	assert.Equal(t, int64(320_000), got.IntPart())

	got = c.SupplyRate(decimal.Zero)
	require.True(t, got.IsZero())
}

func TestUtilizationRate(t *testing.T) {
	u := UtilizationRate(decimal.NewFromInt(1000), decimal.NewFromInt(500))
	assert.Equal(t, int64(5_000_000), u.IntPart())

	// truncates, never rounds up
	u = UtilizationRate(decimal.NewFromInt(3), decimal.NewFromInt(1))
	assert.Equal(t, int64(3_333_333), u.IntPart())

	u = UtilizationRate(decimal.Zero, decimal.Zero)
	require.True(t, u.IsZero())
}
