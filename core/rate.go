package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateCurve kinked interest rate curve parameters, all scaled by 1e7.
// 0 < OptimalUtilization < 1e7.
type RateCurve struct {
	ID                 uint64          `sql:"PRIMARY_KEY" json:"id"`
	BaseRate           decimal.Decimal `sql:"type:decimal(20,0)" json:"base_rate"`
	Slope1             decimal.Decimal `sql:"type:decimal(20,0)" json:"slope1"`
	Slope2             decimal.Decimal `sql:"type:decimal(20,0)" json:"slope2"`
	OptimalUtilization decimal.Decimal `sql:"type:decimal(20,0)" json:"optimal_utilization"`
	Version            int64           `sql:"default:0" json:"version"`
	CreatedAt          time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IRateCurveStore rate curve store interface
type IRateCurveStore interface {
	Create(ctx context.Context, curve *RateCurve) error
	// Find returns ErrNotInitialized when no curve exists
	Find(ctx context.Context) (*RateCurve, error)
}

// IRateService interest rate model interface
type IRateService interface {
	Init(ctx context.Context, baseRate, slope1, slope2, optimalUtilization decimal.Decimal) error
	Curve(ctx context.Context) (*RateCurve, error)
	// GetBorrowRate annualized borrow rate for a utilization, both scaled by 1e7
	GetBorrowRate(ctx context.Context, utilization decimal.Decimal) (decimal.Decimal, error)
	// GetSupplyRate borrow rate times utilization; no reserve factor in this version
	GetSupplyRate(ctx context.Context, utilization decimal.Decimal) (decimal.Decimal, error)
}
