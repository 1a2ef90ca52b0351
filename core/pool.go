package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Pool singleton lending pool state.
//
// Amounts are integer base units (scale 1). BorrowIndex is an integer
// scaled by 1e9 and starts at 1.0. LtvRatio, LiquidationThreshold and
// LiquidationBonus are fractions scaled by 10000 with
// ltv_ratio < liquidation_threshold < 10000.
type Pool struct {
	ID              uint64          `sql:"PRIMARY_KEY" json:"id"`
	BorrowAsset     string          `sql:"size:20" json:"borrow_asset"`
	CollateralAsset string          `sql:"size:20" json:"collateral_asset"`
	TotalDeposits   decimal.Decimal `sql:"type:decimal(32,0)" json:"total_deposits"`
	TotalBorrows    decimal.Decimal `sql:"type:decimal(32,0)" json:"total_borrows"`
	BorrowIndex     decimal.Decimal `sql:"type:decimal(32,0);default:1000000000" json:"borrow_index"`
	// LastAccrualTime unix seconds of the last committed accrual
	LastAccrualTime      int64     `sql:"default:0" json:"last_accrual_time"`
	LtvRatio             int64     `sql:"default:0" json:"ltv_ratio"`
	LiquidationThreshold int64     `sql:"default:0" json:"liquidation_threshold"`
	LiquidationBonus     int64     `sql:"default:0" json:"liquidation_bonus"`
	Version              int64     `sql:"default:0" json:"version"`
	CreatedAt            time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt            time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Liquidity free liquidity available for withdrawals and borrows
func (p *Pool) Liquidity() decimal.Decimal {
	return p.TotalDeposits.Sub(p.TotalBorrows)
}

// LiquidationResult amounts moved by a liquidation
type LiquidationResult struct {
	Borrower string          `json:"borrower"`
	Repaid   decimal.Decimal `json:"repaid"`
	Seized   decimal.Decimal `json:"seized"`
}

// IPoolStore pool store interface
type IPoolStore interface {
	Create(ctx context.Context, pool *Pool) error
	// Find returns ErrNotInitialized when no pool row exists
	Find(ctx context.Context) (*Pool, error)
	Update(ctx context.Context, tx *db.DB, pool *Pool) error
}

// IPoolService pool ledger interface.
//
// Every mutating operation authorizes the caller, accrues interest up to
// now, validates before mutating and commits all-or-nothing.
type IPoolService interface {
	Init(ctx context.Context, borrowAsset, collateralAsset string, ltvRatio, liquidationThreshold, liquidationBonus int64) error
	Deposit(ctx context.Context, userID string, amount decimal.Decimal) error
	Withdraw(ctx context.Context, userID string, amount decimal.Decimal) error
	DepositCollateral(ctx context.Context, userID string, amount decimal.Decimal) error
	WithdrawCollateral(ctx context.Context, userID string, amount decimal.Decimal) error
	Borrow(ctx context.Context, userID string, amount decimal.Decimal) error
	// Repay returns the repaid amount, capped at the outstanding debt
	Repay(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error)
	Liquidate(ctx context.Context, liquidatorID, borrowerID string) (*LiquidationResult, error)
	// AccrueInterest advances the borrow index to now and commits
	AccrueInterest(ctx context.Context) error
	// CurrentPool returns the pool with accrual previewed at now, without committing
	CurrentPool(ctx context.Context) (*Pool, error)
}
