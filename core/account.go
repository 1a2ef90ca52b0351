package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Account per-user balances, created lazily on first interaction.
//
// All balances are integer base units and never negative.
// BorrowIndexSnapshot records the pool borrow index (scale 1e9) at the
// last borrow-affecting operation; it is zero while the account has no
// debt.
type Account struct {
	UserID              string          `sql:"size:36;PRIMARY_KEY" json:"user_id"`
	DepositBalance      decimal.Decimal `sql:"type:decimal(32,0)" json:"deposit_balance"`
	BorrowBalance       decimal.Decimal `sql:"type:decimal(32,0)" json:"borrow_balance"`
	CollateralBalance   decimal.Decimal `sql:"type:decimal(32,0)" json:"collateral_balance"`
	BorrowIndexSnapshot decimal.Decimal `sql:"type:decimal(32,0)" json:"borrow_index_snapshot"`
	Version             int64           `sql:"default:0" json:"version"`
	CreatedAt           time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IsZero all balances returned to zero; the record can be pruned
func (a *Account) IsZero() bool {
	return a.DepositBalance.Sign() == 0 &&
		a.BorrowBalance.Sign() == 0 &&
		a.CollateralBalance.Sign() == 0
}

// IAccountStore account store interface
type IAccountStore interface {
	// Find returns a zero-valued record for absent users
	Find(ctx context.Context, userID string) (*Account, error)
	// Save upserts the record and prunes it when all balances are zero
	Save(ctx context.Context, tx *db.DB, account *Account) error
	ListBorrowers(ctx context.Context) ([]*Account, error)
}

// IAccountService risk engine: pure computation over balances, oracle
// prices and the pool risk parameters.
type IAccountService interface {
	// CurrentDebt borrow balance with pool interest applied via the index
	CurrentDebt(pool *Pool, account *Account) decimal.Decimal
	// CollateralValue usd value of the collateral, scale 1e7
	CollateralValue(ctx context.Context, pool *Pool, account *Account) (decimal.Decimal, error)
	// MaxBorrow borrowing capacity in borrow-asset units
	MaxBorrow(ctx context.Context, pool *Pool, account *Account) (decimal.Decimal, error)
	// HealthFactor margin of safety, scale 1e7; sentinel value when debt is zero
	HealthFactor(ctx context.Context, pool *Pool, account *Account) (decimal.Decimal, error)
	Liquidatable(ctx context.Context, pool *Pool, account *Account) (bool, error)
}
