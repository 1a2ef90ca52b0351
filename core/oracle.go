package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// Oracle singleton oracle settings. Admin is the only principal allowed
// to publish prices; transfer is a plain overwrite, no handshake.
type Oracle struct {
	ID    uint64 `sql:"PRIMARY_KEY" json:"id"`
	Admin string `sql:"size:36" json:"admin"`
	// StalenessThreshold seconds after which a price is unsafe for solvency decisions
	StalenessThreshold int64     `sql:"default:3600" json:"staleness_threshold"`
	Version            int64     `sql:"default:0" json:"version"`
	CreatedAt          time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Price usd price entry per asset symbol, scaled by 1e7.
// Absence of a row means unpriced, which is distinct from a zero price.
type Price struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	Symbol    string          `sql:"size:20;unique_index:idx_prices_symbol" json:"symbol"`
	Price     decimal.Decimal `sql:"type:decimal(20,0)" json:"price"`
	Content   types.JSONText  `sql:"type:varchar(1024)" json:"content,omitempty"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// PriceTicker price pulled from an off-chain feed
type PriceTicker struct {
	Provider string          `json:"provider,omitempty"`
	Symbol   string          `json:"symbol"`
	Price    decimal.Decimal `json:"price"`
}

// IOracleStore oracle settings store interface
type IOracleStore interface {
	Create(ctx context.Context, oracle *Oracle) error
	// Find returns ErrNotInitialized when the oracle is not set up
	Find(ctx context.Context) (*Oracle, error)
	Update(ctx context.Context, tx *db.DB, oracle *Oracle) error
}

// IPriceStore price store interface
type IPriceStore interface {
	// Save upserts the entry keyed by symbol
	Save(ctx context.Context, tx *db.DB, price *Price) error
	// Find reports found=false for unpriced assets
	Find(ctx context.Context, symbol string) (*Price, bool, error)
	All(ctx context.Context) ([]*Price, error)
}

// IOracleService price oracle interface
type IOracleService interface {
	// Init sets up the oracle admin; stableAsset, when non empty, is seeded at $1.00
	Init(ctx context.Context, admin, stableAsset string) error
	SetPrice(ctx context.Context, asset string, price decimal.Decimal) error
	// SetPriceChaos stress-test path: stores price/2, truncated
	SetPriceChaos(ctx context.Context, asset string, price decimal.Decimal) error
	// GetPrice returns 0 for unpriced assets, callers must treat 0 as unpriced
	GetPrice(ctx context.Context, asset string) (decimal.Decimal, error)
	// GetPriceSafe fails with ErrPriceNotSet or ErrStalePrice
	GetPriceSafe(ctx context.Context, asset string) (decimal.Decimal, error)
	GetLastUpdate(ctx context.Context, asset string) (time.Time, error)
	// IsStale reports unpriced assets as stale
	IsStale(ctx context.Context, asset string) (bool, error)
	// AssetToUsd amount times price over 1e7, truncated
	AssetToUsd(ctx context.Context, asset string, amount decimal.Decimal) (decimal.Decimal, error)
	// UsdToAsset usd times 1e7 over price, truncated; ErrPriceNotSet on zero price
	UsdToAsset(ctx context.Context, asset string, usd decimal.Decimal) (decimal.Decimal, error)
	Admin(ctx context.Context) (string, error)
	SetAdmin(ctx context.Context, newAdmin string) error
	SetStalenessThreshold(ctx context.Context, seconds int64) error
}
