package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Transfer queued outbound transfer. Rows are written inside the same
// database transaction as the ledger mutation that caused them, so a
// failed invocation never leaks a payout.
type Transfer struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	TraceID   string          `sql:"size:36;unique_index:idx_transfers_trace" json:"trace_id"`
	UserID    string          `sql:"size:36" json:"user_id"`
	Asset     string          `sql:"size:20" json:"asset"`
	Amount    decimal.Decimal `sql:"type:decimal(32,0)" json:"amount"`
	Memo      string          `sql:"size:140" json:"memo,omitempty"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// ITransferStore transfer store interface
type ITransferStore interface {
	Create(ctx context.Context, tx *db.DB, transfer *Transfer) error
	Top(ctx context.Context, limit int) ([]*Transfer, error)
	Delete(ctx context.Context, tx *db.DB, ids ...uint64) error
}

// TokenGateway external token bridge. Both capabilities either fully
// succeed or fail; the core never observes a partial transfer.
type TokenGateway interface {
	// Pull draws amount of asset from the user's external wallet
	Pull(ctx context.Context, userID, asset string, amount decimal.Decimal, memo string) error
	// Push pays amount of asset out to the user's external wallet
	Push(ctx context.Context, userID, asset string, amount decimal.Decimal, memo string) error
}

// ITransferService token transfer collaborator.
//
// TransferIn settles synchronously and aborts the invocation on failure.
// TransferOut enqueues a Transfer row in tx; the cashier worker pushes it
// through the gateway after the transaction commits.
type ITransferService interface {
	TransferIn(ctx context.Context, tx *db.DB, userID, asset string, amount decimal.Decimal, memo string) error
	TransferOut(ctx context.Context, tx *db.DB, userID, asset string, amount decimal.Decimal, memo string) error
}
