package cashier

import (
	"context"
	"errors"

	"stellend/core"
	"stellend/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const checkpointKey = "cashier_checkpoint"

// Cashier drains the queued transfer table through the token gateway.
// Rows are deleted only after the gateway accepted the payout, so a
// crash between the two replays the push; the gateway dedupes by trace.
type Cashier struct {
	worker.TickWorker
	db        *db.DB
	transfers core.ITransferStore
	gateway   core.TokenGateway
	property  property.Store
	cfg       Config
}

// Config cashier config
type Config struct {
	Batch    int   `json:"batch" valid:"required"`
	Capacity int64 `json:"capacity" valid:"required"`
}

// New new cashier
func New(
	db *db.DB,
	transfers core.ITransferStore,
	gateway core.TokenGateway,
	property property.Store,
	cfg Config,
) *Cashier {
	return &Cashier{
		db:        db,
		transfers: transfers,
		gateway:   gateway,
		property:  property,
		cfg:       cfg,
	}
}

// Run run worker
func (w *Cashier) Run(ctx context.Context) error {
	f := w.sync
	if w.cfg.Capacity > 1 {
		f = w.parallel(w.cfg.Capacity)
	}

	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx, f)
	})
}

func (w *Cashier) onWork(ctx context.Context, f func(context.Context, []*core.Transfer) error) error {
	log := logger.FromContext(ctx).WithField("worker", "cashier")

	transfers, err := w.transfers.Top(ctx, w.cfg.Batch)
	if err != nil {
		log.WithError(err).Errorln("transfers.Top")
		return err
	}

	if len(transfers) == 0 {
		return errors.New("EOF")
	}

	if err := f(ctx, transfers); err != nil {
		return err
	}

	last := transfers[len(transfers)-1]
	if err := w.property.Save(ctx, checkpointKey, last.ID); err != nil {
		log.WithError(err).Errorln("property.Save", checkpointKey)
	}

	return nil
}

func (w *Cashier) sync(ctx context.Context, transfers []*core.Transfer) error {
	for _, transfer := range transfers {
		if err := w.handleTransfer(ctx, transfer); err != nil {
			return err
		}
	}

	return nil
}

func (w *Cashier) parallel(capacity int64) func(ctx context.Context, transfers []*core.Transfer) error {
	sem := semaphore.NewWeighted(capacity)

	return func(ctx context.Context, transfers []*core.Transfer) error {
		g := errgroup.Group{}

		for idx := range transfers {
			transfer := transfers[idx]

			if err := sem.Acquire(ctx, 1); err != nil {
				return g.Wait()
			}

			g.Go(func() error {
				defer sem.Release(1)
				return w.handleTransfer(ctx, transfer)
			})
		}

		return g.Wait()
	}
}

func (w *Cashier) handleTransfer(ctx context.Context, transfer *core.Transfer) error {
	log := logger.FromContext(ctx).WithField("trace", transfer.TraceID)

	if err := w.gateway.Push(ctx, transfer.UserID, transfer.Asset, transfer.Amount, transfer.Memo); err != nil {
		log.WithError(err).Errorln("gateway.Push")
		return err
	}

	return w.db.Tx(func(tx *db.DB) error {
		return w.transfers.Delete(ctx, tx, transfer.ID)
	})
}
