package wallet

import (
	"context"

	"stellend/core"
	"stellend/pkg/id"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type transferService struct {
	gateway   core.TokenGateway
	transfers core.ITransferStore
}

// New new transfer service
func New(gateway core.TokenGateway, transfers core.ITransferStore) core.ITransferService {
	return &transferService{
		gateway:   gateway,
		transfers: transfers,
	}
}

func (s *transferService) TransferIn(ctx context.Context, tx *db.DB, userID, asset string, amount decimal.Decimal, memo string) error {
	if err := s.gateway.Pull(ctx, userID, asset, amount, memo); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("gateway pull failed")
		return err
	}

	return nil
}

func (s *transferService) TransferOut(ctx context.Context, tx *db.DB, userID, asset string, amount decimal.Decimal, memo string) error {
	transfer := &core.Transfer{
		TraceID: id.GenTraceID(),
		UserID:  userID,
		Asset:   asset,
		Amount:  amount,
		Memo:    memo,
	}

	return s.transfers.Create(ctx, tx, transfer)
}
