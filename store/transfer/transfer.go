package transfer

import (
	"context"
	"errors"

	"stellend/core"

	"github.com/fox-one/pkg/store/db"
)

type transferStore struct {
	db *db.DB
}

// New new transfer store
func New(db *db.DB) core.ITransferStore {
	return &transferStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Transfer{})
		if err := tx.AutoMigrate(core.Transfer{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *transferStore) Create(ctx context.Context, tx *db.DB, transfer *core.Transfer) error {
	return tx.Update().Where("trace_id = ?", transfer.TraceID).FirstOrCreate(transfer).Error
}

func (s *transferStore) Top(ctx context.Context, limit int) ([]*core.Transfer, error) {
	if limit <= 0 {
		return nil, errors.New("invalid limit")
	}

	var transfers []*core.Transfer
	if err := s.db.View().Limit(limit).Order("id ASC").Find(&transfers).Error; err != nil {
		return nil, err
	}

	return transfers, nil
}

func (s *transferStore) Delete(ctx context.Context, tx *db.DB, ids ...uint64) error {
	if len(ids) == 0 {
		return nil
	}

	return tx.Update().Where("id in (?)", ids).Delete(core.Transfer{}).Error
}
