package account

import (
	"context"

	"stellend/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type accountStore struct {
	db *db.DB
}

// New new account store
func New(db *db.DB) core.IAccountStore {
	return &accountStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Account{})
		if err := tx.AutoMigrate(core.Account{}).Error; err != nil {
			return err
		}

		if err := tx.AddIndex("idx_accounts_borrow_balance", "borrow_balance").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *accountStore) Find(ctx context.Context, userID string) (*core.Account, error) {
	var account core.Account
	err := s.db.View().Where("user_id = ?", userID).First(&account).Error
	if store.IsErrNotFound(err) {
		return &core.Account{UserID: userID}, nil
	}

	if err != nil {
		return nil, err
	}

	return &account, nil
}

func (s *accountStore) Save(ctx context.Context, tx *db.DB, account *core.Account) error {
	if account.IsZero() {
		// drained accounts are pruned rather than kept as zero rows
		if account.Version == 0 {
			return nil
		}
		return tx.Update().Where("user_id = ?", account.UserID).Delete(core.Account{}).Error
	}

	if account.Version == 0 {
		account.Version = 1
		return tx.Update().Create(account).Error
	}

	version := account.Version
	account.Version++

	r := tx.Update().Model(core.Account{}).Where("user_id = ? and version = ?", account.UserID, version).Update(account)
	if r.Error != nil {
		return r.Error
	}

	if r.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *accountStore) ListBorrowers(ctx context.Context) ([]*core.Account, error) {
	var accounts []*core.Account
	if err := s.db.View().Where("borrow_balance > 0").Find(&accounts).Error; err != nil {
		return nil, err
	}

	return accounts, nil
}
