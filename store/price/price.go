package price

import (
	"context"

	"stellend/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type priceStore struct {
	db *db.DB
}

// New new price store
func New(db *db.DB) core.IPriceStore {
	return &priceStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Price{})
		if err := tx.AutoMigrate(core.Price{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *priceStore) Save(ctx context.Context, tx *db.DB, price *core.Price) error {
	var existing core.Price
	err := tx.Update().Where("symbol = ?", price.Symbol).First(&existing).Error
	if gorm.IsRecordNotFoundError(err) {
		price.Version = 1
		return tx.Update().Create(price).Error
	}

	if err != nil {
		return err
	}

	version := existing.Version
	price.ID = existing.ID
	price.Version = version + 1

	r := tx.Update().Model(core.Price{}).Where("symbol = ? and version = ?", price.Symbol, version).Update(price)
	if r.Error != nil {
		return r.Error
	}

	if r.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *priceStore) Find(ctx context.Context, symbol string) (*core.Price, bool, error) {
	var price core.Price
	err := s.db.View().Where("symbol = ?", symbol).First(&price).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	return &price, true, nil
}

func (s *priceStore) All(ctx context.Context) ([]*core.Price, error) {
	var prices []*core.Price
	if err := s.db.View().Order("symbol ASC").Find(&prices).Error; err != nil {
		return nil, err
	}

	return prices, nil
}
