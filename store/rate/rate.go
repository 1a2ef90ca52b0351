package rate

import (
	"context"

	"stellend/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type rateCurveStore struct {
	db *db.DB
}

// New new rate curve store
func New(db *db.DB) core.IRateCurveStore {
	return &rateCurveStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.RateCurve{})
		if err := tx.AutoMigrate(core.RateCurve{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *rateCurveStore) Create(ctx context.Context, curve *core.RateCurve) error {
	return s.db.Update().Where("id = ?", curve.ID).FirstOrCreate(curve).Error
}

func (s *rateCurveStore) Find(ctx context.Context) (*core.RateCurve, error) {
	var curve core.RateCurve
	err := s.db.View().First(&curve).Error
	if store.IsErrNotFound(err) {
		return nil, core.ErrNotInitialized
	}

	if err != nil {
		return nil, err
	}

	return &curve, nil
}
