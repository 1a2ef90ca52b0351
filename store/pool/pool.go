package pool

import (
	"context"

	"stellend/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type poolStore struct {
	db *db.DB
}

// New new pool store
func New(db *db.DB) core.IPoolStore {
	return &poolStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Pool{})
		if err := tx.AutoMigrate(core.Pool{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *poolStore) Create(ctx context.Context, pool *core.Pool) error {
	return s.db.Update().Where("id = ?", pool.ID).FirstOrCreate(pool).Error
}

func (s *poolStore) Find(ctx context.Context) (*core.Pool, error) {
	var pool core.Pool
	err := s.db.View().First(&pool).Error
	if store.IsErrNotFound(err) {
		return nil, core.ErrNotInitialized
	}

	if err != nil {
		return nil, err
	}

	return &pool, nil
}

func (s *poolStore) Update(ctx context.Context, tx *db.DB, pool *core.Pool) error {
	version := pool.Version
	pool.Version++

	r := tx.Update().Model(core.Pool{}).Where("id = ? and version = ?", pool.ID, version).Update(pool)
	if r.Error != nil {
		return r.Error
	}

	if r.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
