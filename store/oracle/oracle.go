package oracle

import (
	"context"

	"stellend/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type oracleStore struct {
	db *db.DB
}

// New new oracle store
func New(db *db.DB) core.IOracleStore {
	return &oracleStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Oracle{})
		if err := tx.AutoMigrate(core.Oracle{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *oracleStore) Create(ctx context.Context, oracle *core.Oracle) error {
	return s.db.Update().Where("id = ?", oracle.ID).FirstOrCreate(oracle).Error
}

func (s *oracleStore) Find(ctx context.Context) (*core.Oracle, error) {
	var oracle core.Oracle
	err := s.db.View().First(&oracle).Error
	if store.IsErrNotFound(err) {
		return nil, core.ErrNotInitialized
	}

	if err != nil {
		return nil, err
	}

	return &oracle, nil
}

func (s *oracleStore) Update(ctx context.Context, tx *db.DB, oracle *core.Oracle) error {
	version := oracle.Version
	oracle.Version++

	r := tx.Update().Model(core.Oracle{}).Where("id = ? and version = ?", oracle.ID, version).Update(oracle)
	if r.Error != nil {
		return r.Error
	}

	if r.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
