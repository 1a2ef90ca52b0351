package price

import (
	"context"
	"fmt"
	"time"

	"stellend/core"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/store/db"
	"golang.org/x/sync/singleflight"
)

// Cache wraps a price store with a short-lived read cache. Writes go
// straight through and drop the cached entry so readers never see a
// price older than exp after it changed.
func Cache(store core.IPriceStore, exp time.Duration) core.IPriceStore {
	return &cachePriceStore{
		IPriceStore: store,
		cache:       gcache.New(128).LRU().Expiration(exp).Build(),
		sf:          &singleflight.Group{},
	}
}

type cachePriceStore struct {
	core.IPriceStore
	cache gcache.Cache
	sf    *singleflight.Group
}

type cachedPrice struct {
	price *core.Price
	found bool
}

func (s *cachePriceStore) Save(ctx context.Context, tx *db.DB, price *core.Price) error {
	if err := s.IPriceStore.Save(ctx, tx, price); err != nil {
		return err
	}

	s.cache.Remove(s.priceKey(price.Symbol))
	return nil
}

func (s *cachePriceStore) Find(ctx context.Context, symbol string) (*core.Price, bool, error) {
	key := s.priceKey(symbol)

	if v, err := s.cache.Get(key); err == nil {
		if c, ok := v.(cachedPrice); ok {
			return c.price, c.found, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		price, found, err := s.IPriceStore.Find(ctx, symbol)
		if err != nil {
			return nil, err
		}

		c := cachedPrice{price: price, found: found}
		s.cache.Set(key, c)
		return c, nil
	})

	if err != nil {
		return nil, false, err
	}

	c := v.(cachedPrice)
	return c.price, c.found, nil
}

func (s *cachePriceStore) priceKey(symbol string) string {
	return fmt.Sprintf("price:symbol:%s", symbol)
}
