package oracle

import (
	"context"
	"encoding/json"
	"time"

	"stellend/core"
	"stellend/internal/lending"
	"stellend/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type oracleService struct {
	db      *db.DB
	oracles core.IOracleStore
	prices  core.IPriceStore
	events  core.IEventService
	clock   core.Clock
}

// New new oracle service
func New(
	db *db.DB,
	oracles core.IOracleStore,
	prices core.IPriceStore,
	events core.IEventService,
	clock core.Clock,
) core.IOracleService {
	return &oracleService{
		db:      db,
		oracles: oracles,
		prices:  prices,
		events:  events,
		clock:   clock,
	}
}

// provenance is stored next to the price so operators can audit how an
// entry was produced.
type provenance struct {
	Source    string          `json:"source"`
	Submitted decimal.Decimal `json:"submitted"`
	Time      time.Time       `json:"time"`
}

func (s *oracleService) Init(ctx context.Context, admin, stableAsset string) error {
	if admin == "" {
		return core.ErrInvalidInput
	}

	if _, err := s.oracles.Find(ctx); err == nil {
		return core.ErrAlreadyInitialized
	} else if err != core.ErrNotInitialized {
		return err
	}

	oracle := &core.Oracle{
		ID:                 1,
		Admin:              admin,
		StalenessThreshold: 3600,
	}

	if err := s.oracles.Create(ctx, oracle); err != nil {
		return err
	}

	if stableAsset == "" {
		return nil
	}

	// the stable asset anchors usd conversions at $1.00
	return s.savePrice(ctx, stableAsset, lending.Scale, "init", lending.Scale)
}

func (s *oracleService) SetPrice(ctx context.Context, asset string, price decimal.Decimal) error {
	oracle, err := s.requireAdmin(ctx)
	if err != nil {
		return err
	}

	if asset == "" || price.Sign() <= 0 || !number.IsIntegral(price) {
		return core.ErrInvalidInput
	}

	if err := s.savePrice(ctx, asset, price, "admin:"+oracle.Admin, price); err != nil {
		return err
	}

	s.events.Emit(ctx, &core.Event{
		Action: core.EventActionSetPrice,
		Asset:  asset,
		Amount: price,
	})

	return nil
}

func (s *oracleService) SetPriceChaos(ctx context.Context, asset string, price decimal.Decimal) error {
	oracle, err := s.requireAdmin(ctx)
	if err != nil {
		return err
	}

	if asset == "" || price.Sign() <= 0 || !number.IsIntegral(price) {
		return core.ErrInvalidInput
	}

	// the chaos path halves the submitted price to stress liquidations
	halved := number.DivTrunc(price, decimal.NewFromInt(2))

	if err := s.savePrice(ctx, asset, halved, "chaos:"+oracle.Admin, price); err != nil {
		return err
	}

	s.events.Emit(ctx, &core.Event{
		Action: core.EventActionPriceChaos,
		Asset:  asset,
		Amount: halved,
	})

	return nil
}

func (s *oracleService) GetPrice(ctx context.Context, asset string) (decimal.Decimal, error) {
	price, found, err := s.prices.Find(ctx, asset)
	if err != nil {
		return decimal.Zero, err
	}

	if !found {
		return decimal.Zero, nil
	}

	return price.Price, nil
}

func (s *oracleService) GetPriceSafe(ctx context.Context, asset string) (decimal.Decimal, error) {
	oracle, err := s.oracles.Find(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	price, found, err := s.prices.Find(ctx, asset)
	if err != nil {
		return decimal.Zero, err
	}

	if !found || price.Price.Sign() <= 0 {
		return decimal.Zero, core.ErrPriceNotSet
	}

	if s.stale(oracle, price) {
		return decimal.Zero, core.ErrStalePrice
	}

	return price.Price, nil
}

func (s *oracleService) GetLastUpdate(ctx context.Context, asset string) (time.Time, error) {
	price, found, err := s.prices.Find(ctx, asset)
	if err != nil {
		return time.Time{}, err
	}

	if !found {
		return time.Time{}, core.ErrPriceNotSet
	}

	return price.UpdatedAt, nil
}

func (s *oracleService) IsStale(ctx context.Context, asset string) (bool, error) {
	oracle, err := s.oracles.Find(ctx)
	if err != nil {
		return false, err
	}

	price, found, err := s.prices.Find(ctx, asset)
	if err != nil {
		return false, err
	}

	// an asset that never got a price cannot be trusted either
	if !found {
		return true, nil
	}

	return s.stale(oracle, price), nil
}

func (s *oracleService) AssetToUsd(ctx context.Context, asset string, amount decimal.Decimal) (decimal.Decimal, error) {
	price, err := s.GetPriceSafe(ctx, asset)
	if err != nil {
		return decimal.Zero, err
	}

	return lending.AssetToUsd(amount, price), nil
}

func (s *oracleService) UsdToAsset(ctx context.Context, asset string, usd decimal.Decimal) (decimal.Decimal, error) {
	price, err := s.GetPriceSafe(ctx, asset)
	if err != nil {
		return decimal.Zero, err
	}

	return lending.UsdToAsset(usd, price), nil
}

func (s *oracleService) Admin(ctx context.Context) (string, error) {
	oracle, err := s.oracles.Find(ctx)
	if err != nil {
		return "", err
	}

	return oracle.Admin, nil
}

func (s *oracleService) SetAdmin(ctx context.Context, newAdmin string) error {
	oracle, err := s.requireAdmin(ctx)
	if err != nil {
		return err
	}

	if newAdmin == "" {
		return core.ErrInvalidInput
	}

	logger.FromContext(ctx).WithField("admin", newAdmin).Info("oracle admin transferred")

	oracle.Admin = newAdmin
	return s.runTx(func(tx *db.DB) error {
		return s.oracles.Update(ctx, tx, oracle)
	})
}

func (s *oracleService) SetStalenessThreshold(ctx context.Context, seconds int64) error {
	oracle, err := s.requireAdmin(ctx)
	if err != nil {
		return err
	}

	if seconds <= 0 {
		return core.ErrInvalidInput
	}

	oracle.StalenessThreshold = seconds
	return s.runTx(func(tx *db.DB) error {
		return s.oracles.Update(ctx, tx, oracle)
	})
}

// stale reports whether the entry is older than the threshold. An entry
// aged exactly at the threshold is still fresh.
func (s *oracleService) stale(oracle *core.Oracle, price *core.Price) bool {
	age := s.clock.Now().Unix() - price.UpdatedAt.Unix()
	return age > oracle.StalenessThreshold
}

func (s *oracleService) requireAdmin(ctx context.Context) (*core.Oracle, error) {
	oracle, err := s.oracles.Find(ctx)
	if err != nil {
		return nil, err
	}

	if err := core.RequireAuthorization(ctx, oracle.Admin); err != nil {
		return nil, err
	}

	return oracle, nil
}

func (s *oracleService) savePrice(ctx context.Context, asset string, value decimal.Decimal, source string, submitted decimal.Decimal) error {
	content, _ := json.Marshal(provenance{
		Source:    source,
		Submitted: submitted,
		Time:      s.clock.Now(),
	})

	price := &core.Price{
		Symbol:    asset,
		Price:     value,
		Content:   content,
		UpdatedAt: s.clock.Now(),
	}

	return s.runTx(func(tx *db.DB) error {
		return s.prices.Save(ctx, tx, price)
	})
}

// a nil db runs fn directly
func (s *oracleService) runTx(fn func(tx *db.DB) error) error {
	if s.db == nil {
		return fn(nil)
	}

	return s.db.Tx(fn)
}
