package pool

import (
	"context"
	"errors"
	"testing"
	"time"

	"stellend/core"
	"stellend/internal/lending"
	accountservice "stellend/service/account"
	rateservice "stellend/service/rate"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoolStore struct {
	pool *core.Pool
}

func (s *fakePoolStore) Create(ctx context.Context, pool *core.Pool) error {
	if s.pool == nil {
		p := *pool
		s.pool = &p
	}

	return nil
}

func (s *fakePoolStore) Find(ctx context.Context) (*core.Pool, error) {
	if s.pool == nil {
		return nil, core.ErrNotInitialized
	}

	p := *s.pool
	return &p, nil
}

func (s *fakePoolStore) Update(ctx context.Context, tx *db.DB, pool *core.Pool) error {
	if s.pool == nil || s.pool.Version != pool.Version {
		return db.ErrOptimisticLock
	}

	pool.Version++
	p := *pool
	s.pool = &p
	return nil
}

type fakeAccountStore struct {
	accounts map[string]*core.Account
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: map[string]*core.Account{}}
}

func (s *fakeAccountStore) Find(ctx context.Context, userID string) (*core.Account, error) {
	if account, ok := s.accounts[userID]; ok {
		a := *account
		return &a, nil
	}

	return &core.Account{UserID: userID}, nil
}

func (s *fakeAccountStore) Save(ctx context.Context, tx *db.DB, account *core.Account) error {
	if account.IsZero() {
		delete(s.accounts, account.UserID)
		return nil
	}

	account.Version++
	a := *account
	s.accounts[account.UserID] = &a
	return nil
}

func (s *fakeAccountStore) ListBorrowers(ctx context.Context) ([]*core.Account, error) {
	var borrowers []*core.Account
	for _, account := range s.accounts {
		if account.BorrowBalance.Sign() > 0 {
			a := *account
			borrowers = append(borrowers, &a)
		}
	}

	return borrowers, nil
}

type fakeCurveStore struct {
	curve *core.RateCurve
}

func (s *fakeCurveStore) Create(ctx context.Context, curve *core.RateCurve) error {
	c := *curve
	s.curve = &c
	return nil
}

func (s *fakeCurveStore) Find(ctx context.Context) (*core.RateCurve, error) {
	if s.curve == nil {
		return nil, core.ErrNotInitialized
	}

	c := *s.curve
	return &c, nil
}

type fakeOracle struct {
	core.IOracleService
	prices map[string]decimal.Decimal
}

func (s *fakeOracle) price(asset string) (decimal.Decimal, error) {
	price, ok := s.prices[asset]
	if !ok || price.Sign() <= 0 {
		return decimal.Zero, core.ErrPriceNotSet
	}

	return price, nil
}

func (s *fakeOracle) AssetToUsd(ctx context.Context, asset string, amount decimal.Decimal) (decimal.Decimal, error) {
	price, err := s.price(asset)
	if err != nil {
		return decimal.Zero, err
	}

	return lending.AssetToUsd(amount, price), nil
}

func (s *fakeOracle) UsdToAsset(ctx context.Context, asset string, usd decimal.Decimal) (decimal.Decimal, error) {
	price, err := s.price(asset)
	if err != nil {
		return decimal.Zero, err
	}

	return lending.UsdToAsset(usd, price), nil
}

type transferRecord struct {
	UserID string
	Asset  string
	Amount decimal.Decimal
	Memo   string
}

type fakeTransfers struct {
	in      []transferRecord
	out     []transferRecord
	failIn  bool
	failOut bool
}

func (s *fakeTransfers) TransferIn(ctx context.Context, tx *db.DB, userID, asset string, amount decimal.Decimal, memo string) error {
	if s.failIn {
		return errors.New("gateway down")
	}

	s.in = append(s.in, transferRecord{userID, asset, amount, memo})
	return nil
}

func (s *fakeTransfers) TransferOut(ctx context.Context, tx *db.DB, userID, asset string, amount decimal.Decimal, memo string) error {
	if s.failOut {
		return errors.New("gateway down")
	}

	s.out = append(s.out, transferRecord{userID, asset, amount, memo})
	return nil
}

type fakeEvents struct {
	events []*core.Event
}

func (s *fakeEvents) Emit(ctx context.Context, event *core.Event) {
	s.events = append(s.events, event)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type env struct {
	svc       core.IPoolService
	pools     *fakePoolStore
	accounts  *fakeAccountStore
	oracle    *fakeOracle
	transfers *fakeTransfers
	events    *fakeEvents
	clock     *fakeClock
}

func newEnv(t *testing.T) *env {
	t.Helper()

	curves := &fakeCurveStore{}
	rates := rateservice.New(curves)
	require.NoError(t, rates.Init(
		context.Background(),
		decimal.Zero,
		decimal.NewFromInt(400_000),
		decimal.NewFromInt(7_500_000),
		decimal.NewFromInt(8_000_000),
	))

	oracle := &fakeOracle{prices: map[string]decimal.Decimal{
		"USDC": decimal.NewFromInt(10_000_000), // $1.00
		"XLM":  decimal.NewFromInt(5_000_000),  // $0.50
	}}

	e := &env{
		pools:     &fakePoolStore{},
		accounts:  newFakeAccountStore(),
		oracle:    oracle,
		transfers: &fakeTransfers{},
		events:    &fakeEvents{},
		clock:     &fakeClock{now: time.Unix(1_700_000_000, 0)},
	}

	system := &core.System{Admins: []string{"admin"}}

	e.svc = New(
		nil,
		system,
		e.pools,
		e.accounts,
		rates,
		oracle,
		accountservice.New(oracle),
		e.transfers,
		e.events,
		e.clock,
	)

	require.NoError(t, e.svc.Init(as("admin"), "USDC", "XLM", 7500, 8000, 500))

	return e
}

func as(userID string) context.Context {
	return core.WithPrincipal(context.Background(), userID)
}

func amt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestInit(t *testing.T) {
	e := newEnv(t)

	// second init is rejected
	assert.Equal(t, core.ErrAlreadyInitialized, e.svc.Init(as("admin"), "USDC", "XLM", 7500, 8000, 0))

	fresh := &env{pools: &fakePoolStore{}}
	svc := New(nil, &core.System{Admins: []string{"admin"}}, fresh.pools, newFakeAccountStore(), nil, nil, nil, nil, nil, &fakeClock{})

	assert.Equal(t, core.ErrUnauthorized, svc.Init(as("mallory"), "USDC", "XLM", 7500, 8000, 0))
	assert.Equal(t, core.ErrInvalidInput, svc.Init(as("admin"), "USDC", "USDC", 7500, 8000, 0))
	assert.Equal(t, core.ErrInvalidInput, svc.Init(as("admin"), "USDC", "XLM", 8000, 7500, 0))
	assert.Equal(t, core.ErrInvalidInput, svc.Init(as("admin"), "USDC", "XLM", 7500, 10000, 0))
	assert.Equal(t, core.ErrInvalidInput, svc.Init(as("admin"), "", "XLM", 7500, 8000, 0))
}

func TestDeposit(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.svc.Deposit(as("alice"), "alice", amt(1_000_000)))

	assert.Equal(t, int64(1_000_000), e.pools.pool.TotalDeposits.IntPart())
	assert.Equal(t, int64(1_000_000), e.accounts.accounts["alice"].DepositBalance.IntPart())
	require.Equal(t, 1, len(e.transfers.in))
	assert.Equal(t, "USDC", e.transfers.in[0].Asset)

	// acting for someone else is rejected
	assert.Equal(t, core.ErrUnauthorized, e.svc.Deposit(as("mallory"), "alice", amt(1)))
	assert.Equal(t, core.ErrUnauthorized, e.svc.Deposit(context.Background(), "alice", amt(1)))

	// invalid amounts
	assert.Equal(t, core.ErrInvalidInput, e.svc.Deposit(as("alice"), "alice", amt(0)))
	assert.Equal(t, core.ErrInvalidInput, e.svc.Deposit(as("alice"), "alice", amt(-5)))

	// a failed pull must not move the ledger
	e.transfers.failIn = true
	require.Error(t, e.svc.Deposit(as("alice"), "alice", amt(500)))
	assert.Equal(t, int64(1_000_000), e.pools.pool.TotalDeposits.IntPart())
}

func TestWithdraw(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.svc.Deposit(as("alice"), "alice", amt(1_000_000)))

	assert.Equal(t, core.ErrInsufficientBalance, e.svc.Withdraw(as("alice"), "alice", amt(1_000_001)))

	require.NoError(t, e.svc.Withdraw(as("alice"), "alice", amt(400_000)))
	assert.Equal(t, int64(600_000), e.pools.pool.TotalDeposits.IntPart())
	assert.Equal(t, int64(600_000), e.accounts.accounts["alice"].DepositBalance.IntPart())
	require.Equal(t, 1, len(e.transfers.out))
	assert.Equal(t, int64(400_000), e.transfers.out[0].Amount.IntPart())

	// borrowed funds are not withdrawable liquidity
	require.NoError(t, e.svc.DepositCollateral(as("bob"), "bob", amt(4_000_000)))
	require.NoError(t, e.svc.Borrow(as("bob"), "bob", amt(480_000)))
	assert.Equal(t, core.ErrInsufficientLiquidity, e.svc.Withdraw(as("alice"), "alice", amt(200_000)))

	// a full exit prunes the account row
	e2 := newEnv(t)
	require.NoError(t, e2.svc.Deposit(as("carol"), "carol", amt(100)))
	require.NoError(t, e2.svc.Withdraw(as("carol"), "carol", amt(100)))
	_, ok := e2.accounts.accounts["carol"]
	assert.False(t, ok)
}

func TestBorrow(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.svc.Deposit(as("alice"), "alice", amt(1_000_000)))

	// no collateral means no capacity
	assert.Equal(t, core.ErrExceedsCapacity, e.svc.Borrow(as("bob"), "bob", amt(1)))

	// 4_000_000 XLM at $0.50 is $2M; at 75% ltv capacity is 1.5M usdc
	require.NoError(t, e.svc.DepositCollateral(as("bob"), "bob", amt(4_000_000)))

	assert.Equal(t, core.ErrInsufficientLiquidity, e.svc.Borrow(as("bob"), "bob", amt(1_200_000)))

	require.NoError(t, e.svc.Borrow(as("bob"), "bob", amt(800_000)))

	account := e.accounts.accounts["bob"]
	assert.Equal(t, int64(800_000), account.BorrowBalance.IntPart())
	assert.Equal(t, int64(1_000_000_000), account.BorrowIndexSnapshot.IntPart())
	assert.Equal(t, int64(800_000), e.pools.pool.TotalBorrows.IntPart())

	// remaining capacity is 700_000 but liquidity is 200_000
	assert.Equal(t, core.ErrInsufficientLiquidity, e.svc.Borrow(as("bob"), "bob", amt(300_000)))
}

func TestBorrowCapacityBoundary(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.svc.Deposit(as("alice"), "alice", amt(2_000_000)))
	// 2_000 XLM = $1_000, capacity 750 usdc
	require.NoError(t, e.svc.DepositCollateral(as("bob"), "bob", amt(2_000)))

	assert.Equal(t, core.ErrExceedsCapacity, e.svc.Borrow(as("bob"), "bob", amt(751)))
	require.NoError(t, e.svc.Borrow(as("bob"), "bob", amt(750)))
}

func TestRepay(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.svc.Deposit(as("alice"), "alice", amt(1_000_000)))
	require.NoError(t, e.svc.DepositCollateral(as("bob"), "bob", amt(4_000_000)))

	_, err := e.svc.Repay(as("bob"), "bob", amt(100))
	assert.Equal(t, core.ErrNoOutstandingDebt, err)

	require.NoError(t, e.svc.Borrow(as("bob"), "bob", amt(500_000)))

	// partial repay
	repaid, err := e.svc.Repay(as("bob"), "bob", amt(200_000))
	require.NoError(t, err)
	assert.Equal(t, int64(200_000), repaid.IntPart())
	assert.Equal(t, int64(300_000), e.accounts.accounts["bob"].BorrowBalance.IntPart())
	assert.Equal(t, int64(300_000), e.pools.pool.TotalBorrows.IntPart())

	// overpay is capped at the outstanding debt
	repaid, err = e.svc.Repay(as("bob"), "bob", amt(999_999_999))
	require.NoError(t, err)
	assert.Equal(t, int64(300_000), repaid.IntPart())
	assert.True(t, e.pools.pool.TotalBorrows.IsZero())

	account := e.accounts.accounts["bob"]
	assert.True(t, account.BorrowBalance.IsZero())
	assert.True(t, account.BorrowIndexSnapshot.IsZero())

	// only the needed amount was pulled
	last := e.transfers.in[len(e.transfers.in)-1]
	assert.Equal(t, int64(300_000), last.Amount.IntPart())
}

func TestAccrueInterest(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.svc.Deposit(as("alice"), "alice", amt(1_000_000)))
	require.NoError(t, e.svc.DepositCollateral(as("bob"), "bob", amt(4_000_000)))
	require.NoError(t, e.svc.Borrow(as("bob"), "bob", amt(800_000)))

	// utilization 80% sits exactly on the kink: 4% borrow rate
	e.clock.advance(365 * 24 * time.Hour)
	require.NoError(t, e.svc.AccrueInterest(context.Background()))

	pool := e.pools.pool
	assert.Equal(t, int64(832_000), pool.TotalBorrows.IntPart())
	assert.Equal(t, int64(1_032_000), pool.TotalDeposits.IntPart())
	assert.Equal(t, int64(1_040_000_000), pool.BorrowIndex.IntPart())

	// accruing twice at the same instant changes nothing
	version := pool.Version
	require.NoError(t, e.svc.AccrueInterest(context.Background()))
	assert.Equal(t, version, e.pools.pool.Version)

	// the borrower's debt follows the index on the next touch
	repaid, err := e.svc.Repay(as("bob"), "bob", amt(999_999_999))
	require.NoError(t, err)
	assert.Equal(t, int64(832_000), repaid.IntPart())
}

func TestCurrentPoolPreviewsWithoutCommit(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.svc.Deposit(as("alice"), "alice", amt(1_000_000)))
	require.NoError(t, e.svc.DepositCollateral(as("bob"), "bob", amt(4_000_000)))
	require.NoError(t, e.svc.Borrow(as("bob"), "bob", amt(800_000)))

	stored := *e.pools.pool

	e.clock.advance(365 * 24 * time.Hour)

	preview, err := e.svc.CurrentPool(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(832_000), preview.TotalBorrows.IntPart())

	// the stored row is untouched
	assert.Equal(t, stored.TotalBorrows.IntPart(), e.pools.pool.TotalBorrows.IntPart())
	assert.Equal(t, stored.LastAccrualTime, e.pools.pool.LastAccrualTime)
}

func TestWithdrawCollateral(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.svc.Deposit(as("alice"), "alice", amt(1_000_000)))
	require.NoError(t, e.svc.DepositCollateral(as("bob"), "bob", amt(4_000)))

	assert.Equal(t, core.ErrInsufficientBalance, e.svc.WithdrawCollateral(as("bob"), "bob", amt(4_001)))

	// debt-free collateral moves freely
	require.NoError(t, e.svc.WithdrawCollateral(as("bob"), "bob", amt(2_000)))

	// 2_000 XLM = $1_000, capacity 750; borrow 600
	require.NoError(t, e.svc.Borrow(as("bob"), "bob", amt(600)))

	// withdrawing down to 1_500 xlm leaves capacity 562 < 600 debt
	assert.Equal(t, core.ErrUnhealthyPosition, e.svc.WithdrawCollateral(as("bob"), "bob", amt(500)))

	// withdrawing 400 leaves capacity 600 == debt, still safe
	require.NoError(t, e.svc.WithdrawCollateral(as("bob"), "bob", amt(400)))
	assert.Equal(t, int64(1_600), e.accounts.accounts["bob"].CollateralBalance.IntPart())
}

func TestLiquidate(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.svc.Deposit(as("alice"), "alice", amt(1_000_000)))
	require.NoError(t, e.svc.DepositCollateral(as("bob"), "bob", amt(10_000)))
	require.NoError(t, e.svc.Borrow(as("bob"), "bob", amt(3_000)))

	// healthy positions cannot be touched
	_, err := e.svc.Liquidate(as("carol"), "carol", "bob")
	assert.Equal(t, core.ErrPositionHealthy, err)

	// self liquidation is rejected
	_, err = e.svc.Liquidate(as("bob"), "bob", "bob")
	assert.Equal(t, core.ErrInvalidInput, err)

	// xlm drops to $0.35: collateral 3_500 usd, debt 3_000 usd,
	// health factor 3500*8000/3000/10000 = 0.933
	e.oracle.prices["XLM"] = decimal.NewFromInt(3_500_000)

	result, err := e.svc.Liquidate(as("carol"), "carol", "bob")
	require.NoError(t, err)

	// repaid 3_000 usd grossed up by the 5% bonus is 3_150 usd,
	// which buys 9_000 xlm at $0.35
	assert.Equal(t, int64(3_000), result.Repaid.IntPart())
	assert.Equal(t, int64(9_000), result.Seized.IntPart())

	account := e.accounts.accounts["bob"]
	assert.True(t, account.BorrowBalance.IsZero())
	assert.Equal(t, int64(1_000), account.CollateralBalance.IntPart())
	assert.True(t, e.pools.pool.TotalBorrows.IsZero())

	// the liquidator paid the debt and received the collateral
	in := e.transfers.in[len(e.transfers.in)-1]
	assert.Equal(t, "carol", in.UserID)
	assert.Equal(t, "USDC", in.Asset)
	assert.Equal(t, int64(3_000), in.Amount.IntPart())

	out := e.transfers.out[len(e.transfers.out)-1]
	assert.Equal(t, "carol", out.UserID)
	assert.Equal(t, "XLM", out.Asset)
	assert.Equal(t, int64(9_000), out.Amount.IntPart())
}

func TestLiquidateSeizureCapped(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.svc.Deposit(as("alice"), "alice", amt(1_000_000)))
	require.NoError(t, e.svc.DepositCollateral(as("bob"), "bob", amt(10_000)))
	require.NoError(t, e.svc.Borrow(as("bob"), "bob", amt(3_000)))

	// a crash leaves less collateral value than the debt
	e.oracle.prices["XLM"] = decimal.NewFromInt(2_000_000)

	result, err := e.svc.Liquidate(as("carol"), "carol", "bob")
	require.NoError(t, err)

	// the seizure is capped at everything bob has
	assert.Equal(t, int64(10_000), result.Seized.IntPart())
	assert.True(t, e.accounts.accounts["bob"].CollateralBalance.IsZero())
}

func TestHealthFactorBoundary(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.svc.Deposit(as("alice"), "alice", amt(1_000_000)))
	require.NoError(t, e.svc.DepositCollateral(as("bob"), "bob", amt(10_000)))
	// 10_000 xlm = $5_000; threshold 80% covers exactly $4_000 of debt
	require.NoError(t, e.svc.Borrow(as("bob"), "bob", amt(3_750)))

	// drop the price so debt value equals the weighted collateral exactly
	// coll 10_000 * 0.46875 = 4687.5 -> not integral, use another route:
	// debt 3_750 at $1, weighted collateral 10_000*0.50*0.8 = 4_000 > 3_750
	_, err := e.svc.Liquidate(as("carol"), "carol", "bob")
	assert.Equal(t, core.ErrPositionHealthy, err)

	// price that makes hf exactly 1.0: collUsd*8000 == debtUsd*10000
	// debt 3_750 -> need collUsd 4687.5 -> unreachable with integer price,
	// so check just above and below instead
	e.oracle.prices["XLM"] = decimal.NewFromInt(4_690_000) // collUsd 4_690, hf 1.00053
	_, err = e.svc.Liquidate(as("carol"), "carol", "bob")
	assert.Equal(t, core.ErrPositionHealthy, err)

	e.oracle.prices["XLM"] = decimal.NewFromInt(4_680_000) // collUsd 4_680, hf 0.9984
	result, err := e.svc.Liquidate(as("carol"), "carol", "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(3_750), result.Repaid.IntPart())
}

func TestOperationsRequirePool(t *testing.T) {
	svc := New(nil, &core.System{Admins: []string{"admin"}}, &fakePoolStore{}, newFakeAccountStore(), nil, nil, nil, nil, nil, &fakeClock{})

	err := svc.Deposit(as("alice"), "alice", amt(100))
	assert.Equal(t, core.ErrNotInitialized, err)

	_, err = svc.CurrentPool(context.Background())
	assert.Equal(t, core.ErrNotInitialized, err)
}
