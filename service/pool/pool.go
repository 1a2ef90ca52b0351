package pool

import (
	"context"
	"sync"
	"time"

	"stellend/core"
	"stellend/internal/lending"
	"stellend/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type poolService struct {
	db        *db.DB
	system    *core.System
	pools     core.IPoolStore
	accounts  core.IAccountStore
	rates     core.IRateService
	oracles   core.IOracleService
	risk      core.IAccountService
	transfers core.ITransferService
	events    core.IEventService
	clock     core.Clock

	// mux serializes ledger mutations within this process; the version
	// column guards against concurrent writers elsewhere
	mux sync.Mutex
}

// New new pool service
func New(
	db *db.DB,
	system *core.System,
	pools core.IPoolStore,
	accounts core.IAccountStore,
	rates core.IRateService,
	oracles core.IOracleService,
	risk core.IAccountService,
	transfers core.ITransferService,
	events core.IEventService,
	clock core.Clock,
) core.IPoolService {
	return &poolService{
		db:        db,
		system:    system,
		pools:     pools,
		accounts:  accounts,
		rates:     rates,
		oracles:   oracles,
		risk:      risk,
		transfers: transfers,
		events:    events,
		clock:     clock,
	}
}

func (s *poolService) Init(ctx context.Context, borrowAsset, collateralAsset string, ltvRatio, liquidationThreshold, liquidationBonus int64) error {
	if !s.system.IsAdmin(core.PrincipalFromContext(ctx)) {
		return core.ErrUnauthorized
	}

	if borrowAsset == "" || collateralAsset == "" || borrowAsset == collateralAsset {
		return core.ErrInvalidInput
	}

	// 0 < ltv < threshold < 100%
	if ltvRatio <= 0 || ltvRatio >= liquidationThreshold || liquidationThreshold >= 10000 {
		return core.ErrInvalidInput
	}

	if liquidationBonus < 0 || liquidationBonus > 10000 {
		return core.ErrInvalidInput
	}

	if _, err := s.pools.Find(ctx); err == nil {
		return core.ErrAlreadyInitialized
	} else if err != core.ErrNotInitialized {
		return err
	}

	pool := &core.Pool{
		ID:                   1,
		BorrowAsset:          borrowAsset,
		CollateralAsset:      collateralAsset,
		TotalDeposits:        decimal.Zero,
		TotalBorrows:         decimal.Zero,
		BorrowIndex:          lending.InitialBorrowIndex,
		LastAccrualTime:      s.clock.Now().Unix(),
		LtvRatio:             ltvRatio,
		LiquidationThreshold: liquidationThreshold,
		LiquidationBonus:     liquidationBonus,
	}

	return s.pools.Create(ctx, pool)
}

func (s *poolService) Deposit(ctx context.Context, userID string, amount decimal.Decimal) error {
	if err := core.RequireAuthorization(ctx, userID); err != nil {
		return err
	}

	if err := validAmount(amount); err != nil {
		return err
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	pool, account, err := s.loadAccrued(ctx, userID)
	if err != nil {
		return err
	}

	pool.TotalDeposits = pool.TotalDeposits.Add(amount)
	account.DepositBalance = account.DepositBalance.Add(amount)

	err = s.runTx(func(tx *db.DB) error {
		if err := s.transfers.TransferIn(ctx, tx, userID, pool.BorrowAsset, amount, "deposit"); err != nil {
			return err
		}

		return s.commit(ctx, tx, pool, account)
	})
	if err != nil {
		return err
	}

	s.events.Emit(ctx, &core.Event{
		Action: core.EventActionDeposit,
		UserID: userID,
		Asset:  pool.BorrowAsset,
		Amount: amount,
	})

	return nil
}

func (s *poolService) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) error {
	if err := core.RequireAuthorization(ctx, userID); err != nil {
		return err
	}

	if err := validAmount(amount); err != nil {
		return err
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	pool, account, err := s.loadAccrued(ctx, userID)
	if err != nil {
		return err
	}

	if amount.GreaterThan(account.DepositBalance) {
		return core.ErrInsufficientBalance
	}

	if amount.GreaterThan(pool.Liquidity()) {
		return core.ErrInsufficientLiquidity
	}

	pool.TotalDeposits = pool.TotalDeposits.Sub(amount)
	account.DepositBalance = account.DepositBalance.Sub(amount)

	err = s.runTx(func(tx *db.DB) error {
		if err := s.commit(ctx, tx, pool, account); err != nil {
			return err
		}

		return s.transfers.TransferOut(ctx, tx, userID, pool.BorrowAsset, amount, "withdraw")
	})
	if err != nil {
		return err
	}

	s.events.Emit(ctx, &core.Event{
		Action: core.EventActionWithdraw,
		UserID: userID,
		Asset:  pool.BorrowAsset,
		Amount: amount,
	})

	return nil
}

func (s *poolService) DepositCollateral(ctx context.Context, userID string, amount decimal.Decimal) error {
	if err := core.RequireAuthorization(ctx, userID); err != nil {
		return err
	}

	if err := validAmount(amount); err != nil {
		return err
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	pool, account, err := s.loadAccrued(ctx, userID)
	if err != nil {
		return err
	}

	account.CollateralBalance = account.CollateralBalance.Add(amount)

	err = s.runTx(func(tx *db.DB) error {
		if err := s.transfers.TransferIn(ctx, tx, userID, pool.CollateralAsset, amount, "collateral deposit"); err != nil {
			return err
		}

		return s.commit(ctx, tx, pool, account)
	})
	if err != nil {
		return err
	}

	s.events.Emit(ctx, &core.Event{
		Action: core.EventActionCollateralDeposited,
		UserID: userID,
		Asset:  pool.CollateralAsset,
		Amount: amount,
	})

	return nil
}

func (s *poolService) WithdrawCollateral(ctx context.Context, userID string, amount decimal.Decimal) error {
	if err := core.RequireAuthorization(ctx, userID); err != nil {
		return err
	}

	if err := validAmount(amount); err != nil {
		return err
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	pool, account, err := s.loadAccrued(ctx, userID)
	if err != nil {
		return err
	}

	if amount.GreaterThan(account.CollateralBalance) {
		return core.ErrInsufficientBalance
	}

	account.CollateralBalance = account.CollateralBalance.Sub(amount)

	// the remaining collateral must still cover the debt at the ltv ratio
	if account.BorrowBalance.Sign() > 0 {
		capacity, err := s.risk.MaxBorrow(ctx, pool, account)
		if err != nil {
			return err
		}

		if account.BorrowBalance.GreaterThan(capacity) {
			return core.ErrUnhealthyPosition
		}
	}

	err = s.runTx(func(tx *db.DB) error {
		if err := s.commit(ctx, tx, pool, account); err != nil {
			return err
		}

		return s.transfers.TransferOut(ctx, tx, userID, pool.CollateralAsset, amount, "collateral withdraw")
	})
	if err != nil {
		return err
	}

	s.events.Emit(ctx, &core.Event{
		Action: core.EventActionCollateralWithdrawn,
		UserID: userID,
		Asset:  pool.CollateralAsset,
		Amount: amount,
	})

	return nil
}

func (s *poolService) Borrow(ctx context.Context, userID string, amount decimal.Decimal) error {
	if err := core.RequireAuthorization(ctx, userID); err != nil {
		return err
	}

	if err := validAmount(amount); err != nil {
		return err
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	pool, account, err := s.loadAccrued(ctx, userID)
	if err != nil {
		return err
	}

	if amount.GreaterThan(pool.Liquidity()) {
		return core.ErrInsufficientLiquidity
	}

	newDebt := account.BorrowBalance.Add(amount)

	capacity, err := s.risk.MaxBorrow(ctx, pool, account)
	if err != nil {
		return err
	}

	if newDebt.GreaterThan(capacity) {
		return core.ErrExceedsCapacity
	}

	account.BorrowBalance = newDebt
	account.BorrowIndexSnapshot = pool.BorrowIndex
	pool.TotalBorrows = pool.TotalBorrows.Add(amount)

	err = s.runTx(func(tx *db.DB) error {
		if err := s.commit(ctx, tx, pool, account); err != nil {
			return err
		}

		return s.transfers.TransferOut(ctx, tx, userID, pool.BorrowAsset, amount, "borrow")
	})
	if err != nil {
		return err
	}

	s.events.Emit(ctx, &core.Event{
		Action: core.EventActionBorrow,
		UserID: userID,
		Asset:  pool.BorrowAsset,
		Amount: amount,
	})

	return nil
}

func (s *poolService) Repay(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := core.RequireAuthorization(ctx, userID); err != nil {
		return decimal.Zero, err
	}

	if err := validAmount(amount); err != nil {
		return decimal.Zero, err
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	pool, account, err := s.loadAccrued(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	if account.BorrowBalance.Sign() == 0 {
		return decimal.Zero, core.ErrNoOutstandingDebt
	}

	// only pull what the debt actually needs
	repaid := number.Min(amount, account.BorrowBalance)

	account.BorrowBalance = account.BorrowBalance.Sub(repaid)
	if account.BorrowBalance.Sign() == 0 {
		account.BorrowIndexSnapshot = decimal.Zero
	} else {
		account.BorrowIndexSnapshot = pool.BorrowIndex
	}

	pool.TotalBorrows = pool.TotalBorrows.Sub(number.Min(repaid, pool.TotalBorrows))

	err = s.runTx(func(tx *db.DB) error {
		if err := s.transfers.TransferIn(ctx, tx, userID, pool.BorrowAsset, repaid, "repay"); err != nil {
			return err
		}

		return s.commit(ctx, tx, pool, account)
	})
	if err != nil {
		return decimal.Zero, err
	}

	s.events.Emit(ctx, &core.Event{
		Action: core.EventActionRepay,
		UserID: userID,
		Asset:  pool.BorrowAsset,
		Amount: repaid,
	})

	return repaid, nil
}

func (s *poolService) Liquidate(ctx context.Context, liquidatorID, borrowerID string) (*core.LiquidationResult, error) {
	if err := core.RequireAuthorization(ctx, liquidatorID); err != nil {
		return nil, err
	}

	if borrowerID == "" || borrowerID == liquidatorID {
		return nil, core.ErrInvalidInput
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	pool, borrower, err := s.loadAccrued(ctx, borrowerID)
	if err != nil {
		return nil, err
	}

	if borrower.BorrowBalance.Sign() == 0 {
		return nil, core.ErrPositionHealthy
	}

	liquidatable, err := s.risk.Liquidatable(ctx, pool, borrower)
	if err != nil {
		return nil, err
	}

	if !liquidatable {
		return nil, core.ErrPositionHealthy
	}

	// full close: the liquidator repays the whole debt and takes the
	// matching collateral plus the bonus, capped at what is there
	repaid := borrower.BorrowBalance

	repaidValue, err := s.oracles.AssetToUsd(ctx, pool.BorrowAsset, repaid)
	if err != nil {
		return nil, err
	}

	seizeValue := lending.SeizeValueUsd(repaidValue, decimal.NewFromInt(pool.LiquidationBonus))

	seized, err := s.oracles.UsdToAsset(ctx, pool.CollateralAsset, seizeValue)
	if err != nil {
		return nil, err
	}

	seized = number.Min(seized, borrower.CollateralBalance)

	borrower.BorrowBalance = decimal.Zero
	borrower.BorrowIndexSnapshot = decimal.Zero
	borrower.CollateralBalance = borrower.CollateralBalance.Sub(seized)
	pool.TotalBorrows = pool.TotalBorrows.Sub(number.Min(repaid, pool.TotalBorrows))

	err = s.runTx(func(tx *db.DB) error {
		if err := s.transfers.TransferIn(ctx, tx, liquidatorID, pool.BorrowAsset, repaid, "liquidate repay"); err != nil {
			return err
		}

		if err := s.commit(ctx, tx, pool, borrower); err != nil {
			return err
		}

		return s.transfers.TransferOut(ctx, tx, liquidatorID, pool.CollateralAsset, seized, "liquidate seize")
	})
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, &core.Event{
		Action: core.EventActionLiquidate,
		UserID: liquidatorID,
		Asset:  pool.CollateralAsset,
		Amount: seized,
		Extra: map[string]string{
			"borrower": borrowerID,
			"repaid":   repaid.String(),
		},
	})

	return &core.LiquidationResult{
		Borrower: borrowerID,
		Repaid:   repaid,
		Seized:   seized,
	}, nil
}

func (s *poolService) AccrueInterest(ctx context.Context) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	pool, err := s.pools.Find(ctx)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	if now.Unix() <= pool.LastAccrualTime {
		return nil
	}

	if err := s.accrue(ctx, pool, now); err != nil {
		return err
	}

	err = s.runTx(func(tx *db.DB) error {
		return s.pools.Update(ctx, tx, pool)
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).WithField("borrow_index", pool.BorrowIndex).Debugln("interest accrued")

	s.events.Emit(ctx, &core.Event{
		Action: core.EventActionAccrue,
		Asset:  pool.BorrowAsset,
		Amount: pool.TotalBorrows,
	})

	return nil
}

func (s *poolService) CurrentPool(ctx context.Context) (*core.Pool, error) {
	pool, err := s.pools.Find(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.accrue(ctx, pool, s.clock.Now()); err != nil {
		return nil, err
	}

	return pool, nil
}

// loadAccrued loads the pool with interest advanced to now, plus the
// user's account with its debt refreshed against the new index.
func (s *poolService) loadAccrued(ctx context.Context, userID string) (*core.Pool, *core.Account, error) {
	pool, err := s.pools.Find(ctx)
	if err != nil {
		return nil, nil, err
	}

	if err := s.accrue(ctx, pool, s.clock.Now()); err != nil {
		return nil, nil, err
	}

	account, err := s.accounts.Find(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if account.BorrowBalance.Sign() > 0 {
		account.BorrowBalance = s.risk.CurrentDebt(pool, account)
		account.BorrowIndexSnapshot = pool.BorrowIndex
	}

	return pool, account, nil
}

// accrue advances the pool in place. Interest charged to borrowers is
// credited to the deposit side, so total borrows never outgrow total
// deposits.
func (s *poolService) accrue(ctx context.Context, pool *core.Pool, now time.Time) error {
	elapsed := now.Unix() - pool.LastAccrualTime
	if elapsed <= 0 {
		return nil
	}

	utilization := lending.UtilizationRate(pool.TotalDeposits, pool.TotalBorrows)

	rate, err := s.rates.GetBorrowRate(ctx, utilization)
	if err != nil {
		return err
	}

	interest := lending.InterestAccrued(pool.TotalBorrows, rate, elapsed)
	pool.TotalBorrows = pool.TotalBorrows.Add(interest)
	pool.TotalDeposits = pool.TotalDeposits.Add(interest)
	pool.BorrowIndex = lending.AdvanceBorrowIndex(pool.BorrowIndex, rate, elapsed)
	pool.LastAccrualTime = now.Unix()

	return nil
}

func (s *poolService) commit(ctx context.Context, tx *db.DB, pool *core.Pool, account *core.Account) error {
	if err := s.pools.Update(ctx, tx, pool); err != nil {
		return err
	}

	return s.accounts.Save(ctx, tx, account)
}

// a nil db runs fn directly
func (s *poolService) runTx(fn func(tx *db.DB) error) error {
	if s.db == nil {
		return fn(nil)
	}

	return s.db.Tx(fn)
}

func validAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 || !number.IsIntegral(amount) {
		return core.ErrInvalidInput
	}

	return nil
}
