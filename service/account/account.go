package account

import (
	"context"

	"stellend/core"
	"stellend/internal/lending"

	"github.com/shopspring/decimal"
)

type accountService struct {
	oracles core.IOracleService
}

// New new account service
func New(oracles core.IOracleService) core.IAccountService {
	return &accountService{oracles: oracles}
}

func (s *accountService) CurrentDebt(pool *core.Pool, account *core.Account) decimal.Decimal {
	return lending.RefreshDebt(account.BorrowBalance, account.BorrowIndexSnapshot, pool.BorrowIndex)
}

func (s *accountService) CollateralValue(ctx context.Context, pool *core.Pool, account *core.Account) (decimal.Decimal, error) {
	if account.CollateralBalance.Sign() == 0 {
		return decimal.Zero, nil
	}

	return s.oracles.AssetToUsd(ctx, pool.CollateralAsset, account.CollateralBalance)
}

func (s *accountService) MaxBorrow(ctx context.Context, pool *core.Pool, account *core.Account) (decimal.Decimal, error) {
	value, err := s.CollateralValue(ctx, pool, account)
	if err != nil {
		return decimal.Zero, err
	}

	capacity := lending.MaxBorrowUsd(value, decimal.NewFromInt(pool.LtvRatio))
	if capacity.Sign() == 0 {
		return decimal.Zero, nil
	}

	return s.oracles.UsdToAsset(ctx, pool.BorrowAsset, capacity)
}

func (s *accountService) HealthFactor(ctx context.Context, pool *core.Pool, account *core.Account) (decimal.Decimal, error) {
	debt := s.CurrentDebt(pool, account)

	// debt-free accounts report the sentinel without touching the oracle
	if debt.Sign() == 0 {
		return lending.HealthFactorInfinite, nil
	}

	collateralValue, err := s.CollateralValue(ctx, pool, account)
	if err != nil {
		return decimal.Zero, err
	}

	borrowValue, err := s.oracles.AssetToUsd(ctx, pool.BorrowAsset, debt)
	if err != nil {
		return decimal.Zero, err
	}

	return lending.HealthFactor(collateralValue, borrowValue, decimal.NewFromInt(pool.LiquidationThreshold)), nil
}

func (s *accountService) Liquidatable(ctx context.Context, pool *core.Pool, account *core.Account) (bool, error) {
	hf, err := s.HealthFactor(ctx, pool, account)
	if err != nil {
		return false, err
	}

	return lending.Liquidatable(hf), nil
}
