package rest

import (
	"context"
	"net/http"

	"stellend/core"
	"stellend/handler/param"
	"stellend/handler/render"
	"stellend/handler/views"
	"stellend/internal/lending"

	"github.com/shopspring/decimal"
)

func poolHandler(pools core.IPoolService, rates core.IRateService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		pool, err := pools.CurrentPool(ctx)
		if err != nil {
			render.ErrorResponse(w, err)
			return
		}

		utilization := lending.UtilizationRate(pool.TotalDeposits, pool.TotalBorrows)

		borrowRate, err := rates.GetBorrowRate(ctx, utilization)
		if err != nil {
			borrowRate = decimal.Zero
		}

		supplyRate, err := rates.GetSupplyRate(ctx, utilization)
		if err != nil {
			supplyRate = decimal.Zero
		}

		render.JSON(w, views.Pool{
			Pool:        *pool,
			Liquidity:   pool.Liquidity(),
			Utilization: utilization,
			BorrowRate:  borrowRate,
			SupplyRate:  supplyRate,
		})
	}
}

func accrueHandler(pools core.IPoolService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := pools.AccrueInterest(ctx); err != nil {
			render.ErrorResponse(w, err)
			return
		}

		pool, err := pools.CurrentPool(ctx)
		if err != nil {
			render.ErrorResponse(w, err)
			return
		}

		render.JSON(w, pool)
	}
}

type amountParams struct {
	Amount decimal.Decimal `json:"amount"`
}

func depositHandler(pools core.IPoolService) http.HandlerFunc {
	return balanceOp(pools.Deposit)
}

func withdrawHandler(pools core.IPoolService) http.HandlerFunc {
	return balanceOp(pools.Withdraw)
}

func borrowHandler(pools core.IPoolService) http.HandlerFunc {
	return balanceOp(pools.Borrow)
}

func collateralDepositHandler(pools core.IPoolService) http.HandlerFunc {
	return balanceOp(pools.DepositCollateral)
}

func collateralWithdrawHandler(pools core.IPoolService) http.HandlerFunc {
	return balanceOp(pools.WithdrawCollateral)
}

// balanceOp runs an amount-shaped mutation as the request principal
func balanceOp(op func(ctx context.Context, userID string, amount decimal.Decimal) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params amountParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		userID := core.PrincipalFromContext(ctx)
		if err := op(ctx, userID, params.Amount); err != nil {
			render.ErrorResponse(w, err)
			return
		}

		render.JSON(w, render.H{"status": "ok"})
	}
}

func repayHandler(pools core.IPoolService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params amountParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		userID := core.PrincipalFromContext(ctx)
		repaid, err := pools.Repay(ctx, userID, params.Amount)
		if err != nil {
			render.ErrorResponse(w, err)
			return
		}

		render.JSON(w, render.H{"repaid": repaid})
	}
}

func liquidateHandler(pools core.IPoolService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Borrower string `json:"borrower"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		liquidatorID := core.PrincipalFromContext(ctx)
		result, err := pools.Liquidate(ctx, liquidatorID, params.Borrower)
		if err != nil {
			render.ErrorResponse(w, err)
			return
		}

		render.JSON(w, result)
	}
}
