package rest

import (
	"net/http"
	"sort"

	"stellend/core"
	"stellend/handler/render"
	"stellend/handler/views"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

func accountHandler(pools core.IPoolService, accounts core.IAccountStore, risk core.IAccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := chi.URLParam(r, "user_id")
		if userID == "" {
			render.BadRequest(w, core.ErrInvalidInput)
			return
		}

		pool, err := pools.CurrentPool(ctx)
		if err != nil {
			render.ErrorResponse(w, err)
			return
		}

		account, err := accounts.Find(ctx, userID)
		if err != nil {
			render.ErrorResponse(w, err)
			return
		}

		view := views.Account{
			Account: *account,
			Debt:    risk.CurrentDebt(pool, account),
		}

		// risk figures degrade to zero when the oracle cannot serve a
		// safe price; the raw balances are still worth returning
		if v, err := risk.CollateralValue(ctx, pool, account); err == nil {
			view.CollateralValue = v
		} else {
			view.CollateralValue = decimal.Zero
		}

		if v, err := risk.MaxBorrow(ctx, pool, account); err == nil {
			view.MaxBorrow = v
		}

		if hf, err := risk.HealthFactor(ctx, pool, account); err == nil {
			view.HealthFactor = hf
		}

		if ok, err := risk.Liquidatable(ctx, pool, account); err == nil {
			view.Liquidatable = ok
		}

		render.JSON(w, view)
	}
}

// borrowersHandler lists open borrow positions, worst health first
func borrowersHandler(pools core.IPoolService, accounts core.IAccountStore, risk core.IAccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		pool, err := pools.CurrentPool(ctx)
		if err != nil {
			render.ErrorResponse(w, err)
			return
		}

		borrowers, err := accounts.ListBorrowers(ctx)
		if err != nil {
			render.ErrorResponse(w, err)
			return
		}

		items := make([]views.Account, 0, len(borrowers))
		for _, account := range borrowers {
			view := views.Account{
				Account: *account,
				Debt:    risk.CurrentDebt(pool, account),
			}

			if hf, err := risk.HealthFactor(ctx, pool, account); err == nil {
				view.HealthFactor = hf
			}

			if ok, err := risk.Liquidatable(ctx, pool, account); err == nil {
				view.Liquidatable = ok
			}

			items = append(items, view)
		}

		sort.Slice(items, func(i, j int) bool {
			return items[i].HealthFactor.LessThan(items[j].HealthFactor)
		})

		render.JSON(w, items)
	}
}
