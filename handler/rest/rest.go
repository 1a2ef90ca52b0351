package rest

import (
	"errors"
	"net/http"

	"stellend/core"
	"stellend/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	pools core.IPoolService,
	accounts core.IAccountStore,
	risk core.IAccountService,
	rates core.IRateService,
	oracles core.IOracleService,
	prices core.IPriceStore,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/pool", poolHandler(pools, rates))
	router.Post("/pool/accrue", accrueHandler(pools))
	router.Get("/accounts/{user_id}", accountHandler(pools, accounts, risk))
	router.Get("/borrowers", borrowersHandler(pools, accounts, risk))

	router.Post("/deposit", depositHandler(pools))
	router.Post("/withdraw", withdrawHandler(pools))
	router.Post("/borrow", borrowHandler(pools))
	router.Post("/repay", repayHandler(pools))
	router.Post("/collateral/deposit", collateralDepositHandler(pools))
	router.Post("/collateral/withdraw", collateralWithdrawHandler(pools))
	router.Post("/liquidate", liquidateHandler(pools))

	router.Get("/prices", pricesHandler(prices))
	router.Get("/prices/{asset}", priceHandler(oracles))
	router.Post("/oracle/price", setPriceHandler(oracles))
	router.Post("/oracle/price-chaos", setPriceChaosHandler(oracles))
	router.Post("/oracle/admin", setAdminHandler(oracles))
	router.Post("/oracle/staleness", setStalenessHandler(oracles))

	return router
}
