package rest

import (
	"net/http"

	"stellend/core"
	"stellend/handler/param"
	"stellend/handler/render"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

func pricesHandler(prices core.IPriceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := prices.All(r.Context())
		if err != nil {
			render.ErrorResponse(w, err)
			return
		}

		render.JSON(w, all)
	}
}

func priceHandler(oracles core.IOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		asset := chi.URLParam(r, "asset")

		price, err := oracles.GetPrice(ctx, asset)
		if err != nil {
			render.ErrorResponse(w, err)
			return
		}

		view := render.H{"symbol": asset, "price": price}

		if stale, err := oracles.IsStale(ctx, asset); err == nil {
			view["stale"] = stale
		}

		if t, err := oracles.GetLastUpdate(ctx, asset); err == nil {
			view["last_update"] = t
		}

		render.JSON(w, view)
	}
}

type priceParams struct {
	Asset string          `json:"asset"`
	Price decimal.Decimal `json:"price"`
}

func setPriceHandler(oracles core.IOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params priceParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := oracles.SetPrice(r.Context(), params.Asset, params.Price); err != nil {
			render.ErrorResponse(w, err)
			return
		}

		render.JSON(w, render.H{"status": "ok"})
	}
}

func setPriceChaosHandler(oracles core.IOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params priceParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := oracles.SetPriceChaos(r.Context(), params.Asset, params.Price); err != nil {
			render.ErrorResponse(w, err)
			return
		}

		render.JSON(w, render.H{"status": "ok"})
	}
}

func setAdminHandler(oracles core.IOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Admin string `json:"admin"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := oracles.SetAdmin(r.Context(), params.Admin); err != nil {
			render.ErrorResponse(w, err)
			return
		}

		render.JSON(w, render.H{"status": "ok"})
	}
}

func setStalenessHandler(oracles core.IOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Seconds int64 `json:"seconds"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := oracles.SetStalenessThreshold(r.Context(), params.Seconds); err != nil {
			render.ErrorResponse(w, err)
			return
		}

		render.JSON(w, render.H{"status": "ok"})
	}
}
