package handler

import (
	"net/http"

	"stellend/core"
	"stellend/handler/auth"
	"stellend/handler/rest"

	"github.com/go-chi/chi"
)

// Server server
type Server struct {
	cfg      *core.Config
	pools    core.IPoolService
	accounts core.IAccountStore
	risk     core.IAccountService
	rates    core.IRateService
	oracles  core.IOracleService
	prices   core.IPriceStore
}

// New new server
func New(
	cfg *core.Config,
	pools core.IPoolService,
	accounts core.IAccountStore,
	risk core.IAccountService,
	rates core.IRateService,
	oracles core.IOracleService,
	prices core.IPriceStore,
) Server {
	return Server{
		cfg:      cfg,
		pools:    pools,
		accounts: accounts,
		risk:     risk,
		rates:    rates,
		oracles:  oracles,
		prices:   prices,
	}
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(resetRoutePath)
	r.Use(auth.HandleAuthentication(s.cfg.App.Secret, s.cfg.Issuers))
	r.Mount("/", rest.Handle(s.pools, s.accounts, s.risk, s.rates, s.oracles, s.prices))

	return r
}

func resetRoutePath(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if c := chi.RouteContext(ctx); c != nil {
			c.RoutePath = r.URL.Path
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
