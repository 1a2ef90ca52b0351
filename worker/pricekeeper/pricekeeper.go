package pricekeeper

import (
	"context"
	"fmt"

	"stellend/core"
	"stellend/pkg/resthttp"
	"stellend/worker"

	"github.com/fox-one/pkg/logger"
)

// Keeper pulls tickers from the price feed and publishes them through
// the oracle on behalf of the configured admin.
type Keeper struct {
	worker.TickWorker
	endpoint string
	assets   []string
	oracles  core.IOracleService
}

// New new price keeper
func New(cfg core.Keeper, oracles core.IOracleService) *Keeper {
	return &Keeper{
		endpoint: cfg.Endpoint,
		assets:   cfg.Assets,
		oracles:  oracles,
	}
}

// Run run worker
func (w *Keeper) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Keeper) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "pricekeeper")

	admin, err := w.oracles.Admin(ctx)
	if err != nil {
		log.WithError(err).Errorln("oracles.Admin")
		return err
	}

	// publishing runs under the oracle admin principal
	ctx = core.WithPrincipal(ctx, admin)

	for _, asset := range w.assets {
		ticker, err := w.pullTicker(ctx, asset)
		if err != nil {
			log.WithError(err).Errorln("pull ticker:", asset)
			continue
		}

		if err := w.oracles.SetPrice(ctx, ticker.Symbol, ticker.Price); err != nil {
			log.WithError(err).Errorln("oracles.SetPrice:", asset)
			continue
		}
	}

	return nil
}

func (w *Keeper) pullTicker(ctx context.Context, asset string) (*core.PriceTicker, error) {
	url := fmt.Sprintf("%s/api/tickers/%s", w.endpoint, asset)

	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	var ticker core.PriceTicker
	if err := resthttp.ParseResponse(resp, &ticker); err != nil {
		return nil, err
	}

	return &ticker, nil
}
