package cmd

import (
	"time"

	"stellend/core"
	accountservice "stellend/service/account"
	"stellend/service/notifier"
	oracleservice "stellend/service/oracle"
	poolservice "stellend/service/pool"
	rateservice "stellend/service/rate"
	"stellend/service/wallet"
	accountstore "stellend/store/account"
	oraclestore "stellend/store/oracle"
	poolstore "stellend/store/pool"
	pricestore "stellend/store/price"
	ratestore "stellend/store/rate"
	transferstore "stellend/store/transfer"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

func provideSystem() *core.System {
	return &core.System{
		Admins:   cfg.Admins,
		Issuers:  cfg.Issuers,
		Location: cfg.App.Location,
		Version:  rootCmd.Version,
	}
}

// ---------------store-----------------------------------------

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func providePoolStore(db *db.DB) core.IPoolStore {
	return poolstore.New(db)
}

func provideAccountStore(db *db.DB) core.IAccountStore {
	return accountstore.New(db)
}

func provideOracleStore(db *db.DB) core.IOracleStore {
	return oraclestore.New(db)
}

func providePriceStore(db *db.DB) core.IPriceStore {
	return pricestore.Cache(pricestore.New(db), 15*time.Second)
}

func provideRateCurveStore(db *db.DB) core.IRateCurveStore {
	return ratestore.New(db)
}

func provideTransferStore(db *db.DB) core.ITransferStore {
	return transferstore.New(db)
}

// ------------------service------------------------------------

func provideEventService() core.IEventService {
	return notifier.New()
}

func provideGateway() core.TokenGateway {
	return wallet.NewGateway(cfg.Gateway.Endpoint)
}

func provideTransferService(gateway core.TokenGateway, transfers core.ITransferStore) core.ITransferService {
	return wallet.New(gateway, transfers)
}

func provideRateService(db *db.DB) core.IRateService {
	return rateservice.New(provideRateCurveStore(db))
}

func provideOracleService(db *db.DB) core.IOracleService {
	return oracleservice.New(
		db,
		provideOracleStore(db),
		providePriceStore(db),
		provideEventService(),
		core.NewClock(),
	)
}

func provideAccountService(oracles core.IOracleService) core.IAccountService {
	return accountservice.New(oracles)
}

func providePoolService(db *db.DB, oracles core.IOracleService, rates core.IRateService, risk core.IAccountService) core.IPoolService {
	return poolservice.New(
		db,
		provideSystem(),
		providePoolStore(db),
		provideAccountStore(db),
		rates,
		oracles,
		risk,
		provideTransferService(provideGateway(), provideTransferStore(db)),
		provideEventService(),
		core.NewClock(),
	)
}
