package cmd

import (
	"sync"

	"stellend/worker"
	"stellend/worker/cashier"
	"stellend/worker/interest"
	"stellend/worker/pricekeeper"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "stellend job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		propertyStore := providePropertyStore(database)
		transferStore := provideTransferStore(database)
		gateway := provideGateway()

		oracles := provideOracleService(database)
		rates := provideRateService(database)
		risk := provideAccountService(oracles)
		pools := providePoolService(database, oracles, rates, risk)

		cashierCfg := cashier.Config{
			Batch:    _flag.cashier.batch,
			Capacity: _flag.cashier.capacity,
		}

		if _, err := govalidator.ValidateStruct(cashierCfg); err != nil {
			log.WithError(err).Fatalln("invalid cashier config")
		}

		workers := []worker.Worker{
			cashier.New(database, transferStore, gateway, propertyStore, cashierCfg),
			pricekeeper.New(cfg.Keeper, oracles),
			interest.New(cfg.App.Location, pools),
		}

		wg := sync.WaitGroup{}
		for _, w := range workers {
			wg.Add(1)

			go func(worker worker.Worker) {
				defer wg.Done()
				worker.Run(ctx)
			}(w)
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
