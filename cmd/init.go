package cmd

import (
	"stellend/core"
	"stellend/pkg/number"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var initPoolCmd = &cobra.Command{
	Use:   "init-pool",
	Short: "set up the lending pool",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		oracles := provideOracleService(database)
		rates := provideRateService(database)
		risk := provideAccountService(oracles)
		pools := providePoolService(database, oracles, rates, risk)

		borrowAsset, _ := cmd.Flags().GetString("borrow-asset")
		collateralAsset, _ := cmd.Flags().GetString("collateral-asset")
		ltv := cast.ToInt64(mustFlag(cmd, "ltv"))
		threshold := cast.ToInt64(mustFlag(cmd, "threshold"))
		bonus := cast.ToInt64(mustFlag(cmd, "bonus"))

		ctx = core.WithPrincipal(ctx, operator())

		if err := pools.Init(ctx, borrowAsset, collateralAsset, ltv, threshold, bonus); err != nil {
			cmd.PrintErrln("init pool:", err)
			return
		}

		cmd.Println("pool initialized")
	},
}

var initRateCmd = &cobra.Command{
	Use:   "init-rate",
	Short: "set up the interest rate curve",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		rates := provideRateService(database)

		base := number.Decimal(mustFlag(cmd, "base"))
		slope1 := number.Decimal(mustFlag(cmd, "slope1"))
		slope2 := number.Decimal(mustFlag(cmd, "slope2"))
		optimal := number.Decimal(mustFlag(cmd, "optimal"))

		if err := rates.Init(ctx, base, slope1, slope2, optimal); err != nil {
			cmd.PrintErrln("init rate curve:", err)
			return
		}

		cmd.Println("rate curve initialized")
	},
}

var initOracleCmd = &cobra.Command{
	Use:   "init-oracle",
	Short: "set up the price oracle",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		oracles := provideOracleService(database)

		admin, _ := cmd.Flags().GetString("admin")
		stable, _ := cmd.Flags().GetString("stable")

		if err := oracles.Init(ctx, admin, stable); err != nil {
			cmd.PrintErrln("init oracle:", err)
			return
		}

		cmd.Println("oracle initialized")
	},
}

func mustFlag(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(err)
	}

	return v
}

// operator the admin this cli invocation acts as
func operator() string {
	if len(cfg.Admins) > 0 {
		return cfg.Admins[0]
	}

	return ""
}

func init() {
	initPoolCmd.Flags().String("borrow-asset", "", "borrow asset symbol")
	initPoolCmd.Flags().String("collateral-asset", "", "collateral asset symbol")
	initPoolCmd.Flags().String("ltv", "7500", "loan-to-value ratio in basis points")
	initPoolCmd.Flags().String("threshold", "8000", "liquidation threshold in basis points")
	initPoolCmd.Flags().String("bonus", "0", "liquidation bonus in basis points")

	initRateCmd.Flags().String("base", "0", "base rate, scaled by 1e7")
	initRateCmd.Flags().String("slope1", "400000", "slope below the kink, scaled by 1e7")
	initRateCmd.Flags().String("slope2", "7500000", "slope above the kink, scaled by 1e7")
	initRateCmd.Flags().String("optimal", "8000000", "optimal utilization, scaled by 1e7")

	initOracleCmd.Flags().String("admin", "", "oracle admin user id")
	initOracleCmd.Flags().String("stable", "", "stable asset seeded at $1.00")

	rootCmd.AddCommand(initPoolCmd)
	rootCmd.AddCommand(initRateCmd)
	rootCmd.AddCommand(initOracleCmd)
}
