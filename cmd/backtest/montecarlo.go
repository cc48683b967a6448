package main

import (
	"services/backtest-service/internal/data"
	"services/backtest-service/internal/montecarlo"
	"services/backtest-service/internal/service"

	"github.com/spf13/cobra"
)

func newMonteCarloCmd() *cobra.Command {
	var (
		barsPath string
		symbol   string
		startStr string
		endStr   string
		days     int
		trials   int
		workers  int
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Project price-path outcomes from a CSV bar file's daily returns",
		RunE: func(cmd *cobra.Command, args []string) error {
			bars, err := data.LoadCSV(barsPath)
			if err != nil {
				return err
			}

			start, end, err := parseDates(startStr, endStr)
			if err != nil {
				return err
			}

			svc := service.NewBacktestService(data.NewSliceSource(bars), cfg, logger)
			summary, err := svc.ProjectPricePaths(cmd.Context(), symbol, start, end, montecarlo.Config{
				Days:    days,
				Trials:  trials,
				Workers: workers,
				Seed:    seed,
			})
			if err != nil {
				return err
			}

			return printJSON(summary)
		},
	}

	cmd.Flags().StringVar(&barsPath, "bars", "", "CSV file of date,close bars")
	cmd.Flags().StringVar(&symbol, "symbol", "series", "symbol identifier for logging")
	cmd.Flags().StringVar(&startStr, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endStr, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&days, "days", 0, "trading days per trial (default from config)")
	cmd.Flags().IntVar(&trials, "trials", 0, "number of trials (default from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (default from config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed for reproducible runs")
	cmd.MarkFlagRequired("bars")

	return cmd
}

func newSymbolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symbols",
		Short: "List the popular-symbols catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(data.PopularSymbols())
		},
	}
}
