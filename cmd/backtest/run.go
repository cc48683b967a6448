package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"services/backtest-service/internal/data"
	"services/backtest-service/internal/model"
	"services/backtest-service/internal/service"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

func newRunCmd() *cobra.Command {
	var (
		barsPath     string
		strategyPath string
		symbol       string
		startStr     string
		endStr       string
		capital      float64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a strategy backtest over a CSV bar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			bars, err := data.LoadCSV(barsPath)
			if err != nil {
				return err
			}

			blocks, err := loadStrategyFile(strategyPath)
			if err != nil {
				return err
			}

			start, end, err := parseDates(startStr, endStr)
			if err != nil {
				return err
			}

			svc := service.NewBacktestService(data.NewSliceSource(bars), cfg, logger)
			result, err := svc.RunBacktest(cmd.Context(), &model.BacktestRequest{
				Symbol:         symbol,
				StartDate:      start,
				EndDate:        end,
				InitialCapital: capital,
				Blocks:         blocks,
			})
			if err != nil {
				return err
			}

			return printJSON(result)
		},
	}

	cmd.Flags().StringVar(&barsPath, "bars", "", "CSV file of date,close bars")
	cmd.Flags().StringVar(&strategyPath, "strategy", "", "strategy block-list file (JSON or YAML)")
	cmd.Flags().StringVar(&symbol, "symbol", "", "symbol identifier for the run")
	cmd.Flags().StringVar(&startStr, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endStr, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&capital, "capital", 0, "initial capital (default from config)")
	cmd.MarkFlagRequired("bars")
	cmd.MarkFlagRequired("strategy")
	cmd.MarkFlagRequired("symbol")

	return cmd
}

// loadStrategyFile parses a block list from YAML or JSON, chosen by file
// extension.
func loadStrategyFile(path string) ([]model.StrategyBlock, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read strategy file: %w", err)
	}

	var blocks []model.StrategyBlock
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &blocks)
	default:
		err = json.Unmarshal(raw, &blocks)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse strategy file: %w", err)
	}
	return blocks, nil
}

func parseDates(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error
	if startStr != "" {
		start, err = time.Parse(dateLayout, startStr)
		if err != nil {
			return start, end, fmt.Errorf("invalid start date: %w", err)
		}
	}
	if endStr != "" {
		end, err = time.Parse(dateLayout, endStr)
		if err != nil {
			return start, end, fmt.Errorf("invalid end date: %w", err)
		}
	}
	return start, end, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
