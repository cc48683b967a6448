package service

import (
	"context"
	"fmt"
	"time"

	"services/backtest-service/internal/config"
	"services/backtest-service/internal/data"
	"services/backtest-service/internal/engine"
	"services/backtest-service/internal/model"
	"services/backtest-service/internal/montecarlo"
	"services/backtest-service/internal/risk"
	strategyvalidator "services/backtest-service/internal/validator"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// BacktestService handles backtest operations
type BacktestService struct {
	source   data.BarSource
	runner   *engine.Runner
	validate *validator.Validate
	cfg      *config.Config
	logger   *zap.Logger
}

// NewBacktestService creates a new backtest service
func NewBacktestService(source data.BarSource, cfg *config.Config, logger *zap.Logger) *BacktestService {
	return &BacktestService{
		source:   source,
		runner:   engine.NewRunner(logger, cfg.Backtest.EquityCurvePoints, cfg.Backtest.TradeHistorySize),
		validate: validator.New(),
		cfg:      cfg,
		logger:   logger,
	}
}

// RunBacktest validates the request, applies defaults, fetches the price
// series, and runs the simulation. Malformed requests surface as errors;
// missing data surfaces as a structured failure result, never an error.
func (s *BacktestService) RunBacktest(ctx context.Context, request *model.BacktestRequest) (*model.BacktestResult, error) {
	if err := s.validate.Struct(request); err != nil {
		return nil, fmt.Errorf("invalid backtest request: %w", err)
	}

	if err := strategyvalidator.ValidateBlocks(request.Blocks); err != nil {
		return nil, fmt.Errorf("invalid strategy: %w", err)
	}

	endDate := request.EndDate
	if endDate.IsZero() {
		endDate = time.Now().UTC()
	}
	startDate := request.StartDate
	if startDate.IsZero() {
		startDate = endDate.AddDate(0, 0, -s.cfg.Backtest.LookbackDays)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end date must be after start date")
	}

	initialCapital := request.InitialCapital
	if initialCapital == 0 {
		initialCapital = s.cfg.Backtest.InitialCapital
	}

	runID := uuid.NewString()
	period := startDate.Format(dateLayout) + " to " + endDate.Format(dateLayout)

	bars, err := s.source.Bars(ctx, request.Symbol, startDate, endDate)
	if err != nil {
		s.logger.Error("Failed to fetch price series",
			zap.Error(err),
			zap.String("runID", runID),
			zap.String("symbol", request.Symbol))
		return &model.BacktestResult{
			Success: false,
			RunID:   runID,
			Error:   fmt.Sprintf("failed to fetch data for %s: %v", request.Symbol, err),
		}, nil
	}

	if len(bars) == 0 {
		s.logger.Warn("No data for requested range",
			zap.String("runID", runID),
			zap.String("symbol", request.Symbol),
			zap.String("period", period))
		return &model.BacktestResult{
			Success: false,
			RunID:   runID,
			Error:   fmt.Sprintf("no data available for %s, check symbol or date range", request.Symbol),
		}, nil
	}

	strategy := model.ParseStrategy(request.Blocks)

	result := s.runner.Run(request.Symbol, bars, strategy, initialCapital)
	result.RunID = runID
	result.Period = period

	if result.Success {
		s.logger.Info("Backtest completed",
			zap.String("runID", runID),
			zap.String("symbol", request.Symbol),
			zap.Int("totalTrades", result.TotalTradesCount),
			zap.Float64("totalReturn", result.Metrics.TotalReturn))
	}

	return result, nil
}

// ProjectPricePaths fits the symbol's daily returns over the requested range
// and runs the Monte-Carlo price-path simulation.
func (s *BacktestService) ProjectPricePaths(
	ctx context.Context,
	symbol string,
	startDate, endDate time.Time,
	mcCfg montecarlo.Config,
) (*montecarlo.Summary, error) {
	if endDate.IsZero() {
		endDate = time.Now().UTC()
	}
	if startDate.IsZero() {
		startDate = endDate.AddDate(0, 0, -s.cfg.Backtest.LookbackDays)
	}

	bars, err := s.source.Bars(ctx, symbol, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data for %s: %w", symbol, err)
	}
	if len(bars) < 3 {
		return nil, fmt.Errorf("not enough data for %s to estimate returns", symbol)
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	if mcCfg.Days <= 0 {
		mcCfg.Days = s.cfg.MonteCarlo.Days
	}
	if mcCfg.Trials <= 0 {
		mcCfg.Trials = s.cfg.MonteCarlo.Trials
	}
	if mcCfg.Workers <= 0 {
		mcCfg.Workers = s.cfg.MonteCarlo.Workers
	}

	summary, err := montecarlo.Simulate(ctx, risk.DailyReturns(closes), mcCfg)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Monte-Carlo projection completed",
		zap.String("symbol", symbol),
		zap.Int("trials", summary.TrialsRun),
		zap.Float64("meanFinalMultiple", summary.MeanFinalMultiple))

	return summary, nil
}
