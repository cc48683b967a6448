package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"services/backtest-service/internal/config"
	"services/backtest-service/internal/data"
	"services/backtest-service/internal/model"
	"services/backtest-service/internal/montecarlo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// errorSource fails every fetch, standing in for an unreachable data backend.
type errorSource struct{}

func (errorSource) Bars(context.Context, string, time.Time, time.Time) ([]model.PriceBar, error) {
	return nil, errors.New("connection refused")
}

func flatBars(n int, close float64) []model.PriceBar {
	bars := make([]model.PriceBar, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = model.PriceBar{Date: start.AddDate(0, 0, i), Close: close}
	}
	return bars
}

func newTestService(t *testing.T, source data.BarSource) *BacktestService {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	return NewBacktestService(source, cfg, zap.NewNop())
}

func buyAndHoldRequest() *model.BacktestRequest {
	return &model.BacktestRequest{
		Symbol:    "RELIANCE.NS",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Blocks: []model.StrategyBlock{
			{Type: "action", ID: "buy", Params: map[string]any{"quantity": "percentage", "value": 100.0}},
		},
	}
}

func TestRunBacktest_RejectsInvalidRequest(t *testing.T) {
	svc := newTestService(t, data.NewSliceSource(nil))

	_, err := svc.RunBacktest(context.Background(), &model.BacktestRequest{Symbol: ""})
	assert.ErrorContains(t, err, "invalid backtest request")
}

func TestRunBacktest_RejectsInvalidStrategy(t *testing.T) {
	svc := newTestService(t, data.NewSliceSource(nil))

	req := buyAndHoldRequest()
	req.Blocks = []model.StrategyBlock{
		{Type: "indicator", ID: "rsi", Params: map[string]any{"period": 1.0}},
	}
	_, err := svc.RunBacktest(context.Background(), req)
	assert.ErrorContains(t, err, "invalid strategy")
}

func TestRunBacktest_RejectsInvertedDateRange(t *testing.T) {
	svc := newTestService(t, data.NewSliceSource(nil))

	req := buyAndHoldRequest()
	req.StartDate, req.EndDate = req.EndDate, req.StartDate
	_, err := svc.RunBacktest(context.Background(), req)
	assert.ErrorContains(t, err, "end date must be after start date")
}

func TestRunBacktest_FetchFailureIsStructuredResult(t *testing.T) {
	svc := newTestService(t, errorSource{})

	result, err := svc.RunBacktest(context.Background(), buyAndHoldRequest())
	require.NoError(t, err, "data failures are reported in the result, not as errors")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "failed to fetch data for RELIANCE.NS")
	assert.NotEmpty(t, result.RunID)
}

func TestRunBacktest_EmptyRangeIsStructuredResult(t *testing.T) {
	svc := newTestService(t, data.NewSliceSource(nil))

	result, err := svc.RunBacktest(context.Background(), buyAndHoldRequest())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "no data available for RELIANCE.NS")
	assert.NotEmpty(t, result.RunID)
}

func TestRunBacktest_BuyAndHoldFlatSeries(t *testing.T) {
	svc := newTestService(t, data.NewSliceSource(flatBars(10, 100)))

	result, err := svc.RunBacktest(context.Background(), buyAndHoldRequest())
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "2024-01-01 to 2024-01-10", result.Period)
	assert.Equal(t, "RELIANCE.NS", result.Symbol)
	assert.Equal(t, 100000.0, result.InitialCapital, "config default applies when the request omits capital")
	assert.Equal(t, 100000.0, result.FinalEquity)
	assert.Equal(t, 2, result.TotalTradesCount, "entry plus forced final close")

	require.Len(t, result.Trades, 2)
	assert.Equal(t, model.TradeBuy, result.Trades[0].Side)
	assert.Equal(t, 1000, result.Trades[0].Shares)
	assert.Equal(t, model.ReasonEndOfBacktest, result.Trades[1].Reason)

	require.NotNil(t, result.Metrics)
	assert.Equal(t, 0.0, result.Metrics.TotalReturn)
}

func TestRunBacktest_RequestCapitalOverridesDefault(t *testing.T) {
	svc := newTestService(t, data.NewSliceSource(flatBars(10, 100)))

	req := buyAndHoldRequest()
	req.InitialCapital = 5000
	result, err := svc.RunBacktest(context.Background(), req)
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)

	assert.Equal(t, 5000.0, result.InitialCapital)
	assert.Equal(t, 50, result.Trades[0].Shares)
}

func TestProjectPricePaths(t *testing.T) {
	bars := flatBars(10, 100)
	for i := range bars {
		// Alternate small moves so the fitted distribution has volatility.
		if i%2 == 1 {
			bars[i].Close = 101
		}
	}
	svc := newTestService(t, data.NewSliceSource(bars))

	summary, err := svc.ProjectPricePaths(context.Background(), "RELIANCE.NS",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		montecarlo.Config{Days: 10, Trials: 100, Seed: 1})
	require.NoError(t, err)

	assert.Equal(t, 100, summary.TrialsRun)
	assert.LessOrEqual(t, summary.Percentile5, summary.Percentile95)
}

func TestProjectPricePaths_NotEnoughData(t *testing.T) {
	svc := newTestService(t, data.NewSliceSource(flatBars(2, 100)))

	_, err := svc.ProjectPricePaths(context.Background(), "RELIANCE.NS",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		montecarlo.Config{})
	assert.ErrorContains(t, err, "not enough data")
}
