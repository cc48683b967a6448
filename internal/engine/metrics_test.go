package engine

import (
	"testing"

	"services/backtest-service/internal/model"

	"github.com/stretchr/testify/assert"
)

func sellWithPL(pl float64) model.Trade {
	plPct := pl / 100
	return model.Trade{Side: model.TradeSell, ProfitLoss: &pl, ProfitLossPercent: &plPct}
}

func TestComputeMetrics_WinRateCountsOnlyRealizedSells(t *testing.T) {
	trades := []model.Trade{
		{Side: model.TradeBuy},
		sellWithPL(500),
		{Side: model.TradeBuy},
		sellWithPL(-200),
		{Side: model.TradeBuy},
		sellWithPL(300),
	}
	m := computeMetrics(100000, 100600, trades, nil, 0)

	assert.Equal(t, 6, m.TotalTrades)
	assert.Equal(t, 2, m.WinningTrades)
	assert.Equal(t, 1, m.LosingTrades)
	assert.InDelta(t, 66.67, m.WinRate, 0.01)
	assert.InDelta(t, 4.0, m.ProfitFactor, 1e-9) // 800 / 200
	assert.InDelta(t, 0.6, m.TotalReturn, 1e-9)
	assert.InDelta(t, 0.2, m.AvgTrade, 1e-9) // 0.6% over 3 realized sells
}

func TestComputeMetrics_NoTrades(t *testing.T) {
	m := computeMetrics(100000, 100000, nil, nil, 0)

	assert.Equal(t, 0.0, m.WinRate)
	assert.Equal(t, 0.0, m.AvgTrade)
	assert.Equal(t, 1.0, m.ProfitFactor, "no profit and no loss defaults to 1")
	assert.Equal(t, 0, m.TotalTrades)
}

func TestComputeMetrics_NoLossesProfitFactorIsTotalProfit(t *testing.T) {
	trades := []model.Trade{sellWithPL(1500)}
	m := computeMetrics(100000, 101500, trades, nil, 0)

	assert.Equal(t, 1500.0, m.ProfitFactor)
	assert.Equal(t, 100.0, m.WinRate)
}

func TestComputeMetrics_DrawdownAsPercentage(t *testing.T) {
	m := computeMetrics(100000, 90000, nil, nil, 0.1234)
	assert.Equal(t, 12.34, m.MaxDrawdown)
}

func TestSharpeRatio_FlatCurveIsZero(t *testing.T) {
	curve := []model.EquityPoint{
		{Equity: 100000}, {Equity: 100000}, {Equity: 100000},
	}
	assert.Equal(t, 0.0, sharpeRatio(curve))
}

func TestSharpeRatio_TooFewPointsIsZero(t *testing.T) {
	assert.Equal(t, 0.0, sharpeRatio(nil))
	assert.Equal(t, 0.0, sharpeRatio([]model.EquityPoint{{Equity: 100000}}))
	// Two points yield one return, which has no sample deviation.
	assert.Equal(t, 0.0, sharpeRatio([]model.EquityPoint{{Equity: 100000}, {Equity: 101000}}))
}

func TestSharpeRatio_AnnualizedSampleDeviation(t *testing.T) {
	// Returns +1%, -1%: mean 0 -> Sharpe 0 despite volatility.
	curve := []model.EquityPoint{
		{Equity: 100000}, {Equity: 101000}, {Equity: 99990},
	}
	assert.InDelta(t, 0.0, sharpeRatio(curve), 1e-9)

	// Monotonic growth has a positive ratio.
	curve = []model.EquityPoint{
		{Equity: 100000}, {Equity: 101000}, {Equity: 103000}, {Equity: 104000},
	}
	assert.Greater(t, sharpeRatio(curve), 0.0)
}
