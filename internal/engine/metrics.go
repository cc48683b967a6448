package engine

import (
	"math"

	"services/backtest-service/internal/model"
)

// tradingDaysPerYear annualizes daily equity returns.
const tradingDaysPerYear = 252

// computeMetrics rolls the finished trade log and equity curve into summary
// statistics. Degenerate denominators (no sells, zero volatility, no losses)
// resolve to the documented sentinels instead of propagating.
func computeMetrics(initialCapital, finalEquity float64, trades []model.Trade, curve []model.EquityPoint, maxDrawdown float64) *model.BacktestMetrics {
	totalReturn := (finalEquity - initialCapital) / initialCapital * 100

	var sells, wins int
	var totalProfit, totalLoss float64
	for _, t := range trades {
		if t.Side != model.TradeSell || t.ProfitLoss == nil {
			continue
		}
		sells++
		if *t.ProfitLoss > 0 {
			wins++
			totalProfit += *t.ProfitLoss
		} else if *t.ProfitLoss < 0 {
			totalLoss += -*t.ProfitLoss
		}
	}

	winRate := 0.0
	avgTrade := 0.0
	if sells > 0 {
		winRate = float64(wins) / float64(sells) * 100
		avgTrade = totalReturn / float64(sells)
	}

	profitFactor := 1.0
	if totalLoss > 0 {
		profitFactor = totalProfit / totalLoss
	} else if totalProfit > 0 {
		profitFactor = totalProfit
	}

	return &model.BacktestMetrics{
		TotalReturn:       round2(totalReturn),
		TotalReturnAmount: round2(finalEquity - initialCapital),
		FinalCapital:      round2(finalEquity),
		WinRate:           round2(winRate),
		TotalTrades:       len(trades),
		WinningTrades:     wins,
		LosingTrades:      sells - wins,
		SharpeRatio:       round2(sharpeRatio(curve)),
		MaxDrawdown:       round2(maxDrawdown * 100),
		ProfitFactor:      round2(profitFactor),
		AvgTrade:          round2(avgTrade),
	}
}

// sharpeRatio computes the annualized mean/volatility ratio of day-over-day
// equity returns. This is deliberately not an excess-of-risk-free ratio, and
// it is computed from the equity curve rather than per-trade returns.
func sharpeRatio(curve []model.EquityPoint) float64 {
	if len(curve) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev == 0 {
			return 0
		}
		returns = append(returns, curve[i].Equity/prev-1)
	}

	mean := meanOf(returns)
	sd := sampleStdDev(returns, mean)
	if sd <= 0 || math.IsNaN(sd) {
		return 0
	}
	return mean / sd * math.Sqrt(tradingDaysPerYear)
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev uses the n-1 divisor; with a single observation it is
// undefined and returns NaN, which callers treat as zero volatility.
func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1))
}
