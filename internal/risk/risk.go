// Package risk computes summary risk/return statistics over raw price and
// return series, independent of any strategy simulation.
package risk

import "math"

const tradingDaysPerYear = 252

// DailyReturns converts a closing-price series into day-over-day percentage
// changes. The result has one fewer element than the input.
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		out = append(out, closes[i]/closes[i-1]-1)
	}
	return out
}

// CAGR returns the compound annual growth rate between two values over the
// given number of years. Non-positive inputs yield 0.
func CAGR(startValue, endValue, years float64) float64 {
	if startValue <= 0 || years <= 0 {
		return 0
	}
	return math.Pow(endValue/startValue, 1/years) - 1
}

// Volatility annualizes the sample standard deviation of daily returns.
func Volatility(returns []float64) float64 {
	sd := sampleStdDev(returns)
	if math.IsNaN(sd) {
		return 0
	}
	return sd * math.Sqrt(tradingDaysPerYear)
}

// SharpeRatio computes the annualized excess return over the risk-free rate
// divided by annualized volatility. Zero volatility yields 0.
func SharpeRatio(returns []float64, riskFreeRate float64) float64 {
	vol := Volatility(returns)
	if vol == 0 {
		return 0
	}
	excess := mean(returns)*tradingDaysPerYear - riskFreeRate
	return excess / vol
}

// Beta computes the sensitivity of an asset's returns to a benchmark's:
// sample covariance of the two series over the benchmark's population
// variance. Series are truncated to their common length; a zero-variance
// benchmark yields 0.
func Beta(assetReturns, benchmarkReturns []float64) float64 {
	n := len(assetReturns)
	if len(benchmarkReturns) < n {
		n = len(benchmarkReturns)
	}
	if n < 2 {
		return 0
	}

	a := assetReturns[:n]
	b := benchmarkReturns[:n]
	meanA := mean(a)
	meanB := mean(b)

	var cov, varB float64
	for i := 0; i < n; i++ {
		cov += (a[i] - meanA) * (b[i] - meanB)
		varB += (b[i] - meanB) * (b[i] - meanB)
	}
	cov /= float64(n - 1)
	varB /= float64(n)

	if varB == 0 {
		return 0
	}
	return cov / varB
}

// Drawdown describes the deepest peak-to-trough decline of a price series.
type Drawdown struct {
	MaxDrawdown float64 // negative fraction, e.g. -0.25 for a 25% decline
	PeakIndex   int
	TroughIndex int
}

// MaxDrawdown scans a price series for its deepest decline from a running
// peak.
func MaxDrawdown(prices []float64) Drawdown {
	var dd Drawdown
	if len(prices) == 0 {
		return dd
	}

	peak := prices[0]
	peakIdx := 0
	for i, p := range prices {
		if p > peak {
			peak = p
			peakIdx = i
		}
		if peak <= 0 {
			continue
		}
		if d := (p - peak) / peak; d < dd.MaxDrawdown {
			dd.MaxDrawdown = d
			dd.PeakIndex = peakIdx
			dd.TroughIndex = i
		}
	}
	return dd
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	m := mean(values)
	var sq float64
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1))
}
