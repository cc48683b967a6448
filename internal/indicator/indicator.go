package indicator

import (
	"math"

	"services/backtest-service/internal/model"
)

// Series keys a computed indicator can be referenced by in conditions.
const (
	KeySMA           = "sma"
	KeyEMA           = "ema"
	KeyRSI           = "rsi"
	KeyMACD          = "macd"
	KeyMACDSignal    = "macd_signal"
	KeyMACDHistogram = "macd_histogram"
	KeyBBUpper       = "bb_upper"
	KeyBBMiddle      = "bb_middle"
	KeyBBLower       = "bb_lower"
)

// Series is a derived value series aligned index-for-index with the closing
// prices it was computed from. Samples inside the warm-up window are not
// defined; At reports definedness explicitly so an absent value can never be
// misread as zero.
type Series struct {
	values []float64
	valid  []bool
}

func newSeries(n int) Series {
	return Series{values: make([]float64, n), valid: make([]bool, n)}
}

// Len returns the series length.
func (s Series) Len() int { return len(s.values) }

// At returns the value at index i and whether it is defined.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s.values) {
		return 0, false
	}
	return s.values[i], s.valid[i]
}

func (s *Series) set(i int, v float64) {
	s.values[i] = v
	s.valid[i] = true
}

// Compute resolves every declared indicator into its named series. Indicators
// of the same kind share a key, so a later declaration overwrites an earlier
// one, matching the wire format's semantics.
func Compute(closes []float64, specs []model.IndicatorSpec) map[string]Series {
	out := make(map[string]Series)

	for _, spec := range specs {
		switch spec.Kind {
		case model.IndicatorSMA:
			out[KeySMA] = SMA(closes, spec.Period)
		case model.IndicatorEMA:
			out[KeyEMA] = EMA(closes, spec.Period)
		case model.IndicatorRSI:
			out[KeyRSI] = RSI(closes, spec.Period)
		case model.IndicatorMACD:
			macd, signal, hist := MACD(closes, spec.Fast, spec.Slow, spec.Signal)
			out[KeyMACD] = macd
			out[KeyMACDSignal] = signal
			out[KeyMACDHistogram] = hist
		case model.IndicatorBollinger:
			upper, middle, lower := Bollinger(closes, spec.Period, spec.StdDev)
			out[KeyBBUpper] = upper
			out[KeyBBMiddle] = middle
			out[KeyBBLower] = lower
		}
	}

	return out
}

// ValuesAt collects the defined indicator values for day i.
func ValuesAt(series map[string]Series, i int) map[string]float64 {
	out := make(map[string]float64, len(series))
	for key, s := range series {
		if v, ok := s.At(i); ok {
			out[key] = v
		}
	}
	return out
}

// SMA computes the simple moving average over a trailing window. The first
// period-1 samples are undefined.
func SMA(closes []float64, period int) Series {
	s := newSeries(len(closes))
	if period < 1 {
		return s
	}

	var sum float64
	for i, c := range closes {
		sum += c
		if i >= period {
			sum -= closes[i-period]
		}
		if i >= period-1 {
			s.set(i, sum/float64(period))
		}
	}
	return s
}

// EMA computes the exponential moving average with smoothing factor
// 2/(span+1), seeded at the first close. Defined from day 0.
func EMA(closes []float64, span int) Series {
	s := newSeries(len(closes))
	if len(closes) == 0 || span < 1 {
		return s
	}

	alpha := 2.0 / (float64(span) + 1)
	prev := closes[0]
	s.set(0, prev)
	for i := 1; i < len(closes); i++ {
		prev = alpha*closes[i] + (1-alpha)*prev
		s.set(i, prev)
	}
	return s
}

// RSI computes the relative strength index from simple rolling means of
// up-moves and down-moves (not Wilder smoothing). When the average loss is
// zero the ratio saturates at 100; when the average gain is also zero the
// sample is undefined.
func RSI(closes []float64, period int) Series {
	s := newSeries(len(closes))
	if period < 1 || len(closes) < period+1 {
		return s
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	var gainSum, lossSum float64
	for i := 1; i < len(closes); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i < period {
			continue
		}

		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)
		if avgLoss == 0 {
			if avgGain == 0 {
				continue
			}
			s.set(i, 100)
			continue
		}
		rs := avgGain / avgLoss
		s.set(i, 100-100/(1+rs))
	}
	return s
}

// MACD computes the MACD line (EMA fast minus EMA slow), its signal line
// (EMA of the MACD line) and the histogram (MACD minus signal).
func MACD(closes []float64, fast, slow, signal int) (Series, Series, Series) {
	n := len(closes)
	macd := newSeries(n)
	sig := newSeries(n)
	hist := newSeries(n)
	if n == 0 || fast < 1 || slow < 1 || signal < 1 {
		return macd, sig, hist
	}

	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)

	line := make([]float64, n)
	for i := 0; i < n; i++ {
		f, _ := emaFast.At(i)
		sl, _ := emaSlow.At(i)
		line[i] = f - sl
	}
	sigLine := EMA(line, signal)

	for i := 0; i < n; i++ {
		sv, _ := sigLine.At(i)
		macd.set(i, line[i])
		sig.set(i, sv)
		hist.set(i, line[i]-sv)
	}
	return macd, sig, hist
}

// Bollinger computes the middle band (SMA), and upper/lower bands offset by
// stdDev sample standard deviations of the trailing window.
func Bollinger(closes []float64, period int, stdDev float64) (Series, Series, Series) {
	n := len(closes)
	upper := newSeries(n)
	middle := SMA(closes, period)
	lower := newSeries(n)
	if period < 2 {
		return upper, middle, lower
	}

	for i := period - 1; i < n; i++ {
		mean, ok := middle.At(i)
		if !ok {
			continue
		}
		var sq float64
		for j := i - period + 1; j <= i; j++ {
			d := closes[j] - mean
			sq += d * d
		}
		sd := math.Sqrt(sq / float64(period-1))
		upper.set(i, mean+stdDev*sd)
		lower.set(i, mean-stdDev*sd)
	}
	return upper, middle, lower
}
