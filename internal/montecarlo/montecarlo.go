// Package montecarlo projects price-path outcomes by compounding normally
// distributed daily returns fitted to an observed return series. Trials are
// statistically independent, so they run in parallel without any ordering
// constraint; only summary percentiles of the trial outcomes are retained.
package montecarlo

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Config controls a simulation. Zero values fall back to the defaults.
type Config struct {
	Days    int   // horizon per trial
	Trials  int   // independent paths
	Seed    int64 // base RNG seed; trials are reproducible for a fixed seed and worker count
	Workers int
}

const (
	defaultDays    = 252
	defaultTrials  = 1000
	defaultWorkers = 4
)

// Summary aggregates the final price multiples of all trials.
type Summary struct {
	MeanFinalMultiple   float64 `json:"mean_final_multiple"`
	Percentile5         float64 `json:"percentile_5"`
	Percentile95        float64 `json:"percentile_95"`
	ProbabilityPositive float64 `json:"probability_positive"`
	TrialsRun           int     `json:"simulations_run"`
}

// Simulate fits a normal distribution to the observed daily returns and
// compounds random paths over the configured horizon. At least two return
// observations are required to estimate volatility.
func Simulate(ctx context.Context, returns []float64, cfg Config) (*Summary, error) {
	if len(returns) < 2 {
		return nil, errors.New("at least two return observations are required")
	}

	if cfg.Days <= 0 {
		cfg.Days = defaultDays
	}
	if cfg.Trials <= 0 {
		cfg.Trials = defaultTrials
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.Workers > cfg.Trials {
		cfg.Workers = cfg.Trials
	}

	mu := mean(returns)
	sigma := sampleStdDev(returns, mu)

	finals := make([]float64, cfg.Trials)
	g, ctx := errgroup.WithContext(ctx)

	chunk := (cfg.Trials + cfg.Workers - 1) / cfg.Workers
	for w := 0; w < cfg.Workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > cfg.Trials {
			hi = cfg.Trials
		}
		if lo >= hi {
			break
		}

		rng := rand.New(rand.NewSource(cfg.Seed + int64(w)))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				multiple := 1.0
				for d := 0; d < cfg.Days; d++ {
					multiple *= 1 + mu + sigma*rng.NormFloat64()
				}
				finals[i] = multiple
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	positive := 0
	for _, f := range finals {
		if f > 1 {
			positive++
		}
	}

	sorted := append([]float64(nil), finals...)
	sort.Float64s(sorted)

	return &Summary{
		MeanFinalMultiple:   mean(finals),
		Percentile5:         percentile(sorted, 5),
		Percentile95:        percentile(sorted, 95),
		ProbabilityPositive: float64(positive) / float64(len(finals)),
		TrialsRun:           cfg.Trials,
	}, nil
}

// percentile interpolates linearly between order statistics, matching the
// conventional (numpy) definition. Input must be sorted.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleStdDev(values []float64, mean float64) float64 {
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1))
}
