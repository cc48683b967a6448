package montecarlo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testReturns = []float64{0.01, -0.005, 0.02, -0.01, 0.008, -0.002}

func TestSimulate_RequiresReturnHistory(t *testing.T) {
	_, err := Simulate(context.Background(), []float64{0.01}, Config{})
	assert.Error(t, err)
}

func TestSimulate_ReproducibleForFixedSeed(t *testing.T) {
	cfg := Config{Days: 20, Trials: 200, Seed: 42, Workers: 2}

	first, err := Simulate(context.Background(), testReturns, cfg)
	require.NoError(t, err)
	second, err := Simulate(context.Background(), testReturns, cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSimulate_SummaryInvariants(t *testing.T) {
	summary, err := Simulate(context.Background(), testReturns, Config{Days: 30, Trials: 500, Seed: 7, Workers: 4})
	require.NoError(t, err)

	assert.Equal(t, 500, summary.TrialsRun)
	assert.LessOrEqual(t, summary.Percentile5, summary.Percentile95)
	assert.GreaterOrEqual(t, summary.ProbabilityPositive, 0.0)
	assert.LessOrEqual(t, summary.ProbabilityPositive, 1.0)
	assert.Greater(t, summary.MeanFinalMultiple, 0.0, "compounded multiples stay positive for small daily moves")
}

func TestSimulate_ZeroVolatilityIsDeterministicDrift(t *testing.T) {
	// Identical returns: sigma is 0, so every path compounds the mean exactly.
	summary, err := Simulate(context.Background(), []float64{0.01, 0.01, 0.01}, Config{Days: 10, Trials: 50, Seed: 1})
	require.NoError(t, err)

	want := 1.0
	for i := 0; i < 10; i++ {
		want *= 1.01
	}
	assert.InDelta(t, want, summary.MeanFinalMultiple, 1e-9)
	assert.InDelta(t, want, summary.Percentile5, 1e-9)
	assert.InDelta(t, want, summary.Percentile95, 1e-9)
	assert.Equal(t, 1.0, summary.ProbabilityPositive)
}

func TestSimulate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Simulate(ctx, testReturns, Config{Days: 50, Trials: 1000, Seed: 3})
	assert.Error(t, err)
}

func TestSimulate_DefaultsApplied(t *testing.T) {
	summary, err := Simulate(context.Background(), testReturns, Config{Days: 5, Trials: 10, Seed: 9})
	require.NoError(t, err)
	assert.Equal(t, 10, summary.TrialsRun)
}

func TestPercentile_Interpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 1.2, percentile(sorted, 5), 1e-9)
	assert.InDelta(t, 3.0, percentile(sorted, 50), 1e-9)
	assert.InDelta(t, 4.8, percentile(sorted, 95), 1e-9)
	assert.Equal(t, 0.0, percentile(nil, 50))
}
