package engine

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"statlab/adapters/stats/resample"
	"statlab/domain/core"
	"statlab/domain/sample"
	"statlab/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSimulate_SortedAndExactLength(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		trials := rapid.IntRange(1, 300).Draw(rt, "trials")
		seed := rapid.Int64().Draw(rt, "seed")
		rng := rand.New(rand.NewSource(seed))

		dist, err := Simulate(trials, rng.NormFloat64, func(v float64) float64 { return v })
		require.NoError(rt, err)
		require.Equal(rt, trials, dist.Len())
		assert.True(rt, sort.Float64sAreSorted(dist.Values()))
	})
}

func TestSimulate_RejectsBadArguments(t *testing.T) {
	identity := func(v float64) float64 { return v }
	zero := func() float64 { return 0 }

	for _, trials := range []int{0, -1, -1000} {
		calls := 0
		_, err := Simulate(trials, func() float64 { calls++; return 0 }, identity)
		assert.True(t, core.IsInvalidArgument(err), "trials=%d", trials)
		assert.Zero(t, calls, "no trial may run when preconditions fail")
	}

	_, err := Simulate[float64](10, nil, identity)
	assert.True(t, core.IsInvalidArgument(err))

	_, err = Simulate(10, zero, nil)
	assert.True(t, core.IsInvalidArgument(err))
}

// TestRun_CorrelationOfFiveShuffledPoints is the end-to-end scenario:
// 1000 shuffles of x=[1..5] against fixed y=[1..5].
func TestRun_CorrelationOfFiveShuffledPoints(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 2, 3, 4, 5}
	resampler, err := resample.NewFullShuffle(rand.New(rand.NewSource(2024)), sample.Paired{X: x, Y: y})
	require.NoError(t, err)

	result, err := Run(1000, resampler, stats.CorrelationStat{})
	require.NoError(t, err)

	dist := result.Distribution
	require.Equal(t, 1000, dist.Len())
	assert.LessOrEqual(t, dist.At(0), dist.At(999))
	assert.True(t, sort.Float64sAreSorted(dist.Values()))
	assert.GreaterOrEqual(t, dist.Min(), -1-1e-9)
	assert.LessOrEqual(t, dist.Max(), 1+1e-9)
	assert.InDelta(t, 0, dist.Summary().Mean, 0.1, "null distribution should centre on zero")
	assert.InDelta(t, dist.Percentile(0.25), -dist.Percentile(0.75), 0.2, "roughly symmetric")

	assert.InDelta(t, 1.0, result.Observed, 1e-12)
	assert.Equal(t, "correlation", result.Kind)
	assert.Equal(t, resample.StrategyFullShuffle, result.Strategy)
	assert.Equal(t, 1000, result.Trials)

	// only the identity arrangement (1 in 120) reaches r = 1
	assert.InDelta(t, 1.0/120.0, result.PValue("upper"), 0.01)

	assert.Equal(t, []float64{1, 2, 3, 4, 5}, x)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, y)
}

func TestRun_SameSeedSameDistribution(t *testing.T) {
	pool, err := sample.NewLabelPool(12, 20, 5, 20)
	require.NoError(t, err)

	runOnce := func() []float64 {
		resampler, err := resample.NewLabelPoolShuffle(rand.New(rand.NewSource(77)), pool)
		require.NoError(t, err)
		result, err := Run(500, resampler, stats.ProportionDiffStat{})
		require.NoError(t, err)
		return result.Distribution.Values()
	}

	assert.Equal(t, runOnce(), runOnce())
}

func TestRun_StreakStatistics(t *testing.T) {
	seq, err := sample.NewSequence("HHHHHHTTTTTT")
	require.NoError(t, err)
	resampler, err := resample.NewSequencePermutation(rand.New(rand.NewSource(11)), seq)
	require.NoError(t, err)

	result, err := Run(400, resampler, stats.LongestStreakStat{})
	require.NoError(t, err)
	assert.Equal(t, 6.0, result.Observed)
	assert.GreaterOrEqual(t, result.Distribution.Min(), 1.0)
	assert.LessOrEqual(t, result.Distribution.Max(), 6.0)

	runs, err := Run(400, resampler, stats.StreaksAtLeastStat{Length: 2})
	require.NoError(t, err)
	assert.Equal(t, 2.0, runs.Observed)
	assert.Equal(t, seq.Fingerprint(), runs.Dataset)
}

type countingResampler struct {
	observed sample.Sequence
	calls    int
}

func (c *countingResampler) Strategy() string          { return "counting" }
func (c *countingResampler) Observed() sample.Sequence { return c.observed }

func (c *countingResampler) Resample() sample.Sequence {
	c.calls++
	return c.observed
}

func TestRun_PreconditionsAbortBeforeTrials(t *testing.T) {
	resampler := &countingResampler{observed: sample.Sequence("HT")}

	_, err := Run[sample.Sequence](100, resampler, stats.CorrelationStat{})
	assert.True(t, core.IsInvalidArgument(err))

	_, err = Run[sample.Sequence](100, resampler, stats.StreaksAtLeastStat{Length: 0})
	assert.True(t, core.IsInvalidArgument(err))

	_, err = Run[sample.Sequence](0, resampler, stats.LongestStreakStat{})
	assert.True(t, core.IsInvalidArgument(err))

	_, err = Run[sample.Sequence](10, nil, stats.LongestStreakStat{})
	assert.True(t, core.IsInvalidArgument(err))

	assert.Zero(t, resampler.calls)
}

func TestRun_DegenerateResamplesYieldNaN(t *testing.T) {
	// Bootstrap draws of two points often repeat one pair, leaving zero variance.
	data := sample.Paired{X: []float64{1, 2}, Y: []float64{3, 5}}
	resampler, err := resample.NewBootstrapPairs(rand.New(rand.NewSource(4)), data)
	require.NoError(t, err)

	result, err := Run(200, resampler, stats.CorrelationStat{})
	require.NoError(t, err)
	assert.Equal(t, 200, result.Distribution.Len())
	assert.Greater(t, result.Distribution.Undefined(), 0)
	assert.True(t, math.IsNaN(result.Distribution.At(0)))
}
