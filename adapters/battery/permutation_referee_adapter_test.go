package battery

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statlab/domain/core"
	"statlab/domain/sample"
	"statlab/domain/simulation"
	"statlab/domain/stats"
	"statlab/domain/verdict"
	"statlab/internal"
	"statlab/internal/testkit"
)

func newReferee(t *testing.T) (*PermutationReferee, *testkit.TestKit) {
	t.Helper()
	testKit, err := testkit.NewTestKit()
	if err != nil {
		t.Fatalf("Failed to create test kit: %v", err)
	}
	referee := NewPermutationReferee(testKit.RNGAdapter(), internal.NewLogger(internal.LogLevelError))
	referee.SetNumShuffles(1000) // Use 1000 for faster tests
	referee.SetSeed(42)
	return referee, testKit
}

func TestPermutationReferee_CorrelationTest(t *testing.T) {
	ctx := context.Background()
	referee, testKit := newReferee(t)

	tests := []struct {
		name        string
		data        sample.Paired
		tail        simulation.Tail
		expectValid bool
		description string
	}{
		{
			name:        "strong positive correlation should validate",
			data:        testKit.StrongPaired(),
			tail:        simulation.TailUpper,
			expectValid: true,
			description: "Strong correlation should pass permutation test",
		},
		{
			name: "symmetric pattern should reject",
			data: sample.Paired{
				X: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
				Y: []float64{1, 2, 3, 4, 5, 5, 4, 3, 2, 1},
			},
			tail:        simulation.TailTwoSided,
			expectValid: false,
			description: "r is exactly 0 so every shuffle is at least as extreme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := referee.CorrelationTest(ctx, tt.data, tt.tail)
			require.NoError(t, err, tt.description)

			assert.Equal(t, TestCorrelation, result.TestUsed)
			assert.Equal(t, 1000, result.Simulation.Trials)
			assert.Equal(t, 1000, result.Simulation.Distribution.Len())
			assert.Equal(t, tt.tail, result.Tail)
			require.NotNil(t, result.Reference)
			require.NotNil(t, result.Manifest)
			assert.NoError(t, result.Manifest.Validate())
			assert.True(t, result.Manifest.Fingerprint.Reproducible())

			if tt.expectValid {
				assert.Equal(t, verdict.StatusValidated, result.Verdict.Status, tt.description)
				assert.Less(t, result.PValue, 0.05)
				assert.Nil(t, result.FalsificationLog)
			} else {
				assert.Equal(t, verdict.StatusRejected, result.Verdict.Status, tt.description)
				assert.Equal(t, 1.0, result.PValue)
				require.NotNil(t, result.FalsificationLog)
				assert.Equal(t, verdict.ReasonLikelyRandom, result.FalsificationLog.Reason)
				assert.Equal(t, tt.data.Len(), result.FalsificationLog.SampleSize)
			}
		})
	}
}

func TestPermutationReferee_SameSeedReproduces(t *testing.T) {
	ctx := context.Background()
	first, testKit := newReferee(t)
	second, _ := newReferee(t)
	data := testKit.NoisePaired()

	a, err := first.SlopeTest(ctx, data, simulation.TailTwoSided)
	require.NoError(t, err)
	b, err := second.SlopeTest(ctx, data, simulation.TailTwoSided)
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Simulation.Distribution.Values(), b.Simulation.Distribution.Values())
	assert.Equal(t, a.PValue, b.PValue)
	assert.Equal(t, a.Manifest.Fingerprint.Fingerprint, b.Manifest.Fingerprint.Fingerprint)
}

func TestPermutationReferee_SlopeTest(t *testing.T) {
	referee, testKit := newReferee(t)
	data := testKit.StrongPaired()

	result, err := referee.SlopeTest(context.Background(), data, simulation.TailUpper)
	require.NoError(t, err)

	assert.InDelta(t, stats.Slope(data.X, data.Y), result.Simulation.Observed, 1e-12)
	assert.Equal(t, verdict.StatusValidated, result.Verdict.Status)
	require.NotNil(t, result.Reference)
	assert.Less(t, result.Reference.PValue, 0.001)
}

func TestPermutationReferee_ProportionTest(t *testing.T) {
	ctx := context.Background()
	referee, _ := newReferee(t)

	result, err := referee.ProportionTest(ctx, 9, 10, 1, 10, simulation.TailUpper)
	require.NoError(t, err)

	assert.InDelta(t, 0.8, result.Simulation.Observed, 1e-12)
	assert.Less(t, result.PValue, 0.05)
	assert.Equal(t, verdict.StatusValidated, result.Verdict.Status)
	require.NotNil(t, result.Reference)
	assert.Equal(t, "two-proportion z", result.Reference.Method)

	// every simulated difference is a multiple of 1/10
	for _, v := range result.Simulation.Distribution.Values() {
		assert.InDelta(t, math.Round(v*10), v*10, 1e-9)
	}

	_, err = referee.ProportionTest(ctx, 11, 10, 1, 10, simulation.TailUpper)
	assert.True(t, core.IsInvalidArgument(err))
}

func TestPermutationReferee_StreakTest(t *testing.T) {
	ctx := context.Background()
	referee, _ := newReferee(t)
	gen := testkit.NewDataGenerator(testkit.GeneratorConfig{N: 60, Seed: 1})

	result, err := referee.StreakTest(ctx, gen.Blocks('H', 'T', 15), nil)
	require.NoError(t, err)
	assert.Equal(t, 15.0, result.Simulation.Observed)
	assert.Equal(t, simulation.TailUpper, result.Tail)
	assert.Less(t, result.PValue, 0.05)

	result, err = referee.StreakTest(ctx, gen.Blocks('H', 'T', 15), stats.StreaksAtLeastStat{Length: 15})
	require.NoError(t, err)
	assert.Equal(t, 4.0, result.Simulation.Observed)

	_, err = referee.StreakTest(ctx, gen.Blocks('H', 'T', 15), stats.CorrelationStat{})
	assert.True(t, core.IsInvalidArgument(err))
}

func TestPermutationReferee_Bootstrap(t *testing.T) {
	ctx := context.Background()
	referee, testKit := newReferee(t)

	obs := testKit.Generator().Observations(10, 2)
	mean, err := referee.BootstrapMean(ctx, obs, 0.95)
	require.NoError(t, err)
	assert.Less(t, mean.Lower, mean.Upper)
	assert.True(t, mean.Lower <= stats.Mean(obs) && stats.Mean(obs) <= mean.Upper)
	assert.Equal(t, 0.95, mean.Level)

	corr, err := referee.BootstrapCorrelation(ctx, testKit.StrongPaired(), 0.90)
	require.NoError(t, err)
	assert.Greater(t, corr.Lower, 0.9)
	assert.LessOrEqual(t, corr.Upper, 1.0+1e-12)

	_, err = referee.BootstrapMean(ctx, obs, 1.5)
	assert.True(t, core.IsInvalidArgument(err))
}

func TestPermutationReferee_Preconditions(t *testing.T) {
	referee, testKit := newReferee(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := referee.CorrelationTest(ctx, testKit.StrongPaired(), simulation.TailUpper)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = referee.CorrelationTest(context.Background(), testKit.StrongPaired(), simulation.Tail("sideways"))
	assert.True(t, core.IsInvalidArgument(err))

	_, err = referee.CorrelationTest(context.Background(), sample.Paired{X: []float64{1, 2}, Y: []float64{1}}, simulation.TailUpper)
	assert.True(t, core.IsInvalidArgument(err))

	// constant x leaves r undefined, which is reported rather than raised
	result, err := referee.CorrelationTest(context.Background(), sample.Paired{X: []float64{1, 1, 1}, Y: []float64{1, 2, 3}}, simulation.TailUpper)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(result.PValue))
	assert.Equal(t, verdict.ReasonUndefined, result.Verdict.Reason)
	assert.Equal(t, 1000, result.NullDistribution.Undefined)

	assert.Error(t, referee.SetAlpha(0))
	assert.Error(t, referee.SetAlpha(1))
	assert.NoError(t, referee.SetAlpha(0.01))

	referee.SetNumShuffles(0)
	assert.Equal(t, 1, referee.NumShuffles())
	referee.SetNumShuffles(MaxShuffles + 1)
	assert.Equal(t, MaxShuffles, referee.NumShuffles())
}

func TestPermutationReferee_PairedTest(t *testing.T) {
	referee, testKit := newReferee(t)
	data := testKit.StrongPaired()

	result, err := referee.PairedTest(context.Background(), data, stats.InterceptStat{}, simulation.TailTwoSided)
	require.NoError(t, err)
	assert.Equal(t, "intercept_permutation", result.TestUsed)
	assert.InDelta(t, stats.Intercept(data.X, data.Y), result.Simulation.Observed, 1e-12)
	assert.Nil(t, result.Reference)

	_, err = referee.PairedTest(context.Background(), data, nil, simulation.TailUpper)
	assert.True(t, core.IsInvalidArgument(err))

	_, err = referee.PairedTest(context.Background(), data, stats.LongestStreakStat{}, simulation.TailUpper)
	assert.True(t, core.IsInvalidArgument(err))
}

func TestPermutationReferee_PairedTestTwoSidedOffCentre(t *testing.T) {
	referee, _ := newReferee(t)
	referee.SetSeed(7)
	data := sample.Paired{
		X: []float64{1, 2, 3, 4, 5, 6, 7, 8},
		Y: []float64{50.2, 49.1, 51.3, 50.8, 49.7, 52.0, 50.4, 51.6},
	}

	for _, stat := range []stats.Statistic{stats.InterceptStat{}, stats.ResidualSDStat{}} {
		t.Run(string(stat.Kind()), func(t *testing.T) {
			result, err := referee.PairedTest(context.Background(), data, stat, simulation.TailTwoSided)
			require.NoError(t, err)
			require.True(t, result.Simulation.OffCentre)

			dist := result.Simulation.Distribution
			upper := dist.PValue(result.Simulation.Observed, simulation.TailUpper)
			lower := dist.PValue(result.Simulation.Observed, simulation.TailLower)
			assert.InDelta(t, math.Min(1, 2*math.Min(upper, lower)), result.PValue, 1e-12)
		})
	}

	result, err := referee.CorrelationTest(context.Background(), data, simulation.TailTwoSided)
	require.NoError(t, err)
	assert.False(t, result.Simulation.OffCentre)
}
