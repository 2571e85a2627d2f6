package battery

import (
	"context"
	"fmt"

	"statlab/adapters/stats/engine"
	"statlab/adapters/stats/resample"
	"statlab/domain/core"
	"statlab/domain/run"
	"statlab/domain/sample"
	"statlab/domain/simulation"
	"statlab/domain/stats"
	"statlab/domain/verdict"
	"statlab/internal"
	"statlab/ports"
)

const (
	DefaultShuffles = 1000
	MaxShuffles     = 100000
	DefaultAlpha    = 0.05
)

// Test names, also used to key RNG streams. Paired tests are named
// <statistic kind>_permutation.
const (
	TestCorrelation          = "correlation_permutation"
	TestSlope                = "slope_permutation"
	TestProportion           = "proportion_label_pool"
	TestStreak               = "streak_permutation"
	TestBootstrapCorrelation = "bootstrap_correlation"
	TestBootstrapMean        = "bootstrap_mean"
)

// PermutationReferee runs the canned resampling tests on top of the engine
type PermutationReferee struct {
	rngPort     ports.RNGPort
	logger      *internal.Logger
	numShuffles int
	alpha       float64
	seed        int64
}

var _ ports.BatteryPort = (*PermutationReferee)(nil)

// NewPermutationReferee creates a new permutation referee with default settings.
// A nil logger uses internal.DefaultLogger.
func NewPermutationReferee(rngPort ports.RNGPort, logger *internal.Logger) *PermutationReferee {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &PermutationReferee{
		rngPort:     rngPort,
		logger:      logger,
		numShuffles: DefaultShuffles,
		alpha:       DefaultAlpha,
	}
}

// SetNumShuffles sets the trial count, clamped to [1, MaxShuffles]
func (pr *PermutationReferee) SetNumShuffles(num int) {
	if num < 1 {
		num = 1
	}
	if num > MaxShuffles {
		num = MaxShuffles
	}
	pr.numShuffles = num
}

// NumShuffles returns the configured trial count
func (pr *PermutationReferee) NumShuffles() int {
	return pr.numShuffles
}

// SetAlpha sets the significance level used for verdicts
func (pr *PermutationReferee) SetAlpha(alpha float64) error {
	if !(alpha > 0 && alpha < 1) {
		return core.NewInvalidArgumentf("alpha", "must be in (0, 1), got %v", alpha)
	}
	pr.alpha = alpha
	return nil
}

// SetSeed fixes the base seed; 0 means unseeded
func (pr *PermutationReferee) SetSeed(seed int64) {
	pr.seed = seed
}

// PairedTest shuffles x against y and compares stat with its permutation
// distribution. Any Paired statistic works, e.g. intercept or residual SD.
func (pr *PermutationReferee) PairedTest(ctx context.Context, data sample.Paired, stat stats.Statistic, tail simulation.Tail) (*ports.TestResult, error) {
	if stat == nil {
		return nil, core.NewInvalidArgument("statistic", "must not be nil")
	}
	return permutationTest(ctx, pr, string(stat.Kind())+"_permutation", data, tail, stat,
		func(rng ports.RandomSource) (ports.Resampler[sample.Paired], error) {
			return resample.NewFullShuffle(rng, data)
		})
}

// CorrelationTest compares Pearson's r with its permutation distribution.
func (pr *PermutationReferee) CorrelationTest(ctx context.Context, data sample.Paired, tail simulation.Tail) (*ports.TestResult, error) {
	res, err := pr.PairedTest(ctx, data, stats.CorrelationStat{}, tail)
	if err != nil {
		return nil, err
	}
	ref := stats.CorrelationTTest(res.Simulation.Observed, data.Len())
	res.Reference = &ref
	return res, nil
}

// SlopeTest is CorrelationTest with the LSRL slope as the statistic.
func (pr *PermutationReferee) SlopeTest(ctx context.Context, data sample.Paired, tail simulation.Tail) (*ports.TestResult, error) {
	res, err := pr.PairedTest(ctx, data, stats.SlopeStat{}, tail)
	if err != nil {
		return nil, err
	}
	// slope = 0 and r = 0 share a t statistic
	ref := stats.CorrelationTTest(stats.Correlation(data.X, data.Y), data.Len())
	ref.Method = "slope t"
	res.Reference = &ref
	return res, nil
}

// ProportionTest deals x1+x2 successes back into groups of n1 and n2.
func (pr *PermutationReferee) ProportionTest(ctx context.Context, x1, n1, x2, n2 int, tail simulation.Tail) (*ports.TestResult, error) {
	pool, err := sample.NewLabelPool(x1, n1, x2, n2)
	if err != nil {
		pr.logger.Warn("proportion test rejected input x1=%d n1=%d x2=%d n2=%d: %v", x1, n1, x2, n2, err)
		return nil, err
	}
	res, err := permutationTest(ctx, pr, TestProportion, pool, tail, stats.ProportionDiffStat{},
		func(rng ports.RandomSource) (ports.Resampler[sample.LabelPool], error) {
			return resample.NewLabelPoolShuffle(rng, pool)
		})
	if err != nil {
		return nil, err
	}
	ref := stats.TwoProportionZ(x1, n1, x2, n2)
	res.Reference = &ref
	return res, nil
}

// StreakTest permutes seq and asks how often a streak statistic at least as
// large as the observed one appears by chance.
func (pr *PermutationReferee) StreakTest(ctx context.Context, seq sample.Sequence, stat stats.Statistic) (*ports.TestResult, error) {
	if stat == nil {
		stat = stats.LongestStreakStat{}
	}
	if k := stat.Kind(); k != stats.KindLongestStreak && k != stats.KindStreaksAtLeast {
		return nil, core.NewInvalidArgumentf("statistic", "%s is not a streak statistic", k)
	}
	return permutationTest(ctx, pr, TestStreak, seq, simulation.TailUpper, stat,
		func(rng ports.RandomSource) (ports.Resampler[sample.Sequence], error) {
			return resample.NewSequencePermutation(rng, seq)
		})
}

// BootstrapCorrelation resamples pairs with replacement and reports a
// percentile confidence interval for r.
func (pr *PermutationReferee) BootstrapCorrelation(ctx context.Context, data sample.Paired, level float64) (*ports.IntervalResult, error) {
	return bootstrapInterval(ctx, pr, TestBootstrapCorrelation, data, level, stats.CorrelationStat{},
		func(rng ports.RandomSource) (ports.Resampler[sample.Paired], error) {
			return resample.NewBootstrapPairs(rng, data)
		})
}

// BootstrapMean resamples observations with replacement and reports a
// percentile confidence interval for the mean.
func (pr *PermutationReferee) BootstrapMean(ctx context.Context, data sample.Observations, level float64) (*ports.IntervalResult, error) {
	return bootstrapInterval(ctx, pr, TestBootstrapMean, data, level, stats.MeanStat{},
		func(rng ports.RandomSource) (ports.Resampler[sample.Observations], error) {
			return resample.NewBootstrapSample(rng, data)
		})
}

// simulate wires one RNG stream, one resampler and the engine together
func simulate[D sample.Dataset](
	ctx context.Context,
	pr *PermutationReferee,
	testName string,
	data sample.Dataset,
	stat stats.Statistic,
	newResampler func(ports.RandomSource) (ports.Resampler[D], error),
) (core.RunID, simulation.Result, *run.Manifest, error) {
	if err := ctx.Err(); err != nil {
		return "", simulation.Result{}, nil, err
	}
	if pr.rngPort == nil {
		return "", simulation.Result{}, nil, core.NewInvalidArgument("rng port", "must not be nil")
	}

	runID := core.NewRunID()
	fingerprint := data.Fingerprint()
	rng, err := pr.rngPort.Stream(ctx, "", testName, core.Hash(fingerprint).Short(), pr.seed)
	if err != nil {
		return "", simulation.Result{}, nil, fmt.Errorf("failed to open RNG stream for %s: %w", testName, err)
	}

	resampler, err := newResampler(rng)
	if err != nil {
		pr.logger.Warn("%s rejected dataset %s: %v", testName, core.Hash(fingerprint).Short(), err)
		return "", simulation.Result{}, nil, err
	}

	result, err := engine.Run(pr.numShuffles, resampler, stat)
	if err != nil {
		pr.logger.Warn("%s failed: %v", testName, err)
		return "", simulation.Result{}, nil, err
	}

	manifest := run.NewManifest(runID, run.NewRunFingerprint(result.Dataset, result.Kind, result.Strategy, result.Trials, pr.seed))
	pr.logger.Debug("%s run=%s n=%d trials=%d observed=%.6g undefined=%d",
		testName, runID, data.Len(), result.Trials, result.Observed, result.Distribution.Undefined())
	return runID, result, manifest, nil
}

func permutationTest[D sample.Dataset](
	ctx context.Context,
	pr *PermutationReferee,
	testName string,
	data sample.Dataset,
	tail simulation.Tail,
	stat stats.Statistic,
	newResampler func(ports.RandomSource) (ports.Resampler[D], error),
) (*ports.TestResult, error) {
	switch tail {
	case simulation.TailUpper, simulation.TailLower, simulation.TailTwoSided:
	default:
		return nil, core.NewInvalidArgumentf("tail", "unknown tail %q", tail)
	}

	runID, result, manifest, err := simulate(ctx, pr, testName, data, stat, newResampler)
	if err != nil {
		return nil, err
	}

	res := pr.Judge(runID, testName, result, tail, data.Len())
	res.Manifest = manifest
	return res, nil
}

// Judge turns a simulation result into a TestResult: p-value, verdict and,
// when the effect is not validated, a falsification log. Batch accumulators
// call it again on the merged distribution.
func (pr *PermutationReferee) Judge(runID core.RunID, testName string, result simulation.Result, tail simulation.Tail, sampleSize int) *ports.TestResult {
	pValue := result.PValue(tail)
	decision := verdict.Decide(pValue, pr.alpha)
	summary := result.Distribution.Summary()

	var falsificationLog *verdict.FalsificationLog
	if decision.Status != verdict.StatusValidated {
		falsificationLog = &verdict.FalsificationLog{
			Reason:           decision.Reason,
			PValue:           pValue,
			Observed:         result.Observed,
			Tail:             tail,
			NullDistribution: summary,
			SampleSize:       sampleSize,
			TestUsed:         testName,
			RejectedAt:       core.Now(),
		}
	}

	pr.logger.Debug("%s run=%s tail=%s p=%.4f verdict=%s", testName, runID, tail, pValue, decision.Status)

	return &ports.TestResult{
		RunID:            runID,
		TestUsed:         testName,
		Simulation:       result,
		Tail:             tail,
		PValue:           pValue,
		Verdict:          decision,
		NullDistribution: summary,
		FalsificationLog: falsificationLog,
	}
}

func bootstrapInterval[D sample.Dataset](
	ctx context.Context,
	pr *PermutationReferee,
	testName string,
	data sample.Dataset,
	level float64,
	stat stats.Statistic,
	newResampler func(ports.RandomSource) (ports.Resampler[D], error),
) (*ports.IntervalResult, error) {
	if !(level > 0 && level < 1) {
		return nil, core.NewInvalidArgumentf("confidence level", "must be in (0, 1), got %v", level)
	}

	runID, result, manifest, err := simulate(ctx, pr, testName, data, stat, newResampler)
	if err != nil {
		return nil, err
	}

	lower, upper, err := result.Distribution.ConfidenceInterval(level)
	if err != nil {
		return nil, err
	}

	return &ports.IntervalResult{
		RunID:        runID,
		TestUsed:     testName,
		Simulation:   result,
		Level:        level,
		Lower:        lower,
		Upper:        upper,
		Distribution: result.Distribution.Summary(),
		Manifest:     manifest,
	}, nil
}
