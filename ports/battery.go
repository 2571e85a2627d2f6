package ports

import (
	"context"

	"statlab/domain/core"
	"statlab/domain/run"
	"statlab/domain/sample"
	"statlab/domain/simulation"
	"statlab/domain/stats"
	"statlab/domain/verdict"
)

// BatteryPort runs the canned resampling tests
type BatteryPort interface {
	PairedTest(ctx context.Context, data sample.Paired, stat stats.Statistic, tail simulation.Tail) (*TestResult, error)
	CorrelationTest(ctx context.Context, data sample.Paired, tail simulation.Tail) (*TestResult, error)
	SlopeTest(ctx context.Context, data sample.Paired, tail simulation.Tail) (*TestResult, error)
	ProportionTest(ctx context.Context, x1, n1, x2, n2 int, tail simulation.Tail) (*TestResult, error)
	StreakTest(ctx context.Context, seq sample.Sequence, stat stats.Statistic) (*TestResult, error)
	BootstrapCorrelation(ctx context.Context, data sample.Paired, level float64) (*IntervalResult, error)
	BootstrapMean(ctx context.Context, data sample.Observations, level float64) (*IntervalResult, error)
}

// TestResult contains the outcome of a permutation test
type TestResult struct {
	RunID            core.RunID
	TestUsed         string
	Simulation       simulation.Result
	Tail             simulation.Tail
	PValue           float64
	Verdict          verdict.Verdict
	NullDistribution simulation.Summary
	Reference        *stats.Reference
	FalsificationLog *verdict.FalsificationLog
	Manifest         *run.Manifest
}

// IntervalResult contains a bootstrap percentile confidence interval
type IntervalResult struct {
	RunID        core.RunID
	TestUsed     string
	Simulation   simulation.Result
	Level        float64
	Lower        float64
	Upper        float64
	Distribution simulation.Summary
	Manifest     *run.Manifest
}
