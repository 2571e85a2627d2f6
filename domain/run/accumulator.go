package run

import (
	"statlab/domain/core"
	"statlab/domain/simulation"
)

// Accumulator collects successive simulation batches for one test, e.g. a
// lesson page where each click adds another 100 trials to the same dot plot.
// The caller owns it; the engine never sees it. Not safe for concurrent use.
type Accumulator struct {
	runID        core.RunID
	kind         string
	dataset      core.DatasetHash
	observed     float64
	batches      int
	distribution simulation.Distribution
	updatedAt    core.Timestamp
}

// NewAccumulator starts an empty accumulator under a fresh run ID.
func NewAccumulator() *Accumulator {
	return &Accumulator{runID: core.NewRunID()}
}

// Add merges a batch. The first batch fixes the statistic kind and dataset;
// later batches must match both.
func (a *Accumulator) Add(result simulation.Result) error {
	if a.batches > 0 {
		if result.Kind != a.kind {
			return core.NewInvalidArgumentf("result", "statistic %q does not match accumulated %q", result.Kind, a.kind)
		}
		if result.Dataset != a.dataset {
			return core.NewInvalidArgument("result", "was simulated from a different dataset")
		}
	} else {
		a.kind = result.Kind
		a.dataset = result.Dataset
		a.observed = result.Observed
	}

	a.distribution = simulation.MergeSorted(a.distribution, result.Distribution)
	a.batches++
	a.updatedAt = core.Now()
	return nil
}

// Reset drops every batch and starts a new run ID.
func (a *Accumulator) Reset() {
	*a = Accumulator{runID: core.NewRunID()}
}

func (a *Accumulator) RunID() core.RunID { return a.runID }
func (a *Accumulator) Kind() string      { return a.kind }
func (a *Accumulator) Observed() float64 { return a.observed }
func (a *Accumulator) Batches() int      { return a.batches }
func (a *Accumulator) Total() int        { return a.distribution.Len() }

// Distribution returns every accumulated value in ascending order.
func (a *Accumulator) Distribution() simulation.Distribution { return a.distribution }

// PValue evaluates the accumulated distribution against the observed value.
func (a *Accumulator) PValue(tail simulation.Tail) float64 {
	return a.distribution.PValue(a.observed, tail)
}

// UpdatedAt is the time of the last Add, zero before the first.
func (a *Accumulator) UpdatedAt() core.Timestamp { return a.updatedAt }
