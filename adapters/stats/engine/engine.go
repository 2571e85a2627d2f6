// Package engine runs resampling simulations: resample, recompute the
// statistic, repeat, and return the sorted distribution of the results.
//
// Simulations are synchronous and keep no state between calls. A caller
// that needs to stay responsive splits the work into several calls and
// merges them with run.Accumulator.
package engine

import (
	"fmt"
	"sort"

	"statlab/domain/core"
	"statlab/domain/sample"
	"statlab/domain/simulation"
	"statlab/domain/stats"
	"statlab/ports"
)

// Simulate evaluates statistic on trials datasets drawn from resample and
// returns the values in ascending order. Preconditions are checked before
// the first trial; nothing is computed when they fail.
func Simulate[D any](trials int, resample func() D, statistic func(D) float64) (simulation.Distribution, error) {
	if trials <= 0 {
		return simulation.Distribution{}, core.NewInvalidArgumentf("trials", "must be positive, got %d", trials)
	}
	if resample == nil {
		return simulation.Distribution{}, core.NewInvalidArgument("resample", "must not be nil")
	}
	if statistic == nil {
		return simulation.Distribution{}, core.NewInvalidArgument("statistic", "must not be nil")
	}

	values := make([]float64, trials)
	for i := range values {
		values[i] = statistic(resample())
	}
	sort.Float64s(values)
	return simulation.FromSorted(values), nil
}

// Run computes stat on the observed dataset, then simulates its
// distribution under resampler. The observed computation doubles as the
// precondition check: a statistic that cannot handle this dataset shape
// fails before any trial runs.
func Run[D sample.Dataset](trials int, resampler ports.Resampler[D], stat stats.Statistic) (simulation.Result, error) {
	if trials <= 0 {
		return simulation.Result{}, core.NewInvalidArgumentf("trials", "must be positive, got %d", trials)
	}
	if resampler == nil {
		return simulation.Result{}, core.NewInvalidArgument("resampler", "must not be nil")
	}
	if stat == nil {
		return simulation.Result{}, core.NewInvalidArgument("statistic", "must not be nil")
	}

	observedData := resampler.Observed()
	observed, err := stat.Compute(observedData)
	if err != nil {
		return simulation.Result{}, err
	}

	var trialErr error
	distribution, err := Simulate(trials, resampler.Resample, func(d D) float64 {
		v, err := stat.Compute(d)
		if err != nil && trialErr == nil {
			trialErr = err
		}
		return v
	})
	if err != nil {
		return simulation.Result{}, err
	}
	if trialErr != nil {
		return simulation.Result{}, fmt.Errorf("%s on %s resample: %w", stat.Kind(), resampler.Strategy(), trialErr)
	}

	return simulation.Result{
		Kind:         string(stat.Kind()),
		Strategy:     resampler.Strategy(),
		Trials:       trials,
		Observed:     observed,
		Distribution: distribution,
		Dataset:      observedData.Fingerprint(),
		OffCentre:    !stat.Kind().ZeroCentred(),
	}, nil
}
