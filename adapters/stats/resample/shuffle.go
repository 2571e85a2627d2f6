// Package resample implements the resampling strategies a simulation draws
// from. Every resampler works on its own copy of the data and reuses one
// scratch buffer across trials; the dataset returned by Resample aliases
// that buffer and is overwritten by the next call.
package resample

import (
	"statlab/domain/core"
	"statlab/ports"
)

// Strategy names
const (
	StrategyFullShuffle         = "full_shuffle"
	StrategyLabelPoolShuffle    = "label_pool_shuffle"
	StrategySequencePermutation = "sequence_permutation"
	StrategyBootstrapPairs      = "bootstrap_pairs"
	StrategyBootstrapSample     = "bootstrap_sample"
)

// Shuffle permutes xs in place, uniformly over all n! orderings
// (Fisher-Yates: for i from n-1 down to 1, swap i with a uniform j in [0, i]).
func Shuffle[T any](rng ports.RandomSource, xs []T) {
	for i := len(xs) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}

func checkSource(rng ports.RandomSource) error {
	if rng == nil {
		return core.NewInvalidArgument("random source", "must not be nil")
	}
	return nil
}
