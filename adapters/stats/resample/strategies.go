package resample

import (
	"statlab/domain/core"
	"statlab/domain/sample"
	"statlab/ports"
)

// FullShuffle breaks the pairing of a Paired dataset by shuffling X against
// an untouched Y. Used for correlation and slope permutation tests.
type FullShuffle struct {
	rng      ports.RandomSource
	observed sample.Paired
	scratch  []float64
}

// NewFullShuffle copies data; later changes to the caller's slices are not seen.
func NewFullShuffle(rng ports.RandomSource, data sample.Paired) (*FullShuffle, error) {
	if err := checkSource(rng); err != nil {
		return nil, err
	}
	observed, err := sample.NewPaired(data.X, data.Y)
	if err != nil {
		return nil, err
	}
	return &FullShuffle{
		rng:      rng,
		observed: observed,
		scratch:  make([]float64, observed.Len()),
	}, nil
}

func (f *FullShuffle) Strategy() string        { return StrategyFullShuffle }
func (f *FullShuffle) Observed() sample.Paired { return f.observed }

func (f *FullShuffle) Resample() sample.Paired {
	copy(f.scratch, f.observed.X)
	Shuffle(f.rng, f.scratch)
	return sample.Paired{X: f.scratch, Y: f.observed.Y}
}

// LabelPoolShuffle deals a shuffled pool of success/failure cards back into
// two groups of the original sizes. The number of ones never changes.
type LabelPoolShuffle struct {
	rng      ports.RandomSource
	observed sample.LabelPool
	scratch  []int
}

// NewLabelPoolShuffle copies pool.
func NewLabelPoolShuffle(rng ports.RandomSource, pool sample.LabelPool) (*LabelPoolShuffle, error) {
	if err := checkSource(rng); err != nil {
		return nil, err
	}
	if pool.N1 <= 0 || pool.N2 <= 0 || pool.N1+pool.N2 != len(pool.Labels) {
		return nil, core.NewInvalidArgumentf("label pool", "groups of %d and %d do not cover %d labels", pool.N1, pool.N2, len(pool.Labels))
	}
	observed := pool.Clone()
	return &LabelPoolShuffle{
		rng:      rng,
		observed: observed,
		scratch:  make([]int, len(observed.Labels)),
	}, nil
}

func (l *LabelPoolShuffle) Strategy() string           { return StrategyLabelPoolShuffle }
func (l *LabelPoolShuffle) Observed() sample.LabelPool { return l.observed }

func (l *LabelPoolShuffle) Resample() sample.LabelPool {
	copy(l.scratch, l.observed.Labels)
	Shuffle(l.rng, l.scratch)
	return sample.LabelPool{Labels: l.scratch, N1: l.observed.N1, N2: l.observed.N2}
}

// SequencePermutation reorders a symbol sequence, keeping its composition.
// Used for streak tests.
type SequencePermutation struct {
	rng      ports.RandomSource
	observed sample.Sequence
	scratch  sample.Sequence
}

// NewSequencePermutation copies seq, which must be non-empty.
func NewSequencePermutation(rng ports.RandomSource, seq sample.Sequence) (*SequencePermutation, error) {
	if err := checkSource(rng); err != nil {
		return nil, err
	}
	if len(seq) == 0 {
		return nil, core.NewInvalidArgument("sequence", "must not be empty")
	}
	observed := seq.Clone()
	return &SequencePermutation{
		rng:      rng,
		observed: observed,
		scratch:  make(sample.Sequence, len(observed)),
	}, nil
}

func (s *SequencePermutation) Strategy() string          { return StrategySequencePermutation }
func (s *SequencePermutation) Observed() sample.Sequence { return s.observed }

func (s *SequencePermutation) Resample() sample.Sequence {
	copy(s.scratch, s.observed)
	Shuffle(s.rng, s.scratch)
	return s.scratch
}

// BootstrapPairs draws n index-aligned pairs with replacement.
type BootstrapPairs struct {
	rng      ports.RandomSource
	observed sample.Paired
	scratch  sample.Paired
}

// NewBootstrapPairs copies data.
func NewBootstrapPairs(rng ports.RandomSource, data sample.Paired) (*BootstrapPairs, error) {
	if err := checkSource(rng); err != nil {
		return nil, err
	}
	observed, err := sample.NewPaired(data.X, data.Y)
	if err != nil {
		return nil, err
	}
	n := observed.Len()
	return &BootstrapPairs{
		rng:      rng,
		observed: observed,
		scratch:  sample.Paired{X: make([]float64, n), Y: make([]float64, n)},
	}, nil
}

func (b *BootstrapPairs) Strategy() string        { return StrategyBootstrapPairs }
func (b *BootstrapPairs) Observed() sample.Paired { return b.observed }

func (b *BootstrapPairs) Resample() sample.Paired {
	n := b.observed.Len()
	for i := 0; i < n; i++ {
		j := b.rng.Intn(n)
		b.scratch.X[i] = b.observed.X[j]
		b.scratch.Y[i] = b.observed.Y[j]
	}
	return b.scratch
}

// BootstrapSample draws n observations with replacement.
type BootstrapSample struct {
	rng      ports.RandomSource
	observed sample.Observations
	scratch  sample.Observations
}

// NewBootstrapSample copies obs, which must be non-empty.
func NewBootstrapSample(rng ports.RandomSource, obs sample.Observations) (*BootstrapSample, error) {
	if err := checkSource(rng); err != nil {
		return nil, err
	}
	observed, err := sample.NewObservations(obs)
	if err != nil {
		return nil, err
	}
	return &BootstrapSample{
		rng:      rng,
		observed: observed,
		scratch:  make(sample.Observations, len(observed)),
	}, nil
}

func (b *BootstrapSample) Strategy() string              { return StrategyBootstrapSample }
func (b *BootstrapSample) Observed() sample.Observations { return b.observed }

func (b *BootstrapSample) Resample() sample.Observations {
	n := len(b.observed)
	for i := 0; i < n; i++ {
		b.scratch[i] = b.observed[b.rng.Intn(n)]
	}
	return b.scratch
}
