// Package sample holds the observation sets a simulation resamples from.
// Every constructor copies its input, so callers keep ownership of their
// slices and no simulation can mutate them.
package sample

import (
	"statlab/domain/core"
)

// DatasetKind tags the shape of a dataset
type DatasetKind string

const (
	KindObservations DatasetKind = "observations"
	KindPaired       DatasetKind = "paired"
	KindLabelPool    DatasetKind = "label_pool"
	KindSequence     DatasetKind = "sequence"
)

// Dataset is implemented by every observation set in this package.
type Dataset interface {
	DatasetKind() DatasetKind
	Len() int
	Fingerprint() core.DatasetHash
}

// Observations is an ordered set of numeric values.
type Observations []float64

// NewObservations copies values; at least one value is required.
func NewObservations(values []float64) (Observations, error) {
	if len(values) == 0 {
		return nil, core.NewInvalidArgument("observations", "must not be empty")
	}
	return Observations(cloneFloats(values)), nil
}

func (o Observations) DatasetKind() DatasetKind      { return KindObservations }
func (o Observations) Len() int                      { return len(o) }
func (o Observations) Fingerprint() core.DatasetHash { return core.HashFloats(o) }

// Paired is two index-aligned numeric sequences (x[i], y[i]).
type Paired struct {
	X []float64
	Y []float64
}

// NewPaired copies x and y. Both must have the same length, at least 2.
func NewPaired(x, y []float64) (Paired, error) {
	if len(x) != len(y) {
		return Paired{}, core.NewInvalidArgumentf("paired data", "lengths differ: x has %d, y has %d", len(x), len(y))
	}
	if len(x) < 2 {
		return Paired{}, core.NewInvalidArgumentf("paired data", "needs at least 2 pairs, got %d", len(x))
	}
	return Paired{X: cloneFloats(x), Y: cloneFloats(y)}, nil
}

func (p Paired) DatasetKind() DatasetKind      { return KindPaired }
func (p Paired) Len() int                      { return len(p.X) }
func (p Paired) Fingerprint() core.DatasetHash { return core.HashFloats(p.X, p.Y) }

// Clone returns a deep copy.
func (p Paired) Clone() Paired {
	return Paired{X: cloneFloats(p.X), Y: cloneFloats(p.Y)}
}

// LabelPool is the card model of a two-group proportion test: N1+N2 binary
// labels, the first N1 belonging to group 1 and the rest to group 2.
type LabelPool struct {
	Labels []int
	N1     int
	N2     int
}

// NewLabelPool builds a pool with x1 successes out of n1 in group 1 and x2
// out of n2 in group 2.
func NewLabelPool(x1, n1, x2, n2 int) (LabelPool, error) {
	if n1 <= 0 || n2 <= 0 {
		return LabelPool{}, core.NewInvalidArgumentf("group sizes", "must be positive, got n1=%d n2=%d", n1, n2)
	}
	if x1 <= 0 || x1 > n1 {
		return LabelPool{}, core.NewInvalidArgumentf("x1", "must satisfy 0 < x1 <= n1, got x1=%d n1=%d", x1, n1)
	}
	if x2 <= 0 || x2 > n2 {
		return LabelPool{}, core.NewInvalidArgumentf("x2", "must satisfy 0 < x2 <= n2, got x2=%d n2=%d", x2, n2)
	}

	labels := make([]int, n1+n2)
	for i := 0; i < x1; i++ {
		labels[i] = 1
	}
	for i := 0; i < x2; i++ {
		labels[n1+i] = 1
	}
	return LabelPool{Labels: labels, N1: n1, N2: n2}, nil
}

// NewLabelGroups builds a pool from raw 0/1 outcomes of each group.
func NewLabelGroups(group1, group2 []int) (LabelPool, error) {
	x1, err := countOnes("group 1", group1)
	if err != nil {
		return LabelPool{}, err
	}
	x2, err := countOnes("group 2", group2)
	if err != nil {
		return LabelPool{}, err
	}
	return NewLabelPool(x1, len(group1), x2, len(group2))
}

func (l LabelPool) DatasetKind() DatasetKind { return KindLabelPool }
func (l LabelPool) Len() int                 { return len(l.Labels) }

func (l LabelPool) Fingerprint() core.DatasetHash {
	return core.HashInts(append([]int{l.N1, l.N2}, l.Labels...)...)
}

// Ones counts success labels across both groups.
func (l LabelPool) Ones() int {
	ones := 0
	for _, v := range l.Labels {
		ones += v
	}
	return ones
}

// Clone returns a deep copy.
func (l LabelPool) Clone() LabelPool {
	labels := make([]int, len(l.Labels))
	copy(labels, l.Labels)
	return LabelPool{Labels: labels, N1: l.N1, N2: l.N2}
}

// Sequence is an ordered run of discrete symbols, e.g. coin flips "HHTH".
type Sequence []rune

// NewSequence requires a non-empty sequence.
func NewSequence(s string) (Sequence, error) {
	seq := Sequence([]rune(s))
	if len(seq) == 0 {
		return nil, core.NewInvalidArgument("sequence", "must not be empty")
	}
	return seq, nil
}

func (s Sequence) DatasetKind() DatasetKind      { return KindSequence }
func (s Sequence) Len() int                      { return len(s) }
func (s Sequence) Fingerprint() core.DatasetHash { return core.HashString(string(s)) }
func (s Sequence) String() string                { return string(s) }

// Clone returns a copy.
func (s Sequence) Clone() Sequence {
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

func countOnes(field string, labels []int) (int, error) {
	ones := 0
	for i, v := range labels {
		switch v {
		case 0:
		case 1:
			ones++
		default:
			return 0, core.NewInvalidArgumentf(field, "label %d is %d, want 0 or 1", i, v)
		}
	}
	return ones, nil
}

func cloneFloats(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	return out
}
