// Package simulation holds the output types of a resampling simulation.
package simulation

import (
	"math"
	"sort"

	"statlab/domain/core"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Tolerance absorbs floating point noise when comparing simulated values
// with an observed statistic, so a resample that reproduces the observed
// arrangement counts as "at least as extreme".
const Tolerance = 1e-9

// Tail selects which simulated values count as extreme.
type Tail string

const (
	TailUpper    Tail = "upper"
	TailLower    Tail = "lower"
	TailTwoSided Tail = "two-sided"
)

// ParseTail accepts upper/greater, lower/less and two-sided/both.
func ParseTail(s string) (Tail, error) {
	switch s {
	case "upper", "greater", ">":
		return TailUpper, nil
	case "lower", "less", "<":
		return TailLower, nil
	case "two-sided", "two_sided", "both", "!=":
		return TailTwoSided, nil
	}
	return "", core.NewInvalidArgumentf("tail", "unknown tail %q", s)
}

// Distribution is an ascending sequence of simulated statistic values.
// NaN values, if any, sort first.
type Distribution struct {
	values []float64
}

// NewDistribution copies and sorts values.
func NewDistribution(values []float64) Distribution {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return Distribution{values: sorted}
}

// FromSorted adopts an already sorted slice without copying. The caller
// must not touch the slice afterwards.
func FromSorted(sorted []float64) Distribution {
	return Distribution{values: sorted}
}

// MergeSorted merges two distributions keeping ascending order.
func MergeSorted(a, b Distribution) Distribution {
	merged := make([]float64, 0, len(a.values)+len(b.values))
	i, j := 0, 0
	for i < len(a.values) && j < len(b.values) {
		if less(b.values[j], a.values[i]) {
			merged = append(merged, b.values[j])
			j++
		} else {
			merged = append(merged, a.values[i])
			i++
		}
	}
	merged = append(merged, a.values[i:]...)
	merged = append(merged, b.values[j:]...)
	return Distribution{values: merged}
}

// Len returns the number of simulated values.
func (d Distribution) Len() int { return len(d.values) }

// Values returns a copy of the sorted values.
func (d Distribution) Values() []float64 {
	out := make([]float64, len(d.values))
	copy(out, d.values)
	return out
}

// At returns the i-th smallest value.
func (d Distribution) At(i int) float64 { return d.values[i] }

// Min returns the smallest defined value, NaN when empty.
func (d Distribution) Min() float64 {
	defined := d.defined()
	if len(defined) == 0 {
		return math.NaN()
	}
	return defined[0]
}

// Max returns the largest value, NaN when empty.
func (d Distribution) Max() float64 {
	if len(d.values) == 0 {
		return math.NaN()
	}
	return d.values[len(d.values)-1]
}

// Undefined counts NaN values produced by degenerate resamples.
func (d Distribution) Undefined() int {
	return len(d.values) - len(d.defined())
}

// Percentile returns the empirical p-th quantile (p in [0,1]) of the
// defined values.
func (d Distribution) Percentile(p float64) float64 {
	defined := d.defined()
	if len(defined) == 0 || p < 0 || p > 1 || math.IsNaN(p) {
		return math.NaN()
	}
	return stat.Quantile(p, stat.Empirical, defined, nil)
}

// CountAtLeast counts values >= v (within Tolerance).
func (d Distribution) CountAtLeast(v float64) int {
	defined := d.defined()
	idx := sort.SearchFloat64s(defined, v-Tolerance)
	return len(defined) - idx
}

// CountAtMost counts values <= v (within Tolerance).
func (d Distribution) CountAtMost(v float64) int {
	defined := d.defined()
	return sort.Search(len(defined), func(i int) bool { return defined[i] > v+Tolerance })
}

// PValue is the share of simulated values at least as extreme as observed.
// The two-sided tail counts |value| >= |observed|, which assumes the null
// distribution is centred at zero as it is for permutation tests of r, slope
// and proportion difference; see DoubledPValue for the other statistics.
// NaN values count toward the denominator only.
func (d Distribution) PValue(observed float64, tail Tail) float64 {
	if len(d.values) == 0 || math.IsNaN(observed) {
		return math.NaN()
	}

	hits := 0
	switch tail {
	case TailUpper:
		hits = d.CountAtLeast(observed)
	case TailLower:
		hits = d.CountAtMost(observed)
	case TailTwoSided:
		abs := math.Abs(observed)
		hits = d.CountAtLeast(abs) + d.CountAtMost(-abs)
		if abs <= Tolerance {
			// every value is at least as far from zero
			hits = len(d.defined())
		}
	default:
		return math.NaN()
	}
	return float64(hits) / float64(len(d.values))
}

// DoubledPValue is the two-sided p-value for statistics whose null
// distribution is not centred at zero: twice the smaller tail, capped at 1.
func (d Distribution) DoubledPValue(observed float64) float64 {
	upper := d.PValue(observed, TailUpper)
	lower := d.PValue(observed, TailLower)
	if math.IsNaN(upper) || math.IsNaN(lower) {
		return math.NaN()
	}
	return math.Min(1, 2*math.Min(upper, lower))
}

// Summary describes the defined values of the distribution.
type Summary struct {
	Count        int
	Undefined    int
	Mean         float64
	StdDev       float64
	Min          float64
	Max          float64
	Median       float64
	Percentile5  float64
	Percentile95 float64
	Percentile99 float64
}

// Summary computes descriptive statistics over the defined values.
func (d Distribution) Summary() Summary {
	defined := d.defined()
	s := Summary{Count: len(d.values), Undefined: len(d.values) - len(defined)}
	if len(defined) == 0 {
		nan := math.NaN()
		s.Mean, s.StdDev, s.Min, s.Max, s.Median = nan, nan, nan, nan, nan
		s.Percentile5, s.Percentile95, s.Percentile99 = nan, nan, nan
		return s
	}

	s.Mean, _ = mstats.Mean(defined)
	s.StdDev = math.NaN()
	if len(defined) > 1 {
		s.StdDev, _ = mstats.StandardDeviationSample(defined)
	}
	s.Min = defined[0]
	s.Max = defined[len(defined)-1]
	s.Median = d.Percentile(0.5)
	s.Percentile5 = d.Percentile(0.05)
	s.Percentile95 = d.Percentile(0.95)
	s.Percentile99 = d.Percentile(0.99)
	return s
}

// ConfidenceInterval returns the percentile interval holding level of the
// defined values, e.g. level 0.95 gives the 2.5th and 97.5th percentiles.
func (d Distribution) ConfidenceInterval(level float64) (lower, upper float64, err error) {
	if !(level > 0 && level < 1) {
		return 0, 0, core.NewInvalidArgumentf("confidence level", "must be in (0, 1), got %v", level)
	}
	alpha := 1 - level
	return d.Percentile(alpha / 2), d.Percentile(1 - alpha/2), nil
}

// defined skips the leading NaNs sort.Float64s puts first.
func (d Distribution) defined() []float64 {
	i := 0
	for i < len(d.values) && math.IsNaN(d.values[i]) {
		i++
	}
	return d.values[i:]
}

// less orders like sort.Float64s: NaN before everything else.
func less(a, b float64) bool {
	return a < b || (math.IsNaN(a) && !math.IsNaN(b))
}
