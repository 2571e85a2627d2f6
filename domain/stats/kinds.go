package stats

import (
	"fmt"
	"strings"

	"statlab/domain/core"
	"statlab/domain/sample"
)

// Kind tags a statistic so results and accumulators can be matched up.
type Kind string

const (
	KindCorrelation    Kind = "correlation"
	KindSlope          Kind = "slope"
	KindIntercept      Kind = "intercept"
	KindResidualSD     Kind = "residual_sd"
	KindProportionDiff Kind = "proportion_diff"
	KindLongestStreak  Kind = "longest_streak"
	KindStreaksAtLeast Kind = "streaks_at_least"
	KindMean           Kind = "mean"
)

// Statistic maps one dataset to one real number. Compute only fails when the
// dataset has the wrong shape or the statistic's parameters are invalid;
// numeric edge cases come back as NaN.
type Statistic interface {
	Kind() Kind
	Compute(d sample.Dataset) (float64, error)
}

// CorrelationStat is Pearson's r of a Paired dataset.
type CorrelationStat struct{}

func (CorrelationStat) Kind() Kind { return KindCorrelation }

func (CorrelationStat) Compute(d sample.Dataset) (float64, error) {
	p, err := asPaired(KindCorrelation, d)
	if err != nil {
		return 0, err
	}
	return Correlation(p.X, p.Y), nil
}

// SlopeStat is the LSRL slope of a Paired dataset.
type SlopeStat struct{}

func (SlopeStat) Kind() Kind { return KindSlope }

func (SlopeStat) Compute(d sample.Dataset) (float64, error) {
	p, err := asPaired(KindSlope, d)
	if err != nil {
		return 0, err
	}
	return Slope(p.X, p.Y), nil
}

// InterceptStat is the LSRL intercept of a Paired dataset.
type InterceptStat struct{}

func (InterceptStat) Kind() Kind { return KindIntercept }

func (InterceptStat) Compute(d sample.Dataset) (float64, error) {
	p, err := asPaired(KindIntercept, d)
	if err != nil {
		return 0, err
	}
	return Intercept(p.X, p.Y), nil
}

// ResidualSDStat is the residual standard deviation about the LSRL.
type ResidualSDStat struct{}

func (ResidualSDStat) Kind() Kind { return KindResidualSD }

func (ResidualSDStat) Compute(d sample.Dataset) (float64, error) {
	p, err := asPaired(KindResidualSD, d)
	if err != nil {
		return 0, err
	}
	return ResidualStdDev(p.X, p.Y), nil
}

// ProportionDiffStat is group 1's success rate minus group 2's.
type ProportionDiffStat struct{}

func (ProportionDiffStat) Kind() Kind { return KindProportionDiff }

func (ProportionDiffStat) Compute(d sample.Dataset) (float64, error) {
	pool, ok := d.(sample.LabelPool)
	if !ok {
		return 0, mismatch(KindProportionDiff, sample.KindLabelPool, d)
	}
	if pool.N1+pool.N2 != len(pool.Labels) {
		return 0, core.NewInvalidArgumentf("label pool", "holds %d labels, groups need %d", len(pool.Labels), pool.N1+pool.N2)
	}
	return ProportionDifference(pool.Labels, pool.N1, pool.N2), nil
}

// LongestStreakStat is the longest run of identical symbols.
type LongestStreakStat struct{}

func (LongestStreakStat) Kind() Kind { return KindLongestStreak }

func (LongestStreakStat) Compute(d sample.Dataset) (float64, error) {
	seq, err := asSequence(KindLongestStreak, d)
	if err != nil {
		return 0, err
	}
	return float64(LongestStreak(seq)), nil
}

// StreaksAtLeastStat counts runs of at least Length identical symbols.
type StreaksAtLeastStat struct {
	Length int
}

func (StreaksAtLeastStat) Kind() Kind { return KindStreaksAtLeast }

func (s StreaksAtLeastStat) Compute(d sample.Dataset) (float64, error) {
	if s.Length < 1 {
		return 0, core.NewInvalidArgumentf("streak length", "must be at least 1, got %d", s.Length)
	}
	seq, err := asSequence(KindStreaksAtLeast, d)
	if err != nil {
		return 0, err
	}
	return float64(StreaksAtLeast(seq, s.Length)), nil
}

// MeanStat is the mean of an Observations dataset.
type MeanStat struct{}

func (MeanStat) Kind() Kind { return KindMean }

func (MeanStat) Compute(d sample.Dataset) (float64, error) {
	obs, ok := d.(sample.Observations)
	if !ok {
		return 0, mismatch(KindMean, sample.KindObservations, d)
	}
	if len(obs) == 0 {
		return 0, core.NewInvalidArgument("observations", "must not be empty")
	}
	return Mean(obs), nil
}

// ZeroCentred reports whether the permutation null of the statistic is
// symmetric about zero, so that |value| >= |observed| is a two-sided test.
func (k Kind) ZeroCentred() bool {
	switch k {
	case KindCorrelation, KindSlope, KindProportionDiff:
		return true
	}
	return false
}

// ParseKind accepts the canonical names plus a few dashed aliases.
func ParseKind(s string) (Kind, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch Kind(normalized) {
	case KindCorrelation, KindSlope, KindIntercept, KindResidualSD,
		KindProportionDiff, KindLongestStreak, KindStreaksAtLeast, KindMean:
		return Kind(normalized), nil
	}
	switch normalized {
	case "r", "pearson":
		return KindCorrelation, nil
	case "longest", "streak":
		return KindLongestStreak, nil
	case "runs", "streaks":
		return KindStreaksAtLeast, nil
	}
	return "", core.NewInvalidArgumentf("statistic", "unknown kind %q", s)
}

// FromKind builds the statistic for kind. length is only read by
// KindStreaksAtLeast.
func FromKind(kind Kind, length int) (Statistic, error) {
	switch kind {
	case KindCorrelation:
		return CorrelationStat{}, nil
	case KindSlope:
		return SlopeStat{}, nil
	case KindIntercept:
		return InterceptStat{}, nil
	case KindResidualSD:
		return ResidualSDStat{}, nil
	case KindProportionDiff:
		return ProportionDiffStat{}, nil
	case KindLongestStreak:
		return LongestStreakStat{}, nil
	case KindStreaksAtLeast:
		if length < 1 {
			return nil, core.NewInvalidArgumentf("streak length", "must be at least 1, got %d", length)
		}
		return StreaksAtLeastStat{Length: length}, nil
	case KindMean:
		return MeanStat{}, nil
	}
	return nil, core.NewInvalidArgumentf("statistic", "unknown kind %q", kind)
}

func asPaired(kind Kind, d sample.Dataset) (sample.Paired, error) {
	p, ok := d.(sample.Paired)
	if !ok {
		return sample.Paired{}, mismatch(kind, sample.KindPaired, d)
	}
	if len(p.X) != len(p.Y) {
		return sample.Paired{}, core.NewInvalidArgumentf("paired data", "lengths differ: x has %d, y has %d", len(p.X), len(p.Y))
	}
	return p, nil
}

func asSequence(kind Kind, d sample.Dataset) (sample.Sequence, error) {
	seq, ok := d.(sample.Sequence)
	if !ok {
		return nil, mismatch(kind, sample.KindSequence, d)
	}
	if len(seq) == 0 {
		return nil, core.NewInvalidArgument("sequence", "must not be empty")
	}
	return seq, nil
}

func mismatch(kind Kind, want sample.DatasetKind, d sample.Dataset) error {
	got := "nil"
	if d != nil {
		got = string(d.DatasetKind())
	}
	return fmt.Errorf("%w: %s needs a %s dataset, got %s", core.ErrInvalidArgument, kind, want, got)
}
