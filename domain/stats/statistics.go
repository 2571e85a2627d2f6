// Package stats holds the pure statistic functions a simulation evaluates on
// every resample, plus the calculators shown alongside simulated results.
//
// Numeric edge cases (zero variance, too few observations) yield NaN rather
// than an error so a single degenerate resample never aborts a simulation.
// Use core.CheckDefined when a hard failure is preferred.
package stats

import (
	"math"

	mstats "github.com/montanaflynn/stats"
)

// Mean returns the arithmetic mean, or NaN for empty input.
func Mean(xs []float64) float64 {
	m, err := mstats.Mean(xs)
	if err != nil {
		return math.NaN()
	}
	return m
}

// SampleStdDev returns the standard deviation with an n-1 denominator, or
// NaN when fewer than two values are given.
func SampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	sd, err := mstats.StandardDeviationSample(xs)
	if err != nil {
		return math.NaN()
	}
	return sd
}

// Correlation computes Pearson's r as the sum of products of z-scores
// divided by n-1. NaN when either sequence has zero variance, the lengths
// differ, or there are fewer than two pairs.
func Correlation(x, y []float64) float64 {
	n := len(x)
	if n != len(y) || n < 2 {
		return math.NaN()
	}

	meanX, meanY := Mean(x), Mean(y)
	sdX, sdY := SampleStdDev(x), SampleStdDev(y)

	sum := 0.0
	for i := 0; i < n; i++ {
		sum += ((x[i] - meanX) / sdX) * ((y[i] - meanY) / sdY)
	}
	return sum / float64(n-1)
}

// Slope of the least-squares regression line of y on x.
func Slope(x, y []float64) float64 {
	return Correlation(x, y) * SampleStdDev(y) / SampleStdDev(x)
}

// Intercept of the least-squares regression line of y on x.
func Intercept(x, y []float64) float64 {
	return Mean(y) - Slope(x, y)*Mean(x)
}

// ResidualSumOfSquares sums squared vertical distances from the LSRL.
func ResidualSumOfSquares(x, y []float64) float64 {
	if len(x) != len(y) {
		return math.NaN()
	}
	slope := Slope(x, y)
	intercept := Mean(y) - slope*Mean(x)

	rss := 0.0
	for i := range x {
		residual := y[i] - (intercept + slope*x[i])
		rss += residual * residual
	}
	return rss
}

// ResidualStdDev is sqrt(RSS / (n-2)). NaN when n < 3.
func ResidualStdDev(x, y []float64) float64 {
	n := len(x)
	if n < 3 || n != len(y) {
		return math.NaN()
	}
	return math.Sqrt(ResidualSumOfSquares(x, y) / float64(n-2))
}

// ProportionDifference returns the success rate of the first n1 labels minus
// the success rate of the following n2 labels.
func ProportionDifference(labels []int, n1, n2 int) float64 {
	if n1 <= 0 || n2 <= 0 || n1+n2 > len(labels) {
		return math.NaN()
	}

	successes1, successes2 := 0, 0
	for _, v := range labels[:n1] {
		successes1 += v
	}
	for _, v := range labels[n1 : n1+n2] {
		successes2 += v
	}
	return float64(successes1)/float64(n1) - float64(successes2)/float64(n2)
}

// LongestStreak returns the length of the longest run of equal consecutive
// elements. Zero only for empty input.
func LongestStreak[T comparable](seq []T) int {
	if len(seq) == 0 {
		return 0
	}

	longest, current := 1, 1
	for i := 1; i < len(seq); i++ {
		if seq[i] == seq[i-1] {
			current++
		} else {
			current = 1
		}
		if current > longest {
			longest = current
		}
	}
	return longest
}

// StreaksAtLeast counts maximal runs whose length is at least length. A run
// of 5 with length 2 counts once.
func StreaksAtLeast[T comparable](seq []T, length int) int {
	if len(seq) == 0 {
		return 0
	}

	count, current := 0, 1
	for i := 1; i <= len(seq); i++ {
		if i < len(seq) && seq[i] == seq[i-1] {
			current++
			continue
		}
		if current >= length {
			count++
		}
		current = 1
	}
	return count
}
