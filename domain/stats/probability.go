package stats

import (
	"math"

	"statlab/domain/core"

	"gonum.org/v1/gonum/stat/combin"
	"gonum.org/v1/gonum/stat/distuv"
)

// maxExactLog bounds exact integer counting results to values below 2^62.
var maxExactLog = 62 * math.Ln2

// PoissonPMF returns P(X = k) for X ~ Poisson(lambda).
func PoissonPMF(k int, lambda float64) (float64, error) {
	if err := checkPoisson(k, lambda); err != nil {
		return 0, err
	}
	return distuv.Poisson{Lambda: lambda}.Prob(float64(k)), nil
}

// PoissonCDF returns P(X <= k) for X ~ Poisson(lambda).
func PoissonCDF(k int, lambda float64) (float64, error) {
	if err := checkPoisson(k, lambda); err != nil {
		return 0, err
	}
	return distuv.Poisson{Lambda: lambda}.CDF(float64(k)), nil
}

// PoissonRange returns P(lo <= X <= hi).
func PoissonRange(lo, hi int, lambda float64) (float64, error) {
	if lo > hi {
		return 0, core.NewInvalidArgumentf("range", "lower bound %d exceeds upper bound %d", lo, hi)
	}
	if err := checkPoisson(hi, lambda); err != nil {
		return 0, err
	}
	if lo < 0 {
		lo = 0
	}
	dist := distuv.Poisson{Lambda: lambda}
	below := 0.0
	if lo > 0 {
		below = dist.CDF(float64(lo - 1))
	}
	return dist.CDF(float64(hi)) - below, nil
}

// Combinations returns n choose k.
func Combinations(n, k int) (int, error) {
	if err := checkCounting(n, k); err != nil {
		return 0, err
	}
	if combin.LogGeneralizedBinomial(float64(n), float64(k)) >= maxExactLog {
		return 0, core.NewInvalidArgumentf("n", "C(%d, %d) is too large to count exactly", n, k)
	}
	return combin.Binomial(n, k), nil
}

// Permutations returns the number of ordered arrangements of k items from n.
func Permutations(n, k int) (int, error) {
	if err := checkCounting(n, k); err != nil {
		return 0, err
	}
	logCount := 0.0
	for i := n - k + 1; i <= n; i++ {
		logCount += math.Log(float64(i))
	}
	if logCount >= maxExactLog {
		return 0, core.NewInvalidArgumentf("n", "P(%d, %d) is too large to count exactly", n, k)
	}
	return combin.NumPermutations(n, k), nil
}

func checkPoisson(k int, lambda float64) error {
	if !(lambda > 0) || math.IsInf(lambda, 0) {
		return core.NewInvalidArgumentf("lambda", "must be a positive finite rate, got %v", lambda)
	}
	if k < 0 {
		return core.NewInvalidArgumentf("k", "must be non-negative, got %d", k)
	}
	return nil
}

func checkCounting(n, k int) error {
	if n < 0 {
		return core.NewInvalidArgumentf("n", "must be non-negative, got %d", n)
	}
	if k < 0 || k > n {
		return core.NewInvalidArgumentf("k", "must satisfy 0 <= k <= n, got k=%d n=%d", k, n)
	}
	return nil
}
