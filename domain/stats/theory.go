package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Reference is a closed-form test result printed next to a simulated p-value.
type Reference struct {
	Method    string
	Statistic float64
	PValue    float64 // two-sided
}

// TwoProportionZ is the pooled two-proportion z test. Statistic and PValue
// are NaN when the pooled proportion is 0 or 1.
func TwoProportionZ(x1, n1, x2, n2 int) Reference {
	ref := Reference{Method: "two-proportion z"}
	if n1 <= 0 || n2 <= 0 {
		ref.Statistic, ref.PValue = math.NaN(), math.NaN()
		return ref
	}

	p1 := float64(x1) / float64(n1)
	p2 := float64(x2) / float64(n2)
	pooled := float64(x1+x2) / float64(n1+n2)
	se := math.Sqrt(pooled * (1 - pooled) * (1/float64(n1) + 1/float64(n2)))
	if se == 0 {
		ref.Statistic, ref.PValue = math.NaN(), math.NaN()
		return ref
	}

	ref.Statistic = (p1 - p2) / se
	ref.PValue = 2 * distuv.UnitNormal.Survival(math.Abs(ref.Statistic))
	return ref
}

// CorrelationTTest tests r = 0 with t = r*sqrt((n-2)/(1-r^2)) on n-2 degrees
// of freedom. NaN for n < 3 or an undefined r.
func CorrelationTTest(r float64, n int) Reference {
	ref := Reference{Method: "correlation t"}
	if n < 3 || math.IsNaN(r) {
		ref.Statistic, ref.PValue = math.NaN(), math.NaN()
		return ref
	}

	df := float64(n - 2)
	if math.Abs(r) >= 1 {
		ref.Statistic = math.Copysign(math.Inf(1), r)
		ref.PValue = 0
		return ref
	}

	ref.Statistic = r * math.Sqrt(df/(1-r*r))
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	ref.PValue = 2 * tDist.Survival(math.Abs(ref.Statistic))
	return ref
}
