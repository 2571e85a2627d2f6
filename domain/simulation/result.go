package simulation

import (
	"statlab/domain/core"
)

// Result is the output of one simulation call.
type Result struct {
	Kind         string
	Strategy     string
	Trials       int
	Observed     float64
	Distribution Distribution
	Dataset      core.DatasetHash
	// OffCentre marks a statistic whose null distribution is not centred at
	// zero; its two-sided p-value doubles the smaller tail.
	OffCentre    bool
}

// PValue is Distribution.PValue(Observed, tail), or DoubledPValue for a
// two-sided tail on an OffCentre statistic.
func (r Result) PValue(tail Tail) float64 {
	if tail == TailTwoSided && r.OffCentre {
		return r.Distribution.DoubledPValue(r.Observed)
	}
	return r.Distribution.PValue(r.Observed, tail)
}
