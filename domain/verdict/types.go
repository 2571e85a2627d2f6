package verdict

import (
	"math"

	"statlab/domain/core"
	"statlab/domain/simulation"
)

// VerdictStatus is the decision reached from a simulated p-value
type VerdictStatus string

const (
	StatusValidated VerdictStatus = "validated"
	StatusRejected  VerdictStatus = "rejected"
	StatusMarginal  VerdictStatus = "marginal"
)

// RejectionReason explains the decision
type RejectionReason string

const (
	ReasonStatisticallySignificant RejectionReason = "statistically_significant"
	ReasonMarginallySignificant    RejectionReason = "marginally_significant"
	ReasonLikelyRandom             RejectionReason = "likely_random"
	ReasonUndefined                RejectionReason = "undefined_statistic"
)

// MarginalThreshold separates "marginal" from "likely random".
const MarginalThreshold = 0.10

// Verdict is the judgement on an observed statistic
type Verdict struct {
	Status VerdictStatus
	Reason RejectionReason
	PValue float64
	Alpha  float64
}

// Decide classifies a p-value against alpha. A NaN p-value is rejected as
// undefined.
func Decide(pValue, alpha float64) Verdict {
	v := Verdict{PValue: pValue, Alpha: alpha}
	switch {
	case math.IsNaN(pValue):
		v.Status, v.Reason = StatusRejected, ReasonUndefined
	case pValue < alpha:
		v.Status, v.Reason = StatusValidated, ReasonStatisticallySignificant
	case pValue < MarginalThreshold:
		v.Status, v.Reason = StatusMarginal, ReasonMarginallySignificant
	default:
		v.Status, v.Reason = StatusRejected, ReasonLikelyRandom
	}
	return v
}

// FalsificationLog records why an observed effect was not distinguishable
// from the simulated null distribution.
type FalsificationLog struct {
	Reason           RejectionReason
	PValue           float64
	Observed         float64
	Tail             simulation.Tail
	NullDistribution simulation.Summary
	SampleSize       int
	TestUsed         string
	RejectedAt       core.Timestamp
}
