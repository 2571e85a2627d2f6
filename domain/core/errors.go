package core

import (
	"errors"
	"fmt"
	"math"
)

// Domain errors - centralized error definitions
var (
	// ErrInvalidArgument marks a failed precondition at a simulation or
	// statistic boundary. Nothing has been computed when it is returned.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUndefinedResult marks a numeric edge case (zero variance, too few
	// observations). Statistic functions report these as NaN rather than
	// failing; CheckDefined converts a NaN/Inf into this error for callers
	// that prefer a hard failure.
	ErrUndefinedResult = errors.New("undefined result")

	// Determinism errors
	ErrSeedMismatch = errors.New("seed mismatch")
)

// Error constructors with context
func NewInvalidArgument(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidArgument, field, reason)
}

func NewInvalidArgumentf(field string, format string, args ...interface{}) error {
	return NewInvalidArgument(field, fmt.Sprintf(format, args...))
}

func NewUndefinedResult(what string) error {
	return fmt.Errorf("%w: %s", ErrUndefinedResult, what)
}

// CheckDefined returns v unchanged, or ErrUndefinedResult when v is NaN or ±Inf.
func CheckDefined(what string, v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v, NewUndefinedResult(what)
	}
	return v, nil
}

// Error checking helpers
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsUndefinedResult(err error) bool {
	return errors.Is(err, ErrUndefinedResult)
}

func IsDeterminismError(err error) bool {
	return errors.Is(err, ErrSeedMismatch)
}
