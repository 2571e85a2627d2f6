package ports

import (
	"context"
	"math/rand"
)

// RandomSource is the only randomness a resampler reads. *rand.Rand
// satisfies it; tests can supply a scripted stream.
type RandomSource interface {
	// Intn returns a uniform integer in [0, n). n must be positive.
	Intn(n int) int
	Float64() float64
}

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// SeededStream creates a random stream for a named operation. Seed 0
	// requests an unseeded, non-reproducible stream.
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// Stream derives a deterministic stream for one run/test/dataset so the
	// same seed replays the same simulation.
	Stream(ctx context.Context, runID, stageName, key string, baseSeed int64) (*rand.Rand, error)

	// ValidateSeed ensures the seed produces expected deterministic results
	ValidateSeed(ctx context.Context, name string, seed int64, expected []float64) error
}
