// Package rng implements ports.RNGPort on top of math/rand.
package rng

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"statlab/domain/core"
)

// Adapter hands out *rand.Rand streams. A zero seed yields a time-seeded
// stream; any other seed is fully deterministic.
type Adapter struct {
	now func() time.Time
}

// NewAdapter creates an RNG adapter backed by the wall clock for unseeded streams
func NewAdapter() *Adapter {
	return &Adapter{now: time.Now}
}

// SeededStream creates a random number generator for a named operation
func (a *Adapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seed == 0 {
		return a.unseeded(name), nil
	}
	return rand.New(rand.NewSource(seed)), nil
}

// Stream creates a deterministic RNG stream for a specific run/test/dataset
func (a *Adapter) Stream(ctx context.Context, runID, stageName, key string, baseSeed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if baseSeed == 0 {
		return a.unseeded(runID + stageName + key), nil
	}
	return rand.New(rand.NewSource(DeriveSeed(runID, stageName, key, baseSeed))), nil
}

// ValidateSeed regenerates len(expected) Float64 draws and compares them
func (a *Adapter) ValidateSeed(ctx context.Context, name string, seed int64, expected []float64) error {
	if seed == 0 {
		return core.NewInvalidArgument("seed", "0 is unseeded and cannot be validated")
	}
	stream, err := a.SeededStream(ctx, name, seed)
	if err != nil {
		return err
	}
	for i, want := range expected {
		if got := stream.Float64(); got != want {
			return fmt.Errorf("%w: %s draw %d is %v, expected %v", core.ErrSeedMismatch, name, i, got, want)
		}
	}
	return nil
}

func (a *Adapter) unseeded(name string) *rand.Rand {
	return rand.New(rand.NewSource(a.now().UnixNano() ^ int64(hashString(name))))
}

// DeriveSeed mixes run ID, stage and key into baseSeed. An empty component
// leaves the seed unchanged so callers can key on any subset.
func DeriveSeed(runID, stageName, key string, baseSeed int64) int64 {
	seed := baseSeed
	if runID != "" {
		seed = int64(hashString(runID)) + seed
	}
	if stageName != "" {
		seed = int64(hashString(stageName)) + seed
	}
	if key != "" {
		seed = int64(hashString(key)) + seed
	}
	return seed
}

// hashString is djb2
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c)
	}
	return hash
}
