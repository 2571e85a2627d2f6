package testkit

import (
	"context"
	"fmt"
	"math/rand"

	"statlab/adapters/rng"
	"statlab/domain/sample"
	"statlab/ports"
)

// TestKit provides testing utilities and fixtures
type TestKit struct {
	rng       *rng.Adapter
	generator *DataGenerator
}

// NewTestKit creates a new test kit instance with synthetic data
func NewTestKit() (*TestKit, error) {
	return NewTestKitWithConfig(DefaultGeneratorConfig())
}

// NewTestKitWithConfig creates a test kit whose fixtures come from config
func NewTestKitWithConfig(config GeneratorConfig) (*TestKit, error) {
	if config.N < 3 {
		return nil, fmt.Errorf("generator needs at least 3 rows, got %d", config.N)
	}
	return &TestKit{
		rng:       rng.NewAdapter(),
		generator: NewDataGenerator(config),
	}, nil
}

// RNGAdapter returns an RNG adapter
func (t *TestKit) RNGAdapter() ports.RNGPort {
	return t.rng
}

// Generator returns the fixture generator
func (t *TestKit) Generator() *DataGenerator {
	return t.generator
}

// StrongPaired is a near-perfect positive linear relationship
func (t *TestKit) StrongPaired() sample.Paired {
	return t.generator.Linear(2, 1, 0.5)
}

// NoisePaired is two independent uniform columns
func (t *TestKit) NoisePaired() sample.Paired {
	return t.generator.Independent()
}

// Stream opens a seeded stream for ad hoc use in tests.
func (t *TestKit) Stream(name string, seed int64) *rand.Rand {
	r, err := t.rng.SeededStream(context.Background(), name, seed)
	if err != nil {
		panic(err)
	}
	return r
}

// ScriptedSource replays fixed Intn answers, then wraps around. Float64
// replays Floats the same way. Useful for checking exact shuffles.
type ScriptedSource struct {
	Ints   []int
	Floats []float64
	i, f   int
}

// Intn returns the next scripted value reduced mod n
func (s *ScriptedSource) Intn(n int) int {
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[s.i%len(s.Ints)]
	s.i++
	return ((v % n) + n) % n
}

// Float64 returns the next scripted float
func (s *ScriptedSource) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.f%len(s.Floats)]
	s.f++
	return v
}

var _ ports.RandomSource = (*ScriptedSource)(nil)
