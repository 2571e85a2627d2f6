package testkit

import (
	"math/rand"
	"strings"

	"statlab/domain/sample"
)

// GeneratorConfig configures the classroom data generator
type GeneratorConfig struct {
	N    int   `json:"n"`
	Seed int64 `json:"seed"`
}

// DefaultGeneratorConfig returns the defaults used by NewTestKit
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		N:    40,
		Seed: 42,
	}
}

// DataGenerator produces the small datasets the applets are usually fed:
// scatterplots, coin-flip strings and two-group outcomes. Every method
// restarts from the configured seed, so repeated calls return equal data.
type DataGenerator struct {
	config GeneratorConfig
}

// NewDataGenerator creates a new generator
func NewDataGenerator(config GeneratorConfig) *DataGenerator {
	return &DataGenerator{config: config}
}

func (g *DataGenerator) rng() *rand.Rand {
	return rand.New(rand.NewSource(g.config.Seed))
}

// Linear returns y = slope*x + intercept + U(-noise, noise) for x = 1..N
func (g *DataGenerator) Linear(slope, intercept, noise float64) sample.Paired {
	rng := g.rng()
	x := make([]float64, g.config.N)
	y := make([]float64, g.config.N)
	for i := range x {
		x[i] = float64(i + 1)
		y[i] = slope*x[i] + intercept + (2*rng.Float64()-1)*noise
	}
	return sample.Paired{X: x, Y: y}
}

// Independent returns two unrelated uniform columns
func (g *DataGenerator) Independent() sample.Paired {
	rng := g.rng()
	x := make([]float64, g.config.N)
	y := make([]float64, g.config.N)
	for i := range x {
		x[i] = rng.Float64()
		y[i] = rng.Float64()
	}
	return sample.Paired{X: x, Y: y}
}

// Observations returns N draws from Normal(mean, sd)
func (g *DataGenerator) Observations(mean, sd float64) sample.Observations {
	rng := g.rng()
	obs := make(sample.Observations, g.config.N)
	for i := range obs {
		obs[i] = mean + sd*rng.NormFloat64()
	}
	return obs
}

// CoinFlips returns N fair H/T flips
func (g *DataGenerator) CoinFlips() sample.Sequence {
	rng := g.rng()
	var b strings.Builder
	for i := 0; i < g.config.N; i++ {
		if rng.Intn(2) == 0 {
			b.WriteByte('H')
		} else {
			b.WriteByte('T')
		}
	}
	return sample.Sequence(b.String())
}

// Blocks returns sym repeated run times, then alt repeated run times,
// alternating until length N. Long runs make a streak test reject.
func (g *DataGenerator) Blocks(sym, alt rune, run int) sample.Sequence {
	if run < 1 {
		run = 1
	}
	seq := make(sample.Sequence, g.config.N)
	for i := range seq {
		if (i/run)%2 == 0 {
			seq[i] = sym
		} else {
			seq[i] = alt
		}
	}
	return seq
}
