package stats

import (
	"math"
	"testing"

	"statlab/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoisson(t *testing.T) {
	pmf, err := PoissonPMF(2, 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.5*math.Exp(-3), pmf, 1e-12)

	cdf, err := PoissonCDF(2, 3)
	require.NoError(t, err)
	assert.InDelta(t, 8.5*math.Exp(-3), cdf, 1e-9)

	between, err := PoissonRange(1, 2, 3)
	require.NoError(t, err)
	assert.InDelta(t, 7.5*math.Exp(-3), between, 1e-9)

	_, err = PoissonPMF(1, 0)
	assert.True(t, core.IsInvalidArgument(err))
	_, err = PoissonCDF(-1, 2)
	assert.True(t, core.IsInvalidArgument(err))
	_, err = PoissonRange(3, 2, 2)
	assert.True(t, core.IsInvalidArgument(err))
}

func TestCounting(t *testing.T) {
	c, err := Combinations(5, 2)
	require.NoError(t, err)
	assert.Equal(t, 10, c)

	p, err := Permutations(5, 2)
	require.NoError(t, err)
	assert.Equal(t, 20, p)

	p, err = Permutations(4, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, p)

	_, err = Combinations(3, 4)
	assert.True(t, core.IsInvalidArgument(err))
	_, err = Permutations(100, 50)
	assert.True(t, core.IsInvalidArgument(err))
}

func TestTheoreticalReferences(t *testing.T) {
	z := TwoProportionZ(30, 50, 20, 50)
	assert.InDelta(t, 2.0, z.Statistic, 1e-9)
	assert.InDelta(t, 0.0455, z.PValue, 1e-3)

	degenerate := TwoProportionZ(5, 5, 5, 5)
	assert.True(t, math.IsNaN(degenerate.PValue))

	tt := CorrelationTTest(0.5, 27)
	assert.InDelta(t, 0.5*math.Sqrt(25/0.75), tt.Statistic, 1e-9)
	assert.Greater(t, tt.PValue, 0.0)
	assert.Less(t, tt.PValue, 0.02)

	assert.Equal(t, 0.0, CorrelationTTest(1, 5).PValue)
	assert.True(t, math.IsNaN(CorrelationTTest(0.3, 2).PValue))
}
