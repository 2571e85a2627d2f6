package profiling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataProfiler_ProfileColumn(t *testing.T) {
	dp := NewDataProfiler()
	profile := dp.ProfileColumn([]float64{7, 1, 3, 100, 2, 5, 4, 6, 8}, "minutes")

	assert.Equal(t, "minutes", profile.Name)
	assert.Equal(t, 9, profile.N)
	assert.InDelta(t, 136.0/9, profile.Mean, 1e-12)
	assert.Equal(t, 1.0, profile.Min)
	assert.Equal(t, 2.5, profile.Q1)
	assert.Equal(t, 5.0, profile.Median)
	assert.Equal(t, 7.5, profile.Q3)
	assert.Equal(t, 100.0, profile.Max)
	assert.Equal(t, 5.0, profile.IQR)
	assert.Equal(t, 1, profile.Outliers)
	assert.Greater(t, profile.Skewness, 2.0)
}

func TestDataProfiler_SymmetricSkew(t *testing.T) {
	profile := NewDataProfiler().ProfileColumn([]float64{1, 2, 3, 4, 5}, "x")
	assert.InDelta(t, 0, profile.Skewness, 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), profile.StdDev, 1e-12)
	assert.Equal(t, 0, profile.Outliers)
}

func TestDataProfiler_SmallSamples(t *testing.T) {
	dp := NewDataProfiler()

	empty := dp.ProfileColumn(nil, "empty")
	assert.Equal(t, 0, empty.N)
	assert.True(t, math.IsNaN(empty.Mean))

	single := dp.ProfileColumn([]float64{4}, "one")
	assert.Equal(t, 4.0, single.Mean)
	assert.Equal(t, 4.0, single.Median)
	assert.True(t, math.IsNaN(single.StdDev))
	assert.True(t, math.IsNaN(single.Q1))
	assert.True(t, math.IsNaN(single.Skewness))
}

func TestDataProfiler_ProfileDataset(t *testing.T) {
	profiles := NewDataProfiler().ProfileDataset(map[string][]float64{
		"y": {1, 2},
		"x": {3, 4, 5},
	})
	require.Len(t, profiles, 2)
	assert.Equal(t, "x", profiles[0].Name)
	assert.Equal(t, "y", profiles[1].Name)
}
