package run

import (
	"sort"
	"testing"

	"statlab/domain/core"
	"statlab/domain/simulation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batch(kind string, dataset core.DatasetHash, observed float64, values ...float64) simulation.Result {
	return simulation.Result{
		Kind:         kind,
		Trials:       len(values),
		Observed:     observed,
		Distribution: simulation.NewDistribution(values),
		Dataset:      dataset,
	}
}

func TestAccumulator_MergesBatchesInOrder(t *testing.T) {
	dataset := core.HashString("HHTTH")
	acc := NewAccumulator()
	require.False(t, acc.RunID().IsEmpty())
	assert.True(t, acc.UpdatedAt().IsZero())

	require.NoError(t, acc.Add(batch("longest_streak", dataset, 3, 2, 5, 1)))
	require.NoError(t, acc.Add(batch("longest_streak", dataset, 3, 4, 3, 2, 6)))

	assert.Equal(t, 2, acc.Batches())
	assert.Equal(t, 7, acc.Total())
	assert.Equal(t, "longest_streak", acc.Kind())
	assert.Equal(t, 3.0, acc.Observed())
	assert.Equal(t, []float64{1, 2, 2, 3, 4, 5, 6}, acc.Distribution().Values())
	assert.True(t, sort.Float64sAreSorted(acc.Distribution().Values()))
	assert.InDelta(t, 4.0/7.0, acc.PValue(simulation.TailUpper), 1e-12)
	assert.False(t, acc.UpdatedAt().IsZero())
}

func TestAccumulator_RejectsMismatchedBatches(t *testing.T) {
	dataset := core.HashString("HHTTH")
	acc := NewAccumulator()
	require.NoError(t, acc.Add(batch("longest_streak", dataset, 3, 2)))

	err := acc.Add(batch("correlation", dataset, 3, 0.1))
	assert.True(t, core.IsInvalidArgument(err))

	err = acc.Add(batch("longest_streak", core.HashString("TTTT"), 3, 2))
	assert.True(t, core.IsInvalidArgument(err))

	assert.Equal(t, 1, acc.Total())
}

func TestAccumulator_Reset(t *testing.T) {
	acc := NewAccumulator()
	first := acc.RunID()
	require.NoError(t, acc.Add(batch("mean", core.HashFloats([]float64{1}), 1, 1, 2)))

	acc.Reset()
	assert.Equal(t, 0, acc.Total())
	assert.Equal(t, 0, acc.Batches())
	assert.NotEqual(t, first, acc.RunID())

	require.NoError(t, acc.Add(batch("correlation", core.HashFloats([]float64{2}), 0.2, 0.1)))
	assert.Equal(t, "correlation", acc.Kind())
}
