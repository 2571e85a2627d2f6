package rng

import (
	"context"
	"testing"
	"time"

	"statlab/domain/core"
	"statlab/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.RNGPort = (*Adapter)(nil)

func draws(t *testing.T, src ports.RandomSource, n int) []float64 {
	t.Helper()
	out := make([]float64, n)
	for i := range out {
		out[i] = src.Float64()
	}
	return out
}

func TestStream_SameInputsSameDraws(t *testing.T) {
	ctx := context.Background()
	adapter := NewAdapter()

	a, err := adapter.Stream(ctx, "run-1", "correlation", "abc", 42)
	require.NoError(t, err)
	b, err := adapter.Stream(ctx, "run-1", "correlation", "abc", 42)
	require.NoError(t, err)
	c, err := adapter.Stream(ctx, "run-1", "slope", "abc", 42)
	require.NoError(t, err)

	first := draws(t, a, 5)
	assert.Equal(t, first, draws(t, b, 5))
	assert.NotEqual(t, first, draws(t, c, 5))
}

func TestStream_ZeroSeedIsUnseeded(t *testing.T) {
	ctx := context.Background()
	tick := time.Unix(0, 0)
	adapter := &Adapter{now: func() time.Time {
		tick = tick.Add(time.Nanosecond)
		return tick
	}}

	a, err := adapter.Stream(ctx, "", "streak", "", 0)
	require.NoError(t, err)
	b, err := adapter.Stream(ctx, "", "streak", "", 0)
	require.NoError(t, err)
	assert.NotEqual(t, draws(t, a, 5), draws(t, b, 5))
}

func TestStream_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAdapter().Stream(ctx, "", "", "", 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidateSeed(t *testing.T) {
	ctx := context.Background()
	adapter := NewAdapter()

	stream, err := adapter.SeededStream(ctx, "check", 7)
	require.NoError(t, err)
	expected := draws(t, stream, 3)

	require.NoError(t, adapter.ValidateSeed(ctx, "check", 7, expected))

	err = adapter.ValidateSeed(ctx, "check", 8, expected)
	assert.True(t, core.IsDeterminismError(err))

	err = adapter.ValidateSeed(ctx, "check", 0, expected)
	assert.True(t, core.IsInvalidArgument(err))
}

func TestDeriveSeed(t *testing.T) {
	assert.Equal(t, int64(9), DeriveSeed("", "", "", 9))
	assert.NotEqual(t, DeriveSeed("a", "", "", 9), DeriveSeed("", "a", "b", 9))
	assert.Equal(t, DeriveSeed("r", "s", "k", 9), DeriveSeed("r", "s", "k", 9))
}
