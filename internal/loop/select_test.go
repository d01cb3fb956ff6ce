package loop_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gifloop/internal/loop"
	"gifloop/internal/services"
)

func TestSelectBestPicksMaximum(t *testing.T) {
	pairs := []loop.Pair{
		{From: 1, To: 5, Value: 0.2},
		{From: 1, To: 6, Value: 0.9},
		{From: 2, To: 7, Value: 0.5},
	}
	best, err := loop.SelectBest(pairs, 30, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, loop.Pair{From: 1, To: 6, Value: 0.9}, best.Pair)
	assert.InDelta(t, 3.0, best.FromInput, 1e-9)
	assert.InDelta(t, 18.0, best.ToInput, 1e-9)
	assert.InDelta(t, 15.0, best.Length(), 1e-9)
	assert.InDelta(t, 30.0, best.OutputFPS, 1e-9)
	assert.InDelta(t, 0.5, best.Seconds(), 1e-9)
	assert.Equal(t, 15, best.OutputFrames())
}

func TestSelectBestTieBreaksOnFirstEnumerated(t *testing.T) {
	pairs := []loop.Pair{
		{From: 1, To: 5, Value: 0.9},
		{From: 1, To: 6, Value: 0.9},
	}
	best, err := loop.SelectBest(pairs, 24, 12, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, best.To)
}

func TestSelectBestInfiniteWins(t *testing.T) {
	pairs := []loop.Pair{
		{From: 1, To: 5, Value: 42.1},
		{From: 2, To: 8, Value: math.Inf(1)},
	}
	best, err := loop.SelectBest(pairs, 24, 24, 12)
	require.NoError(t, err)
	assert.Equal(t, 2, best.From)
	assert.InDelta(t, 12.0, best.OutputFPS, 1e-9)
	assert.InDelta(t, 0.25, best.Seconds(), 1e-9)
	assert.Equal(t, 3, best.OutputFrames())
}

func TestSelectBestErrors(t *testing.T) {
	_, err := loop.SelectBest(nil, 30, 10, 0)
	require.ErrorIs(t, err, services.ErrConfiguration)

	_, err = loop.SelectBest([]loop.Pair{{From: 1, To: 3, Value: loop.Unscored}}, 30, 10, 0)
	require.ErrorIs(t, err, services.ErrValidation)

	_, err = loop.SelectBest([]loop.Pair{{From: 1, To: 3, Value: math.NaN()}}, 30, 10, 0)
	require.ErrorIs(t, err, services.ErrValidation)

	_, err = loop.SelectBest([]loop.Pair{{From: 1, To: 3, Value: 1}}, 30, 0, 0)
	require.ErrorIs(t, err, services.ErrValidation)
}

func TestInputFrame(t *testing.T) {
	assert.InDelta(t, 30.0, loop.InputFrame(10, 30, 10), 1e-9)
	assert.InDelta(t, 10.0, loop.InputFrame(10, 24, 24), 1e-9)
	assert.InDelta(t, 12.5, loop.InputFrame(5, 25, 10), 1e-9)
}
