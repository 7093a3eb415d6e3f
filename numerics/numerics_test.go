package numerics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanStddev(t *testing.T) {
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 5.0, Mean(x), 1e-12)
	// population stddev of the classic example is exactly 2
	assert.InDelta(t, 2.0, Stddev(x), 1e-12)

	assert.Zero(t, Mean(nil))
	assert.Zero(t, Stddev(nil))
}

func TestMinMax(t *testing.T) {
	x := []float64{3, -1, 7, 0}
	assert.Equal(t, 7.0, Max(x))
	assert.Equal(t, -1.0, Min(x))
	assert.Zero(t, Max(nil))
	assert.Zero(t, Min(nil))
}

func TestSlidingSum(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	out := SlidingSum(x, 3)
	require.Len(t, out, 5)
	// first w-1 entries undefined (zero)
	assert.Zero(t, out[0])
	assert.Zero(t, out[1])
	assert.Equal(t, 6.0, out[2])
	assert.Equal(t, 9.0, out[3])
	assert.Equal(t, 12.0, out[4])
}

func TestSlidingSumShortInput(t *testing.T) {
	assert.Nil(t, SlidingSum([]float64{1, 2}, 3))
	assert.Nil(t, SlidingSum([]float64{1, 2, 3}, 0))
}

func TestTrueRange(t *testing.T) {
	// gap up: |high-prevClose| dominates
	assert.Equal(t, 6.0, TrueRange(110, 105, 104))
	// plain range day
	assert.Equal(t, 5.0, TrueRange(110, 105, 107))
	// gap down: |low-prevClose| dominates
	assert.Equal(t, 10.0, TrueRange(110, 105, 115))
}

func TestTrueRangesFirstBar(t *testing.T) {
	high := []float64{10, 12}
	low := []float64{8, 9}
	closes := []float64{9, 11}
	tr := TrueRanges(high, low, closes)
	require.Len(t, tr, 2)
	assert.Equal(t, 2.0, tr[0])
	assert.Equal(t, 3.0, tr[1])
}

func TestZScoreConstantWindowGuard(t *testing.T) {
	assert.Zero(t, ZScore(5, 5, 0))
	assert.Zero(t, ZScore(5, 5, 1e-7))
	assert.InDelta(t, 2.0, ZScore(9, 5, 2), 1e-12)
}
