package patterns

import (
	"math"

	"github.com/kevharv/stockscope/numerics"
)

// Euclidean returns the L2 distance between two equal-length vectors,
// or 0 when the lengths differ or the input is empty.
func Euclidean(x, y []float64) float64 {
	if len(x) == 0 || len(x) != len(y) {
		return 0
	}
	ss := 0.0
	for i := range x {
		d := x[i] - y[i]
		ss += d * d
	}
	return math.Sqrt(ss)
}

// Pearson returns the Pearson correlation coefficient, or 0 when either
// variance is non-positive or the lengths differ.
func Pearson(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	mx, my := numerics.Mean(x), numerics.Mean(y)
	var sxy, sxx, syy float64
	for i := range x {
		dx := x[i] - mx
		dy := y[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx <= 0 || syy <= 0 {
		return 0
	}
	return sxy / math.Sqrt(sxx*syy)
}

// DTW computes the dynamic time warping distance with the standard
// recurrence D[i,j] = |x[i]-y[j]| + min(D[i-1,j], D[i,j-1], D[i-1,j-1]).
// Empty input returns 0. Uses a rolling row, O(len(y)) memory.
func DTW(x, y []float64) float64 {
	if len(x) == 0 || len(y) == 0 {
		return 0
	}

	inf := math.Inf(1)
	prev := make([]float64, len(y)+1)
	cur := make([]float64, len(y)+1)
	for j := range prev {
		prev[j] = inf
	}
	prev[0] = 0

	for i := 1; i <= len(x); i++ {
		cur[0] = inf
		for j := 1; j <= len(y); j++ {
			cost := math.Abs(x[i-1] - y[j-1])
			best := prev[j] // D[i-1,j]
			if prev[j-1] < best {
				best = prev[j-1] // D[i-1,j-1]
			}
			if cur[j-1] < best {
				best = cur[j-1] // D[i,j-1]
			}
			cur[j] = cost + best
		}
		prev, cur = cur, prev
	}
	return prev[len(y)]
}
