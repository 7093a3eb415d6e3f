// Package numerics holds the pure numerical kernels used by the indicator
// and pattern engines. Everything here is deterministic, allocation-light,
// and never returns an error: insufficient input yields the documented
// sentinel (0 for scalars, nil for slices).
package numerics

import "math"

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

// Stddev returns the population standard deviation (divide by N),
// or 0 for an empty slice.
func Stddev(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	m := Mean(x)
	ss := 0.0
	for _, v := range x {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(x)))
}

// Max returns the largest element, or 0 for an empty slice.
func Max(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	m := x[0]
	for _, v := range x[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Min returns the smallest element, or 0 for an empty slice.
func Min(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	m := x[0]
	for _, v := range x[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// SlidingSum computes rolling window sums with the O(N) add-new/drop-old
// recurrence. out[i] is the sum of x[i-w+1..i]; the first w-1 entries are
// undefined and left at 0. Returns nil when w <= 0 or len(x) < w.
func SlidingSum(x []float64, w int) []float64 {
	if w <= 0 || len(x) < w {
		return nil
	}
	out := make([]float64, len(x))
	sum := 0.0
	for i := 0; i < w; i++ {
		sum += x[i]
	}
	out[w-1] = sum
	for i := w; i < len(x); i++ {
		sum += x[i] - x[i-w]
		out[i] = sum
	}
	return out
}

// TrueRange is Wilder's true range for bar t given the previous close:
// max(high-low, |high-prevClose|, |low-prevClose|). For the first bar pass
// prevClose = close so the result degrades to high-low.
func TrueRange(high, low, prevClose float64) float64 {
	tr := high - low
	if d := math.Abs(high - prevClose); d > tr {
		tr = d
	}
	if d := math.Abs(low - prevClose); d > tr {
		tr = d
	}
	return tr
}

// TrueRanges computes the per-bar true range over parallel OHLC columns.
// Index 0 uses high[0]-low[0].
func TrueRanges(high, low, closes []float64) []float64 {
	n := len(high)
	if n == 0 || len(low) != n || len(closes) != n {
		return nil
	}
	out := make([]float64, n)
	out[0] = high[0] - low[0]
	for i := 1; i < n; i++ {
		out[i] = TrueRange(high[i], low[i], closes[i-1])
	}
	return out
}

// ZScore standardizes value against the given moments. Constant windows
// (stddev below 1e-6) return 0 rather than exploding.
func ZScore(value, mean, stddev float64) float64 {
	if stddev < 1e-6 {
		return 0
	}
	return (value - mean) / stddev
}
