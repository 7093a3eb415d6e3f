// Package patterns detects chart patterns, crossover signals, and
// statistical anomalies over daily price series. Detection never errors on
// short input: a series without enough history simply yields no results.
package patterns

import (
	"github.com/kevharv/stockscope/market"
)

type PatternType string

const (
	DoubleTop         PatternType = "double_top"
	DoubleBottom      PatternType = "double_bottom"
	HeadAndShoulders  PatternType = "head_and_shoulders"
	SupportLevel      PatternType = "support"
	ResistanceLevel   PatternType = "resistance"
	SeasonalMonthly   PatternType = "seasonal_month"
	SeasonalWeekday   PatternType = "seasonal_weekday"
	JanuaryEffect     PatternType = "january_effect"
)

// Pattern is one detected formation. ExpectedMove is the anticipated price
// change as a fraction of the breakout level: negative for bearish
// formations, positive for bullish ones.
type Pattern struct {
	Type         PatternType
	StartIndex   int
	EndIndex     int
	Confidence   float64
	ExpectedMove float64
}

const (
	scanBars        = 60   // detection window: last 60 bars
	minPeakGap      = 10   // minimum bars between paired peaks
	peakTolerance   = 0.05 // paired peak heights within 5%
	minTroughDepth  = 0.03 // neckline trough depth vs peak
	shoulderBalance = 0.10 // left/right shoulders within 10%
)

// DetectPricePatterns scans the last 60 bars for double tops, double
// bottoms, and head-and-shoulders formations. At most maxResults patterns
// are returned, strongest confidence first. Insufficient data yields an
// empty slice, not an error.
func DetectPricePatterns(s *market.PriceSeries, maxResults int) []Pattern {
	if s.Len() < minPeakGap*2 || maxResults <= 0 {
		return nil
	}

	offset := 0
	if s.Len() > scanBars {
		offset = s.Len() - scanBars
	}
	closes := s.Closes()[offset:]

	peaks := localMaxima(closes)
	troughs := localMinima(closes)

	var found []Pattern
	found = append(found, doubleTops(closes, peaks)...)
	found = append(found, doubleBottoms(closes, troughs)...)
	found = append(found, headAndShoulders(closes, peaks)...)

	// Shift back into full-series alignment.
	for i := range found {
		found[i].StartIndex += offset
		found[i].EndIndex += offset
	}

	sortByConfidence(found)
	if len(found) > maxResults {
		found = found[:maxResults]
	}
	return found
}

// localMaxima returns indices strictly higher than the two neighbors on
// each side. Ties go to the earlier bar.
func localMaxima(x []float64) []int {
	var out []int
	for i := 2; i < len(x)-2; i++ {
		if x[i] > x[i-1] && x[i] > x[i-2] && x[i] >= x[i+1] && x[i] >= x[i+2] {
			out = append(out, i)
		}
	}
	return out
}

func localMinima(x []float64) []int {
	var out []int
	for i := 2; i < len(x)-2; i++ {
		if x[i] < x[i-1] && x[i] < x[i-2] && x[i] <= x[i+1] && x[i] <= x[i+2] {
			out = append(out, i)
		}
	}
	return out
}

func doubleTops(closes []float64, peaks []int) []Pattern {
	var out []Pattern
	for a := 0; a < len(peaks); a++ {
		for b := a + 1; b < len(peaks); b++ {
			i, j := peaks[a], peaks[b]
			if j-i < minPeakGap {
				continue
			}
			hi := closes[i]
			if closes[j] > hi {
				hi = closes[j]
			}
			diff := closes[i] - closes[j]
			if diff < 0 {
				diff = -diff
			}
			if diff/hi > peakTolerance {
				continue
			}
			trough := minBetween(closes, i, j)
			depth := (hi - trough) / hi
			if depth < minTroughDepth {
				continue
			}
			out = append(out, Pattern{
				Type:         DoubleTop,
				StartIndex:   clampIdx(i-5, len(closes)),
				EndIndex:     clampIdx(j+5, len(closes)),
				Confidence:   confidence(diff/hi, depth),
				ExpectedMove: -depth,
			})
		}
	}
	return out
}

func doubleBottoms(closes []float64, troughs []int) []Pattern {
	var out []Pattern
	for a := 0; a < len(troughs); a++ {
		for b := a + 1; b < len(troughs); b++ {
			i, j := troughs[a], troughs[b]
			if j-i < minPeakGap {
				continue
			}
			lo := closes[i]
			if closes[j] < lo {
				lo = closes[j]
			}
			diff := closes[i] - closes[j]
			if diff < 0 {
				diff = -diff
			}
			if diff/lo > peakTolerance {
				continue
			}
			peak := maxBetween(closes, i, j)
			depth := (peak - lo) / peak
			if depth < minTroughDepth {
				continue
			}
			out = append(out, Pattern{
				Type:         DoubleBottom,
				StartIndex:   clampIdx(i-5, len(closes)),
				EndIndex:     clampIdx(j+5, len(closes)),
				Confidence:   confidence(diff/lo, depth),
				ExpectedMove: depth,
			})
		}
	}
	return out
}

func headAndShoulders(closes []float64, peaks []int) []Pattern {
	var out []Pattern
	for a := 0; a+2 < len(peaks); a++ {
		l, h, r := peaks[a], peaks[a+1], peaks[a+2]
		if closes[h] <= closes[l] || closes[h] <= closes[r] {
			continue
		}
		diff := closes[l] - closes[r]
		if diff < 0 {
			diff = -diff
		}
		base := closes[l]
		if closes[r] > base {
			base = closes[r]
		}
		if diff/base > shoulderBalance {
			continue
		}
		// Neckline from the two troughs flanking the head.
		neck := minBetween(closes, l, h)
		if t2 := minBetween(closes, h, r); t2 < neck {
			neck = t2
		}
		depth := (closes[h] - neck) / closes[h]
		if depth < minTroughDepth {
			continue
		}
		out = append(out, Pattern{
			Type:         HeadAndShoulders,
			StartIndex:   clampIdx(l-5, len(closes)),
			EndIndex:     clampIdx(r+5, len(closes)),
			Confidence:   confidence(diff/base, depth),
			ExpectedMove: -depth,
		})
	}
	return out
}

func minBetween(x []float64, i, j int) float64 {
	m := x[i+1]
	for k := i + 1; k < j; k++ {
		if x[k] < m {
			m = x[k]
		}
	}
	return m
}

func maxBetween(x []float64, i, j int) float64 {
	m := x[i+1]
	for k := i + 1; k < j; k++ {
		if x[k] > m {
			m = x[k]
		}
	}
	return m
}

// confidence rewards tight peak symmetry and a deep neckline.
func confidence(asymmetry, depth float64) float64 {
	c := (1-asymmetry/peakTolerance)*0.5 + 0.5*minF(depth/0.10, 1)
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	return c
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func sortByConfidence(ps []Pattern) {
	// insertion sort: pattern lists are tiny
	for i := 1; i < len(ps); i++ {
		for j := i; j > 0 && ps[j].Confidence > ps[j-1].Confidence; j-- {
			ps[j], ps[j-1] = ps[j-1], ps[j]
		}
	}
}
