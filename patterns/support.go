package patterns

import (
	"github.com/kevharv/stockscope/market"
)

// Level is one horizontal support or resistance line with the number of
// bars that touched it.
type Level struct {
	Type    PatternType // SupportLevel or ResistanceLevel
	Price   float64
	Touches int
}

// DetectSupportResistance clusters swing lows into support levels and
// swing highs into resistance levels over the last 60 bars. A level needs
// at least two touches within the tolerance fraction (e.g. 0.01 = 1%).
// Levels are returned most-touched first.
func DetectSupportResistance(s *market.PriceSeries, tolerance float64) []Level {
	if s.Len() < minPeakGap || tolerance <= 0 {
		return nil
	}

	offset := 0
	if s.Len() > scanBars {
		offset = s.Len() - scanBars
	}

	lows := make([]float64, 0, scanBars)
	highs := make([]float64, 0, scanBars)
	for _, p := range s.Points[offset:] {
		lows = append(lows, p.Low)
		highs = append(highs, p.High)
	}

	var out []Level
	for _, i := range localMinima(lows) {
		if lv := clusterLevel(SupportLevel, lows[i], lows, tolerance); lv != nil {
			out = appendLevel(out, *lv, tolerance)
		}
	}
	for _, i := range localMaxima(highs) {
		if lv := clusterLevel(ResistanceLevel, highs[i], highs, tolerance); lv != nil {
			out = appendLevel(out, *lv, tolerance)
		}
	}

	// most-touched first
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Touches > out[j-1].Touches; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func clusterLevel(kind PatternType, anchor float64, prices []float64, tol float64) *Level {
	if anchor <= 0 {
		return nil
	}
	touches := 0
	sum := 0.0
	for _, p := range prices {
		d := (p - anchor) / anchor
		if d < 0 {
			d = -d
		}
		if d <= tol {
			touches++
			sum += p
		}
	}
	if touches < 2 {
		return nil
	}
	return &Level{Type: kind, Price: sum / float64(touches), Touches: touches}
}

// appendLevel drops near-duplicate levels of the same kind.
func appendLevel(levels []Level, lv Level, tol float64) []Level {
	for _, existing := range levels {
		if existing.Type != lv.Type {
			continue
		}
		d := (existing.Price - lv.Price) / lv.Price
		if d < 0 {
			d = -d
		}
		if d <= tol {
			return levels
		}
	}
	return append(levels, lv)
}
