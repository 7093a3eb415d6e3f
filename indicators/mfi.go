package indicators

import (
	"fmt"

	"github.com/kevharv/stockscope/market"
)

// MFI computes the Money Flow Index. The typical price is (h+l+c)/3, the
// raw money flow is typical*volume, and each bar's flow counts as positive
// or negative depending on whether the typical price rose or fell from the
// prior bar. MFI = 100 - 100/(1 + sumPos/sumNeg) over a p-bar window; when
// the negative flow sum drops below 1e-4 the index saturates at 100.
// First valid index is p.
func MFI(s *market.PriceSeries, period int) (Series, error) {
	name := fmt.Sprintf("MFI(%d)", period)
	if period <= 0 {
		return badPeriod(name, period)
	}
	if s.Len() < period+1 {
		return insufficient(name, period+1, s.Len())
	}

	n := s.Len()
	pts := s.Points

	typical := make([]float64, n)
	for i, p := range pts {
		typical[i] = (p.High + p.Low + p.Close) / 3
	}

	// Signed raw money flow, defined from bar 1. Unchanged typical price
	// contributes to neither side.
	pos := make([]float64, n)
	neg := make([]float64, n)
	for i := 1; i < n; i++ {
		rmf := typical[i] * pts[i].Volume
		switch {
		case typical[i] > typical[i-1]:
			pos[i] = rmf
		case typical[i] < typical[i-1]:
			neg[i] = rmf
		}
	}

	out := Series{Name: name, Values: make([]float64, n), FirstValid: period}

	var sumPos, sumNeg float64
	for i := 1; i <= period; i++ {
		sumPos += pos[i]
		sumNeg += neg[i]
	}
	out.Values[period] = mfiValue(sumPos, sumNeg)

	for i := period + 1; i < n; i++ {
		sumPos += pos[i] - pos[i-period]
		sumNeg += neg[i] - neg[i-period]
		out.Values[i] = mfiValue(sumPos, sumNeg)
	}
	return out, nil
}

func mfiValue(sumPos, sumNeg float64) float64 {
	if sumNeg < 1e-4 {
		return 100
	}
	return 100 - 100/(1+sumPos/sumNeg)
}
