package indicators

import (
	"fmt"

	"github.com/kevharv/stockscope/market"
)

// StochasticResult holds the %K and %D lines of the stochastic oscillator.
type StochasticResult struct {
	K Series
	D Series
}

// Stochastic computes %K = 100*(close - minLow_k)/(maxHigh_k - minLow_k)
// over a k-bar window and %D as the d-bar SMA of %K. A flat window
// (range below 1e-4) defaults %K to 50. %K is defined from k-1, %D from
// k-1 + d-1.
func Stochastic(s *market.PriceSeries, kPeriod, dPeriod int) (StochasticResult, error) {
	name := fmt.Sprintf("Stochastic(%d,%d)", kPeriod, dPeriod)
	if kPeriod <= 0 || dPeriod <= 0 {
		return StochasticResult{}, fmt.Errorf("%s: bad periods: %w", name, market.ErrInvalidParameter)
	}
	need := kPeriod + dPeriod - 1
	if s.Len() < need {
		_, err := insufficient(name, need, s.Len())
		return StochasticResult{}, err
	}

	n := s.Len()
	pts := s.Points
	kFirst := kPeriod - 1

	k := Series{Name: name + " %K", Values: make([]float64, n), FirstValid: kFirst}
	for i := kFirst; i < n; i++ {
		lo := pts[i-kPeriod+1].Low
		hi := pts[i-kPeriod+1].High
		for j := i - kPeriod + 2; j <= i; j++ {
			if pts[j].Low < lo {
				lo = pts[j].Low
			}
			if pts[j].High > hi {
				hi = pts[j].High
			}
		}
		rng := hi - lo
		if rng < 1e-4 {
			k.Values[i] = 50
			continue
		}
		k.Values[i] = 100 * (pts[i].Close - lo) / rng
	}

	dFirst := kFirst + dPeriod - 1
	d := Series{Name: name + " %D", Values: make([]float64, n), FirstValid: dFirst}
	for i := dFirst; i < n; i++ {
		sum := 0.0
		for j := i - dPeriod + 1; j <= i; j++ {
			sum += k.Values[j]
		}
		d.Values[i] = sum / float64(dPeriod)
	}

	return StochasticResult{K: k, D: d}, nil
}
