package indicators

import (
	"fmt"

	"github.com/kevharv/stockscope/market"
	"github.com/kevharv/stockscope/numerics"
)

// ATR computes the Wilder-smoothed average true range. The seed at index
// p-1 is the arithmetic mean of the first p true ranges (the first bar's
// true range is high-low); later bars use atr' = (atr*(p-1) + tr)/p.
func ATR(s *market.PriceSeries, period int) (Series, error) {
	name := fmt.Sprintf("ATR(%d)", period)
	if period <= 0 {
		return badPeriod(name, period)
	}
	if s.Len() < period {
		return insufficient(name, period, s.Len())
	}

	high := make([]float64, s.Len())
	low := make([]float64, s.Len())
	closes := make([]float64, s.Len())
	for i, p := range s.Points {
		high[i], low[i], closes[i] = p.High, p.Low, p.Close
	}
	trs := numerics.TrueRanges(high, low, closes)

	out := Series{Name: name, Values: make([]float64, s.Len()), FirstValid: period - 1}

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += trs[i]
	}
	atr := seed / float64(period)
	out.Values[period-1] = atr

	p := float64(period)
	for i := period; i < len(trs); i++ {
		atr = (atr*(p-1) + trs[i]) / p
		out.Values[i] = atr
	}
	return out, nil
}
