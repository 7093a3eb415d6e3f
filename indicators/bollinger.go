package indicators

import (
	"fmt"

	"github.com/kevharv/stockscope/market"
	"github.com/kevharv/stockscope/numerics"
)

// BollingerBands holds the middle band (SMA) and the upper/lower bands at
// mid +/- k sigma, where sigma is the population stddev over the window.
type BollingerBands struct {
	Mid   Series
	Upper Series
	Lower Series
}

// Bollinger computes Bollinger bands over the close column.
func Bollinger(s *market.PriceSeries, period int, k float64) (BollingerBands, error) {
	name := fmt.Sprintf("Bollinger(%d,%.1f)", period, k)
	if period <= 0 {
		_, err := badPeriod(name, period)
		return BollingerBands{}, err
	}
	if k < 0 {
		return BollingerBands{}, fmt.Errorf("%s: negative width: %w", name, market.ErrInvalidParameter)
	}
	if s.Len() < period {
		_, err := insufficient(name, period, s.Len())
		return BollingerBands{}, err
	}

	closes := s.Closes()
	n := len(closes)
	first := period - 1

	mid := Series{Name: name + " mid", Values: make([]float64, n), FirstValid: first}
	upper := Series{Name: name + " upper", Values: make([]float64, n), FirstValid: first}
	lower := Series{Name: name + " lower", Values: make([]float64, n), FirstValid: first}

	for i := first; i < n; i++ {
		window := closes[i-period+1 : i+1]
		m := numerics.Mean(window)
		sigma := numerics.Stddev(window)
		mid.Values[i] = m
		upper.Values[i] = m + k*sigma
		lower.Values[i] = m - k*sigma
	}
	return BollingerBands{Mid: mid, Upper: upper, Lower: lower}, nil
}
