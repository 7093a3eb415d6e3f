package indicators

import (
	"fmt"

	"github.com/kevharv/stockscope/market"
	"github.com/kevharv/stockscope/numerics"
)

// SMA computes the simple moving average of closes over the given period.
// sma[t] = mean(close[t-p+1..t]); first valid index is p-1.
func SMA(s *market.PriceSeries, period int) (Series, error) {
	name := fmt.Sprintf("SMA(%d)", period)
	if period <= 0 {
		return badPeriod(name, period)
	}
	if s.Len() < period {
		return insufficient(name, period, s.Len())
	}

	sums := numerics.SlidingSum(s.Closes(), period)
	out := Series{Name: name, Values: make([]float64, s.Len()), FirstValid: period - 1}
	for i := period - 1; i < len(sums); i++ {
		out.Values[i] = sums[i] / float64(period)
	}
	return out, nil
}

// EMA computes the exponential moving average of closes. The seed at index
// p-1 is the SMA of the first p closes; after that
// ema[t] = alpha*close[t] + (1-alpha)*ema[t-1] with alpha = 2/(p+1).
func EMA(s *market.PriceSeries, period int) (Series, error) {
	name := fmt.Sprintf("EMA(%d)", period)
	if period <= 0 {
		return badPeriod(name, period)
	}
	if s.Len() < period {
		return insufficient(name, period, s.Len())
	}

	values := emaOver(s.Closes(), period)
	return Series{Name: name, Values: values, FirstValid: period - 1}, nil
}

// emaOver runs the EMA recurrence over a raw column. Entries before index
// period-1 are undefined. Callers guarantee len(x) >= period.
func emaOver(x []float64, period int) []float64 {
	alpha := 2.0 / float64(period+1)

	out := make([]float64, len(x))
	seed := 0.0
	for i := 0; i < period; i++ {
		seed += x[i]
	}
	out[period-1] = seed / float64(period)

	for i := period; i < len(x); i++ {
		out[i] = alpha*x[i] + (1-alpha)*out[i-1]
	}
	return out
}
