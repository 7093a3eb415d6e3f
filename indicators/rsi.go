package indicators

import (
	"fmt"

	"github.com/kevharv/stockscope/market"
)

// RSI computes Wilder's Relative Strength Index. The initial average gain
// and loss are arithmetic means over the first p close-to-close changes;
// subsequent bars use Wilder smoothing avg' = (avg*(p-1) + current)/p.
// When the average loss falls below 1e-4 the RSI saturates at 100.
// First valid index is p.
func RSI(s *market.PriceSeries, period int) (Series, error) {
	name := fmt.Sprintf("RSI(%d)", period)
	if period <= 0 {
		return badPeriod(name, period)
	}
	if s.Len() < period+1 {
		return insufficient(name, period+1, s.Len())
	}

	closes := s.Closes()
	out := Series{Name: name, Values: make([]float64, len(closes)), FirstValid: period}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		chg := closes[i] - closes[i-1]
		if chg > 0 {
			avgGain += chg
		} else {
			avgLoss += -chg
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out.Values[period] = rsiValue(avgGain, avgLoss)

	p := float64(period)
	for i := period + 1; i < len(closes); i++ {
		chg := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if chg > 0 {
			gain = chg
		} else {
			loss = -chg
		}
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out.Values[i] = rsiValue(avgGain, avgLoss)
	}
	return out, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss < 1e-4 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
