package indicators

import (
	"fmt"

	"github.com/kevharv/stockscope/market"
)

// MACDResult bundles the three MACD output lines.
type MACDResult struct {
	MACD      Series
	Signal    Series
	Histogram Series
}

// MACD computes macd = EMA_fast(close) - EMA_slow(close), the signal line as
// EMA_signal over the macd line, and the histogram as their difference.
// The macd line is defined from slow-1; the signal and histogram from
// slow-1 + signal-1.
func MACD(s *market.PriceSeries, fast, slow, signal int) (MACDResult, error) {
	name := fmt.Sprintf("MACD(%d,%d,%d)", fast, slow, signal)
	if fast <= 0 || slow <= 0 || signal <= 0 || fast >= slow {
		return MACDResult{}, fmt.Errorf("%s: bad periods: %w", name, market.ErrInvalidParameter)
	}
	need := slow + signal - 1
	if s.Len() < need {
		_, err := insufficient(name, need, s.Len())
		return MACDResult{}, err
	}

	closes := s.Closes()
	emaFast := emaOver(closes, fast)
	emaSlow := emaOver(closes, slow)

	macdFirst := slow - 1
	macd := Series{Name: name, Values: make([]float64, len(closes)), FirstValid: macdFirst}
	for i := macdFirst; i < len(closes); i++ {
		macd.Values[i] = emaFast[i] - emaSlow[i]
	}

	// Signal line: EMA over the defined portion of the macd line, shifted
	// back into input alignment.
	sigOver := emaOver(macd.Values[macdFirst:], signal)
	sigFirst := macdFirst + signal - 1
	sig := Series{Name: name + " signal", Values: make([]float64, len(closes)), FirstValid: sigFirst}
	copy(sig.Values[macdFirst:], sigOver)
	for i := macdFirst; i < sigFirst; i++ {
		sig.Values[i] = 0
	}

	hist := Series{Name: name + " histogram", Values: make([]float64, len(closes)), FirstValid: sigFirst}
	for i := sigFirst; i < len(closes); i++ {
		hist.Values[i] = macd.Values[i] - sig.Values[i]
	}

	return MACDResult{MACD: macd, Signal: sig, Histogram: hist}, nil
}
