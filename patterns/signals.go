package patterns

import (
	"github.com/kevharv/stockscope/indicators"
	"github.com/kevharv/stockscope/market"
)

type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// Signal is one actionable crossover suggestion. Strength is in [0,1] and
// is gated against the strategy entry threshold downstream.
type Signal struct {
	Action   Action
	Index    int
	Date     string
	Entry    float64
	Target   float64
	Stop     float64
	Strength float64
}

// Fixed risk/reward on crossover signals: 5% target, 3% stop.
const (
	targetFraction = 0.05
	stopFraction   = 0.03
)

// DetectSMACrossoverSignals scans from the latest bar backward and emits a
// BUY wherever the short SMA crosses above the long SMA and a SELL on the
// opposite cross. Results are most-recent-first, capped at maxResults.
// A series too short for the long window yields no signals.
func DetectSMACrossoverSignals(s *market.PriceSeries, shortP, longP, maxResults int) []Signal {
	if maxResults <= 0 || shortP <= 0 || longP <= shortP {
		return nil
	}

	short, err := indicators.SMA(s, shortP)
	if err != nil {
		return nil
	}
	long, err := indicators.SMA(s, longP)
	if err != nil {
		return nil
	}

	var out []Signal
	for t := s.Len() - 1; t > long.FirstValid && len(out) < maxResults; t-- {
		sv, _ := short.At(t)
		lv, _ := long.At(t)
		pv, _ := short.At(t - 1)
		plv, _ := long.At(t - 1)

		diff := sv - lv
		prevDiff := pv - plv

		var action Action
		switch {
		case diff > 0 && prevDiff <= 0:
			action = Buy
		case diff < 0 && prevDiff >= 0:
			action = Sell
		default:
			continue
		}

		entry := s.Points[t].Close
		sig := Signal{
			Action:   action,
			Index:    t,
			Date:     s.Points[t].Date,
			Entry:    entry,
			Strength: crossStrength(diff, lv),
		}
		if action == Buy {
			sig.Target = entry * (1 + targetFraction)
			sig.Stop = entry * (1 - stopFraction)
		} else {
			sig.Target = entry * (1 - targetFraction)
			sig.Stop = entry * (1 + stopFraction)
		}
		out = append(out, sig)
	}
	return out
}

// crossStrength normalizes the SMA divergence: a 2% gap between the
// averages saturates at full strength.
func crossStrength(diff, long float64) float64 {
	if long <= 0 {
		return 0
	}
	v := diff / long
	if v < 0 {
		v = -v
	}
	v /= 0.02
	if v > 1 {
		v = 1
	}
	return v
}
