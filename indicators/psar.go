package indicators

import (
	"fmt"

	"github.com/kevharv/stockscope/market"
)

// PSAR computes the Parabolic SAR with acceleration step alpha and cap
// alphaMax (conventionally 0.02 and 0.2).
//
// State per bar: trend direction, current SAR, extreme point EP, and
// acceleration factor AF. On each new extreme in the trend direction EP
// moves and AF steps up by alpha, capped at alphaMax. The provisional SAR
// is clamped so it never enters the prior two bars' range (lows in an
// uptrend, highs in a downtrend). When price crosses the SAR the trend
// flips: SAR jumps to the old EP, EP restarts at the flip bar's extreme,
// and AF resets to alpha.
//
// First valid index is 1; the initial trend comes from the first close
// move.
func PSAR(s *market.PriceSeries, alpha, alphaMax float64) (Series, error) {
	name := fmt.Sprintf("PSAR(%.3f,%.2f)", alpha, alphaMax)
	if alpha <= 0 || alphaMax < alpha {
		return Series{}, fmt.Errorf("%s: bad acceleration: %w", name, market.ErrInvalidParameter)
	}
	if s.Len() < 2 {
		return insufficient(name, 2, s.Len())
	}

	n := s.Len()
	pts := s.Points
	out := Series{Name: name, Values: make([]float64, n), FirstValid: 1}

	uptrend := pts[1].Close >= pts[0].Close
	af := alpha
	var sar, ep float64
	if uptrend {
		sar = pts[0].Low
		ep = pts[1].High
	} else {
		sar = pts[0].High
		ep = pts[1].Low
	}
	out.Values[1] = sar

	for i := 2; i < n; i++ {
		sar = sar + af*(ep-sar)

		// Clamp against the prior two bars.
		if uptrend {
			if sar > pts[i-1].Low {
				sar = pts[i-1].Low
			}
			if sar > pts[i-2].Low {
				sar = pts[i-2].Low
			}
		} else {
			if sar < pts[i-1].High {
				sar = pts[i-1].High
			}
			if sar < pts[i-2].High {
				sar = pts[i-2].High
			}
		}

		if uptrend {
			if pts[i].Low < sar {
				// Flip to downtrend.
				uptrend = false
				sar = ep
				ep = pts[i].Low
				af = alpha
			} else if pts[i].High > ep {
				ep = pts[i].High
				af += alpha
				if af > alphaMax {
					af = alphaMax
				}
			}
		} else {
			if pts[i].High > sar {
				// Flip to uptrend.
				uptrend = true
				sar = ep
				ep = pts[i].High
				af = alpha
			} else if pts[i].Low < ep {
				ep = pts[i].Low
				af += alpha
				if af > alphaMax {
					af = alphaMax
				}
			}
		}

		out.Values[i] = sar
	}
	return out, nil
}
