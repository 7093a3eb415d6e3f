package indicators

import (
	"fmt"
	"math"

	"github.com/kevharv/stockscope/market"
	"github.com/kevharv/stockscope/numerics"
)

// ADX computes Wilder's Average Directional Index.
//
// Directional movement per bar:
//
//	+DM = high[t]-high[t-1] when that up-move beats the down-move and is > 0
//	-DM = low[t-1]-low[t]  when the down-move beats the up-move and is > 0
//
// TR, +DM and -DM are Wilder-smoothed over the period; DX is
// 100*|+DI - -DI|/(+DI + -DI) and ADX smooths DX the same way. The seed
// phase needs 2p bars of history, so the first valid index is 2p-1.
func ADX(s *market.PriceSeries, period int) (Series, error) {
	name := fmt.Sprintf("ADX(%d)", period)
	if period <= 0 {
		return badPeriod(name, period)
	}
	if s.Len() < 2*period {
		return insufficient(name, 2*period, s.Len())
	}

	n := s.Len()
	pts := s.Points
	p := float64(period)

	// Per-bar raw samples, defined from bar 1.
	tr := make([]float64, n)
	pdm := make([]float64, n)
	mdm := make([]float64, n)
	for i := 1; i < n; i++ {
		up := pts[i].High - pts[i-1].High
		down := pts[i-1].Low - pts[i].Low
		if up > down && up > 0 {
			pdm[i] = up
		}
		if down > up && down > 0 {
			mdm[i] = down
		}
		tr[i] = numerics.TrueRange(pts[i].High, pts[i].Low, pts[i-1].Close)
	}

	out := Series{Name: name, Values: make([]float64, n), FirstValid: 2*period - 1}

	// Seed smoothed TR/DM with simple averages of the first p samples.
	var trS, pdmS, mdmS float64
	for i := 1; i <= period; i++ {
		trS += tr[i]
		pdmS += pdm[i]
		mdmS += mdm[i]
	}
	trS /= p
	pdmS /= p
	mdmS /= p

	dx := make([]float64, n)
	dxAt := func(i int) float64 {
		if trS == 0 {
			return 0
		}
		pdi := 100 * pdmS / trS
		mdi := 100 * mdmS / trS
		den := pdi + mdi
		if den == 0 {
			return 0
		}
		return 100 * math.Abs(pdi-mdi) / den
	}
	dx[period] = dxAt(period)

	var adx float64
	for i := period + 1; i < n; i++ {
		trS = (trS*(p-1) + tr[i]) / p
		pdmS = (pdmS*(p-1) + pdm[i]) / p
		mdmS = (mdmS*(p-1) + mdm[i]) / p
		dx[i] = dxAt(i)

		if i == 2*period-1 {
			seed := 0.0
			for j := period; j <= i; j++ {
				seed += dx[j]
			}
			adx = seed / p
			out.Values[i] = adx
		} else if i > 2*period-1 {
			adx = (adx*(p-1) + dx[i]) / p
			out.Values[i] = adx
		}
	}
	return out, nil
}
