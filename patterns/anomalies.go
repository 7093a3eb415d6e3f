package patterns

import (
	"math"

	"github.com/kevharv/stockscope/market"
	"github.com/kevharv/stockscope/numerics"
)

type AnomalyKind string

const (
	PriceAnomaly    AnomalyKind = "price"
	VolumeAnomaly   AnomalyKind = "volume"
	CombinedAnomaly AnomalyKind = "combined"
)

// Anomaly flags one bar whose return or volume behavior is far outside its
// trailing 30-bar window.
type Anomaly struct {
	Index   int
	Date    string
	Kind    AnomalyKind
	Score   float64 // sqrt(zPrice^2 + zVolume^2)
	PriceZ  float64
	VolumeZ float64
}

const (
	anomalyWindow    = 30
	anomalyThreshold = 2.5
	componentCutoff  = 2.0
)

// DetectAnomalies computes, for every bar with a full trailing window, the
// z-score of its absolute return and absolute volume change against that
// window, and flags bars whose combined score sqrt(zp^2+zv^2) exceeds 2.5.
// The kind records which component crossed 2: price, volume, or both.
func DetectAnomalies(s *market.PriceSeries) []Anomaly {
	n := s.Len()
	if n < anomalyWindow+2 {
		return nil
	}

	absRet := make([]float64, n)  // [i] = |return into bar i|, from bar 1
	absVol := make([]float64, n)  // [i] = |volume change into bar i|
	for i := 1; i < n; i++ {
		pc := s.Points[i-1].Close
		if pc > 0 {
			absRet[i] = math.Abs((s.Points[i].Close - pc) / pc)
		}
		pv := s.Points[i-1].Volume
		if pv > 0 {
			absVol[i] = math.Abs((s.Points[i].Volume - pv) / pv)
		}
	}

	var out []Anomaly
	for t := anomalyWindow + 1; t < n; t++ {
		retWin := absRet[t-anomalyWindow : t]
		volWin := absVol[t-anomalyWindow : t]

		zp := numerics.ZScore(absRet[t], numerics.Mean(retWin), numerics.Stddev(retWin))
		zv := numerics.ZScore(absVol[t], numerics.Mean(volWin), numerics.Stddev(volWin))

		score := math.Sqrt(zp*zp + zv*zv)
		if score <= anomalyThreshold {
			continue
		}

		kind := CombinedAnomaly
		switch {
		case zp > componentCutoff && zv <= componentCutoff:
			kind = PriceAnomaly
		case zv > componentCutoff && zp <= componentCutoff:
			kind = VolumeAnomaly
		}

		out = append(out, Anomaly{
			Index:   t,
			Date:    s.Points[t].Date,
			Kind:    kind,
			Score:   score,
			PriceZ:  zp,
			VolumeZ: zv,
		})
	}
	return out
}

// AnomalyScore is a composite for the latest bar:
// 0.4*zReturn + 0.3*(volumeRatio-1) + 0.3*(trueRangeRatio-1), where the
// ratios compare the latest bar against its trailing 30-bar mean. A series
// without a full window scores 0.
func AnomalyScore(s *market.PriceSeries) float64 {
	n := s.Len()
	if n < anomalyWindow+2 {
		return 0
	}

	t := n - 1
	rets := s.Returns() // rets[i] is the move into bar i+1
	last := rets[len(rets)-1]
	retWin := rets[len(rets)-1-anomalyWindow : len(rets)-1]
	zRet := numerics.ZScore(last, numerics.Mean(retWin), numerics.Stddev(retWin))

	volMean := 0.0
	trMean := 0.0
	for i := t - anomalyWindow; i < t; i++ {
		volMean += s.Points[i].Volume
		trMean += numerics.TrueRange(s.Points[i].High, s.Points[i].Low, s.Points[maxI(i-1, 0)].Close)
	}
	volMean /= anomalyWindow
	trMean /= anomalyWindow

	volRatio := 1.0
	if volMean > 0 {
		volRatio = s.Points[t].Volume / volMean
	}
	trRatio := 1.0
	if trMean > 0 {
		trRatio = numerics.TrueRange(s.Points[t].High, s.Points[t].Low, s.Points[t-1].Close) / trMean
	}

	return 0.4*zRet + 0.3*(volRatio-1) + 0.3*(trRatio-1)
}

func maxI(a, b int) int {
	if a > b {
		return a
	}
	return b
}
