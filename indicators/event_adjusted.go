package indicators

// Event-adjusted indicator variants. Each takes an event factor
// f = sentiment * impactScore/100, clamped to [-1, 1], and applies a fixed
// deterministic perturbation to the base indicator:
//
//	ADX        * (1 + 0.2*|f|)
//	Stochastic + 10*f, clamped to [0, 100]
//	MFI        + 10*f, clamped to [0, 100]
//	PSAR       * (1 - 0.1*f)

import "github.com/kevharv/stockscope/market"

// EventFactor combines a sentiment in [-1,1] with an impact score in
// [0,100] into the shared adjustment factor.
func EventFactor(sentiment, impactScore float64) float64 {
	return clampF(sentiment*impactScore/100, -1, 1)
}

// EventADX scales ADX trend strength by the event factor.
func EventADX(s *market.PriceSeries, period int, f float64) (Series, error) {
	base, err := ADX(s, period)
	if err != nil {
		return Series{}, err
	}
	f = clampF(f, -1, 1)
	mult := 1 + 0.2*abs(f)
	return mapDefined(base, func(v float64) float64 { return v * mult }), nil
}

// EventStochastic shifts both stochastic lines by 10*f, clamped to [0,100].
func EventStochastic(s *market.PriceSeries, kPeriod, dPeriod int, f float64) (StochasticResult, error) {
	base, err := Stochastic(s, kPeriod, dPeriod)
	if err != nil {
		return StochasticResult{}, err
	}
	f = clampF(f, -1, 1)
	shift := func(v float64) float64 { return clampF(v+10*f, 0, 100) }
	return StochasticResult{
		K: mapDefined(base.K, shift),
		D: mapDefined(base.D, shift),
	}, nil
}

// EventMFI shifts MFI by 10*f, clamped to [0,100].
func EventMFI(s *market.PriceSeries, period int, f float64) (Series, error) {
	base, err := MFI(s, period)
	if err != nil {
		return Series{}, err
	}
	f = clampF(f, -1, 1)
	return mapDefined(base, func(v float64) float64 { return clampF(v+10*f, 0, 100) }), nil
}

// EventPSAR scales the SAR level by (1 - 0.1*f): bullish events pull the
// stop closer to price, bearish events push it away.
func EventPSAR(s *market.PriceSeries, alpha, alphaMax, f float64) (Series, error) {
	base, err := PSAR(s, alpha, alphaMax)
	if err != nil {
		return Series{}, err
	}
	f = clampF(f, -1, 1)
	mult := 1 - 0.1*f
	return mapDefined(base, func(v float64) float64 { return v * mult }), nil
}

// mapDefined applies fn to the defined range of a series, producing a new
// series; undefined entries stay zero.
func mapDefined(s Series, fn func(float64) float64) Series {
	out := Series{Name: "event " + s.Name, Values: make([]float64, len(s.Values)), FirstValid: s.FirstValid}
	for i := s.FirstValid; i < len(s.Values); i++ {
		out.Values[i] = fn(s.Values[i])
	}
	return out
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
