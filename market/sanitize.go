package market

// Sanitize returns a new series with missing values imputed and OHLC bounds
// repaired. The input is never modified; analysis operations take the
// sanitized copy and treat it as immutable.
//
// Imputation rules:
//   - A zero close is replaced with the previous bar's close (carry-forward).
//     Leading zero closes take the first real close in the series.
//   - Zero open/high/low are replaced with the (possibly imputed) close.
//   - High is raised to max(open, close) and low dropped to min(open, close)
//     when the bar violates the ordering invariant.
//   - Zero adjusted close falls back to close.
func Sanitize(s *PriceSeries) *PriceSeries {
	if s == nil {
		return &PriceSeries{}
	}

	out := &PriceSeries{
		Symbol: s.Symbol,
		Points: make([]PricePoint, len(s.Points)),
	}
	copy(out.Points, s.Points)

	// First real close, for leading gaps.
	firstClose := 0.0
	for _, p := range out.Points {
		if p.Close > 0 {
			firstClose = p.Close
			break
		}
	}

	prevClose := firstClose
	for i := range out.Points {
		p := &out.Points[i]

		if p.Close <= 0 {
			p.Close = prevClose
		}
		if p.Open <= 0 {
			p.Open = p.Close
		}
		if p.High <= 0 {
			p.High = p.Close
		}
		if p.Low <= 0 {
			p.Low = p.Close
		}
		if p.AdjClose <= 0 {
			p.AdjClose = p.Close
		}
		if p.Volume < 0 {
			p.Volume = 0
		}

		hi, lo := p.Open, p.Close
		if hi < lo {
			hi, lo = lo, hi
		}
		if p.High < hi {
			p.High = hi
		}
		if p.Low > lo {
			p.Low = lo
		}

		prevClose = p.Close
	}
	return out
}
