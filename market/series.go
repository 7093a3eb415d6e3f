// Package market defines the price data model shared by every analysis package.
package market

import (
	"errors"
	"fmt"
	"sort"
)

// DateLayout is the wire format for all dates in this module.
const DateLayout = "2006-01-02"

var (
	// ErrInvalidParameter covers nil/empty inputs, nonsensical windows, and
	// out of range indices. Operations refuse and return an empty result.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInsufficientData means the series is shorter than the minimum the
	// operation needs. Non-fatal; callers log at warning and move on.
	ErrInsufficientData = errors.New("insufficient data")
)

// PricePoint is one daily OHLCV bar. Dates are ISO strings (YYYY-MM-DD) so
// that lexical comparison matches chronological order.
type PricePoint struct {
	Date     string
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   float64
}

// PriceSeries is an ordered, read-only-after-ingestion sequence of bars for
// one symbol. Dates are strictly increasing with no duplicates.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// Closes returns the close column.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Close
	}
	return out
}

// Volumes returns the volume column.
func (s *PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Volume
	}
	return out
}

// Returns computes simple daily returns; out[i] corresponds to the move from
// bar i to bar i+1, so len(out) == Len()-1. Empty input yields an empty slice.
func (s *PriceSeries) Returns() []float64 {
	if s.Len() < 2 {
		return nil
	}
	out := make([]float64, len(s.Points)-1)
	for i := 1; i < len(s.Points); i++ {
		prev := s.Points[i-1].Close
		if prev == 0 {
			out[i-1] = 0
			continue
		}
		out[i-1] = (s.Points[i].Close - prev) / prev
	}
	return out
}

// IndexOfDate finds the bar with an exact date match, or -1.
// Dates are sorted, so binary search applies.
func (s *PriceSeries) IndexOfDate(date string) int {
	i := sort.Search(len(s.Points), func(i int) bool {
		return s.Points[i].Date >= date
	})
	if i < len(s.Points) && s.Points[i].Date == date {
		return i
	}
	return -1
}

// Slice returns a sub-series sharing the underlying storage. The half-open
// range [start, end) must be within bounds.
func (s *PriceSeries) Slice(start, end int) (*PriceSeries, error) {
	if start < 0 || end > len(s.Points) || start > end {
		return nil, fmt.Errorf("slice [%d, %d) of %d bars: %w", start, end, len(s.Points), ErrInvalidParameter)
	}
	return &PriceSeries{Symbol: s.Symbol, Points: s.Points[start:end]}, nil
}

// Validate checks the series invariants: strictly increasing dates, no
// duplicates, and low <= min(open,close) <= max(open,close) <= high on
// every bar that carries real prices.
func (s *PriceSeries) Validate() error {
	if s == nil {
		return ErrInvalidParameter
	}
	for i, p := range s.Points {
		if i > 0 && p.Date <= s.Points[i-1].Date {
			return fmt.Errorf("bar %d: date %q not after %q: %w", i, p.Date, s.Points[i-1].Date, ErrInvalidParameter)
		}
		if p.Open == 0 && p.Close == 0 {
			// missing-value sentinel, ok before sanitation
			continue
		}
		lo, hi := p.Open, p.Close
		if lo > hi {
			lo, hi = hi, lo
		}
		if p.Low > lo || p.High < hi {
			return fmt.Errorf("bar %d (%s): OHLC ordering violated: %w", i, p.Date, ErrInvalidParameter)
		}
		if p.Volume < 0 {
			return fmt.Errorf("bar %d (%s): negative volume: %w", i, p.Date, ErrInvalidParameter)
		}
	}
	return nil
}
