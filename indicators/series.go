// Package indicators computes technical analysis indicators over daily
// price series. Every indicator borrows a market.PriceSeries and returns a
// Series it owns, aligned to the input by index.
package indicators

import (
	"fmt"

	"github.com/kevharv/stockscope/market"
	"github.com/phuslu/log"
)

// Series is one indicator output column. Values[i] is defined only for
// i >= FirstValid; earlier entries are left at zero and must not be read.
// Alignment to the input series is by index, never by date.
type Series struct {
	Name       string
	Values     []float64
	FirstValid int
}

// At returns (value, true) when index i holds a defined value.
func (s Series) At(i int) (float64, bool) {
	if i < s.FirstValid || i >= len(s.Values) {
		return 0, false
	}
	return s.Values[i], true
}

// Last returns the most recent defined value, or (0, false) for an empty
// series.
func (s Series) Last() (float64, bool) {
	return s.At(len(s.Values) - 1)
}

func (s Series) Empty() bool {
	return len(s.Values) == 0
}

// insufficient logs the short-input condition at warning and returns the
// empty series. No partial output is ever produced.
func insufficient(name string, need, got int) (Series, error) {
	log.Warn().
		Str("indicator", name).
		Int("need", need).
		Int("got", got).
		Msg("insufficient data")
	return Series{}, fmt.Errorf("%s: need %d bars, got %d: %w", name, need, got, market.ErrInsufficientData)
}

func badPeriod(name string, p int) (Series, error) {
	return Series{}, fmt.Errorf("%s: period must be positive, got %d: %w", name, p, market.ErrInvalidParameter)
}
