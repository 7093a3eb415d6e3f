// Package fetch supplies the pipeline's external collaborators: remote
// price sources, a news source, and a local CSV price cache. Everything
// here is synchronous, fallible, and idempotent; the analysis packages
// never import it.
package fetch

import (
	"errors"

	"github.com/kevharv/stockscope/market"
)

// ErrFetch marks failures talking to a remote source.
var ErrFetch = errors.New("fetch failed")

// PriceSource retrieves daily bars for a symbol over an inclusive
// ISO-date range.
type PriceSource interface {
	Fetch(symbol, startDate, endDate string) (*market.PriceSeries, error)
}

// RawNewsItem is one headline as scraped, before scoring.
type RawNewsItem struct {
	Title       string
	Description string
	URL         string
	Source      string
	Published   string
}

// NewsSource retrieves recent headlines for a symbol.
type NewsSource interface {
	Fetch(symbol string) ([]RawNewsItem, error)
}

// PriceCache stores fetched series locally keyed by symbol and range.
type PriceCache interface {
	Has(symbol, startDate, endDate string) bool
	Load(symbol, startDate, endDate string) (*market.PriceSeries, error)
	Store(series *market.PriceSeries, startDate, endDate string) error
}
