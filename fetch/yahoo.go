package fetch

import (
	"fmt"
	"time"

	"github.com/phuslu/log"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"

	"github.com/kevharv/stockscope/market"
)

// YahooSource fetches daily bars from Yahoo Finance.
type YahooSource struct{}

// Fetch retrieves daily bars for [startDate, endDate]. Bars come back
// date-ascending, matching the series invariant.
func (YahooSource) Fetch(symbol, startDate, endDate string) (*market.PriceSeries, error) {
	start, err := time.Parse(market.DateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("yahoo: start date %q: %w", startDate, market.ErrInvalidParameter)
	}
	end, err := time.Parse(market.DateLayout, endDate)
	if err != nil {
		return nil, fmt.Errorf("yahoo: end date %q: %w", endDate, market.ErrInvalidParameter)
	}

	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	series := &market.PriceSeries{Symbol: symbol}
	for iter.Next() {
		bar := iter.Bar()
		series.Points = append(series.Points, market.PricePoint{
			Date:     time.Unix(int64(bar.Timestamp), 0).UTC().Format(market.DateLayout),
			Open:     bar.Open.InexactFloat64(),
			High:     bar.High.InexactFloat64(),
			Low:      bar.Low.InexactFloat64(),
			Close:    bar.Close.InexactFloat64(),
			AdjClose: bar.AdjClose.InexactFloat64(),
			Volume:   float64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %v: %w", symbol, err, ErrFetch)
	}

	log.Info().Str("symbol", symbol).Int("bars", series.Len()).Msg("yahoo fetch")
	return series, nil
}

// Quote returns the latest bar-shaped snapshot for a symbol.
func (YahooSource) Quote(symbol string) (market.PricePoint, error) {
	q, err := quote.Get(symbol)
	if err != nil {
		return market.PricePoint{}, fmt.Errorf("yahoo quote %s: %v: %w", symbol, err, ErrFetch)
	}
	return market.PricePoint{
		Date:     time.Now().UTC().Format(market.DateLayout),
		Open:     q.RegularMarketOpen,
		High:     q.RegularMarketDayHigh,
		Low:      q.RegularMarketDayLow,
		Close:    q.RegularMarketPrice,
		AdjClose: q.RegularMarketPrice,
		Volume:   float64(q.RegularMarketVolume),
	}, nil
}
