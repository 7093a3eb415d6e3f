package cli

import (
	"fmt"
	"time"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/kevharv/stockscope/events"
	"github.com/kevharv/stockscope/fetch"
	"github.com/kevharv/stockscope/market"
)

func newFetchCmd(rc *RootConfig) *cobra.Command {
	var (
		symbols []string
		fromStr string
		toStr   string
		source  string
		news    bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download daily bars into the price cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(symbols) == 0 {
				return fmt.Errorf("-symbol is required")
			}
			if err := checkDateRange(fromStr, toStr); err != nil {
				return err
			}

			src, err := priceSource(rc, source)
			if err != nil {
				return err
			}
			cache, err := fetch.NewCSVCache(rc.CacheDir)
			if err != nil {
				return err
			}

			for _, sym := range symbols {
				series, err := src.Fetch(sym, fromStr, toStr)
				if err != nil {
					return err
				}
				if err := cache.Store(series, fromStr, toStr); err != nil {
					return err
				}
				fmt.Printf("%s: %d bars cached\n", sym, series.Len())
			}

			if news {
				return scanNews(rc, symbols)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&symbols, "symbol", nil, "Symbol to fetch (repeatable)")
	cmd.Flags().StringVar(&fromStr, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&source, "source", "yahoo", "Price source: yahoo|chart")
	cmd.Flags().BoolVar(&news, "news", false, "Also scan headlines into the event database")

	return cmd
}

// scanNews pulls current headlines for each symbol, scores them, and
// appends the resulting records to the event database.
func scanNews(rc *RootConfig, symbols []string) error {
	db, err := openEventsDB(rc.EventsDB, false)
	if err != nil {
		return err
	}

	gn := fetch.NewGoogleNews()
	added := 0
	for _, sym := range symbols {
		items, err := gn.Fetch(sym)
		if err != nil {
			log.Warn().Str("symbol", sym).Err(err).Msg("news fetch failed")
			continue
		}
		for _, it := range items {
			db.Append(events.NewRecord(publishedDate(it.Published), it.Title, it.Description, it.URL))
			added++
		}
	}

	if err := db.Save(rc.EventsDB); err != nil {
		return err
	}
	fmt.Printf("%d headlines scored into %s\n", added, rc.EventsDB)
	return nil
}

// publishedDate normalizes the datetime attribute from a headline to an
// ISO date, falling back to today when it is missing or malformed.
func publishedDate(s string) string {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format(market.DateLayout)
	}
	return time.Now().UTC().Format(market.DateLayout)
}

func priceSource(rc *RootConfig, name string) (fetch.PriceSource, error) {
	switch name {
	case "yahoo":
		return fetch.YahooSource{}, nil
	case "chart":
		cfg, err := rc.Config()
		if err != nil {
			return nil, err
		}
		if cfg.Fetch.ChartAPIURL == "" {
			return nil, fmt.Errorf("chart source needs fetch.chart_api_url in the config")
		}
		return fetch.NewChartAPI(cfg.Fetch.ChartAPIURL), nil
	default:
		return nil, fmt.Errorf("unknown source %q (want yahoo or chart)", name)
	}
}

func checkDateRange(fromStr, toStr string) error {
	if fromStr == "" || toStr == "" {
		return fmt.Errorf("-from and -to are required")
	}
	from, err := time.Parse(market.DateLayout, fromStr)
	if err != nil {
		return fmt.Errorf("bad -from: %w", err)
	}
	to, err := time.Parse(market.DateLayout, toStr)
	if err != nil {
		return fmt.Errorf("bad -to: %w", err)
	}
	if !from.Before(to) {
		return fmt.Errorf("-from must be before -to")
	}
	return nil
}

// loadSeries answers from the cache when it can, otherwise fetches from
// Yahoo and fills the cache on the way through. The cache holds bars as
// delivered; every series handed to analysis is sanitized first, so zero
// closes and broken OHLC bounds never reach an indicator.
func loadSeries(rc *RootConfig, symbol, fromStr, toStr string) (*market.PriceSeries, error) {
	cache, err := fetch.NewCSVCache(rc.CacheDir)
	if err != nil {
		return nil, err
	}
	if cache.Has(symbol, fromStr, toStr) {
		series, err := cache.Load(symbol, fromStr, toStr)
		if err != nil {
			return nil, err
		}
		return market.Sanitize(series), nil
	}
	series, err := fetch.YahooSource{}.Fetch(symbol, fromStr, toStr)
	if err != nil {
		return nil, err
	}
	if err := cache.Store(series, fromStr, toStr); err != nil {
		log.Warn().Str("symbol", symbol).Err(err).Msg("cache store failed")
	}
	return market.Sanitize(series), nil
}
