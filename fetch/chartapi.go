package fetch

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/phuslu/log"
	"github.com/tidwall/gjson"

	"github.com/kevharv/stockscope/market"
)

// ChartAPI is a fallback PriceSource that talks to a chart-API endpoint
// (Yahoo v8 payload shape) over plain HTTP and parses the JSON itself.
type ChartAPI struct {
	client  *resty.Client
	baseURL string
}

func NewChartAPI(baseURL string) *ChartAPI {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	return &ChartAPI{client: client, baseURL: baseURL}
}

func (c *ChartAPI) Fetch(symbol, startDate, endDate string) (*market.PriceSeries, error) {
	start, err := time.Parse(market.DateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("chart api: start date %q: %w", startDate, market.ErrInvalidParameter)
	}
	end, err := time.Parse(market.DateLayout, endDate)
	if err != nil {
		return nil, fmt.Errorf("chart api: end date %q: %w", endDate, market.ErrInvalidParameter)
	}

	resp, err := c.client.R().
		SetQueryParams(map[string]string{
			"period1":  fmt.Sprintf("%d", start.Unix()),
			"period2":  fmt.Sprintf("%d", end.Unix()),
			"interval": "1d",
		}).
		Get(c.baseURL + "/v8/finance/chart/" + symbol)
	if err != nil {
		return nil, fmt.Errorf("chart api %s: %v: %w", symbol, err, ErrFetch)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("chart api %s: HTTP %d: %w", symbol, resp.StatusCode(), ErrFetch)
	}

	series, err := ParseChartJSON(symbol, resp.Body())
	if err != nil {
		return nil, err
	}
	log.Info().Str("symbol", symbol).Int("bars", series.Len()).Msg("chart api fetch")
	return series, nil
}

// ParseChartJSON decodes a chart payload into a price series. Bars with
// null price columns are skipped.
func ParseChartJSON(symbol string, data []byte) (*market.PriceSeries, error) {
	root := gjson.ParseBytes(data)
	result := root.Get("chart.result.0")
	if !result.Exists() {
		return nil, fmt.Errorf("chart api %s: no result in payload: %w", symbol, ErrFetch)
	}

	timestamps := result.Get("timestamp").Array()
	q := result.Get("indicators.quote.0")
	opens := q.Get("open").Array()
	highs := q.Get("high").Array()
	lows := q.Get("low").Array()
	closes := q.Get("close").Array()
	volumes := q.Get("volume").Array()
	adjCloses := result.Get("indicators.adjclose.0.adjclose").Array()

	series := &market.PriceSeries{Symbol: symbol}
	for i, ts := range timestamps {
		if i >= len(opens) || i >= len(highs) || i >= len(lows) || i >= len(closes) {
			break
		}
		if closes[i].Type == gjson.Null {
			continue
		}
		p := market.PricePoint{
			Date:  time.Unix(ts.Int(), 0).UTC().Format(market.DateLayout),
			Open:  opens[i].Float(),
			High:  highs[i].Float(),
			Low:   lows[i].Float(),
			Close: closes[i].Float(),
		}
		p.AdjClose = p.Close
		if i < len(adjCloses) && adjCloses[i].Type != gjson.Null {
			p.AdjClose = adjCloses[i].Float()
		}
		if i < len(volumes) {
			p.Volume = volumes[i].Float()
		}
		series.Points = append(series.Points, p)
	}
	return series, nil
}
