package fetch

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/phuslu/log"

	"github.com/kevharv/stockscope/market"
)

// csvHeader is the fixed cache file column order.
var csvHeader = []string{"Date", "Open", "High", "Low", "Close", "Volume", "AdjClose"}

// CSVCache stores one file per (symbol, range) under Dir, named
// <symbol>_<start>_to_<end>.csv. Prices carry four decimal digits,
// volume is an integer.
type CSVCache struct {
	Dir string
}

func NewCSVCache(dir string) (*CSVCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache dir %s: %w", dir, err)
	}
	return &CSVCache{Dir: dir}, nil
}

func (c *CSVCache) path(symbol, startDate, endDate string) string {
	return filepath.Join(c.Dir, fmt.Sprintf("%s_%s_to_%s.csv", symbol, startDate, endDate))
}

func (c *CSVCache) Has(symbol, startDate, endDate string) bool {
	_, err := os.Stat(c.path(symbol, startDate, endDate))
	return err == nil
}

// Store writes the series to its cache file, replacing any previous one.
func (c *CSVCache) Store(series *market.PriceSeries, startDate, endDate string) error {
	if series == nil || series.Symbol == "" {
		return fmt.Errorf("cache store: %w", market.ErrInvalidParameter)
	}
	path := c.path(series.Symbol, startDate, endDate)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cache store %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range series.Points {
		row := []string{
			p.Date,
			strconv.FormatFloat(p.Open, 'f', 4, 64),
			strconv.FormatFloat(p.High, 'f', 4, 64),
			strconv.FormatFloat(p.Low, 'f', 4, 64),
			strconv.FormatFloat(p.Close, 'f', 4, 64),
			strconv.FormatInt(int64(p.Volume), 10),
			strconv.FormatFloat(p.AdjClose, 'f', 4, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("cache store %s: %w", path, err)
	}

	log.Info().Str("symbol", series.Symbol).Int("bars", series.Len()).Str("file", path).Msg("cached")
	return nil
}

// Load reads a cached series back. Malformed rows fail the whole load.
func (c *CSVCache) Load(symbol, startDate, endDate string) (*market.PriceSeries, error) {
	path := c.path(symbol, startDate, endDate)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cache load %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cache load %s: %w", path, err)
	}
	if len(rows) == 0 || len(rows[0]) != len(csvHeader) {
		return nil, fmt.Errorf("cache load %s: bad header: %w", path, market.ErrInvalidParameter)
	}

	series := &market.PriceSeries{Symbol: symbol, Points: make([]market.PricePoint, 0, len(rows)-1)}
	for i, row := range rows[1:] {
		p, err := parseCSVRow(row)
		if err != nil {
			return nil, fmt.Errorf("cache load %s row %d: %w", path, i+2, err)
		}
		series.Points = append(series.Points, p)
	}
	return series, nil
}

func parseCSVRow(row []string) (market.PricePoint, error) {
	var p market.PricePoint
	if len(row) != len(csvHeader) {
		return p, fmt.Errorf("%d columns: %w", len(row), market.ErrInvalidParameter)
	}
	p.Date = row[0]
	cols := []struct {
		dst *float64
		raw string
	}{
		{&p.Open, row[1]},
		{&p.High, row[2]},
		{&p.Low, row[3]},
		{&p.Close, row[4]},
		{&p.Volume, row[5]},
		{&p.AdjClose, row[6]},
	}
	for _, c := range cols {
		v, err := strconv.ParseFloat(c.raw, 64)
		if err != nil {
			return p, err
		}
		*c.dst = v
	}
	return p, nil
}
