// Package report renders price and backtest charts to PNG.
package report

import (
	"errors"
	"fmt"
	"os"

	"github.com/phuslu/log"
	charts "github.com/vicanso/go-charts/v2"

	"github.com/kevharv/stockscope/backtest"
	"github.com/kevharv/stockscope/indicators"
	"github.com/kevharv/stockscope/market"
)

// PriceChart renders the close column with any number of indicator
// overlays (aligned by index; undefined leading entries render as the
// first defined value).
func PriceChart(series *market.PriceSeries, overlays ...indicators.Series) ([]byte, error) {
	if series == nil || series.Len() < 2 {
		return nil, errors.New("price chart: not enough data points")
	}

	closes := series.Closes()
	values := [][]float64{closes}
	names := []string{"close"}
	for _, ov := range overlays {
		if ov.Empty() {
			continue
		}
		values = append(values, padOverlay(ov, series.Len()))
		names = append(names, ov.Name)
	}

	labels := make([]string, series.Len())
	for i, p := range series.Points {
		labels[i] = p.Date
	}
	yMin, yMax := yRange(values)

	painter, err := charts.LineRender(values,
		charts.TitleTextOptionFunc(series.Symbol),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: 10}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Top: charts.PositionTop}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(1000),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, fmt.Errorf("price chart %s: %w", series.Symbol, err)
	}
	return painter.Bytes()
}

// EquityChart renders the running capital of a backtest.
func EquityChart(symbol string, res *backtest.Result) ([]byte, error) {
	if res == nil || len(res.Equity) < 2 {
		return nil, errors.New("equity chart: not enough data points")
	}

	labels := make([]string, len(res.Equity))
	for i := range labels {
		labels[i] = fmt.Sprintf("%d", i)
	}
	yMin, yMax := yRange([][]float64{res.Equity})

	painter, err := charts.LineRender([][]float64{res.Equity},
		charts.TitleTextOptionFunc(fmt.Sprintf("%s equity (%s)", symbol, res.Strategy)),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: 10}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(1000),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, fmt.Errorf("equity chart %s: %w", symbol, err)
	}
	return painter.Bytes()
}

// WritePNG saves rendered chart bytes to a file.
func WritePNG(path string, img []byte) error {
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return fmt.Errorf("write chart %s: %w", path, err)
	}
	log.Info().Str("file", path).Int("bytes", len(img)).Msg("chart written")
	return nil
}

// padOverlay fills the undefined head of an indicator column so every
// rendered line spans the full x axis.
func padOverlay(s indicators.Series, n int) []float64 {
	out := make([]float64, n)
	first := s.FirstValid
	if first >= len(s.Values) {
		return out
	}
	for i := 0; i < n; i++ {
		if v, ok := s.At(i); ok {
			out[i] = v
		} else {
			out[i] = s.Values[first]
		}
	}
	return out
}

func yRange(values [][]float64) (float64, float64) {
	yMin, yMax := values[0][0], values[0][0]
	for _, col := range values {
		for _, v := range col {
			if v < yMin {
				yMin = v
			}
			if v > yMax {
				yMax = v
			}
		}
	}
	pad := (yMax - yMin) * 0.05
	if pad < yMax*0.002 {
		pad = yMax * 0.002
	}
	yMin -= pad
	if yMin < 0 {
		yMin = 0
	}
	yMax += pad
	return yMin, yMax
}
