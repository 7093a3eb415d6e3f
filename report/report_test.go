package report

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevharv/stockscope/backtest"
	"github.com/kevharv/stockscope/indicators"
	"github.com/kevharv/stockscope/market"
)

func testSeries(t *testing.T, n int) *market.PriceSeries {
	t.Helper()
	day, err := time.Parse(market.DateLayout, "2023-01-02")
	require.NoError(t, err)

	points := make([]market.PricePoint, n)
	for i := range points {
		c := 100 + 10*math.Sin(float64(i)/8)
		points[i] = market.PricePoint{
			Date:     day.AddDate(0, 0, i).Format(market.DateLayout),
			Open:     c,
			High:     c * 1.01,
			Low:      c * 0.99,
			Close:    c,
			AdjClose: c,
			Volume:   1_000_000,
		}
	}
	return &market.PriceSeries{Symbol: "TEST", Points: points}
}

func TestPriceChartWithOverlay(t *testing.T) {
	s := testSeries(t, 60)
	sma, err := indicators.SMA(s, 20)
	require.NoError(t, err)

	img, err := PriceChart(s, sma)
	require.NoError(t, err)
	assert.NotEmpty(t, img)
	// PNG signature
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, img[:4])
}

func TestPriceChartTooShort(t *testing.T) {
	_, err := PriceChart(testSeries(t, 1))
	assert.Error(t, err)

	_, err = PriceChart(nil)
	assert.Error(t, err)
}

func TestEquityChart(t *testing.T) {
	equity := make([]float64, 50)
	for i := range equity {
		equity[i] = 10_000 + 20*float64(i)
	}
	res := &backtest.Result{Strategy: backtest.Default, Equity: equity}

	img, err := EquityChart("TEST", res)
	require.NoError(t, err)
	assert.NotEmpty(t, img)
}

func TestWritePNG(t *testing.T) {
	s := testSeries(t, 40)
	img, err := PriceChart(s)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "test.png")
	require.NoError(t, WritePNG(path, img))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, img, raw)
}
