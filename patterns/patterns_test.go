package patterns

import (
	"fmt"
	"testing"
	"time"

	"github.com/kevharv/stockscope/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesFromCloses(closes []float64) *market.PriceSeries {
	s := &market.PriceSeries{Symbol: "TEST"}
	for i, c := range closes {
		s.Points = append(s.Points, market.PricePoint{
			Date:     fmt.Sprintf("2024-%02d-%02d", 1+i/28, 1+i%28),
			Open:     c,
			High:     c + 0.5,
			Low:      c - 0.5,
			Close:    c,
			AdjClose: c,
			Volume:   1000,
		})
	}
	return s
}

// lerp fills closes[from..to] linearly between a and b.
func lerp(closes []float64, from, to int, a, b float64) {
	for i := from; i <= to; i++ {
		frac := float64(i-from) / float64(to-from)
		closes[i] = a + frac*(b-a)
	}
}

func TestDoubleBottomDetection(t *testing.T) {
	// 60 bars: troughs at 10 (100.0) and 35 (100.5), peak 107 between.
	closes := make([]float64, 60)
	lerp(closes, 0, 10, 105, 100)
	lerp(closes, 10, 22, 100, 107)
	lerp(closes, 22, 35, 107, 100.5)
	lerp(closes, 35, 50, 100.5, 106)
	lerp(closes, 50, 59, 106, 106.5)
	s := seriesFromCloses(closes)

	found := DetectPricePatterns(s, 10)
	require.Len(t, found, 1)

	p := found[0]
	assert.Equal(t, DoubleBottom, p.Type)
	assert.Equal(t, 5, p.StartIndex)
	assert.Equal(t, 40, p.EndIndex)
	assert.Greater(t, p.ExpectedMove, 0.0)
	assert.InDelta(t, (107.0-100.0)/107.0, p.ExpectedMove, 1e-9)
}

func TestDoubleTopDetection(t *testing.T) {
	closes := make([]float64, 60)
	lerp(closes, 0, 12, 95, 110)
	lerp(closes, 12, 25, 110, 103)
	lerp(closes, 25, 38, 103, 109.5)
	lerp(closes, 38, 59, 109.5, 96)
	s := seriesFromCloses(closes)

	found := DetectPricePatterns(s, 10)
	require.NotEmpty(t, found)
	assert.Equal(t, DoubleTop, found[0].Type)
	assert.Negative(t, found[0].ExpectedMove)
}

func TestHeadAndShouldersDetection(t *testing.T) {
	closes := make([]float64, 60)
	lerp(closes, 0, 8, 95, 105)   // left shoulder at 8
	lerp(closes, 8, 14, 105, 99)
	lerp(closes, 14, 24, 99, 112) // head at 24
	lerp(closes, 24, 34, 112, 99)
	lerp(closes, 34, 44, 99, 104.5) // right shoulder at 44
	lerp(closes, 44, 59, 104.5, 94)
	s := seriesFromCloses(closes)

	found := DetectPricePatterns(s, 10)
	require.NotEmpty(t, found)

	var hs *Pattern
	for i := range found {
		if found[i].Type == HeadAndShoulders {
			hs = &found[i]
			break
		}
	}
	require.NotNil(t, hs, "expected a head-and-shoulders among %v", found)
	assert.Negative(t, hs.ExpectedMove)
}

func TestPatternsShortSeries(t *testing.T) {
	s := seriesFromCloses([]float64{100, 101, 102})
	assert.Empty(t, DetectPricePatterns(s, 10))
	assert.Empty(t, DetectAnomalies(s))
	assert.Empty(t, DetectSMACrossoverSignals(s, 3, 10, 5))
}

func TestSMACrossoverEmitsBuy(t *testing.T) {
	closes := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 11, 12, 13, 14, 15}
	s := seriesFromCloses(closes)

	sigs := DetectSMACrossoverSignals(s, 3, 10, 5)
	require.Len(t, sigs, 1)

	sig := sigs[0]
	assert.Equal(t, Buy, sig.Action)
	assert.Equal(t, 10, sig.Index)
	assert.Equal(t, 11.0, sig.Entry)
	assert.InDelta(t, 11.0*1.05, sig.Target, 1e-12)
	assert.InDelta(t, 11.0*0.97, sig.Stop, 1e-12)
	assert.GreaterOrEqual(t, sig.Strength, 0.5)
}

func TestDetectAnomaliesFlagsSpike(t *testing.T) {
	s := &market.PriceSeries{Symbol: "SPIKE"}
	price := 100.0
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 40; i++ {
		pct := 0.001 + 0.0004*float64(i%7)
		if i%2 == 0 {
			pct = -pct
		}
		price *= 1 + pct
		vol := 1000 + 50*float64(i%5)
		if i == 39 {
			price *= 1.10 // 10% spike on the last bar
			vol = 6000
		}
		s.Points = append(s.Points, market.PricePoint{
			Date:   day.AddDate(0, 0, i).Format(market.DateLayout),
			Open:   price, High: price * 1.001, Low: price * 0.999,
			Close: price, AdjClose: price, Volume: vol,
		})
	}

	found := DetectAnomalies(s)
	require.NotEmpty(t, found)
	last := found[len(found)-1]
	assert.Equal(t, 39, last.Index)
	assert.Greater(t, last.Score, 2.5)
	assert.Equal(t, CombinedAnomaly, last.Kind)
}

func TestAnomalyScoreQuietMarketNearZero(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + 0.1*float64(i%3)
	}
	s := seriesFromCloses(closes)
	score := AnomalyScore(s)
	assert.InDelta(t, 0, score, 1.0)
}

func TestEuclidean(t *testing.T) {
	assert.Equal(t, 5.0, Euclidean([]float64{0, 0}, []float64{3, 4}))
	assert.Zero(t, Euclidean([]float64{1}, []float64{1, 2}))
}

func TestPearson(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{2, 4, 6, 8}
	assert.InDelta(t, 1.0, Pearson(x, y), 1e-12)

	inv := []float64{8, 6, 4, 2}
	assert.InDelta(t, -1.0, Pearson(x, inv), 1e-12)

	flat := []float64{5, 5, 5, 5}
	assert.Zero(t, Pearson(x, flat))
}

func TestDTW(t *testing.T) {
	x := []float64{1, 2, 3}
	assert.Zero(t, DTW(x, x))
	assert.Equal(t, 1.0, DTW([]float64{1, 2, 3}, []float64{2, 2, 3}))
	assert.Zero(t, DTW(nil, x))
}

func weekdaySeries(start time.Time, n int, ret func(t time.Time) float64) *market.PriceSeries {
	s := &market.PriceSeries{Symbol: "SEASON"}
	price := 100.0
	day := start
	for len(s.Points) < n {
		if day.Weekday() != time.Saturday && day.Weekday() != time.Sunday {
			price *= 1 + ret(day)
			s.Points = append(s.Points, market.PricePoint{
				Date: day.Format(market.DateLayout),
				Open: price, High: price * 1.001, Low: price * 0.999,
				Close: price, AdjClose: price, Volume: 1000,
			})
		}
		day = day.AddDate(0, 0, 1)
	}
	return s
}

func TestSeasonalPatterns(t *testing.T) {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC) // a Monday
	s := weekdaySeries(start, 260, func(d time.Time) float64 {
		switch {
		case d.Month() == time.January:
			return 0.02
		case d.Weekday() == time.Friday:
			return 0.005
		case d.Weekday() == time.Monday:
			return -0.005
		default:
			return 0.0001
		}
	})

	found := DetectSeasonalPatterns(s)
	require.NotEmpty(t, found)

	byType := map[PatternType][]SeasonalPattern{}
	for _, p := range found {
		byType[p.Type] = append(byType[p.Type], p)
	}

	require.NotEmpty(t, byType[SeasonalWeekday])
	assert.Equal(t, "Friday", byType[SeasonalWeekday][0].Bucket)
	require.Len(t, byType[SeasonalWeekday], 2)
	assert.Equal(t, "Monday", byType[SeasonalWeekday][1].Bucket)

	require.NotEmpty(t, byType[SeasonalMonthly])
	assert.Equal(t, "January", byType[SeasonalMonthly][0].Bucket)

	require.Len(t, byType[JanuaryEffect], 1)
	assert.Greater(t, byType[JanuaryEffect][0].MeanReturn, 0.0)
}

func TestSupportResistance(t *testing.T) {
	// Price oscillates between ~100 and ~110 several times.
	closes := make([]float64, 60)
	lerp(closes, 0, 7, 105, 100)
	lerp(closes, 7, 15, 100, 110)
	lerp(closes, 15, 23, 110, 100.3)
	lerp(closes, 23, 31, 100.3, 109.8)
	lerp(closes, 31, 39, 109.8, 99.8)
	lerp(closes, 39, 47, 99.8, 110.2)
	lerp(closes, 47, 59, 110.2, 104)
	s := seriesFromCloses(closes)

	levels := DetectSupportResistance(s, 0.01)
	require.NotEmpty(t, levels)

	haveSupport, haveResistance := false, false
	for _, lv := range levels {
		assert.GreaterOrEqual(t, lv.Touches, 2)
		if lv.Type == SupportLevel {
			haveSupport = true
		}
		if lv.Type == ResistanceLevel {
			haveResistance = true
		}
	}
	assert.True(t, haveSupport)
	assert.True(t, haveResistance)
}
