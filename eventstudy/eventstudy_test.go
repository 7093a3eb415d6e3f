package eventstudy

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevharv/stockscope/events"
	"github.com/kevharv/stockscope/market"
)

func seriesFromCloses(t *testing.T, closes []float64) *market.PriceSeries {
	t.Helper()
	day, err := time.Parse(market.DateLayout, "2024-01-02")
	require.NoError(t, err)

	points := make([]market.PricePoint, len(closes))
	for i, c := range closes {
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

func TestAbnormalReturn(t *testing.T) {
	s := seriesFromCloses(t, []float64{100, 100, 100, 110, 120, 121})

	// event at index 2 (2024-01-04), window 2: (120-100)/100 - 0
	ar, err := AbnormalReturn(s, "2024-01-04", 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.20, ar, 1e-12)
}

func TestAbnormalReturnDateNotFound(t *testing.T) {
	s := seriesFromCloses(t, []float64{100, 101, 102})
	_, err := AbnormalReturn(s, "1999-01-01", 1)
	assert.ErrorIs(t, err, market.ErrInvalidParameter)
}

func TestAbnormalReturnWindowPastEnd(t *testing.T) {
	s := seriesFromCloses(t, []float64{100, 101, 102})
	_, err := AbnormalReturn(s, "2024-01-04", 5)
	assert.ErrorIs(t, err, market.ErrInsufficientData)
}

func TestVolatilityChangeRises(t *testing.T) {
	// 10 flat-ish bars, then alternating swings after the event
	closes := []float64{100, 100.1, 100, 100.1, 100, 100.1, 100, 100.1, 100, 100.1,
		105, 95, 106, 94, 107, 93}
	s := seriesFromCloses(t, closes)

	change, err := VolatilityChange(s, s.Points[10].Date, 5, 5)
	require.NoError(t, err)
	assert.Greater(t, change, 0.0)
}

func TestVolatilityChangeFlatPre(t *testing.T) {
	closes := []float64{100, 100, 100, 100, 100, 100, 110, 90, 110, 90, 110, 90}
	s := seriesFromCloses(t, closes)

	change, err := VolatilityChange(s, s.Points[6].Date, 4, 4)
	require.NoError(t, err)
	assert.Zero(t, change)
}

func TestVolatilityChangeNearEdge(t *testing.T) {
	s := seriesFromCloses(t, []float64{100, 101, 102, 103, 104})
	_, err := VolatilityChange(s, s.Points[1].Date, 5, 2)
	assert.ErrorIs(t, err, market.ErrInsufficientData)
}

func TestAffectedSectors(t *testing.T) {
	ev := events.NewRecord("2024-03-01",
		"Chipmaker announces cloud partnership with major bank",
		"Semiconductor demand lifts the sector", "")

	sectors := AffectedSectors(ev, nil)
	assert.Contains(t, sectors, "Technology")
	assert.Contains(t, sectors, "Financials")
	assert.NotContains(t, sectors, GeneralMarket)
}

func TestAffectedSectorsFallback(t *testing.T) {
	ev := events.NewRecord("2024-03-01", "Quarterly results in line", "", "")
	assert.Equal(t, []string{GeneralMarket}, AffectedSectors(ev, nil))
}

func TestAffectedSectorsCustomTaxonomy(t *testing.T) {
	ev := events.NewRecord("2024-03-01", "Lithium miner expands output", "", "")
	custom := []Sector{{Name: "Battery Metals", Keywords: []string{"lithium", "cobalt"}}}
	assert.Equal(t, []string{"Battery Metals"}, AffectedSectors(ev, custom))
}

func TestDefensiveStrategyIsDeterministic(t *testing.T) {
	ev := events.NewRecord("2024-03-01", "Fraud scandal rocks company", "", "")
	require.Equal(t, events.EventScandal, ev.Type)

	first := DefensiveStrategy(ev)
	assert.NotEmpty(t, first)
	assert.Equal(t, first, DefensiveStrategy(ev))
}

func TestDefensiveStrategyCoversAllTypes(t *testing.T) {
	types := []events.EventType{
		events.EventMergerAcquisition, events.EventEarnings, events.EventScandal,
		events.EventLeadership, events.EventSplitDividend, events.EventIPO,
		events.EventLayoffs, events.EventProductLaunch, events.EventPartnership,
		events.EventRegulatory, events.EventUnknown,
	}
	seen := map[string]bool{}
	for _, typ := range types {
		rec := DefensiveStrategy(events.Record{Type: typ})
		assert.NotEmpty(t, rec, fmt.Sprintf("type %v", typ))
		seen[rec] = true
	}
	// distinct playbook entries per classified type plus the fallback
	assert.Len(t, seen, len(types))
}
