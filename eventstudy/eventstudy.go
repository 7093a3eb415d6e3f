// Package eventstudy couples news events to price behavior: abnormal
// returns around an event date, pre/post volatility shifts, affected
// sector tagging, and a defensive-posture recommendation per event type.
package eventstudy

import (
	"fmt"
	"strings"

	"github.com/phuslu/log"

	"github.com/kevharv/stockscope/events"
	"github.com/kevharv/stockscope/market"
	"github.com/kevharv/stockscope/numerics"
)

// AbnormalReturn measures the realized return over the window bars that
// follow eventDate, minus the expected return. The baseline expected
// return model is zero, so this reduces to the raw forward return
// (close[idx+window] - close[idx]) / close[idx].
func AbnormalReturn(series *market.PriceSeries, eventDate string, window int) (float64, error) {
	if series == nil || window <= 0 {
		return 0, fmt.Errorf("abnormal return: window %d: %w", window, market.ErrInvalidParameter)
	}
	idx := series.IndexOfDate(eventDate)
	if idx < 0 {
		return 0, fmt.Errorf("abnormal return: date %s not in series: %w", eventDate, market.ErrInvalidParameter)
	}
	if idx+window >= series.Len() {
		log.Warn().Str("symbol", series.Symbol).Str("date", eventDate).Int("window", window).
			Msg("abnormal return: not enough bars after event")
		return 0, fmt.Errorf("abnormal return: %w", market.ErrInsufficientData)
	}

	base := series.Points[idx].Close
	if base == 0 {
		return 0, fmt.Errorf("abnormal return: zero close at event bar: %w", market.ErrInvalidParameter)
	}
	realized := (series.Points[idx+window].Close - base) / base

	const expected = 0.0
	return realized - expected, nil
}

// VolatilityChange compares return volatility before and after an event:
// stddev of returns over [idx-preWindow, idx) vs [idx, idx+postWindow),
// reported as a percentage change of the pre-event level. A pre-event
// volatility below 1e-6 yields 0 to avoid a blowup on flat history.
func VolatilityChange(series *market.PriceSeries, eventDate string, preWindow, postWindow int) (float64, error) {
	if series == nil || preWindow <= 1 || postWindow <= 1 {
		return 0, fmt.Errorf("volatility change: windows %d/%d: %w", preWindow, postWindow, market.ErrInvalidParameter)
	}
	idx := series.IndexOfDate(eventDate)
	if idx < 0 {
		return 0, fmt.Errorf("volatility change: date %s not in series: %w", eventDate, market.ErrInvalidParameter)
	}
	if idx-preWindow < 1 || idx+postWindow > series.Len() {
		log.Warn().Str("symbol", series.Symbol).Str("date", eventDate).
			Int("pre", preWindow).Int("post", postWindow).
			Msg("volatility change: event too close to series edge")
		return 0, fmt.Errorf("volatility change: %w", market.ErrInsufficientData)
	}

	// Returns()[i] is the move from bar i to bar i+1; a return belongs to
	// the bar it ends on. The move INTO the event bar counts as post-event.
	returns := series.Returns()
	pre := returns[idx-preWindow-1 : idx-1]
	post := returns[idx-1 : idx+postWindow-1]

	preVol := numerics.Stddev(pre)
	postVol := numerics.Stddev(post)
	if preVol < 1e-6 {
		return 0, nil
	}
	return (postVol - preVol) / preVol * 100, nil
}

// Sector is a named sector with its synonym list for keyword tagging.
type Sector struct {
	Name     string
	Keywords []string
}

// DefaultSectors is the built-in sector taxonomy used when the caller
// does not supply one.
var DefaultSectors = []Sector{
	{"Technology", []string{"tech", "software", "semiconductor", "chip", "chips", "cloud", "ai", "saas", "hardware", "internet"}},
	{"Financials", []string{"bank", "banks", "banking", "insurance", "insurer", "lender", "brokerage", "fintech", "credit"}},
	{"Healthcare", []string{"pharma", "pharmaceutical", "biotech", "drug", "drugs", "fda", "hospital", "medical", "clinical"}},
	{"Energy", []string{"oil", "gas", "crude", "opec", "energy", "drilling", "pipeline", "refinery", "solar", "renewable"}},
	{"Consumer", []string{"retail", "retailer", "consumer", "restaurant", "apparel", "grocery", "ecommerce", "brand"}},
	{"Industrials", []string{"manufacturing", "factory", "aerospace", "defense", "airline", "airlines", "shipping", "logistics"}},
	{"Materials", []string{"mining", "miner", "steel", "copper", "lithium", "chemicals", "commodity", "commodities"}},
	{"Utilities", []string{"utility", "utilities", "electricity", "grid", "water"}},
	{"Real Estate", []string{"reit", "property", "housing", "mortgage", "homebuilder"}},
}

// GeneralMarket is the fallback sector when no synonym matches.
const GeneralMarket = "General Market"

// AffectedSectors tags an event with every sector whose synonym list
// matches the title or description, falling back to GeneralMarket when
// nothing matches. Passing nil sectors uses DefaultSectors.
func AffectedSectors(ev events.Record, sectors []Sector) []string {
	if sectors == nil {
		sectors = DefaultSectors
	}
	text := ev.Title + " " + ev.Description

	var hits []string
	for _, s := range sectors {
		for _, kw := range s.Keywords {
			if containsWord(text, kw) {
				hits = append(hits, s.Name)
				break
			}
		}
	}
	if len(hits) == 0 {
		hits = []string{GeneralMarket}
	}
	return hits
}

// containsWord reports a case-insensitive whole-word match of kw in text.
func containsWord(text, kw string) bool {
	kw = strings.ToLower(kw)
	for _, tok := range strings.FieldsFunc(strings.ToLower(text), notLetter) {
		if tok == kw {
			return true
		}
	}
	return false
}

func notLetter(r rune) bool {
	return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
}

// defensivePlaybook maps each event type to a fixed recommendation.
var defensivePlaybook = map[events.EventType]string{
	events.EventEarnings:          "Reduce position size ahead of the report and consider protective puts through the announcement window.",
	events.EventMergerAcquisition: "Avoid opening new positions until deal terms settle; arbitrage spreads carry regulatory risk.",
	events.EventLeadership:        "Hold through the transition but tighten stops; leadership changes raise short-term volatility.",
	events.EventScandal:           "Cut exposure immediately and wait for the full extent of liability to be disclosed.",
	events.EventRegulatory:        "Hedge with sector peers; regulatory outcomes tend to reprice the whole industry.",
	events.EventProductLaunch:     "Scale in after launch reception is known; pre-launch prices embed optimistic expectations.",
	events.EventPartnership:       "No defensive action required; partnerships are usually priced in gradually.",
	events.EventLayoffs:           "Watch the next earnings report for margin follow-through before adding exposure.",
	events.EventIPO:               "Wait for the lock-up expiry before establishing a long-term position.",
	events.EventSplitDividend:     "No defensive action required; splits and dividends are mechanical adjustments.",
}

// DefensiveStrategy returns a deterministic recommendation for the
// event's type. Unknown types get a generic diversification note.
func DefensiveStrategy(ev events.Record) string {
	if s, ok := defensivePlaybook[ev.Type]; ok {
		return s
	}
	return "Maintain diversification and monitor follow-up coverage; the event type is unclassified."
}
