// Package events scores news items for sentiment and impact, classifies
// them into event types, and stores them in an append-only database with a
// versioned binary file format.
package events

import "fmt"

// EventType is the closed set of recognized market event categories.
// The enum order is the tie-break order for classification.
type EventType int

const (
	EventUnknown EventType = iota
	EventMergerAcquisition
	EventEarnings
	EventScandal
	EventLeadership
	EventSplitDividend
	EventIPO
	EventLayoffs
	EventProductLaunch
	EventPartnership
	EventRegulatory
)

var eventTypeNames = map[EventType]string{
	EventUnknown:           "unknown",
	EventMergerAcquisition: "merger_acquisition",
	EventEarnings:          "earnings",
	EventScandal:           "scandal",
	EventLeadership:        "leadership",
	EventSplitDividend:     "split_dividend",
	EventIPO:               "ipo",
	EventLayoffs:           "layoffs",
	EventProductLaunch:     "product_launch",
	EventPartnership:       "partnership",
	EventRegulatory:        "regulatory",
}

func (t EventType) String() string {
	if s, ok := eventTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseEventType maps a type name back to its EventType.
func ParseEventType(s string) (EventType, error) {
	for t, name := range eventTypeNames {
		if name == s {
			return t, nil
		}
	}
	return EventUnknown, fmt.Errorf("unknown event type %q", s)
}

// Severity buckets an event by its stored impact score.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}

// Record is one immutable stored event. Sentiment is in [-1,1] and
// ImpactScore in [0,100] (the raw scorer output in [0,10] scaled by 10);
// records are created by the news scorer or the anomaly detector and never
// mutated after being appended.
type Record struct {
	Date        string // ISO YYYY-MM-DD
	Title       string
	Description string
	SourceURL   string
	Sentiment   float64
	ImpactScore float64
	Type        EventType
	Severity    Severity
}

// NewRecord builds a Record from a scored news item: sentiment from the
// lexicon scorer, impact from the 0-10 scorer scaled into [0,100], type
// from the keyword classifier.
func NewRecord(date, title, description, sourceURL string) Record {
	r := Record{
		Date:        date,
		Title:       title,
		Description: description,
		SourceURL:   sourceURL,
	}
	r.Sentiment = Sentiment(title, description)
	r.ImpactScore = 10 * ImpactScore(title, description, r.Sentiment)
	r.Type = Classify(title, description)
	r.Severity = severityFor(r.ImpactScore)
	return r
}

// NewAnomalyRecord builds a Record from a detected market anomaly, the
// other producer of events besides the news scorer. The sign and size of
// the price move set sentiment; the anomaly score sets impact.
func NewAnomalyRecord(date, symbol, kind string, score, priceZ float64) Record {
	r := Record{
		Date:        date,
		Title:       fmt.Sprintf("%s %s anomaly", symbol, kind),
		Description: fmt.Sprintf("z-score %.2f", score),
		Type:        EventUnknown,
	}

	s := priceZ / 3
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	r.Sentiment = s

	impact := 50 + 10*score
	if impact > 100 {
		impact = 100
	}
	r.ImpactScore = impact
	r.Severity = severityFor(r.ImpactScore)
	return r
}

func severityFor(impact float64) Severity {
	switch {
	case impact >= 70:
		return SeverityHigh
	case impact >= 40:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// EventFactor is the adjustment factor consumed by the event-adjusted
// indicators: sentiment * impact/100, in [-1,1].
func (r Record) EventFactor() float64 {
	f := r.Sentiment * r.ImpactScore / 100
	if f > 1 {
		f = 1
	}
	if f < -1 {
		f = -1
	}
	return f
}
