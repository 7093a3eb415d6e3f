package events

import "math"

// highImpactKeywords each add 1.0 to the impact score when present in the
// title or description, with the keyword contribution capped at 3.0.
var highImpactKeywords = []string{
	"earnings", "merger", "acquisition", "bankruptcy", "fda", "sec",
	"lawsuit", "fraud", "guidance", "dividend", "split", "ipo", "recall",
	"investigation", "takeover", "buyout", "restructuring", "default",
}

// ImpactScore estimates how market-moving a news item is, on a 0-10
// scale: a 5.0 base, plus 2*|sentiment|, plus 1.0 per high-impact keyword
// (capped at 3.0), clamped to [0, 10].
func ImpactScore(title, description string, sentiment float64) float64 {
	score := 5.0 + 2*math.Abs(sentiment)

	keywordHits := countMatches(title, highImpactKeywords) +
		countMatches(description, highImpactKeywords)
	if keywordHits > 3 {
		keywordHits = 3
	}
	score += keywordHits

	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score
}
