package events

import "math"

// Similarity weights. Impact dominates, then sentiment, then keyword
// overlap of title and description.
const (
	wSentiment   = 0.3
	wImpact      = 0.4
	wTitle       = 0.2
	wDescription = 0.1
)

// Similarity scores how alike two events are, in [0,1]: a weighted
// combination of sentiment closeness, impact closeness, and Jaccard token
// overlap of titles and descriptions.
func Similarity(a, b Record) float64 {
	sentSim := 1 - math.Abs(a.Sentiment-b.Sentiment)/2 // sentiment span is 2
	impactSim := 1 - math.Abs(a.ImpactScore-b.ImpactScore)/100

	titleSim := tokenOverlap(a.Title, b.Title)
	descSim := tokenOverlap(a.Description, b.Description)

	return wSentiment*sentSim + wImpact*impactSim + wTitle*titleSim + wDescription*descSim
}

// tokenOverlap is the Jaccard similarity of the two token sets. Two empty
// texts overlap fully.
func tokenOverlap(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	inter := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenize(text) {
		set[tok] = struct{}{}
	}
	return set
}
