package events

// Keyword tables per event type. Classification scores each type by its
// keyword hits over title+description; the highest score wins and ties
// break by enum order. All scores zero means EventUnknown.
var classifierKeywords = []struct {
	typ   EventType
	words []string
}{
	{EventMergerAcquisition, []string{"merger", "merge", "merges", "acquisition", "acquire", "acquires", "acquired", "takeover", "buyout"}},
	{EventEarnings, []string{"earnings", "revenue", "profit", "profits", "quarterly", "quarter", "guidance", "eps", "forecast"}},
	{EventScandal, []string{"scandal", "fraud", "lawsuit", "investigation", "probe", "misconduct", "allegations", "sued"}},
	{EventLeadership, []string{"ceo", "cfo", "executive", "resigns", "resignation", "appoints", "appointed", "successor", "chairman"}},
	{EventSplitDividend, []string{"split", "dividend", "dividends", "payout", "buyback", "repurchase"}},
	{EventIPO, []string{"ipo", "debut", "listing", "offering", "prospectus"}},
	{EventLayoffs, []string{"layoff", "layoffs", "restructuring", "downsizing", "workforce", "cuts", "jobs"}},
	{EventProductLaunch, []string{"launch", "launches", "launched", "unveils", "unveiled", "product", "release", "releases", "announces"}},
	{EventPartnership, []string{"partnership", "partner", "partners", "collaboration", "alliance", "agreement", "deal"}},
	{EventRegulatory, []string{"regulatory", "regulation", "regulator", "fda", "sec", "antitrust", "approval", "fine", "fined", "compliance"}},
}

// Classify assigns a news item to one of the ten event types by keyword
// score, or EventUnknown when nothing matches.
func Classify(title, description string) EventType {
	best := EventUnknown
	bestScore := 0.0

	for _, entry := range classifierKeywords {
		score := countMatches(title, entry.words) + countMatches(description, entry.words)
		// strict > keeps the earlier enum on ties
		if score > bestScore {
			bestScore = score
			best = entry.typ
		}
	}
	return best
}
