package events

import (
	"strings"
	"unicode"
)

// Fixed bag-of-words lexicons. Matching is case-insensitive and
// whole-word: a hit needs a non-alphabetic boundary (or string edge) on
// both sides, so "surge" matches "surges" does not. Stems are listed
// explicitly instead.
var positiveWords = []string{
	"beat", "beats", "surge", "surges", "surged", "soar", "soars", "soared",
	"gain", "gains", "gained", "rally", "rallies", "rallied", "jump", "jumps",
	"jumped", "rise", "rises", "rose", "record", "strong", "growth", "profit",
	"profits", "profitable", "upgrade", "upgraded", "outperform", "bullish",
	"positive", "exceed", "exceeds", "exceeded", "breakthrough", "win", "wins",
	"success", "successful", "boost", "boosts", "boosted", "expand", "expands",
	"expansion", "innovative", "momentum",
}

var negativeWords = []string{
	"miss", "misses", "missed", "plunge", "plunges", "plunged", "crash",
	"crashes", "crashed", "fall", "falls", "fell", "drop", "drops", "dropped",
	"decline", "declines", "declined", "loss", "losses", "weak", "weakness",
	"downgrade", "downgraded", "underperform", "bearish", "negative",
	"lawsuit", "fraud", "scandal", "investigation", "probe", "recall",
	"layoff", "layoffs", "bankruptcy", "default", "warning", "warns",
	"cut", "cuts", "slump", "slumps", "slumped", "fear", "fears", "risk",
	"tumble", "tumbles", "tumbled",
}

const (
	titleWeight       = 2.0
	descriptionWeight = 1.0
)

// Sentiment scores a news item in [-1,1] as (pos-neg)/(pos+neg) over
// weighted whole-word lexicon hits, with title matches counting double.
// No hits at all scores 0; the empty string scores 0.
func Sentiment(title, description string) float64 {
	pos := titleWeight*countMatches(title, positiveWords) +
		descriptionWeight*countMatches(description, positiveWords)
	neg := titleWeight*countMatches(title, negativeWords) +
		descriptionWeight*countMatches(description, negativeWords)

	if pos+neg == 0 {
		return 0
	}
	return (pos - neg) / (pos + neg)
}

// countMatches counts whole-word, case-insensitive occurrences of any
// lexicon word in text.
func countMatches(text string, words []string) float64 {
	if text == "" {
		return 0
	}
	count := 0.0
	for _, tok := range tokenize(text) {
		for _, w := range words {
			if tok == w {
				count++
				break
			}
		}
	}
	return count
}

// tokenize splits on any non-alphabetic rune and lower-cases, which gives
// the leading/trailing non-alphabetic boundary the matcher needs.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
