package patterns

import (
	"time"

	"github.com/kevharv/stockscope/market"
	"github.com/kevharv/stockscope/numerics"
)

// SeasonalPattern reports one calendar bucket with an unusually strong
// mean daily return. Bucket is a month name or weekday name depending on
// Type.
type SeasonalPattern struct {
	Type       PatternType // SeasonalMonthly, SeasonalWeekday, JanuaryEffect
	Bucket     string
	MeanReturn float64
	Samples    int
}

const minBucketSamples = 20

// DetectSeasonalPatterns buckets daily returns by calendar month and by
// weekday, and emits the strongest positive and strongest negative bucket
// of each dimension once it holds at least 20 samples. A January effect
// pattern is added when the January mean return is positive and exceeds
// 1.5x the mean over all other months. Buckets grow without bound; long
// histories are never truncated.
func DetectSeasonalPatterns(s *market.PriceSeries) []SeasonalPattern {
	if s.Len() < 2 {
		return nil
	}

	monthBuckets := make(map[time.Month][]float64)
	weekdayBuckets := make(map[time.Weekday][]float64)

	rets := s.Returns()
	for i, r := range rets {
		// rets[i] is the move into bar i+1
		t, err := time.Parse(market.DateLayout, s.Points[i+1].Date)
		if err != nil {
			continue
		}
		monthBuckets[t.Month()] = append(monthBuckets[t.Month()], r)
		weekdayBuckets[t.Weekday()] = append(weekdayBuckets[t.Weekday()], r)
	}

	var out []SeasonalPattern
	out = append(out, extremeBuckets(SeasonalMonthly, monthNames(monthBuckets))...)
	out = append(out, extremeBuckets(SeasonalWeekday, weekdayNames(weekdayBuckets))...)

	if jan := januaryEffect(monthBuckets); jan != nil {
		out = append(out, *jan)
	}
	return out
}

type namedBucket struct {
	name    string
	returns []float64
}

func monthNames(m map[time.Month][]float64) []namedBucket {
	var out []namedBucket
	for mo := time.January; mo <= time.December; mo++ {
		if rs, ok := m[mo]; ok {
			out = append(out, namedBucket{mo.String(), rs})
		}
	}
	return out
}

func weekdayNames(m map[time.Weekday][]float64) []namedBucket {
	var out []namedBucket
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if rs, ok := m[wd]; ok {
			out = append(out, namedBucket{wd.String(), rs})
		}
	}
	return out
}

// extremeBuckets picks the strongest positive and strongest negative
// bucket among those with enough samples. Ties go to the earlier bucket.
func extremeBuckets(kind PatternType, buckets []namedBucket) []SeasonalPattern {
	var best, worst *SeasonalPattern
	for _, b := range buckets {
		if len(b.returns) < minBucketSamples {
			continue
		}
		mean := numerics.Mean(b.returns)
		sp := SeasonalPattern{Type: kind, Bucket: b.name, MeanReturn: mean, Samples: len(b.returns)}
		if mean > 0 && (best == nil || mean > best.MeanReturn) {
			cp := sp
			best = &cp
		}
		if mean < 0 && (worst == nil || mean < worst.MeanReturn) {
			cp := sp
			worst = &cp
		}
	}

	var out []SeasonalPattern
	if best != nil {
		out = append(out, *best)
	}
	if worst != nil {
		out = append(out, *worst)
	}
	return out
}

func januaryEffect(m map[time.Month][]float64) *SeasonalPattern {
	jan, ok := m[time.January]
	if !ok || len(jan) < minBucketSamples {
		return nil
	}
	janMean := numerics.Mean(jan)
	if janMean <= 0 {
		return nil
	}

	var others []float64
	for mo, rs := range m {
		if mo == time.January {
			continue
		}
		others = append(others, rs...)
	}
	otherMean := numerics.Mean(others)

	if janMean > 1.5*otherMean {
		return &SeasonalPattern{
			Type:       JanuaryEffect,
			Bucket:     time.January.String(),
			MeanReturn: janMean,
			Samples:    len(jan),
		}
	}
	return nil
}
