// Package history summarizes the long-run behavior of one or more
// symbols: return and risk statistics, best and worst days, and the
// patterns found in the series, plus batch and correlation utilities.
package history

import (
	"fmt"
	"math"

	"github.com/phuslu/log"

	"github.com/kevharv/stockscope/market"
	"github.com/kevharv/stockscope/numerics"
	"github.com/kevharv/stockscope/patterns"
)

const (
	tradingDaysPerYear = 252
	riskFreeDaily      = 0.02 / tradingDaysPerYear

	// postPatternWindow is how many bars after a pattern completes are
	// measured for the follow-through return.
	postPatternWindow = 20

	maxPatterns = 10
)

// Summary is the one-symbol report.
type Summary struct {
	Symbol               string
	Bars                 int
	MeanReturn           float64
	AnnualizedReturn     float64
	AnnualizedVolatility float64
	MaxDrawdown          float64
	SharpeRatio          float64
	BestDay              float64
	BestDayDate          string
	WorstDay             float64
	WorstDayDate         string
	PatternCounts        map[patterns.PatternType]int
	AvgPostPatternReturn float64
}

// minSummaryBars keeps the annualization and drawdown figures meaningful.
const minSummaryBars = 2

// Summarize computes the full statistics block for one series.
func Summarize(series *market.PriceSeries) (*Summary, error) {
	if series == nil || series.Len() < minSummaryBars {
		return nil, fmt.Errorf("summarize: %w", market.ErrInsufficientData)
	}

	returns := series.Returns()
	closes := series.Closes()

	sum := &Summary{
		Symbol:        series.Symbol,
		Bars:          series.Len(),
		MeanReturn:    numerics.Mean(returns),
		PatternCounts: map[patterns.PatternType]int{},
	}
	sum.AnnualizedVolatility = numerics.Stddev(returns) * math.Sqrt(tradingDaysPerYear)

	total := 0.0
	if closes[0] != 0 {
		total = (closes[len(closes)-1] - closes[0]) / closes[0]
	}
	if total > -1 {
		sum.AnnualizedReturn = math.Pow(1+total, tradingDaysPerYear/float64(series.Len())) - 1
	} else {
		sum.AnnualizedReturn = -1
	}

	if sd := numerics.Stddev(returns); sd >= 1e-6 {
		sum.SharpeRatio = (sum.MeanReturn - riskFreeDaily) / sd * math.Sqrt(tradingDaysPerYear)
	}
	sum.MaxDrawdown = maxDrawdown(closes)

	// returns[i] ends on bar i+1, which carries its date
	best, worst := 0, 0
	for i, r := range returns {
		if r > returns[best] {
			best = i
		}
		if r < returns[worst] {
			worst = i
		}
	}
	sum.BestDay = returns[best]
	sum.BestDayDate = series.Points[best+1].Date
	sum.WorstDay = returns[worst]
	sum.WorstDayDate = series.Points[worst+1].Date

	found := patterns.DetectPricePatterns(series, maxPatterns)
	var post []float64
	for _, p := range found {
		sum.PatternCounts[p.Type]++
		if end := p.EndIndex; end+postPatternWindow < series.Len() && closes[end] != 0 {
			post = append(post, (closes[end+postPatternWindow]-closes[end])/closes[end])
		}
	}
	if len(post) > 0 {
		sum.AvgPostPatternReturn = numerics.Mean(post)
	}

	log.Info().Str("symbol", series.Symbol).Int("bars", sum.Bars).
		Int("patterns", len(found)).Msg("historical summary")
	return sum, nil
}

// maxDrawdown is the deepest peak-to-trough decline of the close column,
// as a fraction of the peak.
func maxDrawdown(closes []float64) float64 {
	peak, dd := 0.0, 0.0
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if peak > 0 {
			if d := (peak - c) / peak; d > dd {
				dd = d
			}
		}
	}
	return dd
}

// BatchSummarize summarizes each series, skipping and logging failures.
// The result maps symbol to summary.
func BatchSummarize(series []*market.PriceSeries) map[string]*Summary {
	out := make(map[string]*Summary, len(series))
	for _, s := range series {
		if s == nil {
			continue
		}
		sum, err := Summarize(s)
		if err != nil {
			log.Warn().Str("symbol", s.Symbol).Err(err).Msg("batch summarize: skipped")
			continue
		}
		out[s.Symbol] = sum
	}
	return out
}

// CorrelationMatrix computes pairwise Pearson correlation of daily
// returns. Series of unequal length are compared over their trailing
// common window. The matrix is symmetric with a unit diagonal, ordered
// like the returned symbol list.
func CorrelationMatrix(series []*market.PriceSeries) ([]string, [][]float64, error) {
	if len(series) < 2 {
		return nil, nil, fmt.Errorf("correlation matrix needs 2 series: %w", market.ErrInvalidParameter)
	}

	symbols := make([]string, len(series))
	returns := make([][]float64, len(series))
	for i, s := range series {
		if s == nil || s.Len() < 3 {
			return nil, nil, fmt.Errorf("correlation matrix: series %d: %w", i, market.ErrInsufficientData)
		}
		symbols[i] = s.Symbol
		returns[i] = s.Returns()
	}

	matrix := make([][]float64, len(series))
	for i := range matrix {
		matrix[i] = make([]float64, len(series))
		matrix[i][i] = 1
	}
	for i := 0; i < len(series); i++ {
		for j := i + 1; j < len(series); j++ {
			a, b := tailAlign(returns[i], returns[j])
			r := patterns.Pearson(a, b)
			matrix[i][j] = r
			matrix[j][i] = r
		}
	}
	return symbols, matrix, nil
}

// tailAlign trims both slices to their common trailing length.
func tailAlign(a, b []float64) ([]float64, []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	return a[len(a)-n:], b[len(b)-n:]
}
