package backtest

import (
	"fmt"

	"github.com/phuslu/log"

	"github.com/kevharv/stockscope/market"
	"github.com/kevharv/stockscope/numerics"
)

// Fold is a half-open bar range [Start, End).
type Fold struct {
	Start int
	End   int
}

func (f Fold) Len() int { return f.End - f.Start }

// Partition splits n bars into k contiguous folds. Sizes differ by at
// most one; the n%k extra bars go to the leading folds. The folds are
// pairwise disjoint and cover [0, n) exactly.
func Partition(n, k int) []Fold {
	if k <= 0 || n <= 0 {
		return nil
	}
	if k > n {
		k = n
	}
	folds := make([]Fold, 0, k)
	base, extra := n/k, n%k
	start := 0
	for i := 0; i < k; i++ {
		size := base
		if i < extra {
			size++
		}
		folds = append(folds, Fold{Start: start, End: start + size})
		start += size
	}
	return folds
}

// FoldReport is the outcome of one validation fold: the strategy picked
// for it, its prediction scores, and the backtest over the fold.
type FoldReport struct {
	Fold     Fold
	Strategy Name
	Metrics  ValidationMetrics
	Backtest *Result
}

// CVResult aggregates the per-fold reports.
type CVResult struct {
	Folds          []FoldReport
	MeanAccuracy   float64
	BestAccuracy   float64
	WorstAccuracy  float64
	AccuracyStddev float64
	MeanReturn     float64
	BestReturn     float64
	WorstReturn    float64
}

// selectionTailFraction of the training bars feeds the per-fold
// strategy sweep.
const selectionTailFraction = 0.10

// CrossValidate runs k-fold validation: the series is cut into k
// contiguous folds, and for each fold every built-in strategy is scored
// on the last 10% of the remaining (training) bars, the most accurate
// one is picked, and that strategy is backtested on the fold itself.
// strat supplies sizing; its Name is the fallback when the sweep cannot
// run. Folds must be at least 30 bars.
func CrossValidate(series *market.PriceSeries, k int, strat Strategy) (*CVResult, error) {
	if series == nil || k < 2 {
		return nil, fmt.Errorf("cross-validate k=%d: %w", k, market.ErrInvalidParameter)
	}
	n := series.Len()
	if n/k < minBacktestBars {
		log.Warn().Int("bars", n).Int("k", k).Msg("cross-validate: folds too small")
		return nil, fmt.Errorf("cross-validate: %d bars over %d folds: %w", n, k, market.ErrInsufficientData)
	}

	folds := Partition(n, k)
	out := &CVResult{}
	var accuracies, returns []float64

	for _, fold := range folds {
		name := selectStrategy(series, fold, strat)

		sig, err := signalFunc(name, series, strat.Events)
		if err != nil {
			return nil, err
		}
		report := FoldReport{
			Fold:     fold,
			Strategy: name,
			Metrics:  Evaluate(series, sig, fold.Start, fold.End),
		}

		foldStrat := strat
		foldStrat.Name = name
		foldStrat.Signal = sig
		bt, err := Run(series, foldStrat, fold.Start, fold.End-1)
		if err != nil {
			return nil, fmt.Errorf("fold [%d, %d): %w", fold.Start, fold.End, err)
		}
		report.Backtest = bt

		out.Folds = append(out.Folds, report)
		accuracies = append(accuracies, report.Metrics.Accuracy)
		returns = append(returns, bt.TotalReturn)
	}

	out.MeanAccuracy = numerics.Mean(accuracies)
	out.BestAccuracy = numerics.Max(accuracies)
	out.WorstAccuracy = numerics.Min(accuracies)
	out.AccuracyStddev = numerics.Stddev(accuracies)
	out.MeanReturn = numerics.Mean(returns)
	out.BestReturn = numerics.Max(returns)
	out.WorstReturn = numerics.Min(returns)

	log.Info().
		Str("symbol", series.Symbol).
		Int("folds", k).
		Float64("mean_accuracy", out.MeanAccuracy).
		Msg("cross-validation complete")
	return out, nil
}

// selectStrategy sweeps the built-in strategies over the tail of the
// training bars (the complement of fold) and returns the most accurate,
// with ties broken by sweep order. It falls back to strat.Name when no
// strategy produces a scoreable signal.
func selectStrategy(series *market.PriceSeries, fold Fold, strat Strategy) Name {
	n := series.Len()
	tailLen := int(float64(n-fold.Len()) * selectionTailFraction)
	if tailLen < 2 {
		return strat.Name
	}

	// training order is [0, fold.Start) then [fold.End, n); the tail is
	// the end of the trailing segment, or of the leading one when the
	// fold touches the series end
	var start, end int
	switch {
	case n-fold.End >= tailLen:
		start, end = n-tailLen, n
	case fold.Start >= tailLen:
		start, end = fold.Start-tailLen, fold.Start
	default:
		return strat.Name
	}

	best := strat.Name
	bestAcc := -1.0
	for _, name := range Names {
		sig, err := signalFunc(name, series, strat.Events)
		if err != nil {
			continue
		}
		m := Evaluate(series, sig, start, end)
		if m.Signals == 0 {
			continue
		}
		if m.Accuracy > bestAcc {
			bestAcc = m.Accuracy
			best = name
		}
	}
	return best
}
