package backtest

import (
	"math"

	"github.com/kevharv/stockscope/market"
	"github.com/kevharv/stockscope/numerics"
)

const (
	tradingDaysPerYear = 252
	riskFreeDaily      = 0.02 / tradingDaysPerYear
)

// annualize compounds a total return observed over days trading days to
// a yearly rate.
func annualize(totalReturn float64, days int) float64 {
	if days <= 0 || totalReturn <= -1 {
		return -1
	}
	return math.Pow(1+totalReturn, tradingDaysPerYear/float64(days)) - 1
}

// sharpe computes the annualized Sharpe ratio of daily capital returns
// against the fixed risk-free rate. Flat equity scores 0.
func sharpe(daily []float64) float64 {
	if len(daily) < 2 {
		return 0
	}
	sd := numerics.Stddev(daily)
	if sd < 1e-6 {
		return 0
	}
	return (numerics.Mean(daily) - riskFreeDaily) / sd * math.Sqrt(tradingDaysPerYear)
}

// profitFactor is gross profit over gross loss. With no losing trades it
// is +Inf when anything was won, 0 otherwise.
func profitFactor(trades []Trade) float64 {
	var grossProfit, grossLoss float64
	for _, t := range trades {
		if t.Profit > 0 {
			grossProfit += t.Profit
		} else {
			grossLoss -= t.Profit
		}
	}
	if grossLoss < 1e-9 {
		if grossProfit > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return grossProfit / grossLoss
}

// ValidationMetrics scores a strategy's bar-by-bar predictions against
// the realized next closes. Classification treats an up move as the
// positive class; regression scores the predicted close.
type ValidationMetrics struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
	MAE       float64
	RMSE      float64
	R2        float64
	Signals   int
}

// Evaluate runs sig over bars [start, end) and scores its predictions of
// each following close. Hold bars carry no directional prediction and
// are excluded from classification counts; every bar contributes to the
// regression scores.
func Evaluate(series *market.PriceSeries, sig SignalFunc, start, end int) ValidationMetrics {
	var m ValidationMetrics
	if series == nil || start < 0 || end > series.Len() {
		return m
	}

	closes := series.Closes()
	var tp, fp, fn, tn int
	var absErr, sqErr float64
	var actuals, preds []float64

	for t := start; t < end-1; t++ {
		s := sig(series, t)
		actual := closes[t+1]
		up := actual > closes[t]

		if s.Direction != Hold {
			m.Signals++
			switch {
			case s.Direction == Buy && up:
				tp++
			case s.Direction == Buy && !up:
				fp++
			case s.Direction == Sell && up:
				fn++
			default:
				tn++
			}
		}

		err := s.PredictedClose - actual
		absErr += math.Abs(err)
		sqErr += err * err
		actuals = append(actuals, actual)
		preds = append(preds, s.PredictedClose)
	}

	n := len(actuals)
	if n == 0 {
		return m
	}
	m.MAE = absErr / float64(n)
	m.RMSE = math.Sqrt(sqErr / float64(n))
	m.R2 = rSquared(actuals, preds)

	if m.Signals > 0 {
		m.Accuracy = float64(tp+tn) / float64(m.Signals)
	}
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

// rSquared is the coefficient of determination of preds against actuals.
// A flat actual sequence scores 0.
func rSquared(actuals, preds []float64) float64 {
	mean := numerics.Mean(actuals)
	var ssTot, ssRes float64
	for i := range actuals {
		d := actuals[i] - mean
		ssTot += d * d
		r := actuals[i] - preds[i]
		ssRes += r * r
	}
	if ssTot < 1e-9 {
		return 0
	}
	return 1 - ssRes/ssTot
}
