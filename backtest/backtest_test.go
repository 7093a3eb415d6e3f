package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevharv/stockscope/market"
)

func seriesFromCloses(t *testing.T, closes []float64) *market.PriceSeries {
	t.Helper()
	day, err := time.Parse(market.DateLayout, "2023-01-02")
	require.NoError(t, err)

	points := make([]market.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = market.PricePoint{
			Date:     day.AddDate(0, 0, i).Format(market.DateLayout),
			Open:     c,
			High:     c * 1.01,
			Low:      c * 0.99,
			Close:    c,
			AdjClose: c,
			Volume:   1_000_000,
		}
	}
	return &market.PriceSeries{Symbol: "TEST", Points: points}
}

func waveSeries(t *testing.T, n int) *market.PriceSeries {
	t.Helper()
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/8)
	}
	return seriesFromCloses(t, closes)
}

func TestRunSingleTradeMarkToMarket(t *testing.T) {
	closes := make([]float64, 31)
	for i := range closes {
		if i < 10 {
			closes[i] = 100
		} else {
			closes[i] = 110
		}
	}
	s := seriesFromCloses(t, closes)

	strat := NewStrategy(Default)
	strat.Signal = func(_ *market.PriceSeries, t int) Signal {
		switch t {
		case 9:
			return Signal{Direction: Buy, Strength: 1}
		case 10:
			return Signal{Direction: Sell, Strength: 1}
		}
		return Signal{Direction: Hold}
	}

	res, err := Run(s, strat, 0, 30)
	require.NoError(t, err)
	require.Len(t, res.Trades, 1)

	tr := res.Trades[0]
	assert.Equal(t, Buy, tr.Direction)
	assert.Equal(t, 100.0, tr.EntryPrice)
	assert.Equal(t, 110.0, tr.ExitPrice)
	// 1000 * 10% move minus two 0.001*1000 cost legs
	assert.InDelta(t, 98.0, tr.Profit, 1e-9)
	assert.InDelta(t, 10_098.0, res.FinalCapital, 1e-9)
	assert.Equal(t, 1, res.ProfitableTrades)
}

func TestRunShortTrade(t *testing.T) {
	closes := make([]float64, 31)
	for i := range closes {
		if i < 10 {
			closes[i] = 100
		} else {
			closes[i] = 90
		}
	}
	s := seriesFromCloses(t, closes)

	strat := NewStrategy(Default)
	strat.AllowShort = true
	strat.Signal = func(_ *market.PriceSeries, t int) Signal {
		switch t {
		case 9:
			return Signal{Direction: Sell, Strength: 1}
		case 10:
			return Signal{Direction: Buy, Strength: 1}
		}
		return Signal{Direction: Hold}
	}

	res, err := Run(s, strat, 0, 30)
	require.NoError(t, err)
	// the closing Buy also reopens long; expect the short plus one long
	require.NotEmpty(t, res.Trades)

	short := res.Trades[0]
	assert.Equal(t, Sell, short.Direction)
	assert.InDelta(t, 1000*0.10-2.0, short.Profit, 1e-9)
}

func TestRunCapitalAccounting(t *testing.T) {
	s := waveSeries(t, 200)
	strat := NewStrategy(Default)
	strat.AllowShort = true

	res, err := Run(s, strat, 0, s.Len()-1)
	require.NoError(t, err)

	sum := 0.0
	for _, tr := range res.Trades {
		sum += tr.Profit
	}
	assert.InDelta(t, res.InitialCapital+sum, res.FinalCapital, 1e-9)
	assert.LessOrEqual(t, res.ProfitableTrades, res.TotalTrades)
	assert.GreaterOrEqual(t, res.MaxDrawdown, 0.0)
	assert.LessOrEqual(t, res.MaxDrawdown, 1.0)
	assert.Len(t, res.Equity, s.Len())
}

func TestRunLeavesNoOpenPosition(t *testing.T) {
	s := waveSeries(t, 120)
	strat := NewStrategy(Default)

	res, err := Run(s, strat, 0, s.Len()-1)
	require.NoError(t, err)
	for _, tr := range res.Trades {
		assert.GreaterOrEqual(t, tr.ExitIndex, tr.EntryIndex)
		assert.NotEmpty(t, tr.ExitDate)
	}
}

func TestRunInvalidParameters(t *testing.T) {
	s := waveSeries(t, 100)
	strat := NewStrategy(Default)

	_, err := Run(nil, strat, 0, 50)
	assert.ErrorIs(t, err, market.ErrInvalidParameter)

	_, err = Run(s, strat, 50, 50)
	assert.ErrorIs(t, err, market.ErrInvalidParameter)

	_, err = Run(s, strat, 0, 10)
	assert.ErrorIs(t, err, market.ErrInvalidParameter)

	bad := strat
	bad.InitialCapital = 0
	_, err = Run(s, bad, 0, 99)
	assert.ErrorIs(t, err, market.ErrInvalidParameter)
}

func TestBuiltinStrategiesProduceBoundedSignals(t *testing.T) {
	s := waveSeries(t, 150)
	for _, name := range Names {
		sig, err := signalFunc(name, s, nil)
		require.NoError(t, err, string(name))
		for i := 0; i < s.Len(); i++ {
			out := sig(s, i)
			assert.GreaterOrEqual(t, out.Strength, 0.0)
			assert.LessOrEqual(t, out.Strength, 1.0)
		}
	}
}

func TestParseName(t *testing.T) {
	n, err := ParseName("mean-reversion")
	require.NoError(t, err)
	assert.Equal(t, MeanReversion, n)

	_, err = ParseName("martingale")
	assert.ErrorIs(t, err, market.ErrInvalidParameter)
}

func TestPartitionSizes(t *testing.T) {
	folds := Partition(10, 3)
	require.Len(t, folds, 3)
	assert.Equal(t, 4, folds[0].Len())
	assert.Equal(t, 3, folds[1].Len())
	assert.Equal(t, 3, folds[2].Len())
}

func TestPartitionDisjointCover(t *testing.T) {
	const n, k = 257, 5
	folds := Partition(n, k)
	require.Len(t, folds, k)

	covered := make([]bool, n)
	for _, f := range folds {
		for i := f.Start; i < f.End; i++ {
			require.False(t, covered[i], "bar %d in two folds", i)
			covered[i] = true
		}
	}
	for i, c := range covered {
		assert.True(t, c, "bar %d uncovered", i)
	}
}

func TestEvaluatePerfectPredictor(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i) // strictly rising
	}
	s := seriesFromCloses(t, closes)

	oracle := func(s *market.PriceSeries, t int) Signal {
		return Signal{Direction: Buy, Strength: 1, PredictedClose: s.Points[t].Close + 1}
	}
	m := Evaluate(s, oracle, 0, s.Len())
	assert.Equal(t, 1.0, m.Accuracy)
	assert.Equal(t, 1.0, m.Precision)
	assert.Equal(t, 1.0, m.Recall)
	assert.Equal(t, 1.0, m.F1)
	assert.InDelta(t, 0.0, m.MAE, 1e-12)
	assert.InDelta(t, 1.0, m.R2, 1e-12)
}

func TestEvaluateAllHold(t *testing.T) {
	s := waveSeries(t, 40)
	hold := func(s *market.PriceSeries, t int) Signal {
		return Signal{Direction: Hold, PredictedClose: s.Points[t].Close}
	}
	m := Evaluate(s, hold, 0, s.Len())
	assert.Zero(t, m.Signals)
	assert.Zero(t, m.Accuracy)
	assert.Greater(t, m.RMSE, 0.0)
}

func TestCrossValidate(t *testing.T) {
	s := waveSeries(t, 300)
	strat := NewStrategy(Default)

	res, err := CrossValidate(s, 3, strat)
	require.NoError(t, err)
	require.Len(t, res.Folds, 3)

	for _, fr := range res.Folds {
		require.NotNil(t, fr.Backtest)
		assert.GreaterOrEqual(t, fr.Metrics.Accuracy, 0.0)
		assert.LessOrEqual(t, fr.Metrics.Accuracy, 1.0)
	}
	assert.GreaterOrEqual(t, res.BestAccuracy, res.MeanAccuracy)
	assert.LessOrEqual(t, res.WorstAccuracy, res.MeanAccuracy)
	assert.GreaterOrEqual(t, res.AccuracyStddev, 0.0)
}

func TestCrossValidateFoldsTooSmall(t *testing.T) {
	s := waveSeries(t, 100)
	_, err := CrossValidate(s, 5, NewStrategy(Default))
	assert.ErrorIs(t, err, market.ErrInsufficientData)
}

func TestAnnualize(t *testing.T) {
	// a full trading year compounds to itself
	assert.InDelta(t, 0.10, annualize(0.10, 252), 1e-12)
	// half a year of 10% roughly squares
	assert.InDelta(t, math.Pow(1.10, 2)-1, annualize(0.10, 126), 1e-12)
}

func TestSharpeFlatEquityIsZero(t *testing.T) {
	assert.Zero(t, sharpe([]float64{0, 0, 0, 0}))
}

func TestProfitFactor(t *testing.T) {
	trades := []Trade{{Profit: 100}, {Profit: -50}, {Profit: 25}}
	assert.InDelta(t, 2.5, profitFactor(trades), 1e-12)

	assert.True(t, math.IsInf(profitFactor([]Trade{{Profit: 10}}), 1))
	assert.Zero(t, profitFactor(nil))
}
