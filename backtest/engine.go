// Package backtest simulates trading strategies over daily price series
// and scores them with standard performance and validation metrics,
// including k-fold cross-validation with per-fold strategy selection.
package backtest

import (
	"fmt"

	"github.com/phuslu/log"

	"github.com/kevharv/stockscope/market"
)

// TransactionCost is the flat per-leg cost as a fraction of position
// size, charged on every entry and every exit.
const TransactionCost = 0.001

// minBacktestBars is the smallest range a simulation will accept.
const minBacktestBars = 30

// Trade is one completed round trip.
type Trade struct {
	Direction  Direction
	EntryIndex int
	EntryDate  string
	EntryPrice float64
	ExitIndex  int
	ExitDate   string
	ExitPrice  float64
	Cost       float64
	Profit     float64
}

// Result of one simulation. FinalCapital always equals InitialCapital
// plus the sum of trade profits.
type Result struct {
	Strategy         Name
	InitialCapital   float64
	FinalCapital     float64
	TotalReturn      float64
	AnnualizedReturn float64
	SharpeRatio      float64
	MaxDrawdown      float64
	ProfitFactor     float64
	CalmarRatio      float64
	TotalTrades      int
	ProfitableTrades int
	Trades           []Trade
	Equity           []float64
	DailyReturns     []float64
}

// Run simulates strat over bars [startIdx, endIdx] of series. Positions
// are entered and exited at the bar close; mark-to-market applies each
// bar's move to the position held coming into the bar, so a position
// opened at close[t] starts accruing at bar t+1. Any open position is
// closed at endIdx. Invalid parameters yield a nil result, never a
// partial simulation.
func Run(series *market.PriceSeries, strat Strategy, startIdx, endIdx int) (*Result, error) {
	if series == nil || startIdx < 0 || endIdx >= series.Len() || startIdx >= endIdx {
		log.Warn().Int("start", startIdx).Int("end", endIdx).Msg("backtest: invalid range")
		return nil, fmt.Errorf("backtest range [%d, %d]: %w", startIdx, endIdx, market.ErrInvalidParameter)
	}
	if bars := endIdx - startIdx + 1; bars < minBacktestBars {
		log.Warn().Str("symbol", series.Symbol).Int("bars", bars).Msg("backtest: range too short")
		return nil, fmt.Errorf("backtest needs %d bars, got %d: %w", minBacktestBars, endIdx-startIdx+1, market.ErrInvalidParameter)
	}
	if strat.InitialCapital <= 0 || strat.PositionSize <= 0 || strat.EntryThreshold < 0 {
		log.Warn().Str("strategy", string(strat.Name)).Msg("backtest: invalid sizing")
		return nil, fmt.Errorf("backtest sizing: %w", market.ErrInvalidParameter)
	}

	sig := strat.Signal
	if sig == nil {
		var err error
		sig, err = signalFunc(strat.Name, series, strat.Events)
		if err != nil {
			return nil, err
		}
	}

	closes := series.Closes()
	capital := strat.InitialCapital
	peak := capital
	maxDD := 0.0
	position := 0
	var open Trade
	var openPnl float64
	var trades []Trade
	daily := make([]float64, 0, endIdx-startIdx)
	equity := make([]float64, 0, endIdx-startIdx+1)

	closeAt := func(t int) {
		cost := TransactionCost * strat.PositionSize
		capital -= cost
		open.Cost += cost
		open.ExitIndex = t
		open.ExitDate = series.Points[t].Date
		open.ExitPrice = closes[t]
		open.Profit = openPnl - open.Cost
		trades = append(trades, open)
		position = 0
	}
	openAt := func(t int, dir Direction) {
		cost := TransactionCost * strat.PositionSize
		capital -= cost
		open = Trade{
			Direction:  dir,
			EntryIndex: t,
			EntryDate:  series.Points[t].Date,
			EntryPrice: closes[t],
			Cost:       cost,
		}
		openPnl = 0
		position = int(dir)
	}

	for t := startIdx; t <= endIdx; t++ {
		barStart := capital

		if t > startIdx && closes[t-1] != 0 {
			ret := (closes[t] - closes[t-1]) / closes[t-1]
			pnl := float64(position) * ret * strat.PositionSize
			capital += pnl
			openPnl += pnl
		}

		// no fresh entries on the final bar; it only closes
		if t < endIdx {
			s := sig(series, t)
			if s.Strength >= strat.EntryThreshold {
				switch {
				case s.Direction == Buy && position != 1:
					if position == -1 {
						closeAt(t)
					}
					openAt(t, Buy)
				case s.Direction == Sell && position != -1:
					if position == 1 {
						closeAt(t)
					}
					if strat.AllowShort {
						openAt(t, Sell)
					}
				}
			}
		} else if position != 0 {
			closeAt(t)
		}

		if capital > peak {
			peak = capital
		}
		if peak > 0 {
			if dd := (peak - capital) / peak; dd > maxDD {
				maxDD = dd
			}
		}
		equity = append(equity, capital)
		if t > startIdx && barStart != 0 {
			daily = append(daily, (capital-barStart)/barStart)
		}
	}
	if maxDD > 1 {
		maxDD = 1
	}

	res := &Result{
		Strategy:       strat.Name,
		InitialCapital: strat.InitialCapital,
		FinalCapital:   capital,
		MaxDrawdown:    maxDD,
		TotalTrades:    len(trades),
		Trades:         trades,
		Equity:         equity,
		DailyReturns:   daily,
	}
	res.TotalReturn = (capital - strat.InitialCapital) / strat.InitialCapital
	res.AnnualizedReturn = annualize(res.TotalReturn, endIdx-startIdx+1)
	res.SharpeRatio = sharpe(daily)
	res.ProfitFactor = profitFactor(trades)
	if maxDD > 1e-6 {
		res.CalmarRatio = res.AnnualizedReturn / maxDD
	}
	for _, tr := range trades {
		if tr.Profit > 0 {
			res.ProfitableTrades++
		}
	}

	log.Info().
		Str("symbol", series.Symbol).
		Str("strategy", string(strat.Name)).
		Int("trades", res.TotalTrades).
		Float64("return", res.TotalReturn).
		Msg("backtest complete")
	return res, nil
}
