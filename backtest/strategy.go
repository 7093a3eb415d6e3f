package backtest

import (
	"fmt"
	"time"

	"github.com/kevharv/stockscope/events"
	"github.com/kevharv/stockscope/indicators"
	"github.com/kevharv/stockscope/market"
)

// Direction of a trading signal. The numeric values double as the
// position sign during simulation.
type Direction int

const (
	Sell Direction = -1
	Hold Direction = 0
	Buy  Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "hold"
	}
}

// Signal is one strategy decision at a bar: a direction, a strength in
// [0,1] that gates entry against the strategy's threshold, and a
// deterministic next-close prediction used for validation scoring.
type Signal struct {
	Direction      Direction
	Strength       float64
	PredictedClose float64
}

// SignalFunc produces the signal for bar t. It must only read bars 0..t.
type SignalFunc func(series *market.PriceSeries, t int) Signal

// Name identifies one of the built-in strategies. The set is closed;
// anything else is rejected at the boundary by ParseName.
type Name string

const (
	Default       Name = "default"
	Momentum      Name = "momentum"
	MeanReversion Name = "mean-reversion"
	Breakout      Name = "breakout"
	EventBased    Name = "event-based"
)

// Names lists the built-in strategies in selection-sweep order.
var Names = []Name{Default, Momentum, MeanReversion, Breakout, EventBased}

// ParseName validates a strategy name from user input.
func ParseName(s string) (Name, error) {
	for _, n := range Names {
		if s == string(n) {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown strategy %q: %w", s, market.ErrInvalidParameter)
}

// Strategy bundles a simulation's sizing parameters with the signal
// source. Leave Signal nil to use the built-in strategy named by Name;
// EventBased additionally needs Events.
type Strategy struct {
	Name           Name
	InitialCapital float64
	PositionSize   float64
	EntryThreshold float64
	AllowShort     bool
	Events         *events.Database
	Signal         SignalFunc
}

// NewStrategy returns a Strategy with the standard sizing: 10,000
// initial capital, 1,000 position size, 0.5 entry threshold, long-only.
func NewStrategy(name Name) Strategy {
	return Strategy{
		Name:           name,
		InitialCapital: 10_000,
		PositionSize:   1_000,
		EntryThreshold: 0.5,
	}
}

// predicted turns a direction into a deterministic next-close estimate.
func predicted(close float64, d Direction) float64 {
	return close * (1 + 0.01*float64(d))
}

// signalFunc builds the SignalFunc for a built-in strategy, precomputing
// its indicator columns once over the full series.
func signalFunc(name Name, series *market.PriceSeries, db *events.Database) (SignalFunc, error) {
	switch name {
	case Default, "":
		return smaCrossSignals(series)
	case Momentum:
		return momentumSignals(series)
	case MeanReversion:
		return meanReversionSignals(series)
	case Breakout:
		return breakoutSignals(series), nil
	case EventBased:
		return eventSignals(series, db), nil
	}
	return nil, fmt.Errorf("unknown strategy %q: %w", name, market.ErrInvalidParameter)
}

// smaCrossSignals fires on the bar where the 10-bar SMA crosses the
// 30-bar SMA. Strength saturates at a 2% divergence between the lines.
func smaCrossSignals(series *market.PriceSeries) (SignalFunc, error) {
	short, err := indicators.SMA(series, 10)
	if err != nil {
		return nil, err
	}
	long, err := indicators.SMA(series, 30)
	if err != nil {
		return nil, err
	}
	closes := series.Closes()

	return func(_ *market.PriceSeries, t int) Signal {
		sv, ok1 := short.At(t)
		lv, ok2 := long.At(t)
		ps, ok3 := short.At(t - 1)
		pl, ok4 := long.At(t - 1)
		if !ok1 || !ok2 || !ok3 || !ok4 || lv == 0 {
			return Signal{Direction: Hold, PredictedClose: closes[t]}
		}
		diff, prevDiff := sv-lv, ps-pl
		strength := clamp01(abs(diff) / lv / 0.02)
		switch {
		case prevDiff <= 0 && diff > 0:
			return Signal{Direction: Buy, Strength: strength, PredictedClose: predicted(closes[t], Buy)}
		case prevDiff >= 0 && diff < 0:
			return Signal{Direction: Sell, Strength: strength, PredictedClose: predicted(closes[t], Sell)}
		}
		return Signal{Direction: Hold, PredictedClose: closes[t]}
	}, nil
}

// momentumSignals buys oversold RSI confirmed by a positive MACD
// histogram and sells overbought RSI confirmed by a negative one.
func momentumSignals(series *market.PriceSeries) (SignalFunc, error) {
	rsi, err := indicators.RSI(series, 14)
	if err != nil {
		return nil, err
	}
	macd, err := indicators.MACD(series, 12, 26, 9)
	if err != nil {
		return nil, err
	}
	closes := series.Closes()

	return func(_ *market.PriceSeries, t int) Signal {
		rv, ok1 := rsi.At(t)
		hv, ok2 := macd.Histogram.At(t)
		if !ok1 || !ok2 {
			return Signal{Direction: Hold, PredictedClose: closes[t]}
		}
		switch {
		case rv < 30 && hv > 0:
			return Signal{Direction: Buy, Strength: clamp01(0.5 + (30-rv)/60), PredictedClose: predicted(closes[t], Buy)}
		case rv > 70 && hv < 0:
			return Signal{Direction: Sell, Strength: clamp01(0.5 + (rv-70)/60), PredictedClose: predicted(closes[t], Sell)}
		}
		return Signal{Direction: Hold, PredictedClose: closes[t]}
	}, nil
}

// meanReversionSignals fades Bollinger band breaches: buy below the
// lower band, sell above the upper.
func meanReversionSignals(series *market.PriceSeries) (SignalFunc, error) {
	bands, err := indicators.Bollinger(series, 20, 2)
	if err != nil {
		return nil, err
	}
	closes := series.Closes()

	return func(_ *market.PriceSeries, t int) Signal {
		lo, ok1 := bands.Lower.At(t)
		hi, ok2 := bands.Upper.At(t)
		mid, ok3 := bands.Mid.At(t)
		if !ok1 || !ok2 || !ok3 {
			return Signal{Direction: Hold, PredictedClose: closes[t]}
		}
		halfWidth := hi - mid
		if halfWidth < 1e-9 {
			return Signal{Direction: Hold, PredictedClose: closes[t]}
		}
		c := closes[t]
		switch {
		case c < lo:
			return Signal{Direction: Buy, Strength: clamp01(0.5 + (lo-c)/halfWidth), PredictedClose: predicted(c, Buy)}
		case c > hi:
			return Signal{Direction: Sell, Strength: clamp01(0.5 + (c-hi)/halfWidth), PredictedClose: predicted(c, Sell)}
		}
		return Signal{Direction: Hold, PredictedClose: c}
	}, nil
}

const breakoutLookback = 10

// breakoutSignals follows closes beyond the prior 10-bar high/low range.
func breakoutSignals(series *market.PriceSeries) SignalFunc {
	closes := series.Closes()

	return func(_ *market.PriceSeries, t int) Signal {
		if t < breakoutLookback {
			return Signal{Direction: Hold, PredictedClose: closes[t]}
		}
		hi, lo := series.Points[t-breakoutLookback].High, series.Points[t-breakoutLookback].Low
		for i := t - breakoutLookback + 1; i < t; i++ {
			if series.Points[i].High > hi {
				hi = series.Points[i].High
			}
			if series.Points[i].Low < lo {
				lo = series.Points[i].Low
			}
		}
		rng := hi - lo
		if rng < 1e-9 {
			rng = 1e-9
		}
		c := closes[t]
		switch {
		case c > hi:
			return Signal{Direction: Buy, Strength: clamp01(0.5 + (c-hi)/rng), PredictedClose: predicted(c, Buy)}
		case c < lo:
			return Signal{Direction: Sell, Strength: clamp01(0.5 + (lo-c)/rng), PredictedClose: predicted(c, Sell)}
		}
		return Signal{Direction: Hold, PredictedClose: c}
	}
}

const eventWindowDays = 5

// eventSignals trades on the mean event factor of news from the five
// calendar days up to and including bar t. A nil database always holds.
func eventSignals(series *market.PriceSeries, db *events.Database) SignalFunc {
	closes := series.Closes()

	return func(_ *market.PriceSeries, t int) Signal {
		if db == nil || t < 1 {
			return Signal{Direction: Hold, PredictedClose: closes[t]}
		}
		date := series.Points[t].Date
		day, err := time.Parse(market.DateLayout, date)
		if err != nil {
			return Signal{Direction: Hold, PredictedClose: closes[t]}
		}
		from := day.AddDate(0, 0, -eventWindowDays+1).Format(market.DateLayout)

		recent := db.FindByDateRange(from, date)
		if len(recent) == 0 {
			return Signal{Direction: Hold, PredictedClose: closes[t]}
		}
		factor := 0.0
		for _, ev := range recent {
			factor += ev.EventFactor()
		}
		factor /= float64(len(recent))

		switch {
		case factor > 0.2:
			return Signal{Direction: Buy, Strength: clamp01(0.3 + factor), PredictedClose: predicted(closes[t], Buy)}
		case factor < -0.2:
			return Signal{Direction: Sell, Strength: clamp01(0.3 - factor), PredictedClose: predicted(closes[t], Sell)}
		}
		return Signal{Direction: Hold, PredictedClose: closes[t]}
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
