package indicators

import (
	"fmt"
	"math"
	"testing"

	"github.com/kevharv/stockscope/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rampSeries builds n bars with closes start, start+step, ... and a small
// intrabar range around each close.
func rampSeries(n int, start, step float64) *market.PriceSeries {
	s := &market.PriceSeries{Symbol: "TEST"}
	for i := 0; i < n; i++ {
		c := start + float64(i)*step
		s.Points = append(s.Points, market.PricePoint{
			Date:     fmt.Sprintf("2024-01-%02d", i+1),
			Open:     c - 0.5,
			High:     c + 1,
			Low:      c - 1,
			Close:    c,
			AdjClose: c,
			Volume:   1000 + 10*float64(i),
		})
	}
	return s
}

func flatSeries(n int, price float64) *market.PriceSeries {
	s := rampSeries(n, price, 0)
	for i := range s.Points {
		s.Points[i].Open = price
		s.Points[i].High = price
		s.Points[i].Low = price
	}
	return s
}

func TestSMAExact(t *testing.T) {
	s := rampSeries(10, 100, 1)
	sma, err := SMA(s, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, sma.FirstValid)

	for i := 2; i < s.Len(); i++ {
		want := (s.Points[i-2].Close + s.Points[i-1].Close + s.Points[i].Close) / 3
		got, ok := sma.At(i)
		require.True(t, ok)
		assert.InEpsilon(t, want, got, 1e-12)
	}

	_, ok := sma.At(1)
	assert.False(t, ok)
}

func TestEMASeedIsSMA(t *testing.T) {
	s := rampSeries(10, 100, 2)
	ema, err := EMA(s, 5)
	require.NoError(t, err)

	seed, ok := ema.At(4)
	require.True(t, ok)
	want := (100.0 + 102 + 104 + 106 + 108) / 5
	assert.InDelta(t, want, seed, 1e-12)

	// next step follows the recurrence with alpha = 2/(p+1)
	alpha := 2.0 / 6.0
	next, _ := ema.At(5)
	assert.InDelta(t, alpha*110+(1-alpha)*want, next, 1e-12)
}

func TestRSIBounds(t *testing.T) {
	s := rampSeries(40, 100, 0.5)
	// perturb to make both gains and losses
	for i := range s.Points {
		if i%3 == 0 {
			s.Points[i].Close -= 1.2
		}
	}
	rsi, err := RSI(s, 14)
	require.NoError(t, err)
	for i := rsi.FirstValid; i < len(rsi.Values); i++ {
		v, _ := rsi.At(i)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestRSIConstantPriceIs100(t *testing.T) {
	s := flatSeries(20, 50)
	rsi, err := RSI(s, 14)
	require.NoError(t, err)
	v, ok := rsi.Last()
	require.True(t, ok)
	assert.Equal(t, 100.0, v)
}

func TestMACDHistogram(t *testing.T) {
	s := rampSeries(60, 100, 1)
	res, err := MACD(s, 12, 26, 9)
	require.NoError(t, err)

	assert.Equal(t, 25, res.MACD.FirstValid)
	assert.Equal(t, 33, res.Signal.FirstValid)

	for i := res.Histogram.FirstValid; i < s.Len(); i++ {
		m, _ := res.MACD.At(i)
		sig, _ := res.Signal.At(i)
		h, _ := res.Histogram.At(i)
		assert.InDelta(t, m-sig, h, 1e-12)
	}
}

func TestBollingerBandOrdering(t *testing.T) {
	s := rampSeries(30, 100, 1.5)
	bb, err := Bollinger(s, 20, 2)
	require.NoError(t, err)
	for i := bb.Mid.FirstValid; i < s.Len(); i++ {
		up, _ := bb.Upper.At(i)
		mid, _ := bb.Mid.At(i)
		lo, _ := bb.Lower.At(i)
		assert.GreaterOrEqual(t, up, mid)
		assert.GreaterOrEqual(t, mid, lo)
	}
}

func TestBollingerConstantPriceZeroWidth(t *testing.T) {
	s := flatSeries(25, 80)
	bb, err := Bollinger(s, 20, 2)
	require.NoError(t, err)
	up, _ := bb.Upper.Last()
	lo, _ := bb.Lower.Last()
	assert.InDelta(t, 0.0, up-lo, 1e-12)
}

func TestATRRampConverges(t *testing.T) {
	// On the ramp every bar has high-low = 2 and |high-prevClose| = 2,
	// so every true range is 2 and ATR must be exactly 2.
	s := rampSeries(30, 100, 1)
	atr, err := ATR(s, 14)
	require.NoError(t, err)
	v, ok := atr.Last()
	require.True(t, ok)
	assert.InDelta(t, 2.0, v, 1e-12)
}

func TestADXBounds(t *testing.T) {
	s := rampSeries(80, 100, 1)
	for i := range s.Points {
		if i%5 == 0 {
			s.Points[i].Close -= 2
			s.Points[i].Low -= 2
		}
	}
	adx, err := ADX(s, 14)
	require.NoError(t, err)
	assert.Equal(t, 27, adx.FirstValid)
	for i := adx.FirstValid; i < len(adx.Values); i++ {
		v, _ := adx.At(i)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestStochasticFlatWindowDefaults50(t *testing.T) {
	s := flatSeries(20, 60)
	res, err := Stochastic(s, 14, 3)
	require.NoError(t, err)
	k, ok := res.K.Last()
	require.True(t, ok)
	assert.Equal(t, 50.0, k)
	d, _ := res.D.Last()
	assert.Equal(t, 50.0, d)
}

func TestStochasticBounds(t *testing.T) {
	s := rampSeries(40, 100, 1)
	res, err := Stochastic(s, 14, 3)
	require.NoError(t, err)
	for i := res.K.FirstValid; i < s.Len(); i++ {
		v, _ := res.K.At(i)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestMFIAllRisingIs100(t *testing.T) {
	s := rampSeries(20, 100, 1)
	mfi, err := MFI(s, 14)
	require.NoError(t, err)
	v, ok := mfi.Last()
	require.True(t, ok)
	assert.Equal(t, 100.0, v)
}

func TestMFIBounds(t *testing.T) {
	s := rampSeries(40, 100, 1)
	for i := range s.Points {
		if i%2 == 0 {
			s.Points[i].Close -= 1.5
			s.Points[i].High -= 0.5
			s.Points[i].Low -= 0.5
		}
	}
	mfi, err := MFI(s, 14)
	require.NoError(t, err)
	for i := mfi.FirstValid; i < s.Len(); i++ {
		v, _ := mfi.At(i)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestPSARTracksUptrend(t *testing.T) {
	s := rampSeries(30, 100, 1)
	psar, err := PSAR(s, 0.02, 0.2)
	require.NoError(t, err)
	// In a clean uptrend the SAR stays below price.
	for i := 2; i < s.Len(); i++ {
		v, ok := psar.At(i)
		require.True(t, ok)
		assert.Less(t, v, s.Points[i].Close)
	}
}

func TestInsufficientDataEmptyOutput(t *testing.T) {
	s := rampSeries(15, 100, 1)

	sma, err := SMA(s, 20)
	assert.ErrorIs(t, err, market.ErrInsufficientData)
	assert.True(t, sma.Empty())

	_, err = RSI(s, 20)
	assert.ErrorIs(t, err, market.ErrInsufficientData)

	_, err = ADX(s, 14)
	assert.ErrorIs(t, err, market.ErrInsufficientData)
}

func TestInvalidPeriod(t *testing.T) {
	s := rampSeries(15, 100, 1)
	_, err := SMA(s, 0)
	assert.ErrorIs(t, err, market.ErrInvalidParameter)
	_, err = MACD(s, 26, 12, 9) // fast >= slow
	assert.ErrorIs(t, err, market.ErrInvalidParameter)
}

func TestIdempotence(t *testing.T) {
	s := rampSeries(60, 100, 0.7)
	a, err := RSI(s, 14)
	require.NoError(t, err)
	b, err := RSI(s, 14)
	require.NoError(t, err)
	assert.Equal(t, a.Values, b.Values)

	m1, _ := MACD(s, 12, 26, 9)
	m2, _ := MACD(s, 12, 26, 9)
	assert.Equal(t, m1.Histogram.Values, m2.Histogram.Values)
}

func TestEventAdjustedTransforms(t *testing.T) {
	s := rampSeries(80, 100, 1)
	f := EventFactor(0.5, 80) // 0.4
	assert.InDelta(t, 0.4, f, 1e-12)

	base, err := ADX(s, 14)
	require.NoError(t, err)
	adj, err := EventADX(s, 14, f)
	require.NoError(t, err)
	bv, _ := base.Last()
	av, _ := adj.Last()
	assert.InDelta(t, bv*(1+0.2*0.4), av, 1e-9)

	mfiBase, err := MFI(s, 14)
	require.NoError(t, err)
	mfiAdj, err := EventMFI(s, 14, f)
	require.NoError(t, err)
	mb, _ := mfiBase.Last()
	ma, _ := mfiAdj.Last()
	assert.InDelta(t, math.Min(mb+4, 100), ma, 1e-9)

	psarBase, err := PSAR(s, 0.02, 0.2)
	require.NoError(t, err)
	psarAdj, err := EventPSAR(s, 0.02, 0.2, f)
	require.NoError(t, err)
	pb, _ := psarBase.Last()
	pa, _ := psarAdj.Last()
	assert.InDelta(t, pb*(1-0.1*0.4), pa, 1e-9)
}

func TestEventFactorClamped(t *testing.T) {
	assert.Equal(t, 1.0, EventFactor(2, 100))
	assert.Equal(t, -1.0, EventFactor(-2, 100))
}
