package sarima

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rellumm/CPI-Time-Series/timeseries"
)

func TestForecastDrift(t *testing.T) {
	ts := trendSeries(t, 30)
	m, err := Fit(ts, Spec{D: 1}, nil)
	require.NoError(t, err)

	fc, err := m.Forecast(12, nil)
	require.NoError(t, err)

	require.Len(t, fc.Point, 12)
	require.Len(t, fc.Periods, 12)
	require.Len(t, fc.Intervals, 2)
	assert.Equal(t, 0.80, fc.Intervals[0].Level)
	assert.Equal(t, 0.95, fc.Intervals[1].Level)

	// the trend continues exactly: last value plus the drift per step
	last := ts.At(ts.Len() - 1)
	for i, p := range fc.Point {
		assert.InDelta(t, last+2*float64(i+1), p, 1e-9)
	}

	// zero residual variance collapses the intervals onto the point forecast
	for _, iv := range fc.Intervals {
		require.Len(t, iv.Lower, 12)
		require.Len(t, iv.Upper, 12)
		for i := range iv.Lower {
			assert.InDelta(t, fc.Point[i], iv.Lower[i], 1e-9)
			assert.InDelta(t, fc.Point[i], iv.Upper[i], 1e-9)
		}
	}

	assert.Equal(t, ts.End().Add(1, ts.Freq()), fc.Periods[0])
	assert.Equal(t, ts.End().Add(12, ts.Freq()), fc.Periods[11])
}

func TestForecastSeasonal(t *testing.T) {
	values := make([]float64, 24)
	seasonal := []float64{10, 20, 30, 40}
	for i := range values {
		values[i] = seasonal[i%4]
	}
	ts, err := timeseries.New(timeseries.Period{Year: 2000, Index: 1}, timeseries.Quarterly, values)
	require.NoError(t, err)

	m, err := Fit(ts, Spec{SD: 1, Period: 4}, nil)
	require.NoError(t, err)

	fc, err := m.Forecast(8, nil)
	require.NoError(t, err)

	want := []float64{10, 20, 30, 40, 10, 20, 30, 40}
	require.Len(t, fc.Point, len(want))
	for i, p := range fc.Point {
		assert.InDelta(t, want[i], p, 1e-9)
	}
	assert.Equal(t, timeseries.Period{Year: 2006, Index: 1}, fc.Periods[0])
}

func TestForecastSecondDifference(t *testing.T) {
	// y_t = t^2: second differences are exactly 2, so the quadratic must
	// continue exactly through the integration
	values := make([]float64, 20)
	for i := range values {
		values[i] = float64(i * i)
	}
	m, err := Fit(newSeries(t, values), Spec{D: 2}, nil)
	require.NoError(t, err)
	require.InDelta(t, 2.0, m.Coeff["mean"].Estimate, 1e-12)

	fc, err := m.Forecast(3, nil)
	require.NoError(t, err)

	want := []float64{400, 441, 484} // 20^2, 21^2, 22^2
	require.Len(t, fc.Point, len(want))
	for i, p := range fc.Point {
		assert.InDelta(t, want[i], p, 1e-9)
	}
}

func TestForecastDoubleSeasonalDifference(t *testing.T) {
	// quarterly pattern plus a level that grows quadratically by year: two
	// seasonal differences leave a constant 2, and integration must rebuild
	// each year from its own intermediate series
	values := make([]float64, 32)
	for i := range values {
		year := float64(i / 4)
		values[i] = float64(i%4) + year*year
	}
	ts, err := timeseries.New(timeseries.Period{Year: 2000, Index: 1}, timeseries.Quarterly, values)
	require.NoError(t, err)

	m, err := Fit(ts, Spec{SD: 2, Period: 4}, nil)
	require.NoError(t, err)
	require.InDelta(t, 2.0, m.Coeff["mean"].Estimate, 1e-12)

	fc, err := m.Forecast(4, nil)
	require.NoError(t, err)

	// year 8: seasonal offsets 0..3 plus 8^2
	want := []float64{64, 65, 66, 67}
	for i, p := range fc.Point {
		assert.InDelta(t, want[i], p, 1e-9)
	}
}

func TestPsiWeights(t *testing.T) {
	// random walk with drift: every psi weight is 1
	m, err := Fit(trendSeries(t, 30), Spec{D: 1}, nil)
	require.NoError(t, err)
	for _, w := range m.psiWeights(5) {
		assert.InDelta(t, 1.0, w, 1e-12)
	}

	// AR(1): psi_j = phi^j
	rnd := rand.New(rand.NewSource(42))
	values := make([]float64, 200)
	for i := 1; i < len(values); i++ {
		values[i] = 0.5*values[i-1] + rnd.NormFloat64()
	}
	ar1, err := Fit(newSeries(t, values), Spec{P: 1}, nil)
	require.NoError(t, err)

	phi := ar1.Coeff["ar1"].Estimate
	psi := ar1.psiWeights(4)
	assert.InDelta(t, 1.0, psi[0], 1e-12)
	assert.InDelta(t, phi, psi[1], 1e-9)
	assert.InDelta(t, phi*phi, psi[2], 1e-9)
	assert.InDelta(t, phi*phi*phi, psi[3], 1e-9)
}

func TestForecastStationaryIntervalWidening(t *testing.T) {
	// a stationary AR(1) still has multi-step uncertainty above the one-step
	// error, so the bands must widen with the horizon
	rnd := rand.New(rand.NewSource(7))
	values := make([]float64, 200)
	for i := 1; i < len(values); i++ {
		values[i] = 0.6*values[i-1] + rnd.NormFloat64()
	}
	m, err := Fit(newSeries(t, values), Spec{P: 1}, nil)
	require.NoError(t, err)
	require.Greater(t, m.Coeff["ar1"].Estimate, 0.1)

	fc, err := m.Forecast(6, nil)
	require.NoError(t, err)

	for _, iv := range fc.Intervals {
		prev := 0.0
		for i := range iv.Lower {
			width := iv.Upper[i] - iv.Lower[i]
			assert.Greater(t, width, prev)
			prev = width
		}
	}
}

func TestForecastIntervalWidening(t *testing.T) {
	m, err := Fit(sawtoothSeries(t, 31), Spec{D: 1}, nil)
	require.NoError(t, err)

	fc, err := m.Forecast(6, nil)
	require.NoError(t, err)

	for _, iv := range fc.Intervals {
		prev := 0.0
		for i := range iv.Lower {
			width := iv.Upper[i] - iv.Lower[i]
			assert.Greater(t, width, prev)
			prev = width
		}
	}

	// 95% bounds contain the 80% bounds
	for i := range fc.Point {
		assert.Less(t, fc.Intervals[1].Lower[i], fc.Intervals[0].Lower[i])
		assert.Greater(t, fc.Intervals[1].Upper[i], fc.Intervals[0].Upper[i])
	}
}

func TestForecastLogScale(t *testing.T) {
	// a log-level series around 5 with alternating increments, as if the
	// model had been fit on log(CPI)
	values := make([]float64, 31)
	values[0] = 5
	for i := 1; i < len(values); i++ {
		step := 0.001
		if i%2 == 0 {
			step = 0.003
		}
		values[i] = values[i-1] + step
	}
	m, err := Fit(newSeries(t, values), Spec{D: 1}, nil)
	require.NoError(t, err)

	raw, err := m.Forecast(4, &ForecastOptions{Levels: []float64{0.95}})
	require.NoError(t, err)
	back, err := m.Forecast(4, &ForecastOptions{Levels: []float64{0.95}, LogScale: true})
	require.NoError(t, err)

	for i := range back.Point {
		assert.InDelta(t, math.Exp(raw.Point[i]), back.Point[i], 1e-6*back.Point[i])

		// exponentiation makes the interval asymmetric around the point
		lowerGap := back.Point[i] - back.Intervals[0].Lower[i]
		upperGap := back.Intervals[0].Upper[i] - back.Point[i]
		assert.Greater(t, upperGap, lowerGap)
	}
}

func TestForecastErrors(t *testing.T) {
	m, err := Fit(trendSeries(t, 30), Spec{D: 1}, nil)
	require.NoError(t, err)

	testData := map[string]struct {
		h   int
		opt *ForecastOptions
		err error
	}{
		"zero horizon": {
			h:   0,
			err: ErrInvalidHorizon,
		},
		"negative horizon": {
			h:   -3,
			err: ErrInvalidHorizon,
		},
		"level too high": {
			h:   4,
			opt: &ForecastOptions{Levels: []float64{1.0}},
			err: ErrInvalidLevel,
		},
		"level too low": {
			h:   4,
			opt: &ForecastOptions{Levels: []float64{0}},
			err: ErrInvalidLevel,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := m.Forecast(td.h, td.opt)
			assert.ErrorIs(t, err, td.err)
		})
	}
}
