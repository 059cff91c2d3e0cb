package timeseries

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNonPositive = errors.New("logarithm of non-positive value")
	ErrInvalidLag  = errors.New("difference lag must be positive and shorter than the series")
)

// Log returns the elementwise natural logarithm of the series.
func (ts *TimeSeries) Log() (*TimeSeries, error) {
	logged := make([]float64, len(ts.y))
	for i, v := range ts.y {
		if v <= 0 {
			return nil, fmt.Errorf("value %g at %s, %w", v, ts.PeriodAt(i).Format(ts.freq), ErrNonPositive)
		}
		logged[i] = math.Log(v)
	}
	return New(ts.start, ts.freq, logged)
}

// Exp returns the elementwise exponential of the series, undoing Log.
func (ts *TimeSeries) Exp() *TimeSeries {
	exped := make([]float64, len(ts.y))
	for i, v := range ts.y {
		exped[i] = math.Exp(v)
	}
	out, _ := New(ts.start, ts.freq, exped)
	return out
}

// Diff returns the lagged difference y[t] - y[t-lag]. The result is lag
// observations shorter and starts lag periods later. Use lag 1 to remove
// trend and lag equal to the seasonal period to remove seasonality; the
// multiplicative SARIMA convention applies the non-seasonal difference
// first, then the seasonal one.
func (ts *TimeSeries) Diff(lag int) (*TimeSeries, error) {
	if lag < 1 || lag >= len(ts.y) {
		return nil, fmt.Errorf("lag %d on series of length %d, %w", lag, len(ts.y), ErrInvalidLag)
	}

	diffed := make([]float64, len(ts.y)-lag)
	for i := lag; i < len(ts.y); i++ {
		diffed[i-lag] = ts.y[i] - ts.y[i-lag]
	}
	return New(ts.start.Add(lag, ts.freq), ts.freq, diffed)
}

// DiffN applies Diff at the same lag order times in sequence.
func (ts *TimeSeries) DiffN(lag, order int) (*TimeSeries, error) {
	out := ts
	for i := 0; i < order; i++ {
		next, err := out.Diff(lag)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}
