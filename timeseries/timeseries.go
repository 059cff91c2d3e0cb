// Package timeseries provides the period-indexed series type shared by the
// fitting, diagnostics, and reporting packages, along with loading,
// resampling, and transform operations.
package timeseries

import (
	"errors"
	"fmt"
)

var (
	ErrNoObservations   = errors.New("no observations")
	ErrInvalidFrequency = errors.New("frequency must be monthly or quarterly")
)

// TimeSeries is an ordered, gap-free sequence of observations starting at a
// known period. It is treated as immutable once constructed; every operation
// returns a new series.
type TimeSeries struct {
	start Period
	freq  Frequency
	y     []float64
}

// New returns a TimeSeries beginning at start with the given frequency. The
// observation slice is copied.
func New(start Period, freq Frequency, y []float64) (*TimeSeries, error) {
	if len(y) == 0 {
		return nil, ErrNoObservations
	}
	if freq != Monthly && freq != Quarterly {
		return nil, fmt.Errorf("got %d, %w", freq, ErrInvalidFrequency)
	}

	ySeries := make([]float64, len(y))
	copy(ySeries, y)
	return &TimeSeries{
		start: start,
		freq:  freq,
		y:     ySeries,
	}, nil
}

// Len returns the number of observations.
func (ts *TimeSeries) Len() int {
	return len(ts.y)
}

// Start returns the period of the first observation.
func (ts *TimeSeries) Start() Period {
	return ts.start
}

// End returns the period of the last observation.
func (ts *TimeSeries) End() Period {
	return ts.start.Add(len(ts.y)-1, ts.freq)
}

// Freq returns the sampling frequency.
func (ts *TimeSeries) Freq() Frequency {
	return ts.freq
}

// At returns the i-th observation.
func (ts *TimeSeries) At(i int) float64 {
	return ts.y[i]
}

// PeriodAt returns the period of the i-th observation.
func (ts *TimeSeries) PeriodAt(i int) Period {
	return ts.start.Add(i, ts.freq)
}

// Values returns a copy of the observations.
func (ts *TimeSeries) Values() []float64 {
	dst := make([]float64, len(ts.y))
	copy(dst, ts.y)
	return dst
}

// Periods returns the period of every observation in order.
func (ts *TimeSeries) Periods() []Period {
	dst := make([]Period, len(ts.y))
	for i := range ts.y {
		dst[i] = ts.start.Add(i, ts.freq)
	}
	return dst
}

// Slice returns the sub-series covering observations [i, j). The result is
// a new series starting at the period of observation i.
func (ts *TimeSeries) Slice(i, j int) (*TimeSeries, error) {
	if i < 0 || j > len(ts.y) || i >= j {
		return nil, fmt.Errorf("slice [%d, %d) of %d observations, %w", i, j, len(ts.y), ErrNoObservations)
	}
	return New(ts.start.Add(i, ts.freq), ts.freq, ts.y[i:j])
}

// Copy returns a deep copy of the series.
func (ts *TimeSeries) Copy() *TimeSeries {
	ySeries := make([]float64, len(ts.y))
	copy(ySeries, ts.y)
	return &TimeSeries{
		start: ts.start,
		freq:  ts.freq,
		y:     ySeries,
	}
}
