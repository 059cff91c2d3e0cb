package timeseries

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrNotMonthly       = errors.New("resampling requires a monthly series")
	ErrIncompleteWindow = errors.New("trailing window is incomplete")
	ErrUnalignedStart   = errors.New("series does not start on a quarter boundary")
)

const monthsPerQuarter = 3

// ToQuarterly aggregates a monthly series into quarterly observations by
// averaging the three months of each quarter. The series must start on a
// quarter boundary and cover only whole quarters; a trailing partial quarter
// is an error rather than being silently truncated.
func (ts *TimeSeries) ToQuarterly() (*TimeSeries, error) {
	if ts.freq != Monthly {
		return nil, fmt.Errorf("got frequency %d, %w", ts.freq, ErrNotMonthly)
	}
	if (ts.start.Index-1)%monthsPerQuarter != 0 {
		return nil, fmt.Errorf("starts at %s, %w", ts.start.Format(Monthly), ErrUnalignedStart)
	}
	if len(ts.y)%monthsPerQuarter != 0 {
		return nil, fmt.Errorf("%d trailing months, %w", len(ts.y)%monthsPerQuarter, ErrIncompleteWindow)
	}

	quarters := make([]float64, 0, len(ts.y)/monthsPerQuarter)
	for i := 0; i < len(ts.y); i += monthsPerQuarter {
		quarters = append(quarters, stat.Mean(ts.y[i:i+monthsPerQuarter], nil))
	}

	start := Period{
		Year:  ts.start.Year,
		Index: (ts.start.Index-1)/monthsPerQuarter + 1,
	}
	return New(start, Quarterly, quarters)
}
