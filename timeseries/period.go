package timeseries

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownPeriodCode = errors.New("unknown period code")
	ErrAnnualAverage     = errors.New("period marks an annual average")
)

// Frequency is the number of observations per year.
type Frequency int

const (
	Monthly   Frequency = 12
	Quarterly Frequency = 4
)

// Period identifies a single observation slot within a year. Index is
// 1-based: months run 1..12 and quarters 1..4.
type Period struct {
	Year  int
	Index int
}

// ParsePeriod parses a BLS-style period code such as "M01" or "Q02" into a
// Period and its implied frequency. "M13" is the annual-average placeholder
// and is rejected with ErrAnnualAverage so callers can exclude those rows.
func ParsePeriod(year int, code string) (Period, Frequency, error) {
	code = strings.TrimSpace(code)
	if len(code) < 2 {
		return Period{}, 0, fmt.Errorf("%q, %w", code, ErrUnknownPeriodCode)
	}

	idx, err := strconv.Atoi(code[1:])
	if err != nil {
		return Period{}, 0, fmt.Errorf("%q, %w", code, ErrUnknownPeriodCode)
	}

	switch code[0] {
	case 'M':
		if idx == 13 {
			return Period{}, 0, fmt.Errorf("%q, %w", code, ErrAnnualAverage)
		}
		if idx < 1 || idx > 12 {
			return Period{}, 0, fmt.Errorf("%q, %w", code, ErrUnknownPeriodCode)
		}
		return Period{Year: year, Index: idx}, Monthly, nil
	case 'Q':
		if idx < 1 || idx > 4 {
			return Period{}, 0, fmt.Errorf("%q, %w", code, ErrUnknownPeriodCode)
		}
		return Period{Year: year, Index: idx}, Quarterly, nil
	}
	return Period{}, 0, fmt.Errorf("%q, %w", code, ErrUnknownPeriodCode)
}

// Next returns the period immediately following p at the given frequency.
func (p Period) Next(freq Frequency) Period {
	if p.Index >= int(freq) {
		return Period{Year: p.Year + 1, Index: 1}
	}
	return Period{Year: p.Year, Index: p.Index + 1}
}

// Add steps p forward by n periods at the given frequency.
func (p Period) Add(n int, freq Frequency) Period {
	total := (p.Index - 1) + n
	return Period{
		Year:  p.Year + total/int(freq),
		Index: total%int(freq) + 1,
	}
}

// Before reports whether p is chronologically before o. Both periods must be
// at the same frequency for the comparison to be meaningful.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Index < o.Index
}

// Format renders the period as a BLS-style label, e.g. "1997M04" or "2001Q2".
func (p Period) Format(freq Frequency) string {
	if freq == Quarterly {
		return fmt.Sprintf("%dQ%d", p.Year, p.Index)
	}
	return fmt.Sprintf("%dM%02d", p.Year, p.Index)
}
