package timeseries

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	ErrMissingHeader    = errors.New("missing header row")
	ErrMissingColumn    = errors.New("required column not found in header")
	ErrMalformedRow     = errors.New("malformed data row")
	ErrNoSeriesRows     = errors.New("no rows match the requested series id")
	ErrDuplicatePeriod  = errors.New("duplicate period for series")
	ErrNonChronological = errors.New("series periods are not chronological")
	ErrSeriesGap        = errors.New("gap between consecutive periods")
	ErrMixedFrequency   = errors.New("series mixes monthly and quarterly periods")
)

// LoadSeries reads a BLS-style flat file and extracts the series identified
// by seriesID as a TimeSeries. The file is a whitespace- or tab-delimited
// table with a header row naming at least the series_id, year, period, and
// value columns. Annual-average rows (period M13) are skipped. Rows must
// already be in chronological order with no duplicates or gaps.
func LoadSeries(r io.Reader, seriesID string) (*TimeSeries, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, ErrMissingHeader
	}

	idIdx, yearIdx, periodIdx, valueIdx := -1, -1, -1, -1
	for i, name := range strings.Fields(scanner.Text()) {
		switch strings.ToLower(name) {
		case "series_id":
			idIdx = i
		case "year":
			yearIdx = i
		case "period":
			periodIdx = i
		case "value":
			valueIdx = i
		}
	}
	if idIdx < 0 || yearIdx < 0 || periodIdx < 0 || valueIdx < 0 {
		return nil, fmt.Errorf("need series_id, year, period, and value, %w", ErrMissingColumn)
	}

	maxIdx := max(max(idIdx, yearIdx), max(periodIdx, valueIdx))

	var (
		values []float64
		start  Period
		freq   Frequency
		last   Period
		lineNo = 1
	)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) <= maxIdx {
			return nil, fmt.Errorf("line %d has %d fields, %w", lineNo, len(fields), ErrMalformedRow)
		}
		if strings.TrimSpace(fields[idIdx]) != seriesID {
			continue
		}

		year, err := strconv.Atoi(fields[yearIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d year %q, %w", lineNo, fields[yearIdx], ErrMalformedRow)
		}

		period, rowFreq, err := ParsePeriod(year, fields[periodIdx])
		if errors.Is(err, ErrAnnualAverage) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("line %d, %w", lineNo, err)
		}

		value, err := strconv.ParseFloat(fields[valueIdx], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d value %q, %w", lineNo, fields[valueIdx], ErrMalformedRow)
		}

		if len(values) == 0 {
			start = period
			freq = rowFreq
		} else {
			if rowFreq != freq {
				return nil, fmt.Errorf("series %s at line %d, %w", seriesID, lineNo, ErrMixedFrequency)
			}
			switch {
			case period == last:
				return nil, fmt.Errorf("series %s at %s, %w", seriesID, period.Format(freq), ErrDuplicatePeriod)
			case period.Before(last):
				return nil, fmt.Errorf("series %s at %s, %w", seriesID, period.Format(freq), ErrNonChronological)
			case period != last.Next(freq):
				return nil, fmt.Errorf("series %s between %s and %s, %w",
					seriesID, last.Format(freq), period.Format(freq), ErrSeriesGap)
			}
		}
		last = period
		values = append(values, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("series %s, %w", seriesID, ErrNoSeriesRows)
	}
	return New(start, freq, values)
}

// LoadSeriesFile opens path and delegates to LoadSeries.
func LoadSeriesFile(path, seriesID string) (*TimeSeries, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadSeries(file, seriesID)
}
