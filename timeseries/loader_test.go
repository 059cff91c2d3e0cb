package timeseries

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleData = `series_id	year	period	value
CUUR0000SA0	1997	M01	159.1
CUUR0000SA0	1997	M02	159.6
CUUR0000SA0	1997	M03	160.0
CUUR0000SA0	1997	M13	159.6
CUUR0000SEHA	1997	M01	172.0
CUUR0000SA0	1997	M04	160.2
`

func TestLoadSeries(t *testing.T) {
	ts, err := LoadSeries(strings.NewReader(sampleData), "CUUR0000SA0")
	require.NoError(t, err)

	assert.Equal(t, 4, ts.Len())
	assert.Equal(t, Period{Year: 1997, Index: 1}, ts.Start())
	assert.Equal(t, Monthly, ts.Freq())
	assert.Equal(t, []float64{159.1, 159.6, 160.0, 160.2}, ts.Values())
}

func TestLoadSeriesErrors(t *testing.T) {
	testData := map[string]struct {
		data     string
		seriesID string
		err      error
	}{
		"no matching rows": {
			data:     sampleData,
			seriesID: "CUUR0000XXX",
			err:      ErrNoSeriesRows,
		},
		"missing header": {
			data:     "",
			seriesID: "CUUR0000SA0",
			err:      ErrMissingHeader,
		},
		"missing column": {
			data:     "series_id year value\n",
			seriesID: "CUUR0000SA0",
			err:      ErrMissingColumn,
		},
		"duplicate period": {
			data: `series_id year period value
A 1997 M01 1.0
A 1997 M01 2.0
`,
			seriesID: "A",
			err:      ErrDuplicatePeriod,
		},
		"non chronological": {
			data: `series_id year period value
A 1997 M02 1.0
A 1997 M01 2.0
`,
			seriesID: "A",
			err:      ErrNonChronological,
		},
		"gap": {
			data: `series_id year period value
A 1997 M01 1.0
A 1997 M03 2.0
`,
			seriesID: "A",
			err:      ErrSeriesGap,
		},
		"malformed value": {
			data: `series_id year period value
A 1997 M01 one
`,
			seriesID: "A",
			err:      ErrMalformedRow,
		},
		"malformed year": {
			data: `series_id year period value
A xx M01 1.0
`,
			seriesID: "A",
			err:      ErrMalformedRow,
		},
		"short row": {
			data: `series_id year period value
A 1997 M01
`,
			seriesID: "A",
			err:      ErrMalformedRow,
		},
		"mixed frequency": {
			data: `series_id year period value
A 1997 M01 1.0
A 1997 Q01 2.0
`,
			seriesID: "A",
			err:      ErrMixedFrequency,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSeries(strings.NewReader(td.data), td.seriesID)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestLoadSeriesSkipsAnnualAverage(t *testing.T) {
	data := `series_id year period value
A 1997 M11 1.0
A 1997 M12 2.0
A 1997 M13 1.5
A 1998 M01 3.0
`
	ts, err := LoadSeries(strings.NewReader(data), "A")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, 2.0, 3.0}, ts.Values())
	assert.Equal(t, Period{Year: 1998, Index: 1}, ts.End())
}
