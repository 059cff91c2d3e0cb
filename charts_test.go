package cpiseries

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rellumm/CPI-Time-Series/diagnostics"
	"github.com/rellumm/CPI-Time-Series/sarima"
)

func TestWritePage(t *testing.T) {
	a, err := New(indexSeries(t, 60), nil)
	require.NoError(t, err)
	m, err := a.Fit(sarima.Spec{D: 1})
	require.NoError(t, err)
	fc, err := a.Forecast(12)
	require.NoError(t, err)

	acf, err := diagnostics.NewACFCorrelogram(m.Residuals(), 12)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.html")
	err = WritePage(path,
		LineTimeSeries("Series", a.Series()),
		LineForecast(a.Series(), fc),
		CorrelogramBar("Residual ACF", acf),
	)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, content)
	assert.Contains(t, string(content), "<html")
}
