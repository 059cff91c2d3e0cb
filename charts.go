package cpiseries

import (
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/rellumm/CPI-Time-Series/diagnostics"
	"github.com/rellumm/CPI-Time-Series/sarima"
	"github.com/rellumm/CPI-Time-Series/timeseries"
)

// LineTimeSeries generates an echart line chart of a single series indexed
// by period labels.
func LineTimeSeries(title string, ts *timeseries.TimeSeries) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	labels := periodLabels(ts.Periods(), ts.Freq())
	lineData := make([]opts.LineData, 0, ts.Len())
	for _, v := range ts.Values() {
		lineData = append(lineData, opts.LineData{Value: v})
	}

	line.SetXAxis(labels).AddSeries(title, lineData)
	return line
}

// CorrelogramBar generates an echart bar chart of ACF or PACF values with
// the approximate 95% confidence band drawn as mark lines.
func CorrelogramBar(title string, c *diagnostics.Correlogram) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	barData := make([]opts.BarData, 0, len(c.Values))
	for _, v := range c.Values {
		barData = append(barData, opts.BarData{Value: v})
	}

	bar.SetXAxis(c.Lags).AddSeries(title, barData)
	bar.SetSeriesOptions(
		charts.WithMarkLineNameYAxisItemOpts(
			opts.MarkLineNameYAxisItem{Name: "+95%", YAxis: c.Band},
			opts.MarkLineNameYAxisItem{Name: "-95%", YAxis: -c.Band},
		),
	)
	return bar
}

// LineForecast generates an echart line chart showing the training series
// followed by the point forecast and the bounds of the widest interval,
// producing a forecast fan past the end of the observed data.
func LineForecast(training *timeseries.TimeSeries, fc *sarima.Forecast) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Forecast",
			},
		),
	)

	freq := training.Freq()
	labels := periodLabels(training.Periods(), freq)
	labels = append(labels, periodLabels(fc.Periods, freq)...)

	lineDataActual := make([]opts.LineData, 0, training.Len())
	for _, v := range training.Values() {
		lineDataActual = append(lineDataActual, opts.LineData{Value: v})
	}

	// pad the forecast series so it starts where the actuals end
	pad := make([]opts.LineData, training.Len())
	for i := range pad {
		pad[i] = opts.LineData{Value: "-"}
	}

	lineDataForecast := append([]opts.LineData{}, pad...)
	for _, v := range fc.Point {
		lineDataForecast = append(lineDataForecast, opts.LineData{Value: v})
	}

	line.SetXAxis(labels).
		AddSeries("Actual", lineDataActual).
		AddSeries("Forecast", lineDataForecast)

	if len(fc.Intervals) > 0 {
		widest := fc.Intervals[0]
		for _, iv := range fc.Intervals[1:] {
			if iv.Level > widest.Level {
				widest = iv
			}
		}

		lineDataUpper := append([]opts.LineData{}, pad...)
		lineDataLower := append([]opts.LineData{}, pad...)
		for i := range widest.Upper {
			lineDataUpper = append(lineDataUpper, opts.LineData{Value: widest.Upper[i]})
			lineDataLower = append(lineDataLower, opts.LineData{Value: widest.Lower[i]})
		}
		line.AddSeries("Upper", lineDataUpper).
			AddSeries("Lower", lineDataLower)
	}

	return line
}

// WritePage renders the given charts into a single HTML page at path.
func WritePage(path string, cs ...components.Charter) error {
	page := components.NewPage()
	page.AddCharts(cs...)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return page.Render(file)
}

func periodLabels(periods []timeseries.Period, freq timeseries.Frequency) []string {
	labels := make([]string, 0, len(periods))
	for _, p := range periods {
		labels = append(labels, p.Format(freq))
	}
	return labels
}
