// cpireport fits seasonal ARIMA candidate models to one series from a
// BLS-style flat file and emits a comparison table, residual diagnostics,
// forecasts, and charts.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cpiseries "github.com/rellumm/CPI-Time-Series"
	"github.com/rellumm/CPI-Time-Series/diagnostics"
	"github.com/rellumm/CPI-Time-Series/sarima"
	"github.com/rellumm/CPI-Time-Series/timeseries"
)

var (
	dataPath  string
	seriesID  string
	quarterly bool
	logScale  bool
	orders    []string
	auto      bool
	horizon   int
	holdOut   int
	htmlPath  string
	jsonPath  string
	verbose   bool

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cpireport",
	Short: "Seasonal ARIMA analysis of a single economic time series",
	Long: `cpireport loads one series from a BLS-style flat file, optionally
resamples it to quarterly averages and moves to the log scale, fits the
requested seasonal ARIMA candidates (or searches automatically), compares
them by AICc, runs residual diagnostics on the winner, and forecasts ahead.

Example usage:
  cpireport --data cu.data.1.AllItems --series CUUR0000SA0 \
    --order 1,1,0,0,1,1,12 --order 0,1,1,0,1,1,12 --horizon 12 \
    --html report.html --json report.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := slog.LevelInfo
		if viper.GetBool("verbose") {
			logLevel = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		return nil
	},
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&dataPath, "data", "", "path to the flat data file")
	rootCmd.Flags().StringVar(&seriesID, "series", "", "series identifier to extract")
	rootCmd.Flags().BoolVar(&quarterly, "quarterly", false, "resample monthly observations to quarterly averages")
	rootCmd.Flags().BoolVar(&logScale, "log", false, "model the natural log of the series")
	rootCmd.Flags().StringArrayVar(&orders, "order", nil, "candidate order p,d,q,P,D,Q,s (repeatable)")
	rootCmd.Flags().BoolVar(&auto, "auto", false, "search the bounded order grid automatically")
	rootCmd.Flags().IntVar(&horizon, "horizon", 12, "forecast horizon in periods")
	rootCmd.Flags().IntVar(&holdOut, "holdout", 0, "score the best spec on this many held-out periods")
	rootCmd.Flags().StringVar(&htmlPath, "html", "", "write charts to this HTML file")
	rootCmd.Flags().StringVar(&jsonPath, "json", "", "write the JSON summary to this file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("data", rootCmd.Flags().Lookup("data"))
	_ = viper.BindPFlag("series", rootCmd.Flags().Lookup("series"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.SetEnvPrefix("cpireport")
	viper.AutomaticEnv()
}

func run(cmd *cobra.Command, args []string) error {
	// viper resolves flags first, then CPIREPORT_* environment variables
	dataPath := viper.GetString("data")
	seriesID := viper.GetString("series")
	if dataPath == "" || seriesID == "" {
		return errors.New("--data and --series are required (or CPIREPORT_DATA and CPIREPORT_SERIES)")
	}

	series, err := timeseries.LoadSeriesFile(dataPath, seriesID)
	if err != nil {
		return fmt.Errorf("loading series: %w", err)
	}
	logger.Info("loaded series",
		"series", seriesID,
		"observations", series.Len(),
		"start", series.Start().Format(series.Freq()),
		"end", series.End().Format(series.Freq()),
	)

	if quarterly {
		if series, err = series.ToQuarterly(); err != nil {
			return fmt.Errorf("resampling: %w", err)
		}
		logger.Debug("resampled to quarterly", "observations", series.Len())
	}
	if logScale {
		if series, err = series.Log(); err != nil {
			return fmt.Errorf("log transform: %w", err)
		}
	}

	opt := cpiseries.NewDefaultOptions()
	opt.ForecastOptions.LogScale = logScale

	analysis, err := cpiseries.New(series, opt)
	if err != nil {
		return err
	}

	specs, err := parseSpecs(orders)
	if err != nil {
		return err
	}
	for _, spec := range specs {
		m, err := analysis.Fit(spec)
		if err != nil {
			// a model that will not converge prompts the operator to try
			// different orders; the remaining candidates still run
			logger.Warn("candidate rejected", "spec", spec.String(), "err", err)
			continue
		}
		logger.Info("fitted candidate", "spec", spec.String(), "aicc", m.AICc)
	}
	if auto {
		bounds := sarima.NewDefaultBounds(int(series.Freq()))
		m, err := analysis.AutoFit(bounds)
		if err != nil {
			return fmt.Errorf("automatic search: %w", err)
		}
		logger.Info("automatic search selected", "spec", m.Spec.String(), "aicc", m.AICc)
	}

	best, err := analysis.Best()
	if err != nil {
		return err
	}

	fmt.Printf("\nBest model: %s\n\n", best.Spec)
	if err := cpiseries.CoefficientTable(os.Stdout, best); err != nil {
		return err
	}

	fmt.Println("\nModel comparison:")
	if err := cpiseries.ComparisonTable(os.Stdout, analysis.Ranking()); err != nil {
		return err
	}

	tests, err := analysis.Diagnose(best)
	if err != nil {
		return fmt.Errorf("diagnostics: %w", err)
	}
	fmt.Println("\nResidual diagnostics:")
	if err := cpiseries.DiagnosticsSummary(os.Stdout, tests); err != nil {
		return err
	}

	forecast, err := analysis.Forecast(horizon)
	if err != nil {
		return fmt.Errorf("forecasting: %w", err)
	}

	summary := &cpiseries.Summary{
		SeriesID:    seriesID,
		Best:        best,
		Ranking:     analysis.Ranking(),
		Diagnostics: tests,
		Forecast:    forecast,
	}

	if holdOut > 0 {
		scores, err := analysis.HoldOut(best.Spec, holdOut)
		if err != nil {
			return fmt.Errorf("hold-out evaluation: %w", err)
		}
		summary.HoldOut = scores
		fmt.Printf("\nHold-out (%d periods): RMSE=%.4f MAPE=%.4f\n", holdOut, scores.RMSE, scores.MAPE)
	}

	if jsonPath != "" {
		file, err := os.Create(jsonPath)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := cpiseries.WriteJSON(file, summary); err != nil {
			return fmt.Errorf("writing JSON summary: %w", err)
		}
		logger.Info("wrote JSON summary", "path", jsonPath)
	}

	if htmlPath != "" {
		if err := writeCharts(htmlPath, analysis, best, forecast); err != nil {
			return fmt.Errorf("writing charts: %w", err)
		}
		logger.Info("wrote charts", "path", htmlPath)
	}
	return nil
}

func writeCharts(path string, analysis *cpiseries.Analysis, best *sarima.Model, forecast *sarima.Forecast) error {
	resid := best.Residuals()
	maxLag := 24
	if maxLag >= len(resid) {
		maxLag = len(resid) - 1
	}

	cs := []components.Charter{
		cpiseries.LineTimeSeries("Series", analysis.Series()),
		cpiseries.LineForecast(analysis.Series(), forecast),
	}

	if acf, err := diagnosticsACF(resid, maxLag); err == nil {
		cs = append(cs, acf...)
	}
	return cpiseries.WritePage(path, cs...)
}

func diagnosticsACF(resid []float64, maxLag int) ([]components.Charter, error) {
	acf, err := diagnostics.NewACFCorrelogram(resid, maxLag)
	if err != nil {
		return nil, err
	}
	pacf, err := diagnostics.NewPACFCorrelogram(resid, maxLag)
	if err != nil {
		return nil, err
	}
	return []components.Charter{
		cpiseries.CorrelogramBar("Residual ACF", acf),
		cpiseries.CorrelogramBar("Residual PACF", pacf),
	}, nil
}

func parseSpecs(raw []string) ([]sarima.Spec, error) {
	specs := make([]sarima.Spec, 0, len(raw))
	for _, s := range raw {
		parts := strings.Split(s, ",")
		if len(parts) != 7 {
			return nil, fmt.Errorf("order %q: want p,d,q,P,D,Q,s", s)
		}
		vals := make([]int, 7)
		for i, part := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("order %q: %w", s, err)
			}
			vals[i] = v
		}
		spec := sarima.Spec{
			P: vals[0], D: vals[1], Q: vals[2],
			SP: vals[3], SD: vals[4], SQ: vals[5],
			Period: vals[6],
		}
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
