// Package cpiseries ties together loading, transforming, fitting, and
// diagnosing seasonal ARIMA candidate models for a single economic time
// series, and renders comparison tables, diagnostics, and forecast charts.
package cpiseries

import (
	"errors"
	"fmt"

	"github.com/rellumm/CPI-Time-Series/diagnostics"
	"github.com/rellumm/CPI-Time-Series/sarima"
	"github.com/rellumm/CPI-Time-Series/timeseries"
)

var (
	ErrNoSeries = errors.New("no series to analyze")
	ErrNoModels = errors.New("no fitted models")
)

type Options struct {
	FitOptions      *sarima.Options
	ForecastOptions *sarima.ForecastOptions

	// LjungBoxLags is the maximum lag for the portmanteau test.
	LjungBoxLags int
}

func NewDefaultOptions() *Options {
	return &Options{
		FitOptions:      sarima.NewDefaultOptions(),
		ForecastOptions: sarima.NewDefaultForecastOptions(),
		LjungBoxLags:    10,
	}
}

// Analysis holds one series and the candidate models fit against it. Each
// fitted model is an immutable value appended to the caller-owned
// collection; nothing here is global state.
type Analysis struct {
	opt    *Options
	series *timeseries.TimeSeries
	models []*sarima.Model
}

func New(series *timeseries.TimeSeries, opt *Options) (*Analysis, error) {
	if series == nil {
		return nil, ErrNoSeries
	}
	if opt == nil {
		opt = NewDefaultOptions()
	}
	return &Analysis{
		opt:    opt,
		series: series.Copy(),
	}, nil
}

// Series returns the series under analysis.
func (a *Analysis) Series() *timeseries.TimeSeries {
	return a.series
}

// Fit estimates one candidate model and records it.
func (a *Analysis) Fit(spec sarima.Spec) (*sarima.Model, error) {
	m, err := sarima.Fit(a.series, spec, a.opt.FitOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to fit %s, %w", spec, err)
	}
	a.models = append(a.models, m)
	return m, nil
}

// AutoFit searches the bounded order grid, records the winning model, and
// returns it.
func (a *Analysis) AutoFit(bounds sarima.Bounds) (*sarima.Model, error) {
	m, err := sarima.AutoFit(a.series, bounds, a.opt.FitOptions)
	if err != nil {
		return nil, fmt.Errorf("automatic order search failed, %w", err)
	}
	a.models = append(a.models, m)
	return m, nil
}

// Models returns the candidate models in fit order.
func (a *Analysis) Models() []*sarima.Model {
	dst := make([]*sarima.Model, len(a.models))
	copy(dst, a.models)
	return dst
}

// Ranking tabulates the candidates sorted ascending by AICc.
func (a *Analysis) Ranking() []ModelRank {
	return Rank(a.models)
}

// Best returns the candidate with the lowest AICc.
func (a *Analysis) Best() (*sarima.Model, error) {
	if len(a.models) == 0 {
		return nil, ErrNoModels
	}
	best := a.models[0]
	for _, m := range a.models[1:] {
		if m.AICc < best.AICc {
			best = m
		}
	}
	return best, nil
}

// Diagnose runs the residual test battery against a fitted model:
// Ljung-Box for independence, Jarque-Bera for normality, and Fisher's g
// for leftover periodicity.
func (a *Analysis) Diagnose(m *sarima.Model) ([]diagnostics.TestResult, error) {
	resid := m.Residuals()
	fitdf := m.Spec.NumCoeff() - 1 // mean does not consume a portmanteau df

	lags := a.opt.LjungBoxLags
	if lags >= len(resid) {
		lags = len(resid) - 1
	}

	lb, err := diagnostics.LjungBox(resid, lags, fitdf)
	if err != nil {
		return nil, fmt.Errorf("portmanteau test, %w", err)
	}
	jb, err := diagnostics.JarqueBera(resid)
	if err != nil {
		return nil, fmt.Errorf("normality test, %w", err)
	}
	fg, err := diagnostics.FisherG(resid)
	if err != nil {
		return nil, fmt.Errorf("periodicity test, %w", err)
	}
	return []diagnostics.TestResult{lb, jb, fg}, nil
}

// Forecast projects the best candidate h periods ahead.
func (a *Analysis) Forecast(h int) (*sarima.Forecast, error) {
	best, err := a.Best()
	if err != nil {
		return nil, err
	}
	return best.Forecast(h, a.opt.ForecastOptions)
}

// HoldOut refits spec on the series truncated by h periods, forecasts the
// held-out span, and scores the forecast against the withheld observations.
func (a *Analysis) HoldOut(spec sarima.Spec, h int) (*Scores, error) {
	n := a.series.Len()
	if h <= 0 || h >= n {
		return nil, fmt.Errorf("h=%d with %d observations, %w", h, n, sarima.ErrInvalidHorizon)
	}

	train, err := a.series.Slice(0, n-h)
	if err != nil {
		return nil, err
	}
	m, err := sarima.Fit(train, spec, a.opt.FitOptions)
	if err != nil {
		return nil, fmt.Errorf("unable to fit %s on hold-out split, %w", spec, err)
	}

	// the withheld observations live on the analysis series' scale, so the
	// hold-out forecast must stay on that scale even when reports
	// back-transform
	fopt := a.opt.ForecastOptions
	if fopt != nil && fopt.LogScale {
		scoped := *fopt
		scoped.LogScale = false
		fopt = &scoped
	}
	fc, err := m.Forecast(h, fopt)
	if err != nil {
		return nil, err
	}

	actual := a.series.Values()[n-h:]
	return NewScores(fc.Point, actual)
}
