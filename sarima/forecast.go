package sarima

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/rellumm/CPI-Time-Series/timeseries"
)

var (
	ErrInvalidHorizon = errors.New("forecast horizon must be positive")
	ErrInvalidLevel   = errors.New("confidence level must be in (0, 1)")
)

// Interval holds lower and upper forecast bounds at one confidence level.
type Interval struct {
	Level float64   `json:"level"`
	Lower []float64 `json:"lower"`
	Upper []float64 `json:"upper"`
}

// Forecast is the result of projecting a fitted model h periods ahead.
type Forecast struct {
	Model     *Model              `json:"-"`
	Periods   []timeseries.Period `json:"periods"`
	Point     []float64           `json:"point"`
	Intervals []Interval          `json:"intervals"`
}

type ForecastOptions struct {
	// Levels are the confidence levels for interval bounds.
	Levels []float64
	// LogScale back-transforms point and interval forecasts with exp,
	// for models fit on a log-transformed series. The resulting
	// intervals are asymmetric around the point forecast.
	LogScale bool
}

func NewDefaultForecastOptions() *ForecastOptions {
	return &ForecastOptions{
		Levels: []float64{0.80, 0.95},
	}
}

// Forecast produces h-step-ahead point forecasts with interval bounds using
// the model's recursive forecast equations. Future residuals are taken as
// zero and the forecasts are integrated back through the seasonal and
// non-seasonal differences.
func (m *Model) Forecast(h int, opt *ForecastOptions) (*Forecast, error) {
	if h <= 0 {
		return nil, fmt.Errorf("h=%d, %w", h, ErrInvalidHorizon)
	}
	if opt == nil {
		opt = NewDefaultForecastOptions()
	}
	for _, level := range opt.Levels {
		if level <= 0 || level >= 1 {
			return nil, fmt.Errorf("level=%g, %w", level, ErrInvalidLevel)
		}
	}

	spec := m.Spec
	n := len(m.diffed)

	extY := make([]float64, n+h)
	copy(extY, m.diffed)
	extResid := make([]float64, n+h)
	copy(extResid, m.residuals)

	for step := 0; step < h; step++ {
		t := n + step
		pred := m.mu
		for i := 0; i < spec.P && t-i-1 >= 0; i++ {
			pred += m.ar[i] * (extY[t-i-1] - m.mu)
		}
		for i := 0; i < spec.SP; i++ {
			if lag := (i + 1) * spec.Period; t-lag >= 0 {
				pred += m.sar[i] * (extY[t-lag] - m.mu)
			}
		}
		// future residuals are zero, so only lags reaching into the
		// observed window contribute
		for i := 0; i < spec.Q && t-i-1 >= 0 && t-i-1 < n; i++ {
			pred += m.ma[i] * extResid[t-i-1]
		}
		for i := 0; i < spec.SQ; i++ {
			if lag := (i + 1) * spec.Period; t-lag >= 0 && t-lag < n {
				pred += m.sma[i] * extResid[t-lag]
			}
		}
		extY[t] = pred
	}

	point := make([]float64, h)
	copy(point, extY[n:])
	point = m.integrate(point)

	// forecast error variance at horizon h is sigma2 * sum of the first h
	// squared psi weights
	psi := m.psiWeights(h)
	se := make([]float64, h)
	sumSq := 0.0
	for step := 0; step < h; step++ {
		sumSq += psi[step] * psi[step]
		se[step] = math.Sqrt(m.Sigma2 * sumSq)
	}

	stdNormal := distuv.Normal{Mu: 0, Sigma: 1}
	intervals := make([]Interval, 0, len(opt.Levels))
	for _, level := range opt.Levels {
		z := stdNormal.Quantile((1 + level) / 2)
		lower := make([]float64, h)
		upper := make([]float64, h)
		for step := 0; step < h; step++ {
			lower[step] = point[step] - z*se[step]
			upper[step] = point[step] + z*se[step]
		}
		intervals = append(intervals, Interval{Level: level, Lower: lower, Upper: upper})
	}

	if opt.LogScale {
		for i := range point {
			point[i] = math.Exp(point[i])
		}
		for _, iv := range intervals {
			for i := range iv.Lower {
				iv.Lower[i] = math.Exp(iv.Lower[i])
				iv.Upper[i] = math.Exp(iv.Upper[i])
			}
		}
	}

	end := m.training.End()
	periods := make([]timeseries.Period, h)
	for i := 0; i < h; i++ {
		periods[i] = end.Add(i+1, m.training.Freq())
	}

	return &Forecast{
		Model:     m,
		Periods:   periods,
		Point:     point,
		Intervals: intervals,
	}, nil
}

// polyMul multiplies two lag polynomials given as coefficient slices.
func polyMul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}

// psiWeights expands the fitted model, differencing factors included, into
// the first h weights of its MA(infinity) representation. The recursion
// solves phi(B) psi(B) = theta(B) term by term.
func (m *Model) psiWeights(h int) []float64 {
	spec := m.Spec

	arPoly := []float64{1}
	if spec.P > 0 {
		p := make([]float64, spec.P+1)
		p[0] = 1
		for i, v := range m.ar {
			p[i+1] = -v
		}
		arPoly = polyMul(arPoly, p)
	}
	if spec.SP > 0 {
		p := make([]float64, spec.SP*spec.Period+1)
		p[0] = 1
		for i, v := range m.sar {
			p[(i+1)*spec.Period] = -v
		}
		arPoly = polyMul(arPoly, p)
	}
	for i := 0; i < spec.D; i++ {
		arPoly = polyMul(arPoly, []float64{1, -1})
	}
	for i := 0; i < spec.SD; i++ {
		p := make([]float64, spec.Period+1)
		p[0] = 1
		p[spec.Period] = -1
		arPoly = polyMul(arPoly, p)
	}

	maPoly := []float64{1}
	if spec.Q > 0 {
		p := make([]float64, spec.Q+1)
		p[0] = 1
		copy(p[1:], m.ma)
		maPoly = polyMul(maPoly, p)
	}
	if spec.SQ > 0 {
		p := make([]float64, spec.SQ*spec.Period+1)
		p[0] = 1
		for i, v := range m.sma {
			p[(i+1)*spec.Period] = v
		}
		maPoly = polyMul(maPoly, p)
	}

	psi := make([]float64, h)
	if h == 0 {
		return psi
	}
	psi[0] = 1
	for j := 1; j < h; j++ {
		v := 0.0
		if j < len(maPoly) {
			v = maPoly[j]
		}
		for i := 1; i < len(arPoly) && i <= j; i++ {
			v -= arPoly[i] * psi[j-i]
		}
		psi[j] = v
	}
	return psi
}

// integrate undoes the differencing applied during fitting. Fit applies the
// non-seasonal differences first and the seasonal ones second, so
// integration reverses that: seasonal first, then non-seasonal. Every undo
// pass anchors on the tail of its own intermediate differenced series.
func (m *Model) integrate(forecasts []float64) []float64 {
	spec := m.Spec

	result := make([]float64, len(forecasts))
	copy(result, forecasts)

	// nonSeasonal[k] is the training series after k non-seasonal differences
	nonSeasonal := make([][]float64, spec.D+1)
	nonSeasonal[0] = m.training.Values()
	for k := 1; k <= spec.D; k++ {
		prev := nonSeasonal[k-1]
		next := make([]float64, len(prev)-1)
		for j := 1; j < len(prev); j++ {
			next[j-1] = prev[j] - prev[j-1]
		}
		nonSeasonal[k] = next
	}

	// seasonal[k] applies k seasonal differences on top of the fully
	// non-seasonally differenced series
	seasonal := make([][]float64, spec.SD+1)
	seasonal[0] = nonSeasonal[spec.D]
	for k := 1; k <= spec.SD; k++ {
		prev := seasonal[k-1]
		next := make([]float64, len(prev)-spec.Period)
		for j := spec.Period; j < len(prev); j++ {
			next[j-spec.Period] = prev[j] - prev[j-spec.Period]
		}
		seasonal[k] = next
	}

	for k := spec.SD; k >= 1; k-- {
		anchor := seasonal[k-1]
		for j := 0; j < len(result); j++ {
			if j < spec.Period {
				result[j] += anchor[len(anchor)-spec.Period+j]
			} else {
				result[j] += result[j-spec.Period]
			}
		}
	}

	for k := spec.D; k >= 1; k-- {
		anchor := nonSeasonal[k-1]
		result[0] += anchor[len(anchor)-1]
		for j := 1; j < len(result); j++ {
			result[j] += result[j-1]
		}
	}

	return result
}
