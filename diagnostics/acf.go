// Package diagnostics provides residual diagnostics for fitted time series
// models: sample autocorrelations, portmanteau and normality tests, and a
// spectral periodicity test. The functions only report; they never alter
// the model under inspection.
package diagnostics

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrTooFewObservations = errors.New("too few observations")
	ErrZeroVariance       = errors.New("series has zero variance")
	ErrInvalidLag         = errors.New("maximum lag must be positive and shorter than the series")
)

// ACF computes the sample autocorrelation for lags 0..maxLag. Returns nil
// when the series is degenerate (zero variance or maxLag out of range).
func ACF(y []float64, maxLag int) []float64 {
	n := len(y)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range y {
		diff := v - mean
		variance += diff * diff
	}
	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (y[i] - mean) * (y[i-k] - mean)
		}
		acf[k] = sum / variance
	}
	return acf
}

// PACF computes the partial autocorrelation for lags 0..maxLag via the
// Durbin-Levinson recursion. pacf[0] is 1 by convention.
func PACF(y []float64, maxLag int) []float64 {
	n := len(y)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 1 {
		return nil
	}

	acf := ACF(y, maxLag)
	if acf == nil {
		return nil
	}

	pacf := make([]float64, maxLag+1)
	pacf[0] = 1.0

	phi := make([][]float64, maxLag+1)
	for i := range phi {
		phi[i] = make([]float64, maxLag+1)
	}

	phi[1][1] = acf[1]
	pacf[1] = acf[1]

	for k := 2; k <= maxLag; k++ {
		num := acf[k]
		den := 1.0
		for j := 1; j < k; j++ {
			num -= phi[k-1][j] * acf[k-j]
			den -= phi[k-1][j] * acf[j]
		}
		if den == 0 {
			pacf[k] = 0
			continue
		}

		phi[k][k] = num / den
		pacf[k] = phi[k][k]
		for j := 1; j < k; j++ {
			phi[k][j] = phi[k-1][j] - phi[k][k]*phi[k-1][k-j]
		}
	}
	return pacf
}

// Correlogram pairs autocorrelation values with the approximate 95%
// confidence band for plotting and lag screening.
type Correlogram struct {
	Lags   []int
	Values []float64
	// Band is the half-width of the approximate 95% confidence band,
	// 1.96/sqrt(n).
	Band float64
}

// NewACFCorrelogram computes the sample ACF correlogram up to maxLag.
func NewACFCorrelogram(y []float64, maxLag int) (*Correlogram, error) {
	return newCorrelogram(y, maxLag, ACF)
}

// NewPACFCorrelogram computes the sample PACF correlogram up to maxLag.
func NewPACFCorrelogram(y []float64, maxLag int) (*Correlogram, error) {
	return newCorrelogram(y, maxLag, PACF)
}

func newCorrelogram(y []float64, maxLag int, fn func([]float64, int) []float64) (*Correlogram, error) {
	if maxLag < 1 || maxLag >= len(y) {
		return nil, fmt.Errorf("maxLag=%d with %d observations, %w", maxLag, len(y), ErrInvalidLag)
	}
	values := fn(y, maxLag)
	if values == nil {
		return nil, ErrZeroVariance
	}

	lags := make([]int, len(values))
	for i := range lags {
		lags[i] = i
	}
	return &Correlogram{
		Lags:   lags,
		Values: values,
		Band:   1.96 / math.Sqrt(float64(len(y))),
	}, nil
}

// SignificantLags returns the lags beyond zero whose values exceed the
// confidence band.
func (c *Correlogram) SignificantLags() []int {
	var significant []int
	for i := 1; i < len(c.Values); i++ {
		if math.Abs(c.Values[i]) > c.Band {
			significant = append(significant, c.Lags[i])
		}
	}
	return significant
}
