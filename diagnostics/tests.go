package diagnostics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultSignificance is the significance threshold shared by the residual
// tests, corresponding to a 95% confidence requirement.
const DefaultSignificance = 0.05

// TestResult reports a single hypothesis test on residuals. Passed is true
// when the null hypothesis survives at the stated significance level; for
// every test here the null is the desirable outcome (independent, normal,
// aperiodic residuals).
type TestResult struct {
	Name      string  `json:"name"`
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Level     float64 `json:"level"`
	Passed    bool    `json:"passed"`
}

// LjungBox runs the Ljung-Box portmanteau test for residual autocorrelation
// up to the given lag. fitdf is the number of coefficients estimated by the
// model whose residuals are being tested; it reduces the degrees of freedom.
func LjungBox(resid []float64, lags, fitdf int) (TestResult, error) {
	n := len(resid)
	if n < 3 {
		return TestResult{}, fmt.Errorf("n=%d, %w", n, ErrTooFewObservations)
	}
	if lags < 1 || lags >= n {
		return TestResult{}, fmt.Errorf("lags=%d with n=%d, %w", lags, n, ErrInvalidLag)
	}

	acf := ACF(resid, lags)
	if acf == nil {
		return TestResult{}, ErrZeroVariance
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += acf[k] * acf[k] / float64(n-k)
	}
	q *= float64(n) * float64(n+2)

	dof := lags - fitdf
	if dof < 1 {
		dof = 1
	}

	pValue := 1 - distuv.ChiSquared{K: float64(dof)}.CDF(q)
	return TestResult{
		Name:      "Ljung-Box",
		Statistic: q,
		PValue:    pValue,
		Level:     DefaultSignificance,
		Passed:    pValue > DefaultSignificance,
	}, nil
}

// JarqueBera tests residual normality from the sample skewness and excess
// kurtosis. The statistic is asymptotically chi-squared with 2 degrees of
// freedom under normality.
func JarqueBera(resid []float64) (TestResult, error) {
	n := len(resid)
	if n < 4 {
		return TestResult{}, fmt.Errorf("n=%d, %w", n, ErrTooFewObservations)
	}

	skew := stat.Skew(resid, nil)
	exKurt := stat.ExKurtosis(resid, nil)
	if math.IsNaN(skew) || math.IsNaN(exKurt) {
		return TestResult{}, ErrZeroVariance
	}

	jb := float64(n) / 6 * (skew*skew + exKurt*exKurt/4)
	pValue := 1 - distuv.ChiSquared{K: 2}.CDF(jb)
	return TestResult{
		Name:      "Jarque-Bera",
		Statistic: jb,
		PValue:    pValue,
		Level:     DefaultSignificance,
		Passed:    pValue > DefaultSignificance,
	}, nil
}

// FisherG tests for a hidden periodicity in the residual spectrum. The g
// statistic is the largest periodogram ordinate relative to the total; the
// p-value is Fisher's exact tail probability. A small p-value means the
// residuals still carry a periodic component the model failed to absorb.
func FisherG(resid []float64) (TestResult, error) {
	n := len(resid)
	if n < 8 {
		return TestResult{}, fmt.Errorf("n=%d, %w", n, ErrTooFewObservations)
	}

	mean := stat.Mean(resid, nil)
	centered := make([]float64, n)
	for i, v := range resid {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, centered)

	// Fourier frequencies strictly between zero and Nyquist
	m := (n - 1) / 2
	if m < 2 {
		return TestResult{}, fmt.Errorf("n=%d, %w", n, ErrTooFewObservations)
	}

	ordinates := make([]float64, m)
	total := 0.0
	maxOrd := 0.0
	for j := 1; j <= m; j++ {
		power := real(coeff[j])*real(coeff[j]) + imag(coeff[j])*imag(coeff[j])
		power /= float64(n)
		ordinates[j-1] = power
		total += power
		if power > maxOrd {
			maxOrd = power
		}
	}
	if total == 0 {
		return TestResult{}, ErrZeroVariance
	}

	g := maxOrd / total
	pValue := fisherGPValue(g, m)
	return TestResult{
		Name:      "Fisher's g",
		Statistic: g,
		PValue:    pValue,
		Level:     DefaultSignificance,
		Passed:    pValue > DefaultSignificance,
	}, nil
}

// fisherGPValue evaluates the exact tail probability
// P(G > g) = sum_{j=1}^{floor(1/g)} (-1)^{j-1} C(m,j) (1-jg)^{m-1}
// using log-gamma terms to stay finite for large m.
func fisherGPValue(g float64, m int) float64 {
	if g <= 0 {
		return 1
	}
	if g >= 1 {
		return 0
	}

	limit := int(math.Floor(1 / g))
	if limit > m {
		limit = m
	}

	lgm, _ := math.Lgamma(float64(m) + 1)
	p := 0.0
	for j := 1; j <= limit; j++ {
		base := 1 - float64(j)*g
		if base <= 0 {
			break
		}
		lgj, _ := math.Lgamma(float64(j) + 1)
		lgmj, _ := math.Lgamma(float64(m-j) + 1)
		term := math.Exp(lgm - lgj - lgmj + float64(m-1)*math.Log(base))
		if j%2 == 1 {
			p += term
		} else {
			p -= term
		}
	}

	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
