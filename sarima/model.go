package sarima

import (
	"fmt"

	"github.com/rellumm/CPI-Time-Series/timeseries"
)

// Coefficient is a single estimated term with its approximate standard error.
type Coefficient struct {
	Estimate float64 `json:"estimate"`
	StdErr   float64 `json:"std_err"`
}

// Model is a fitted seasonal ARIMA model. It is created once by Fit and
// never mutated afterwards.
type Model struct {
	Spec  Spec                   `json:"spec"`
	Coeff map[string]Coefficient `json:"coefficients"`

	LogLik float64 `json:"log_lik"`
	AIC    float64 `json:"aic"`
	AICc   float64 `json:"aicc"`
	BIC    float64 `json:"bic"`
	Sigma2 float64 `json:"sigma2"`

	// NObs is the number of effective observations after differencing.
	NObs int `json:"n_obs"`

	// coefficient values in recursion order
	mu  float64
	ar  []float64
	ma  []float64
	sar []float64
	sma []float64

	residuals []float64
	diffed    []float64
	training  *timeseries.TimeSeries
}

// Residuals returns a copy of the one-step residuals on the differenced
// scale. Its length equals NObs.
func (m *Model) Residuals() []float64 {
	dst := make([]float64, len(m.residuals))
	copy(dst, m.residuals)
	return dst
}

// Training returns the series the model was fit on.
func (m *Model) Training() *timeseries.TimeSeries {
	return m.training
}

// CoeffNames returns the coefficient labels in presentation order.
func (m *Model) CoeffNames() []string {
	return m.Spec.coeffNames()
}

// coeffNames lists the coefficient labels in recursion order: the mean,
// then AR, MA, seasonal AR, and seasonal MA terms.
func (s Spec) coeffNames() []string {
	names := make([]string, 0, s.NumCoeff())
	names = append(names, "mean")
	for i := 1; i <= s.P; i++ {
		names = append(names, fmt.Sprintf("ar%d", i))
	}
	for i := 1; i <= s.Q; i++ {
		names = append(names, fmt.Sprintf("ma%d", i))
	}
	for i := 1; i <= s.SP; i++ {
		names = append(names, fmt.Sprintf("sar%d", i))
	}
	for i := 1; i <= s.SQ; i++ {
		names = append(names, fmt.Sprintf("sma%d", i))
	}
	return names
}
