package sarima

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/rellumm/CPI-Time-Series/diagnostics"
	"github.com/rellumm/CPI-Time-Series/timeseries"
)

var (
	ErrInvalidOrder   = errors.New("series is too short for the requested order")
	ErrNonConvergence = errors.New("optimizer did not converge within its iteration budget")
)

// coefficient magnitudes beyond this are penalized to keep the fit inside
// the stationary/invertible region
const coeffBound = 0.99

type Options struct {
	// MaxIterations caps the optimizer's major iterations.
	MaxIterations int
	// Tolerance is the absolute function convergence threshold on the
	// conditional sum of squares.
	Tolerance float64
}

func NewDefaultOptions() *Options {
	return &Options{
		MaxIterations: 2000,
		Tolerance:     1e-10,
	}
}

// Fit estimates a seasonal ARIMA model on ts. Differencing implied by the
// spec is applied internally, non-seasonal first and seasonal second, and
// the remaining coefficients are estimated by minimizing the conditional
// sum of squares with Nelder-Mead. Every successful fit carries coefficient
// standard errors, the Gaussian log-likelihood, and AIC/AICc/BIC.
func Fit(ts *timeseries.TimeSeries, spec Spec, opt *Options) (*Model, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	work := ts
	var err error
	if spec.D > 0 {
		if work, err = work.DiffN(1, spec.D); err != nil {
			return nil, fmt.Errorf("%s, %w", spec, ErrInvalidOrder)
		}
	}
	if spec.SD > 0 {
		if work, err = work.DiffN(spec.Period, spec.SD); err != nil {
			return nil, fmt.Errorf("%s, %w", spec, ErrInvalidOrder)
		}
	}

	y := work.Values()
	n := len(y)
	if n-spec.maxLag() < spec.NumParams()+2 {
		return nil, fmt.Errorf("%d effective observations for %s, %w", n, spec, ErrInvalidOrder)
	}

	css := &cssObjective{y: y, spec: spec, start: spec.maxLag()}

	params := initialParams(y, spec)
	if spec.NumCoeff() > 1 {
		problem := optimize.Problem{Func: css.penalized}
		settings := &optimize.Settings{
			MajorIterations: opt.MaxIterations,
			Converger: &optimize.FunctionConverge{
				Absolute:   opt.Tolerance,
				Iterations: 100,
			},
		}

		result, err := optimize.Minimize(problem, params, settings, &optimize.NelderMead{})
		if err != nil {
			return nil, fmt.Errorf("%s, %v, %w", spec, err, ErrNonConvergence)
		}
		if result.Status == optimize.IterationLimit || result.Status == optimize.Failure {
			return nil, fmt.Errorf("%s after %d iterations, %w", spec, result.Stats.MajorIterations, ErrNonConvergence)
		}
		params = result.X
	}

	return newModel(ts, work, spec, css, params)
}

// initialParams seeds the optimizer: the sample mean, Yule-Walker estimates
// for the AR terms, damped seasonal autocorrelations for the seasonal AR
// terms, and small constants for the MA terms.
func initialParams(y []float64, spec Spec) []float64 {
	params := make([]float64, spec.NumCoeff())
	params[0] = stat.Mean(y, nil)

	pos := 1
	if spec.P > 0 {
		if acf := diagnostics.ACF(y, spec.P); acf != nil {
			copy(params[pos:pos+spec.P], yuleWalker(acf, spec.P))
		}
	}
	pos += spec.P
	for i := 0; i < spec.Q; i++ {
		params[pos+i] = 0.1
	}
	pos += spec.Q
	if spec.SP > 0 {
		if acf := diagnostics.ACF(y, spec.SP*spec.Period); acf != nil {
			for i := 0; i < spec.SP; i++ {
				if lag := (i + 1) * spec.Period; lag < len(acf) {
					params[pos+i] = acf[lag] * 0.5
				}
			}
		}
	}
	pos += spec.SP
	for i := 0; i < spec.SQ; i++ {
		params[pos+i] = 0.1
	}
	return params
}

// cssObjective evaluates one-step residuals of the multiplicative SARMA
// recursion on the differenced series.
type cssObjective struct {
	y     []float64
	spec  Spec
	start int
}

// residuals fills resid with one-step prediction errors for the full
// differenced series. resid must have length len(c.y).
func (c *cssObjective) residuals(params, resid []float64) {
	spec := c.spec
	mu := params[0]
	ar := params[1 : 1+spec.P]
	ma := params[1+spec.P : 1+spec.P+spec.Q]
	sar := params[1+spec.P+spec.Q : 1+spec.P+spec.Q+spec.SP]
	sma := params[1+spec.P+spec.Q+spec.SP:]

	for t := 0; t < len(c.y); t++ {
		pred := mu
		for i := 0; i < spec.P && t-i-1 >= 0; i++ {
			pred += ar[i] * (c.y[t-i-1] - mu)
		}
		for i := 0; i < spec.SP; i++ {
			if lag := (i + 1) * spec.Period; t-lag >= 0 {
				pred += sar[i] * (c.y[t-lag] - mu)
			}
		}
		for i := 0; i < spec.Q && t-i-1 >= 0; i++ {
			pred += ma[i] * resid[t-i-1]
		}
		for i := 0; i < spec.SQ; i++ {
			if lag := (i + 1) * spec.Period; t-lag >= 0 {
				pred += sma[i] * resid[t-lag]
			}
		}
		resid[t] = c.y[t] - pred
	}
}

// sse is the conditional sum of squares over t >= c.start.
func (c *cssObjective) sse(params []float64) float64 {
	resid := make([]float64, len(c.y))
	c.residuals(params, resid)
	sum := 0.0
	for t := c.start; t < len(resid); t++ {
		sum += resid[t] * resid[t]
	}
	return sum
}

// penalized adds a steep barrier outside the invertible coefficient region
// so the unconstrained simplex stays inside |coef| < 1. The mean is exempt.
func (c *cssObjective) penalized(params []float64) float64 {
	penalty := 0.0
	for _, v := range params[1:] {
		if excess := math.Abs(v) - coeffBound; excess > 0 {
			penalty += excess * excess
		}
	}
	return c.sse(params) + penalty*1e6*float64(len(c.y))
}

func newModel(training, diffedSeries *timeseries.TimeSeries, spec Spec, css *cssObjective, params []float64) (*Model, error) {
	n := len(css.y)
	resid := make([]float64, n)
	css.residuals(params, resid)

	sseCond := 0.0
	count := n - css.start
	for t := css.start; t < n; t++ {
		sseCond += resid[t] * resid[t]
	}
	sigma2 := sseCond / float64(count)
	if count > spec.NumCoeff() {
		sigma2 = sseCond / float64(count-spec.NumCoeff())
	}

	sseAll := 0.0
	for _, r := range resid {
		sseAll += r * r
	}
	logLik := math.Inf(-1)
	if sigma2 > 0 {
		nf := float64(n)
		logLik = -nf/2*math.Log(2*math.Pi) - nf/2*math.Log(sigma2) - sseAll/(2*sigma2)
	}

	k := float64(spec.NumParams())
	nf := float64(n)
	aic := -2*logLik + 2*k
	aicc := math.Inf(1)
	if nf-k-1 > 0 {
		aicc = aic + 2*k*(k+1)/(nf-k-1)
	}
	bic := -2*logLik + k*math.Log(nf)

	stdErrs := standardErrors(css, params, sigma2)

	names := spec.coeffNames()
	coeff := make(map[string]Coefficient, len(names))
	for i, name := range names {
		coeff[name] = Coefficient{Estimate: params[i], StdErr: stdErrs[i]}
	}

	m := &Model{
		Spec:   spec,
		Coeff:  coeff,
		LogLik: logLik,
		AIC:    aic,
		AICc:   aicc,
		BIC:    bic,
		Sigma2: sigma2,
		NObs:   n,

		mu:  params[0],
		ar:  append([]float64(nil), params[1:1+spec.P]...),
		ma:  append([]float64(nil), params[1+spec.P:1+spec.P+spec.Q]...),
		sar: append([]float64(nil), params[1+spec.P+spec.Q:1+spec.P+spec.Q+spec.SP]...),
		sma: append([]float64(nil), params[1+spec.P+spec.Q+spec.SP:]...),

		residuals: resid,
		diffed:    diffedSeries.Values(),
		training:  training.Copy(),
	}
	return m, nil
}

// standardErrors approximates coefficient standard errors from the
// numerical Jacobian of the conditional residuals at the optimum:
// cov = sigma2 * (J'J)^-1. Returns NaN entries when J'J is singular.
func standardErrors(css *cssObjective, params []float64, sigma2 float64) []float64 {
	k := len(params)
	n := len(css.y)
	rows := n - css.start

	stdErrs := make([]float64, k)
	for i := range stdErrs {
		stdErrs[i] = math.NaN()
	}
	if rows <= k || sigma2 <= 0 {
		return stdErrs
	}

	jac := mat.NewDense(rows, k, nil)
	plus := make([]float64, n)
	minus := make([]float64, n)
	shifted := make([]float64, k)
	for j := 0; j < k; j++ {
		h := 1e-6 * (1 + math.Abs(params[j]))
		copy(shifted, params)

		shifted[j] = params[j] + h
		css.residuals(shifted, plus)
		shifted[j] = params[j] - h
		css.residuals(shifted, minus)

		for t := css.start; t < n; t++ {
			jac.Set(t-css.start, j, (plus[t]-minus[t])/(2*h))
		}
	}

	var jtj mat.Dense
	jtj.Mul(jac.T(), jac)

	var cov mat.Dense
	if err := cov.Inverse(&jtj); err != nil {
		return stdErrs
	}
	for i := 0; i < k; i++ {
		if v := sigma2 * cov.At(i, i); v >= 0 {
			stdErrs[i] = math.Sqrt(v)
		}
	}
	return stdErrs
}

// yuleWalker solves the Yule-Walker equations for AR starting values using
// the Levinson-Durbin recursion.
func yuleWalker(acf []float64, order int) []float64 {
	phi := make([]float64, order)
	if order <= 0 || len(acf) <= order {
		return phi
	}

	phi[0] = acf[1]
	if order == 1 {
		return phi
	}

	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		if v == 0 {
			break
		}
		lambda /= v

		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)

		v *= 1 - lambda*lambda
		if v <= 0 {
			break
		}
	}
	return phi
}
