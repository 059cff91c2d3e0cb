// Package sarima fits seasonal ARIMA models by conditional sum of squares
// and produces recursive forecasts with interval bounds.
package sarima

import (
	"errors"
	"fmt"
)

var (
	ErrNegativeOrder    = errors.New("model orders must be non-negative")
	ErrNoSeasonalPeriod = errors.New("seasonal terms require a seasonal period greater than 1")
)

// Spec fully determines a candidate model: the non-seasonal order triple
// (p, d, q), the seasonal order triple (P, D, Q), and the seasonal period.
type Spec struct {
	P int `json:"p"`
	D int `json:"d"`
	Q int `json:"q"`

	SP     int `json:"sp"`
	SD     int `json:"sd"`
	SQ     int `json:"sq"`
	Period int `json:"period"`
}

func (s Spec) Validate() error {
	if s.P < 0 || s.D < 0 || s.Q < 0 || s.SP < 0 || s.SD < 0 || s.SQ < 0 {
		return fmt.Errorf("%s, %w", s, ErrNegativeOrder)
	}
	if (s.SP > 0 || s.SD > 0 || s.SQ > 0) && s.Period < 2 {
		return fmt.Errorf("%s, %w", s, ErrNoSeasonalPeriod)
	}
	return nil
}

// NumCoeff is the number of estimated coefficients: AR, MA, seasonal AR,
// seasonal MA terms plus the mean.
func (s Spec) NumCoeff() int {
	return s.P + s.Q + s.SP + s.SQ + 1
}

// NumParams counts all estimated parameters including the residual variance.
// This is the k used by the information criteria.
func (s Spec) NumParams() int {
	return s.NumCoeff() + 1
}

// maxLag is the deepest lookback the one-step predictor needs.
func (s Spec) maxLag() int {
	lag := s.P
	if s.Q > lag {
		lag = s.Q
	}
	if s.SP*s.Period > lag {
		lag = s.SP * s.Period
	}
	if s.SQ*s.Period > lag {
		lag = s.SQ * s.Period
	}
	return lag
}

func (s Spec) String() string {
	if s.SP == 0 && s.SD == 0 && s.SQ == 0 {
		return fmt.Sprintf("ARIMA(%d,%d,%d)", s.P, s.D, s.Q)
	}
	return fmt.Sprintf("ARIMA(%d,%d,%d)(%d,%d,%d)[%d]", s.P, s.D, s.Q, s.SP, s.SD, s.SQ, s.Period)
}
