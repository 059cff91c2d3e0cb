package cpiseries

import (
	"errors"
	"fmt"
	"math"
)

var ErrScoreLenMismatch = errors.New("forecast and actual have different lengths")

// Scores summarizes hold-out forecast accuracy.
type Scores struct {
	RMSE float64 `json:"rmse"` // root mean squared error
	MAPE float64 `json:"mape"` // mean absolute percent error
}

func NewScores(forecast, actual []float64) (*Scores, error) {
	rmse, err := RMSE(forecast, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute root mean squared error, %w", err)
	}
	mape, err := MAPE(forecast, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute percent error, %w", err)
	}
	return &Scores{
		RMSE: rmse,
		MAPE: mape,
	}, nil
}

func RMSE(forecast, actual []float64) (float64, error) {
	if len(forecast) != len(actual) {
		return 0, ErrScoreLenMismatch
	}

	mse := 0.0
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(forecast[i]) {
			continue
		}
		mse += math.Pow(actual[i]-forecast[i], 2.0)
	}
	mse /= float64(len(actual))
	return math.Sqrt(mse), nil
}

func MAPE(forecast, actual []float64) (float64, error) {
	if len(forecast) != len(actual) {
		return 0, ErrScoreLenMismatch
	}

	mape := 0.0
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(forecast[i]) || actual[i] == 0 {
			continue
		}
		mape += math.Abs((actual[i] - forecast[i]) / actual[i])
	}
	mape /= float64(len(actual))
	return mape, nil
}
