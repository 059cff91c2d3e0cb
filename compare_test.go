package cpiseries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rellumm/CPI-Time-Series/sarima"
)

func TestRank(t *testing.T) {
	models := []*sarima.Model{
		{Spec: sarima.Spec{P: 1, D: 1}, AICc: 120.5, LogLik: -58.0, Sigma2: 1.2},
		{Spec: sarima.Spec{D: 1, Q: 1}, AICc: 118.2, LogLik: -57.1, Sigma2: 1.1},
		{Spec: sarima.Spec{D: 1}, AICc: 125.0, LogLik: -61.4, Sigma2: 1.5},
	}

	ranks := Rank(models)
	require.Len(t, ranks, 3)
	assert.Equal(t, "ARIMA(0,1,1)", ranks[0].Spec)
	assert.Equal(t, "ARIMA(1,1,0)", ranks[1].Spec)
	assert.Equal(t, "ARIMA(0,1,0)", ranks[2].Spec)
	assert.Equal(t, 118.2, ranks[0].AICc)

	// input order is untouched
	assert.Equal(t, 120.5, models[0].AICc)
	assert.Equal(t, sarima.Spec{P: 1, D: 1}, models[0].Spec)
}

func TestRankStable(t *testing.T) {
	models := []*sarima.Model{
		{Spec: sarima.Spec{P: 1, D: 1}, AICc: 100},
		{Spec: sarima.Spec{D: 1, Q: 1}, AICc: 100},
	}

	ranks := Rank(models)
	require.Len(t, ranks, 2)
	assert.Equal(t, "ARIMA(1,1,0)", ranks[0].Spec)
	assert.Equal(t, "ARIMA(0,1,1)", ranks[1].Spec)
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil))
}
