package diagnostics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestACF(t *testing.T) {
	y := []float64{1, 2, 3, 4, 5}

	acf := ACF(y, 2)
	require.Len(t, acf, 3)
	assert.Equal(t, 1.0, acf[0])
	assert.InDelta(t, 0.4, acf[1], 1e-12)
	assert.InDelta(t, -0.1, acf[2], 1e-12)
}

func TestACFDegenerate(t *testing.T) {
	assert.Nil(t, ACF([]float64{3, 3, 3, 3}, 2))
	assert.Nil(t, ACF(nil, 1))
}

func TestACFClampsLag(t *testing.T) {
	y := []float64{1, 2, 3}
	acf := ACF(y, 10)
	assert.Len(t, acf, len(y))
}

func TestPACF(t *testing.T) {
	y := []float64{1, 2, 3, 4, 5}

	pacf := PACF(y, 2)
	require.Len(t, pacf, 3)
	assert.Equal(t, 1.0, pacf[0])
	assert.InDelta(t, 0.4, pacf[1], 1e-12)

	// Durbin-Levinson at lag 2: (acf2 - acf1^2) / (1 - acf1^2)
	want := (-0.1 - 0.4*0.4) / (1 - 0.4*0.4)
	assert.InDelta(t, want, pacf[2], 1e-12)
}

func TestPACFDegenerate(t *testing.T) {
	assert.Nil(t, PACF([]float64{5, 5, 5, 5}, 2))
	assert.Nil(t, PACF([]float64{1, 2, 3}, 0))
}

func TestCorrelogram(t *testing.T) {
	y := []float64{1, 2, 3, 4, 5}

	c, err := NewACFCorrelogram(y, 2)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, c.Lags)
	assert.InDelta(t, 1.96/math.Sqrt(5), c.Band, 1e-12)
	assert.InDelta(t, 0.4, c.Values[1], 1e-12)
}

func TestCorrelogramErrors(t *testing.T) {
	testData := map[string]struct {
		y      []float64
		maxLag int
		err    error
	}{
		"zero lag": {
			y:      []float64{1, 2, 3},
			maxLag: 0,
			err:    ErrInvalidLag,
		},
		"lag beyond series": {
			y:      []float64{1, 2, 3},
			maxLag: 3,
			err:    ErrInvalidLag,
		},
		"constant series": {
			y:      []float64{2, 2, 2, 2},
			maxLag: 2,
			err:    ErrZeroVariance,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := NewACFCorrelogram(td.y, td.maxLag)
			assert.ErrorIs(t, err, td.err)

			_, err = NewPACFCorrelogram(td.y, td.maxLag)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestSignificantLags(t *testing.T) {
	// a strongly trending series keeps its low-lag autocorrelations well
	// outside the band
	y := make([]float64, 50)
	for i := range y {
		y[i] = float64(i)
	}

	c, err := NewACFCorrelogram(y, 5)
	require.NoError(t, err)

	sig := c.SignificantLags()
	assert.Contains(t, sig, 1)
	assert.NotContains(t, sig, 0)
}
