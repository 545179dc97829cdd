package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeDivide(t *testing.T) {
	assert.Equal(t, 3.0, SafeDivide(6, 2))
	assert.Equal(t, -2.5, SafeDivide(5, -2))

	assert.True(t, math.IsInf(SafeDivide(1, 0), 1))
	assert.True(t, math.IsInf(SafeDivide(-5, 0), 1), "sign of numerator must not matter for a zero denominator")
	assert.True(t, math.IsInf(SafeDivide(1, math.NaN()), 1))
	assert.True(t, math.IsInf(SafeDivide(0, 0), 1))
}

func TestMeanAndStdDevEmpty(t *testing.T) {
	assert.True(t, math.IsNaN(mean(nil)))
	assert.True(t, math.IsNaN(popStdDev(nil)))
}

func TestPopStdDevIsPopulation(t *testing.T) {
	// Population (N-divisor) deviation of [2, 4]: sqrt(1) = 1.
	// The sample-corrected value would be sqrt(2).
	assert.InDelta(t, 1.0, popStdDev([]float64{2, 4}), 1e-12)
}

func TestPercentileLinearInterpolation(t *testing.T) {
	xs := []float64{1, 2, 3, 4}

	assert.InDelta(t, 1.75, percentile(xs, 25), 1e-12)
	assert.InDelta(t, 2.5, percentile(xs, 50), 1e-12)
	assert.InDelta(t, 1.0, percentile(xs, 0), 1e-12)
	assert.InDelta(t, 4.0, percentile(xs, 100), 1e-12)

	assert.Equal(t, 7.0, percentile([]float64{7}, 95))
	assert.True(t, math.IsNaN(percentile(nil, 50)))
}

func TestPercentileDoesNotMutateInput(t *testing.T) {
	xs := []float64{3, 1, 2}
	percentile(xs, 50)
	assert.Equal(t, []float64{3, 1, 2}, xs)
}

func TestPopSkewAndKurtosis(t *testing.T) {
	// A symmetric distribution has zero skew.
	symmetric := []float64{-1, 0, 1}
	assert.InDelta(t, 0, popSkew(symmetric), 1e-12)

	// Population excess kurtosis of [-1, 0, 1]: m4/m2^2 - 3 = (2/3)/(4/9) - 3 = -1.5.
	assert.InDelta(t, -1.5, popExcessKurtosis(symmetric), 1e-12)

	// Constant series: zero variance makes both undefined.
	constant := []float64{5, 5, 5}
	assert.True(t, math.IsNaN(popSkew(constant)))
	assert.True(t, math.IsNaN(popExcessKurtosis(constant)))
}

func TestCumulativeSum(t *testing.T) {
	got := cumulativeSum([]float64{1, -2, 4})
	require.Equal(t, []float64{1, -1, 3}, got)
	assert.Empty(t, cumulativeSum(nil))
}
