package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SafeDivide divides a by b, mapping a zero or undefined denominator to
// positive infinity instead of raising. This policy is applied by every ratio
// metric so that degenerate inputs render as the infinity glyph rather than
// failing the report.
func SafeDivide(a, b float64) float64 {
	if b == 0 || math.IsNaN(b) {
		return math.Inf(1)
	}
	return a / b
}

// mean returns the arithmetic mean, or NaN for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// popStdDev returns the population (ddof=0) standard deviation, or NaN for an
// empty slice. Sample-corrected deviation would change every ratio downstream,
// so the population form is used throughout.
func popStdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.PopStdDev(xs, nil)
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}

// centralMoment returns the k-th central moment normalized by N.
func centralMoment(xs []float64, k float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	mu := stat.Mean(xs, nil)
	total := 0.0
	for _, x := range xs {
		total += math.Pow(x-mu, k)
	}
	return total / float64(len(xs))
}

// popSkew returns the population skewness g1 = m3 / m2^1.5.
func popSkew(xs []float64) float64 {
	m2 := centralMoment(xs, 2)
	m3 := centralMoment(xs, 3)
	return m3 / math.Pow(m2, 1.5)
}

// popExcessKurtosis returns the population excess kurtosis g2 = m4 / m2^2 - 3.
func popExcessKurtosis(xs []float64) float64 {
	m2 := centralMoment(xs, 2)
	m4 := centralMoment(xs, 4)
	return m4/(m2*m2) - 3
}

// percentile returns the p-th percentile (0..100) using linear interpolation
// between order statistics, or NaN for an empty slice.
func percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// filterValues returns the elements for which keep returns true.
func filterValues(xs []float64, keep func(float64) bool) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if keep(x) {
			out = append(out, x)
		}
	}
	return out
}

// cumulativeSum returns the running sum of xs.
func cumulativeSum(xs []float64) []float64 {
	out := make([]float64, len(xs))
	total := 0.0
	for i, x := range xs {
		total += x
		out[i] = total
	}
	return out
}
