package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"goaffect/domain/analysis"
)

// Correlation returns the Pearson correlation of x and y. Unequal lengths
// truncate both to the shared prefix. Fewer than two pairs, or zero
// variance in either input, yields 0.
func Correlation(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n < 2 {
		return 0
	}
	r := stat.Correlation(x[:n], y[:n], nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// LinearRegression fits values against their indices 0..n-1 by least
// squares and returns the slope, intercept, and Pearson correlation of
// the fit. Degenerate input (n<2) yields slope 0, intercept Mean(values),
// correlation 0.
func LinearRegression(values []float64) (slope, intercept, r float64) {
	n := len(values)
	if n < 2 {
		return 0, Mean(values), 0
	}

	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}

	intercept, slope = stat.LinearRegression(xs, values, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return 0, Mean(values), 0
	}
	if math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		intercept = Mean(values)
	}

	return slope, intercept, Correlation(xs, values)
}

// ConfidenceInterval returns the 95% interval mean ± 1.96*stddev/sqrt(n)
// over the raw values. Fewer than two values yields the zero interval.
func ConfidenceInterval(values []float64) analysis.Interval {
	if len(values) < 2 {
		return analysis.Interval{}
	}
	mean := Mean(values)
	bound := 1.96 * StdDev(values) / math.Sqrt(float64(len(values)))
	return analysis.Interval{Low: mean - bound, High: mean + bound}
}
