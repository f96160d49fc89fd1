// Package stats wraps the numeric primitives every analyzer shares. All
// functions are pure and total: degenerate input (empty slices, n<2,
// zero variance) yields 0 rather than an error, NaN, or Inf, so callers
// never branch on numeric failure.
package stats

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
)

// Mean returns the arithmetic mean, 0 for empty input
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, _ := mstats.Mean(values)
	return mean
}

// StdDev returns the sample (n-1) standard deviation, 0 for fewer than
// two values. The population form must not be used anywhere in analysis.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sd, _ := mstats.StandardDeviationSample(values)
	return sd
}

// Variance returns the sample variance, 0 for fewer than two values
func Variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	v, _ := mstats.SampleVariance(values)
	return v
}

// Min returns the smallest value, 0 for empty input
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min, _ := mstats.Min(values)
	return min
}

// Max returns the largest value, 0 for empty input
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max, _ := mstats.Max(values)
	return max
}

// Percentile returns the p-th percentile with linear interpolation between
// nearest ranks: rank = p/100*(n-1) on the sorted copy, fractional ranks
// interpolate between the bracketing values. Implemented directly because
// library percentiles use nearest-rank or CDF conventions that disagree at
// fractional ranks. p is clamped to [0,100]; empty input yields 0.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	} else if p > 100 {
		p = 100
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
