package temporal

import (
	"context"
	"sort"

	"goaffect/domain/analysis"
	"goaffect/domain/emotion"
	"goaffect/internal"
	"goaffect/internal/stats"
)

// ProgressionAnalyzer compares an early record window against a late one.
// Window choice belongs to the caller; the analyzer only profiles and
// differences them.
type ProgressionAnalyzer struct {
	log *internal.Logger
}

// NewProgressionAnalyzer creates a progression analyzer
func NewProgressionAnalyzer(logger *internal.Logger) *ProgressionAnalyzer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ProgressionAnalyzer{log: logger.WithComponent("progression_analyzer")}
}

// Analyze profiles both windows and returns their deltas. An empty window
// profiles as all zeros; the comparison is still produced so callers get
// a defined, if uninformative, result.
func (a *ProgressionAnalyzer) Analyze(ctx context.Context, early, late []emotion.Record) analysis.Progression {
	if len(early) == 0 || len(late) == 0 {
		a.log.Warn("progression window empty (early=%d, late=%d records)", len(early), len(late))
	}

	earlyProfile := profileWindow(early)
	lateProfile := profileWindow(late)

	positiveChange := lateProfile.PositiveAvg - earlyProfile.PositiveAvg
	negativeChange := lateProfile.NegativeAvg - earlyProfile.NegativeAvg

	return analysis.Progression{
		OverallImprovement: positiveChange - negativeChange,
		// Positive means the late window is calmer.
		StabilityChange: earlyProfile.Volatility - lateProfile.Volatility,
		PositiveChange:  positiveChange,
		NegativeChange:  negativeChange,
	}
}

// profileWindow flattens all positive-set and negative-set intensities
// across types before averaging; per-type means are never taken first.
// Volatility is the mean of per-type sample deviations over every type
// present in the window, polarity members or not.
func profileWindow(records []emotion.Record) analysis.WindowProfile {
	var positive, negative []float64
	byType := make(map[emotion.Type][]float64)

	for _, rec := range records {
		for _, m := range rec.Measurements {
			if m.Type.IsPositive() {
				positive = append(positive, m.Intensity)
			}
			if m.Type.IsNegative() {
				negative = append(negative, m.Intensity)
			}
			byType[m.Type] = append(byType[m.Type], m.Intensity)
		}
	}

	// Sorted type order keeps the float summation below bit-stable.
	types := make([]emotion.Type, 0, len(byType))
	for typ := range byType {
		types = append(types, typ)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	deviations := make([]float64, 0, len(types))
	for _, typ := range types {
		deviations = append(deviations, stats.StdDev(byType[typ]))
	}

	return analysis.WindowProfile{
		PositiveAvg: stats.Mean(positive),
		NegativeAvg: stats.Mean(negative),
		Volatility:  stats.Mean(deviations),
	}
}
