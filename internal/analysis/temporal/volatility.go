package temporal

import (
	"context"

	"goaffect/domain/emotion"
	"goaffect/internal"
	"goaffect/internal/stats"
)

// DefaultVolatilityWindow is the rolling window width when none is configured
const DefaultVolatilityWindow = 5

// VolatilityAnalyzer scores intensity dispersion per emotion type as the
// mean of rolling-window standard deviations.
type VolatilityAnalyzer struct {
	windowSize int
	log        *internal.Logger
}

// NewVolatilityAnalyzer creates a volatility analyzer. A non-positive
// windowSize falls back to the default.
func NewVolatilityAnalyzer(windowSize int, logger *internal.Logger) *VolatilityAnalyzer {
	if windowSize <= 0 {
		windowSize = DefaultVolatilityWindow
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &VolatilityAnalyzer{windowSize: windowSize, log: logger.WithComponent("volatility_analyzer")}
}

// Analyze computes one volatility score per emotion type with at least
// windowSize observations. The score is the mean sample standard
// deviation across every contiguous window; types with fewer points are
// skipped.
func (a *VolatilityAnalyzer) Analyze(ctx context.Context, records []emotion.Record) map[emotion.Type]float64 {
	series := ExtractSeries(records)
	scores := make(map[emotion.Type]float64, len(series))

	for _, typ := range emotion.SortedTypes(series) {
		pts := series[typ]
		if pts.Len() < a.windowSize {
			a.log.Debug("skipping %s: %d observation(s), need %d", typ, pts.Len(), a.windowSize)
			continue
		}

		values := pts.Intensities()
		windows := make([]float64, 0, len(values)-a.windowSize+1)
		for i := 0; i+a.windowSize <= len(values); i++ {
			windows = append(windows, stats.StdDev(values[i:i+a.windowSize]))
		}
		scores[typ] = stats.Mean(windows)
	}

	if len(scores) == 0 && len(records) > 0 {
		a.log.Warn("no emotion type had enough observations for volatility (window=%d, %d records)", a.windowSize, len(records))
	}
	return scores
}
