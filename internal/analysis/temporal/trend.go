package temporal

import (
	"context"

	"goaffect/domain/analysis"
	"goaffect/domain/emotion"
	"goaffect/internal"
	"goaffect/internal/stats"
)

// Slope bands for direction classification. Anything within ±0.01 per
// observation step reads as stable.
const slopeDirectionBand = 0.01

// TrendAnalyzer fits a least-squares line per emotion type
type TrendAnalyzer struct {
	log *internal.Logger
}

// NewTrendAnalyzer creates a trend analyzer
func NewTrendAnalyzer(logger *internal.Logger) *TrendAnalyzer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &TrendAnalyzer{log: logger.WithComponent("trend_analyzer")}
}

// Analyze fits one trendline per emotion type with at least two
// observations. Types below the floor are absent from the result map;
// an empty map is a valid result for thin input.
func (a *TrendAnalyzer) Analyze(ctx context.Context, records []emotion.Record) map[emotion.Type]analysis.Trendline {
	series := ExtractSeries(records)
	trends := make(map[emotion.Type]analysis.Trendline, len(series))

	for _, typ := range emotion.SortedTypes(series) {
		pts := series[typ]
		if pts.Len() < 2 {
			a.log.Debug("skipping %s: %d observation(s), need 2", typ, pts.Len())
			continue
		}

		values := pts.Intensities()
		slope, intercept, r := stats.LinearRegression(values)

		trends[typ] = analysis.Trendline{
			Direction:   classifyTrendDirection(slope),
			Slope:       slope,
			Intercept:   intercept,
			Correlation: r,
			Strength:    classifyTrendStrength(r),
			// Fitted endpoints, not the raw first/last observations.
			StartValue:         intercept,
			EndValue:           slope*float64(len(values)-1) + intercept,
			ConfidenceInterval: stats.ConfidenceInterval(values),
		}
	}

	if len(trends) == 0 && len(records) > 0 {
		a.log.Warn("no emotion type had enough observations for a trendline (%d records)", len(records))
	}
	return trends
}

// classifyTrendDirection bands the fitted slope
func classifyTrendDirection(slope float64) analysis.TrendDirection {
	switch {
	case slope > slopeDirectionBand:
		return analysis.TrendIncreasing
	case slope < -slopeDirectionBand:
		return analysis.TrendDecreasing
	default:
		return analysis.TrendStable
	}
}

// classifyTrendStrength bands the absolute fit correlation
func classifyTrendStrength(r float64) analysis.TrendStrength {
	abs := r
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < 0.3:
		return analysis.StrengthWeak
	case abs < 0.7:
		return analysis.StrengthModerate
	default:
		return analysis.StrengthStrong
	}
}
