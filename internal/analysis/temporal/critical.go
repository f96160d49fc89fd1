package temporal

import (
	"context"
	"sort"

	"goaffect/domain/analysis"
	"goaffect/domain/emotion"
	"goaffect/internal"
	"goaffect/internal/stats"
)

// DefaultPercentileThreshold gates peaks to the top decile of a series
const DefaultPercentileThreshold = 90

// CriticalPointDetector flags local extrema and direction changes per
// emotion type. Peaks must clear the series percentile threshold; valleys
// are ungated. The inflection check is independent of both, so one index
// can carry two kinds.
type CriticalPointDetector struct {
	percentileThreshold float64
	log                 *internal.Logger
}

// NewCriticalPointDetector creates a critical point detector. A
// non-positive threshold falls back to the default.
func NewCriticalPointDetector(percentileThreshold float64, logger *internal.Logger) *CriticalPointDetector {
	if percentileThreshold <= 0 {
		percentileThreshold = DefaultPercentileThreshold
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &CriticalPointDetector{
		percentileThreshold: percentileThreshold,
		log:                 logger.WithComponent("critical_point_detector"),
	}
}

// Analyze scans interior indices of each emotion type with at least three
// observations and merges all flagged points sorted by timestamp.
func (d *CriticalPointDetector) Analyze(ctx context.Context, records []emotion.Record) []analysis.CriticalPoint {
	series := ExtractSeries(records)
	points := []analysis.CriticalPoint{}

	for _, typ := range emotion.SortedTypes(series) {
		pts := series[typ]
		if pts.Len() < 3 {
			d.log.Debug("skipping %s: %d observation(s), need 3", typ, pts.Len())
			continue
		}
		points = append(points, d.scan(typ, pts)...)
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
	return points
}

func (d *CriticalPointDetector) scan(typ emotion.Type, pts emotion.Series) []analysis.CriticalPoint {
	values := pts.Intensities()
	threshold := stats.Percentile(values, d.percentileThreshold)
	out := []analysis.CriticalPoint{}

	flag := func(kind analysis.CriticalPointKind, i int) {
		out = append(out, analysis.CriticalPoint{
			Kind:      kind,
			Emotion:   typ,
			Index:     i,
			Timestamp: pts[i].Timestamp,
			Intensity: pts[i].Intensity,
			SessionID: pts[i].SessionID,
		})
	}

	for i := 1; i < len(values)-1; i++ {
		prev, curr, next := values[i-1], values[i], values[i+1]

		if curr > prev && curr > next && curr >= threshold {
			flag(analysis.PointPeak, i)
		}
		if curr < prev && curr < next {
			flag(analysis.PointValley, i)
		}
		if (prev < curr && curr > next) || (prev > curr && curr < next) {
			flag(analysis.PointInflection, i)
		}
	}
	return out
}
