package temporal

import (
	"context"
	"math"
	"sort"

	"goaffect/domain/analysis"
	"goaffect/domain/core"
	"goaffect/domain/emotion"
	"goaffect/internal"
)

// Transition detection defaults
const (
	DefaultTransitionMinDuration        = 2
	DefaultTransitionIntensityThreshold = 0.3

	minTransitionRecords = 3
)

// TransitionDetector finds sustained same-direction intensity runs that
// clear both a duration and a magnitude threshold.
type TransitionDetector struct {
	minDuration        int
	intensityThreshold float64
	log                *internal.Logger
}

// NewTransitionDetector creates a transition detector. Non-positive
// arguments fall back to the defaults.
func NewTransitionDetector(minDuration int, intensityThreshold float64, logger *internal.Logger) *TransitionDetector {
	if minDuration <= 0 {
		minDuration = DefaultTransitionMinDuration
	}
	if intensityThreshold <= 0 {
		intensityThreshold = DefaultTransitionIntensityThreshold
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &TransitionDetector{
		minDuration:        minDuration,
		intensityThreshold: intensityThreshold,
		log:                logger.WithComponent("transition_detector"),
	}
}

// Analyze scans each emotion type with at least three observations and
// merges all detected transitions sorted by start time. Fewer than three
// total records is an insufficient-data condition.
func (d *TransitionDetector) Analyze(ctx context.Context, records []emotion.Record) ([]analysis.Transition, error) {
	if len(records) < minTransitionRecords {
		return nil, core.NewInsufficientDataError("transition_detector", minTransitionRecords, len(records))
	}

	series := ExtractSeries(records)
	transitions := []analysis.Transition{}

	for _, typ := range emotion.SortedTypes(series) {
		pts := series[typ]
		if pts.Len() < 3 {
			continue
		}
		transitions = append(transitions, d.scan(typ, pts)...)
	}

	sort.SliceStable(transitions, func(i, j int) bool {
		return transitions[i].StartTime.Before(transitions[j].StartTime)
	})
	return transitions, nil
}

// scan walks one series keeping directional run counters and a provisional
// start marker. The marker opens on the first directional delta and is
// cleared only by a zero delta or an emission; a direction flip keeps it,
// so the cumulative change is measured across the whole mixed run.
func (d *TransitionDetector) scan(typ emotion.Type, pts emotion.Series) []analysis.Transition {
	values := pts.Intensities()
	out := []analysis.Transition{}

	increasing, decreasing := 0, 0
	start := -1

	for i := 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		switch {
		case change > 0:
			increasing++
			decreasing = 0
			if start == -1 {
				start = i - 1
			}
			if increasing >= d.minDuration && values[i]-values[start] >= d.intensityThreshold {
				out = append(out, d.emit(typ, pts, start, i, analysis.TransitionIncreasing))
				start = -1
				increasing, decreasing = 0, 0
			}
		case change < 0:
			decreasing++
			increasing = 0
			if start == -1 {
				start = i - 1
			}
			if decreasing >= d.minDuration && values[start]-values[i] >= d.intensityThreshold {
				out = append(out, d.emit(typ, pts, start, i, analysis.TransitionDecreasing))
				start = -1
				increasing, decreasing = 0, 0
			}
		default:
			// Plateau: both runs and the marker reset.
			increasing, decreasing = 0, 0
			start = -1
		}
	}
	return out
}

func (d *TransitionDetector) emit(typ emotion.Type, pts emotion.Series, start, end int, direction analysis.TransitionDirection) analysis.Transition {
	return analysis.Transition{
		Emotion:        typ,
		StartIndex:     start,
		EndIndex:       end,
		StartTime:      pts[start].Timestamp,
		EndTime:        pts[end].Timestamp,
		StartIntensity: pts[start].Intensity,
		EndIntensity:   pts[end].Intensity,
		Direction:      direction,
		Magnitude:      math.Abs(pts[end].Intensity - pts[start].Intensity),
	}
}
