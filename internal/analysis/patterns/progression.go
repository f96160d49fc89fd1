package patterns

import (
	"context"
	"fmt"
	"math"

	"goaffect/domain/affect"
	"goaffect/domain/analysis"
)

// progressionShare is the fraction of nonzero changes that must agree in
// sign before movement reads as directional.
const progressionShare = 0.7

// ProgressionDetector finds sustained directional movement along one axis
type ProgressionDetector struct{}

// NewProgressionDetector creates the progression detector
func NewProgressionDetector() *ProgressionDetector {
	return &ProgressionDetector{}
}

// Name returns the detector identifier
func (d *ProgressionDetector) Name() string {
	return "progression"
}

// Description explains what this detector finds
func (d *ProgressionDetector) Description() string {
	return "Sustained same-direction movement within a single affect dimension"
}

// Detect checks, per dimension, whether at least 70% of the nonzero
// changes share one sign. Strength is the net displacement first-to-last,
// capped at 1. Flat series (no nonzero change) emit nothing.
func (d *ProgressionDetector) Detect(ctx context.Context, points []AlignedPoint) []analysis.Pattern {
	if len(points) < 2 {
		return nil
	}

	var out []analysis.Pattern
	for _, dim := range affect.Dimensions() {
		series := MovementSeries(points, dim)

		ups, downs := 0, 0
		for _, m := range series {
			switch {
			case m.Change > 0:
				ups++
			case m.Change < 0:
				downs++
			}
		}
		total := ups + downs
		if total == 0 {
			continue
		}

		var direction analysis.TrendDirection
		var aligned int
		switch {
		case float64(ups)/float64(total) >= progressionShare:
			direction = analysis.TrendIncreasing
			aligned = ups
		case float64(downs)/float64(total) >= progressionShare:
			direction = analysis.TrendDecreasing
			aligned = downs
		default:
			continue
		}

		first, last := series[0], series[len(series)-1]
		strength := math.Min(1, math.Abs(last.Value-first.Value))
		out = append(out, analysis.NewProgressionPattern(
			dim,
			direction,
			strength,
			first.Timestamp,
			last.Timestamp,
			fmt.Sprintf("Steady %s movement in %s (%d of %d changes aligned)", direction, dim, aligned, total),
		))
	}
	return out
}
