package patterns

import (
	"context"
	"fmt"
	"math"

	"goaffect/domain/affect"
	"goaffect/domain/analysis"
	"goaffect/internal/stats"
)

// Oscillation gates: at least this many reversals inside a short window.
// Long windows dilute the back-and-forth signature, so length is capped.
const (
	oscillationMinReversals = 3
	oscillationMaxLength    = 10
	oscillationGain         = 5.0
)

// OscillationDetector finds rapid back-and-forth movement along one axis
type OscillationDetector struct{}

// NewOscillationDetector creates the oscillation detector
func NewOscillationDetector() *OscillationDetector {
	return &OscillationDetector{}
}

// Name returns the detector identifier
func (d *OscillationDetector) Name() string {
	return "oscillation"
}

// Description explains what this detector finds
func (d *OscillationDetector) Description() string {
	return "Rapid alternation of direction within a single affect dimension"
}

// Detect counts direction reversals per dimension. A reversal is a pair
// of consecutive changes with a negative product; the leading zero change
// can never form one. Strength scales the sample deviation of the change
// series, capped at 1.
func (d *OscillationDetector) Detect(ctx context.Context, points []AlignedPoint) []analysis.Pattern {
	if len(points) < 2 || len(points) > oscillationMaxLength {
		return nil
	}

	var out []analysis.Pattern
	for _, dim := range affect.Dimensions() {
		series := MovementSeries(points, dim)
		changes := changesOf(series)

		reversals := countReversals(changes)
		if reversals < oscillationMinReversals {
			continue
		}

		strength := math.Min(1, stats.StdDev(changes)*oscillationGain)
		out = append(out, analysis.NewOscillationPattern(
			dim,
			strength,
			points[0].Timestamp,
			points[len(points)-1].Timestamp,
			fmt.Sprintf("Oscillation in %s: %d direction reversals across %d observations", dim, reversals, len(points)),
		))
	}
	return out
}

func countReversals(changes []float64) int {
	reversals := 0
	for i := 1; i < len(changes); i++ {
		if changes[i]*changes[i-1] < 0 {
			reversals++
		}
	}
	return reversals
}
