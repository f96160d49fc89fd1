package patterns

import (
	"context"
	"fmt"
	"math"

	"goaffect/domain/analysis"
)

// QuadrantTransitionDetector reports every change of quadrant label
type QuadrantTransitionDetector struct{}

// NewQuadrantTransitionDetector creates the quadrant transition detector
func NewQuadrantTransitionDetector() *QuadrantTransitionDetector {
	return &QuadrantTransitionDetector{}
}

// Name returns the detector identifier
func (d *QuadrantTransitionDetector) Name() string {
	return "quadrant_transition"
}

// Description explains what this detector finds
func (d *QuadrantTransitionDetector) Description() string {
	return "Movement between affect-space quadrants"
}

// Detect walks the aligned points and emits one pattern per label change,
// spanning from the previous change point (initially the first point) to
// the current one. Strength is the Euclidean displacement between the
// span endpoints normalized against sqrt(6) and clamped to [0,1].
func (d *QuadrantTransitionDetector) Detect(ctx context.Context, points []AlignedPoint) []analysis.Pattern {
	if len(points) < 2 {
		return nil
	}

	maxDistance := math.Sqrt(6)
	var out []analysis.Pattern

	lastChange := 0
	for i := 1; i < len(points); i++ {
		if points[i].Quadrant == points[i-1].Quadrant {
			continue
		}

		origin := points[lastChange]
		strength := origin.Vector.Distance(points[i].Vector) / maxDistance
		if strength > 1 {
			strength = 1
		}

		out = append(out, analysis.NewQuadrantTransitionPattern(
			points[i-1].Quadrant,
			points[i].Quadrant,
			strength,
			origin.Timestamp,
			points[i].Timestamp,
			fmt.Sprintf("Shifted from %q to %q", points[i-1].Quadrant, points[i].Quadrant),
		))
		lastChange = i
	}
	return out
}
