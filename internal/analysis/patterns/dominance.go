package patterns

import (
	"context"
	"fmt"
	"math"

	"goaffect/domain/affect"
	"goaffect/domain/analysis"
)

// dominanceShare is the fraction of points one axis must lead before it
// reads as dominant.
const dominanceShare = 0.7

// DominanceDetector finds a single axis leading the dimensional profile
type DominanceDetector struct{}

// NewDominanceDetector creates the dominance detector
func NewDominanceDetector() *DominanceDetector {
	return &DominanceDetector{}
}

// Name returns the detector identifier
func (d *DominanceDetector) Name() string {
	return "dimension_dominance"
}

// Description explains what this detector finds
func (d *DominanceDetector) Description() string {
	return "One affect dimension leading the profile across most observations"
}

// Detect computes, per dimension, the share of points whose top dominant
// entry names it. At 70% or above, strength is the mean absolute value of
// that leading entry over the points where it led. Points without
// dominant entries stay in the denominator.
func (d *DominanceDetector) Detect(ctx context.Context, points []AlignedPoint) []analysis.Pattern {
	if len(points) == 0 {
		return nil
	}

	var out []analysis.Pattern
	for _, dim := range affect.Dimensions() {
		led := 0
		sum := 0.0
		for _, p := range points {
			top, ok := p.TopDominant()
			if !ok || top.Dimension != dim {
				continue
			}
			led++
			sum += math.Abs(top.Value)
		}

		if led == 0 || float64(led)/float64(len(points)) < dominanceShare {
			continue
		}

		out = append(out, analysis.NewDominancePattern(
			dim,
			sum/float64(led),
			points[0].Timestamp,
			points[len(points)-1].Timestamp,
			fmt.Sprintf("Dominant %s: led the profile in %d of %d observations", dim, led, len(points)),
		))
	}
	return out
}
