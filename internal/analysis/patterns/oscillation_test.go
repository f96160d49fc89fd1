package patterns

import (
	"context"
	"math"
	"testing"

	"goaffect/domain/affect"
	"goaffect/domain/analysis"
)

func TestOscillationDetector_AlternatingValenceIsDetected(t *testing.T) {
	points := axisPoints([]float64{0.5, -0.5, 0.5, -0.5, 0.5}, nil, nil)

	patterns := NewOscillationDetector().Detect(context.Background(), points)

	if len(patterns) != 1 {
		t.Fatalf("expected 1 oscillation, got %d: %+v", len(patterns), patterns)
	}
	p := patterns[0]
	if p.Kind != analysis.PatternOscillation {
		t.Errorf("expected oscillation kind, got %s", p.Kind)
	}
	if p.Dimension != affect.Valence {
		t.Errorf("expected valence, got %s", p.Dimension)
	}
	// Changes are [0,-1,1,-1,1]: sample deviation 1, gained x5, capped.
	if p.Strength != 1 {
		t.Errorf("expected strength capped at 1, got %f", p.Strength)
	}
	if !p.StartTime.Equal(at(0)) || !p.EndTime.Equal(at(4)) {
		t.Errorf("expected the full window span, got %v..%v", p.StartTime, p.EndTime)
	}
}

func TestOscillationDetector_TwoReversalsAreNotEnough(t *testing.T) {
	points := axisPoints([]float64{0.5, -0.5, 0.5, -0.5}, nil, nil)

	if patterns := NewOscillationDetector().Detect(context.Background(), points); len(patterns) != 0 {
		t.Fatalf("two reversals must not report, got %+v", patterns)
	}
}

func TestOscillationDetector_LongWindowIsSkipped(t *testing.T) {
	values := make([]float64, 11)
	for i := range values {
		if i%2 == 0 {
			values[i] = 0.5
		} else {
			values[i] = -0.5
		}
	}
	points := axisPoints(values, nil, nil)

	if patterns := NewOscillationDetector().Detect(context.Background(), points); patterns != nil {
		t.Fatalf("windows above 10 points must be skipped, got %+v", patterns)
	}
}

func TestOscillationDetector_MonotoneMovementHasNoReversals(t *testing.T) {
	points := axisPoints([]float64{0.1, 0.2, 0.3, 0.4, 0.5}, nil, nil)

	if patterns := NewOscillationDetector().Detect(context.Background(), points); len(patterns) != 0 {
		t.Fatalf("monotone movement must not report, got %+v", patterns)
	}
}

func TestOscillationDetector_GentleWobbleScalesBelowTheCap(t *testing.T) {
	points := axisPoints([]float64{0, 0.1, 0, 0.1, 0}, nil, nil)

	patterns := NewOscillationDetector().Detect(context.Background(), points)

	if len(patterns) != 1 {
		t.Fatalf("expected 1 oscillation, got %d", len(patterns))
	}
	// Changes [0, 0.1, -0.1, 0.1, -0.1]: sample deviation 0.1, gained to 0.5.
	if math.Abs(patterns[0].Strength-0.5) > 1e-9 {
		t.Errorf("expected strength 0.5, got %f", patterns[0].Strength)
	}
}

func TestOscillationDetector_EachAxisReportsIndependently(t *testing.T) {
	points := axisPoints(
		[]float64{0.5, -0.5, 0.5, -0.5, 0.5},
		[]float64{0.4, -0.4, 0.4, -0.4, 0.4},
		nil,
	)

	patterns := NewOscillationDetector().Detect(context.Background(), points)

	if len(patterns) != 2 {
		t.Fatalf("expected valence and arousal oscillations, got %d", len(patterns))
	}
	if patterns[0].Dimension != affect.Valence || patterns[1].Dimension != affect.Arousal {
		t.Errorf("expected canonical axis order, got %s then %s", patterns[0].Dimension, patterns[1].Dimension)
	}
}
