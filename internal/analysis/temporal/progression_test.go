package temporal

import (
	"context"
	"math"
	"testing"

	"goaffect/domain/emotion"
)

func TestProgressionAnalyzer_IdenticalWindowsYieldZeroDeltas(t *testing.T) {
	window := multiSeries(map[emotion.Type][]float64{
		emotion.Joy:   {0.3, 0.5, 0.7},
		emotion.Anger: {0.6, 0.4, 0.2},
	})

	p := NewProgressionAnalyzer(nil).Analyze(context.Background(), window, window)

	if p.OverallImprovement != 0 || p.StabilityChange != 0 || p.PositiveChange != 0 || p.NegativeChange != 0 {
		t.Fatalf("identical windows should produce all-zero deltas, got %+v", p)
	}
}

func TestProgressionAnalyzer_RisingPositiveFallingNegativeReadsAsImprovement(t *testing.T) {
	early := multiSeries(map[emotion.Type][]float64{
		emotion.Joy:   {0.2, 0.2},
		emotion.Anger: {0.8, 0.8},
	})
	late := multiSeries(map[emotion.Type][]float64{
		emotion.Joy:   {0.8, 0.8},
		emotion.Anger: {0.2, 0.2},
	})

	p := NewProgressionAnalyzer(nil).Analyze(context.Background(), early, late)

	if math.Abs(p.PositiveChange-0.6) > 1e-9 {
		t.Errorf("expected positive change 0.6, got %f", p.PositiveChange)
	}
	if math.Abs(p.NegativeChange+0.6) > 1e-9 {
		t.Errorf("expected negative change -0.6, got %f", p.NegativeChange)
	}
	if math.Abs(p.OverallImprovement-1.2) > 1e-9 {
		t.Errorf("expected overall improvement 1.2, got %f", p.OverallImprovement)
	}
}

func TestProgressionAnalyzer_PolarityAveragesAreFlattenedAcrossTypes(t *testing.T) {
	// Two joy observations and one trust observation flatten to
	// (0.2+0.4+0.9)/3 = 0.5, not the per-type-first (0.3+0.9)/2 = 0.6.
	early := multiSeries(map[emotion.Type][]float64{
		emotion.Joy:   {0.2, 0.4},
		emotion.Trust: {0.9},
	})
	late := singleSeries(emotion.Joy, 0.5)

	p := NewProgressionAnalyzer(nil).Analyze(context.Background(), early, late)

	if math.Abs(p.PositiveChange) > 1e-9 {
		t.Errorf("expected flattened averages to cancel (0.5 - 0.5), got change %f", p.PositiveChange)
	}
}

func TestProgressionAnalyzer_VolatilityAveragesOverAllTypes(t *testing.T) {
	// Joy swings (sample deviation ~0.566), surprise is flat. Surprise is
	// polarity-neutral but still enters the volatility mean, pulling it
	// down to ~0.283.
	early := multiSeries(map[emotion.Type][]float64{
		emotion.Joy:      {0.1, 0.9},
		emotion.Surprise: {0.5, 0.5},
	})
	late := multiSeries(map[emotion.Type][]float64{
		emotion.Joy:      {0.5, 0.5},
		emotion.Surprise: {0.5, 0.5},
	})

	p := NewProgressionAnalyzer(nil).Analyze(context.Background(), early, late)

	joyDeviation := math.Sqrt(((0.1-0.5)*(0.1-0.5) + (0.9-0.5)*(0.9-0.5)) / 1)
	want := joyDeviation / 2
	if math.Abs(p.StabilityChange-want) > 1e-9 {
		t.Errorf("expected stability change %f, got %f", want, p.StabilityChange)
	}
}

func TestProgressionAnalyzer_EmptyWindowProfilesAsZero(t *testing.T) {
	late := multiSeries(map[emotion.Type][]float64{
		emotion.Joy:   {0.6, 0.6},
		emotion.Anger: {0.3, 0.3},
	})

	p := NewProgressionAnalyzer(nil).Analyze(context.Background(), nil, late)

	if math.Abs(p.PositiveChange-0.6) > 1e-9 {
		t.Errorf("expected positive change against a zero baseline, got %f", p.PositiveChange)
	}
	if math.Abs(p.NegativeChange-0.3) > 1e-9 {
		t.Errorf("expected negative change against a zero baseline, got %f", p.NegativeChange)
	}
	if math.Abs(p.OverallImprovement-0.3) > 1e-9 {
		t.Errorf("expected overall improvement 0.3, got %f", p.OverallImprovement)
	}
}
