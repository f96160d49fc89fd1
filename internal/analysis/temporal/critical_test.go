package temporal

import (
	"context"
	"testing"

	"goaffect/domain/analysis"
	"goaffect/domain/core"
	"goaffect/domain/emotion"
)

func kindsAt(points []analysis.CriticalPoint, typ emotion.Type, index int) map[analysis.CriticalPointKind]bool {
	kinds := map[analysis.CriticalPointKind]bool{}
	for _, p := range points {
		if p.Emotion == typ && p.Index == index {
			kinds[p.Kind] = true
		}
	}
	return kinds
}

func TestCriticalPointDetector_SpikeIsBothPeakAndInflection(t *testing.T) {
	records := singleSeries(emotion.Joy, 0.1, 0.1, 0.9, 0.1, 0.1)

	points := NewCriticalPointDetector(0, nil).Analyze(context.Background(), records)

	if len(points) != 2 {
		t.Fatalf("expected exactly 2 points for the spike, got %d: %+v", len(points), points)
	}
	kinds := kindsAt(points, emotion.Joy, 2)
	if !kinds[analysis.PointPeak] {
		t.Error("expected a peak at index 2")
	}
	if !kinds[analysis.PointInflection] {
		t.Error("expected an inflection at index 2")
	}
	for _, p := range points {
		if p.Intensity != 0.9 {
			t.Errorf("expected intensity 0.9, got %f", p.Intensity)
		}
		if p.SessionID != core.SessionID("session-test") {
			t.Errorf("expected session attribution, got %s", p.SessionID)
		}
	}
}

func TestCriticalPointDetector_ValleyIgnoresPercentileGate(t *testing.T) {
	records := singleSeries(emotion.Sadness, 0.9, 0.9, 0.1, 0.9, 0.9)

	points := NewCriticalPointDetector(0, nil).Analyze(context.Background(), records)

	kinds := kindsAt(points, emotion.Sadness, 2)
	if !kinds[analysis.PointValley] {
		t.Error("expected a valley at index 2 despite the low intensity")
	}
	if !kinds[analysis.PointInflection] {
		t.Error("expected an inflection at index 2")
	}
	for _, p := range points {
		if p.Kind == analysis.PointPeak {
			t.Errorf("no peak should be flagged, got one at index %d", p.Index)
		}
	}
}

func TestCriticalPointDetector_SubThresholdMaximumIsNotAPeak(t *testing.T) {
	// The 90th percentile of this series is 0.86: the local maximum at
	// index 1 (0.5) stays an inflection only, the one at index 4 (0.95)
	// clears the gate.
	records := singleSeries(emotion.Anxiety, 0.2, 0.5, 0.2, 0.8, 0.95, 0.8, 0.2)

	points := NewCriticalPointDetector(0, nil).Analyze(context.Background(), records)

	peaks := 0
	for _, p := range points {
		if p.Kind == analysis.PointPeak {
			peaks++
			if p.Index != 4 {
				t.Errorf("expected the only peak at index 4, got %d", p.Index)
			}
		}
	}
	if peaks != 1 {
		t.Fatalf("expected exactly 1 peak, got %d", peaks)
	}

	kinds := kindsAt(points, emotion.Anxiety, 1)
	if kinds[analysis.PointPeak] {
		t.Error("index 1 sits below the percentile gate and must not be a peak")
	}
	if !kinds[analysis.PointInflection] {
		t.Error("index 1 is still an inflection")
	}
}

func TestCriticalPointDetector_SkipsSeriesBelowThreePoints(t *testing.T) {
	records := singleSeries(emotion.Fear, 0.1, 0.9)

	points := NewCriticalPointDetector(0, nil).Analyze(context.Background(), records)

	if len(points) != 0 {
		t.Fatalf("expected no points for a two-observation series, got %d", len(points))
	}
}

func TestCriticalPointDetector_MergedResultSortsByTimestamp(t *testing.T) {
	records := multiSeries(map[emotion.Type][]float64{
		// Anger spikes at record 2, joy dips at record 1.
		emotion.Anger: {0.1, 0.1, 0.9, 0.1, 0.1},
		emotion.Joy:   {0.9, 0.1, 0.9, 0.9, 0.9},
	})

	points := NewCriticalPointDetector(0, nil).Analyze(context.Background(), records)

	if len(points) < 3 {
		t.Fatalf("expected joy and anger points, got %d", len(points))
	}
	if points[0].Emotion != emotion.Joy {
		t.Errorf("expected the earlier joy point first, got %s", points[0].Emotion)
	}
	for i := 1; i < len(points); i++ {
		if points[i].Timestamp.Before(points[i-1].Timestamp) {
			t.Fatalf("points are not sorted by timestamp at position %d", i)
		}
	}
}
