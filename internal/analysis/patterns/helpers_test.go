package patterns

import (
	"time"

	"goaffect/domain/affect"
	"goaffect/domain/core"
	"goaffect/domain/emotion"
)

var testBase = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

func at(i int) core.Timestamp {
	return core.NewTimestamp(testBase.Add(time.Duration(i) * time.Minute))
}

// axisPoints builds minute-spaced aligned points from per-axis value
// columns. A nil column reads as zero along that axis.
func axisPoints(valence, arousal, dominance []float64) []AlignedPoint {
	n := len(valence)
	if len(arousal) > n {
		n = len(arousal)
	}
	if len(dominance) > n {
		n = len(dominance)
	}

	pick := func(column []float64, i int) float64 {
		if i < len(column) {
			return column[i]
		}
		return 0
	}

	points := make([]AlignedPoint, n)
	for i := 0; i < n; i++ {
		points[i] = AlignedPoint{
			Timestamp: at(i),
			Vector: affect.Vector{
				Valence:   pick(valence, i),
				Arousal:   pick(arousal, i),
				Dominance: pick(dominance, i),
			},
		}
	}
	return points
}

func recordAt(i int) emotion.Record {
	return emotion.Record{
		SessionID: core.SessionID("session-test"),
		Timestamp: at(i),
		Measurements: []emotion.Measurement{
			{Type: emotion.Joy, Intensity: 0.5, Timestamp: at(i)},
		},
	}
}

func mapAt(i int, v affect.Vector, q affect.QuadrantLabel, dominant ...affect.DimensionWeight) affect.Map {
	return affect.Map{
		Timestamp: at(i),
		Primary:   v,
		Quadrant:  q,
		Dominant:  dominant,
	}
}
