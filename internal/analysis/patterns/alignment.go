// Package patterns detects multidimensional structure over aligned
// emotion records and valence/arousal/dominance snapshots: oscillation,
// directional progression, quadrant transitions, and dimension dominance.
package patterns

import (
	"goaffect/domain/affect"
	"goaffect/domain/core"
	"goaffect/domain/emotion"
)

// AlignedPoint joins one emotion record with the dimensional snapshot
// sharing its exact timestamp.
type AlignedPoint struct {
	Timestamp core.Timestamp
	Vector    affect.Vector
	Quadrant  affect.QuadrantLabel
	Dominant  []affect.DimensionWeight
}

// TopDominant returns the leading dominant-dimension entry, if any
func (p AlignedPoint) TopDominant() (affect.DimensionWeight, bool) {
	if len(p.Dominant) == 0 {
		return affect.DimensionWeight{}, false
	}
	return p.Dominant[0], true
}

// AlignByTimestamp pairs records with dimensional maps by instant
// equality. Maps are indexed by UnixNano and the first map at a given
// instant wins; records without a matching map are dropped. Output
// preserves record order.
func AlignByTimestamp(records []emotion.Record, maps []affect.Map) []AlignedPoint {
	index := make(map[int64]affect.Map, len(maps))
	for _, m := range maps {
		key := m.Timestamp.UnixNano()
		if _, exists := index[key]; !exists {
			index[key] = m
		}
	}

	points := make([]AlignedPoint, 0, len(records))
	for _, rec := range records {
		m, ok := index[rec.Timestamp.UnixNano()]
		if !ok {
			continue
		}
		points = append(points, AlignedPoint{
			Timestamp: rec.Timestamp,
			Vector:    m.Primary,
			Quadrant:  m.Quadrant,
			Dominant:  m.Dominant,
		})
	}
	return points
}

// Movement is one step of a single dimension's value series. Change is 0
// at index 0 and the first difference everywhere else.
type Movement struct {
	Timestamp core.Timestamp
	Value     float64
	Change    float64
}

// MovementSeries projects aligned points onto one dimension
func MovementSeries(points []AlignedPoint, d affect.Dimension) []Movement {
	series := make([]Movement, len(points))
	for i, p := range points {
		v := p.Vector.Component(d)
		change := 0.0
		if i > 0 {
			change = v - series[i-1].Value
		}
		series[i] = Movement{Timestamp: p.Timestamp, Value: v, Change: change}
	}
	return series
}

// changesOf extracts the change column, the input to reversal counting
// and oscillation strength.
func changesOf(series []Movement) []float64 {
	changes := make([]float64, len(series))
	for i, m := range series {
		changes[i] = m.Change
	}
	return changes
}
