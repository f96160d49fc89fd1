package affect

import (
	"fmt"
	"math"
	"strings"

	"goaffect/domain/core"
)

// Dimension is one axis of the valence/arousal/dominance model. The set is
// closed: anything else arriving from upstream is rejected at the ingest
// boundary rather than silently carried.
type Dimension string

const (
	Valence   Dimension = "valence"
	Arousal   Dimension = "arousal"
	Dominance Dimension = "dominance"
)

// Dimensions returns the three axes in canonical order
func Dimensions() []Dimension {
	return []Dimension{Valence, Arousal, Dominance}
}

// String returns the axis name
func (d Dimension) String() string { return string(d) }

// Valid reports whether d is one of the three axes
func (d Dimension) Valid() bool {
	return d == Valence || d == Arousal || d == Dominance
}

// ParseDimension normalizes and validates an axis name
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownDimension, s)
	}
	return d, nil
}

// Vector is a position in the three-dimensional affect space. Axes span
// [-1, 1] by upstream convention; the engine does not re-clamp.
type Vector struct {
	Valence   float64 `json:"valence"`
	Arousal   float64 `json:"arousal"`
	Dominance float64 `json:"dominance"`
}

// Component returns the value along one axis
func (v Vector) Component(d Dimension) float64 {
	switch d {
	case Valence:
		return v.Valence
	case Arousal:
		return v.Arousal
	case Dominance:
		return v.Dominance
	}
	return 0
}

// Distance returns the Euclidean distance to another vector
func (v Vector) Distance(other Vector) float64 {
	dv := v.Valence - other.Valence
	da := v.Arousal - other.Arousal
	dd := v.Dominance - other.Dominance
	return math.Sqrt(dv*dv + da*da + dd*dd)
}

// QuadrantLabel names the affect-space region assigned by the upstream
// mapper (e.g. "high-arousal positive"). Labels are opaque to the engine;
// only change between consecutive labels is interpreted.
type QuadrantLabel string

// String returns the label
func (q QuadrantLabel) String() string { return string(q) }

// DimensionWeight is one entry of the ordered dominant-dimension list.
// Upstream orders entries strongest first; the engine reads index 0 as the
// leading axis.
type DimensionWeight struct {
	Dimension Dimension `json:"dimension"`
	Value     float64   `json:"value"`
}

// Map is a dimensional snapshot aligned to an emotion record by exact
// timestamp equality.
type Map struct {
	Timestamp core.Timestamp    `json:"timestamp"`
	Primary   Vector            `json:"primary"`
	Quadrant  QuadrantLabel     `json:"quadrant"`
	Dominant  []DimensionWeight `json:"dominant_dimensions,omitempty"`
}

// Validate checks boundary invariants: every dominant entry must name a
// known axis.
func (m Map) Validate() error {
	for i, w := range m.Dominant {
		if !w.Dimension.Valid() {
			return fmt.Errorf("dominant entry %d: %w: %q", i, core.ErrUnknownDimension, w.Dimension)
		}
	}
	return nil
}

// TopDominant returns the leading dominant-dimension entry, if any
func (m Map) TopDominant() (DimensionWeight, bool) {
	if len(m.Dominant) == 0 {
		return DimensionWeight{}, false
	}
	return m.Dominant[0], true
}
