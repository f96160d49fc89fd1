package affect

import (
	"errors"
	"math"
	"testing"

	"goaffect/domain/core"
)

func TestParseDimension_ClosedSet(t *testing.T) {
	for _, name := range []string{"valence", " Arousal ", "DOMINANCE"} {
		if _, err := ParseDimension(name); err != nil {
			t.Errorf("expected %q to parse, got %v", name, err)
		}
	}

	if _, err := ParseDimension("intensity"); !errors.Is(err, core.ErrUnknownDimension) {
		t.Errorf("expected unknown-dimension error, got %v", err)
	}
	if _, err := ParseDimension(""); err == nil {
		t.Error("expected error for empty dimension")
	}
}

func TestVector_ComponentAndDistance(t *testing.T) {
	v := Vector{Valence: 0.5, Arousal: -0.25, Dominance: 1}

	if v.Component(Valence) != 0.5 || v.Component(Arousal) != -0.25 || v.Component(Dominance) != 1 {
		t.Error("component accessor mismatch")
	}

	origin := Vector{}
	want := math.Sqrt(0.25 + 0.0625 + 1)
	if got := v.Distance(origin); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected distance %.6f, got %.6f", want, got)
	}
	if v.Distance(v) != 0 {
		t.Error("distance to self must be zero")
	}
}

func TestMap_ValidateRejectsUnknownDominant(t *testing.T) {
	m := Map{
		Timestamp: core.Now(),
		Primary:   Vector{Valence: 0.2},
		Quadrant:  QuadrantLabel("low-arousal positive"),
		Dominant: []DimensionWeight{
			{Dimension: Valence, Value: 0.6},
			{Dimension: Dimension("intensity"), Value: 0.3},
		},
	}
	if err := m.Validate(); !errors.Is(err, core.ErrUnknownDimension) {
		t.Fatalf("expected unknown-dimension error, got %v", err)
	}

	m.Dominant = m.Dominant[:1]
	if err := m.Validate(); err != nil {
		t.Errorf("expected valid map, got %v", err)
	}

	top, ok := m.TopDominant()
	if !ok || top.Dimension != Valence {
		t.Error("expected valence as top dominant entry")
	}
}
