package analysis

import (
	"goaffect/domain/affect"
	"goaffect/domain/core"
	"goaffect/domain/emotion"
)

// TrendDirection classifies the slope of a fitted trendline
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// TrendStrength classifies the absolute correlation of the fit
type TrendStrength string

const (
	StrengthWeak     TrendStrength = "weak"
	StrengthModerate TrendStrength = "moderate"
	StrengthStrong   TrendStrength = "strong"
)

// Interval is a closed numeric interval, used for confidence bounds
type Interval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Trendline is the least-squares fit of one emotion's intensity over
// observation indices. StartValue and EndValue are the fitted endpoints,
// not the raw first and last observations.
type Trendline struct {
	Direction          TrendDirection `json:"direction"`
	Slope              float64        `json:"slope"`
	Intercept          float64        `json:"intercept"`
	Correlation        float64        `json:"correlation"`
	Strength           TrendStrength  `json:"strength"`
	StartValue         float64        `json:"start_value"`
	EndValue           float64        `json:"end_value"`
	ConfidenceInterval Interval       `json:"confidence_interval"` // 95% interval over raw intensities
}

// TransitionDirection is the sign of a sustained intensity run
type TransitionDirection string

const (
	TransitionIncreasing TransitionDirection = "increasing"
	TransitionDecreasing TransitionDirection = "decreasing"
)

// Transition is a sustained, same-direction intensity movement that
// cleared both the duration and magnitude thresholds.
type Transition struct {
	Emotion        emotion.Type        `json:"emotion"`
	StartIndex     int                 `json:"start_index"`
	EndIndex       int                 `json:"end_index"`
	StartTime      core.Timestamp      `json:"start_time"`
	EndTime        core.Timestamp      `json:"end_time"`
	StartIntensity float64             `json:"start_intensity"`
	EndIntensity   float64             `json:"end_intensity"`
	Direction      TransitionDirection `json:"direction"`
	Magnitude      float64             `json:"magnitude"` // absolute intensity change over the run
}

// CriticalPointKind tags the local shape at a flagged index
type CriticalPointKind string

const (
	PointPeak       CriticalPointKind = "peak"
	PointValley     CriticalPointKind = "valley"
	PointInflection CriticalPointKind = "inflection"
)

// CriticalPoint is a local extremum or direction change in one emotion's
// series. Peak and inflection checks are independent, so a single index
// can appear twice with different kinds.
type CriticalPoint struct {
	Kind      CriticalPointKind `json:"kind"`
	Emotion   emotion.Type      `json:"emotion"`
	Index     int               `json:"index"`
	Timestamp core.Timestamp    `json:"timestamp"`
	Intensity float64           `json:"intensity"`
	SessionID core.SessionID    `json:"session_id"`
}

// WindowProfile summarizes one record window for progression analysis
type WindowProfile struct {
	PositiveAvg float64 `json:"positive_avg"` // flattened mean over positive-set measurements
	NegativeAvg float64 `json:"negative_avg"` // flattened mean over negative-set measurements
	Volatility  float64 `json:"volatility"`   // mean of per-type intensity stddevs
}

// Progression compares an early window against a late window of the same
// session. Positive OverallImprovement and StabilityChange both read as
// improvement.
type Progression struct {
	OverallImprovement float64 `json:"overall_improvement"`
	StabilityChange    float64 `json:"stability_change"`
	PositiveChange     float64 `json:"positive_change"`
	NegativeChange     float64 `json:"negative_change"`
}

// RelationshipKind is the sign of a reported pairwise correlation
type RelationshipKind string

const (
	RelationshipPositive RelationshipKind = "positive"
	RelationshipNegative RelationshipKind = "negative"
)

// Relationship is a pairwise correlation between two emotion types that
// cleared the reporting threshold. EmotionA sorts before EmotionB.
type Relationship struct {
	EmotionA    emotion.Type     `json:"emotion_a"`
	EmotionB    emotion.Type     `json:"emotion_b"`
	Strength    float64          `json:"strength"` // absolute correlation
	Kind        RelationshipKind `json:"kind"`
	Description string           `json:"description"`
}

// PatternKind tags a multidimensional pattern variant
type PatternKind string

const (
	PatternOscillation        PatternKind = "oscillation"
	PatternProgression        PatternKind = "progression"
	PatternQuadrantTransition PatternKind = "quadrant_transition"
	PatternDimensionDominance PatternKind = "dimension_dominance"
)

// Pattern is one detected multidimensional structure. Common fields are
// always set; kind-specific fields are set exactly by the matching
// constructor and omitted from JSON otherwise:
//
//	oscillation          Dimension
//	progression          Dimension, Direction
//	quadrant_transition  FromQuadrant, ToQuadrant
//	dimension_dominance  Dimension
type Pattern struct {
	Kind         PatternKind          `json:"kind"`
	Dimension    affect.Dimension     `json:"dimension,omitempty"`
	Direction    TrendDirection       `json:"direction,omitempty"`
	FromQuadrant affect.QuadrantLabel `json:"from_quadrant,omitempty"`
	ToQuadrant   affect.QuadrantLabel `json:"to_quadrant,omitempty"`
	Strength     float64              `json:"strength"` // 0.0 to 1.0
	StartTime    core.Timestamp       `json:"start_time"`
	EndTime      core.Timestamp       `json:"end_time"`
	Description  string               `json:"description"`
}

// NewOscillationPattern builds an oscillation pattern for one axis
func NewOscillationPattern(d affect.Dimension, strength float64, start, end core.Timestamp, description string) Pattern {
	return Pattern{
		Kind:        PatternOscillation,
		Dimension:   d,
		Strength:    strength,
		StartTime:   start,
		EndTime:     end,
		Description: description,
	}
}

// NewProgressionPattern builds a directional movement pattern for one axis
func NewProgressionPattern(d affect.Dimension, direction TrendDirection, strength float64, start, end core.Timestamp, description string) Pattern {
	return Pattern{
		Kind:        PatternProgression,
		Dimension:   d,
		Direction:   direction,
		Strength:    strength,
		StartTime:   start,
		EndTime:     end,
		Description: description,
	}
}

// NewQuadrantTransitionPattern builds a quadrant-change pattern
func NewQuadrantTransitionPattern(from, to affect.QuadrantLabel, strength float64, start, end core.Timestamp, description string) Pattern {
	return Pattern{
		Kind:         PatternQuadrantTransition,
		FromQuadrant: from,
		ToQuadrant:   to,
		Strength:     strength,
		StartTime:    start,
		EndTime:      end,
		Description:  description,
	}
}

// NewDominancePattern builds a sustained single-axis dominance pattern
func NewDominancePattern(d affect.Dimension, strength float64, start, end core.Timestamp, description string) Pattern {
	return Pattern{
		Kind:        PatternDimensionDominance,
		Dimension:   d,
		Strength:    strength,
		StartTime:   start,
		EndTime:     end,
		Description: description,
	}
}
