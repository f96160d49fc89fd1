package emotion

import (
	"fmt"
	"sort"
	"strings"

	"goaffect/domain/core"
)

// Type is an emotion label as emitted by the upstream classifier. The
// vocabulary is open: unknown labels flow through analysis untouched, and
// only polarity membership below is interpreted by the engine.
type Type string

// Known emotion labels
const (
	Joy          Type = "joy"
	Trust        Type = "trust"
	Anticipation Type = "anticipation"
	Acceptance   Type = "acceptance"
	Contentment  Type = "contentment"
	Excitement   Type = "excitement"
	Calmness     Type = "calmness"
	Anger        Type = "anger"
	Fear         Type = "fear"
	Sadness      Type = "sadness"
	Disgust      Type = "disgust"
	Apprehension Type = "apprehension"
	Anxiety      Type = "anxiety"
	Confusion    Type = "confusion"
	Surprise     Type = "surprise"
)

// String returns the label
func (t Type) String() string { return string(t) }

// ParseType normalizes a raw label (trimmed, lowercased). Empty labels are
// rejected; unknown labels are allowed.
func ParseType(s string) (Type, error) {
	label := strings.ToLower(strings.TrimSpace(s))
	if label == "" {
		return "", core.NewValidationError("emotion", "label cannot be empty")
	}
	return Type(label), nil
}

// PositiveTypes is the fixed positive polarity set used by progression
// analysis. Membership is exact; labels outside both sets are neutral.
var PositiveTypes = []Type{Joy, Trust, Anticipation, Acceptance, Contentment, Excitement, Calmness}

// NegativeTypes is the fixed negative polarity set.
var NegativeTypes = []Type{Anger, Fear, Sadness, Disgust, Apprehension, Anxiety, Confusion}

var (
	positiveSet = polaritySet(PositiveTypes)
	negativeSet = polaritySet(NegativeTypes)
)

func polaritySet(types []Type) map[Type]struct{} {
	set := make(map[Type]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}

// IsPositive reports membership in the positive polarity set
func (t Type) IsPositive() bool {
	_, ok := positiveSet[t]
	return ok
}

// IsNegative reports membership in the negative polarity set
func (t Type) IsNegative() bool {
	_, ok := negativeSet[t]
	return ok
}

// Measurement is a single classified observation: one emotion at one
// intensity at one instant.
type Measurement struct {
	Type      Type           `json:"type"`
	Intensity float64        `json:"intensity"` // 0.0 to 1.0, validated at the ingest boundary
	Timestamp core.Timestamp `json:"timestamp"`
}

// NewMeasurement validates and builds a measurement
func NewMeasurement(t Type, intensity float64, at core.Timestamp) (Measurement, error) {
	m := Measurement{Type: t, Intensity: intensity, Timestamp: at}
	if err := m.Validate(); err != nil {
		return Measurement{}, err
	}
	return m, nil
}

// Validate checks boundary invariants. Interior code trusts measurements
// that passed ingest.
func (m Measurement) Validate() error {
	if strings.TrimSpace(string(m.Type)) == "" {
		return core.NewValidationError("measurement.type", "label cannot be empty")
	}
	if m.Intensity < 0 || m.Intensity > 1 {
		return fmt.Errorf("%w: %s=%.4f", core.ErrIntensityOutOfRange, m.Type, m.Intensity)
	}
	return nil
}

// Record is one point in time: the non-empty set of measurements the
// classifier produced for a single utterance or sampling tick, stamped with
// a shared timestamp and the owning session.
type Record struct {
	SessionID    core.SessionID `json:"session_id"`
	Timestamp    core.Timestamp `json:"timestamp"`
	Measurements []Measurement  `json:"measurements"`
}

// NewRecord validates and builds a record, stamping every measurement with
// the record timestamp.
func NewRecord(session core.SessionID, at core.Timestamp, measurements []Measurement) (Record, error) {
	if len(measurements) == 0 {
		return Record{}, core.ErrEmptyRecord
	}
	stamped := make([]Measurement, len(measurements))
	for i, m := range measurements {
		m.Timestamp = at
		if err := m.Validate(); err != nil {
			return Record{}, fmt.Errorf("measurement %d: %w", i, err)
		}
		stamped[i] = m
	}
	return Record{SessionID: session, Timestamp: at, Measurements: stamped}, nil
}

// SeriesPoint is one observation of a single emotion type. SessionID is
// carried per point so critical points can attribute their session.
type SeriesPoint struct {
	Intensity float64        `json:"intensity"`
	Timestamp core.Timestamp `json:"timestamp"`
	SessionID core.SessionID `json:"session_id"`
}

// Series is the time-ordered observations of one emotion type, in record
// encounter order. No sorting and no duplicate-timestamp filtering happen
// here; downstream consumers see exactly what arrived.
type Series []SeriesPoint

// Len returns the observation count
func (s Series) Len() int { return len(s) }

// Intensities returns the intensity values in series order
func (s Series) Intensities() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Intensity
	}
	return values
}

// SortedTypes returns the keys of a series map in lexicographic order.
// Every cross-type merge iterates through this so output order never
// depends on map iteration.
func SortedTypes(m map[Type]Series) []Type {
	types := make([]Type, 0, len(m))
	for t := range m {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
