package api

import (
	"fmt"

	"goaffect/app"
	"goaffect/domain/affect"
	"goaffect/domain/core"
	"goaffect/domain/emotion"
)

// measurementPayload is one classifier reading inside a record
type measurementPayload struct {
	Type      string  `json:"type"`
	Intensity float64 `json:"intensity"`
}

// recordPayload is the wire form of an emotion record. SessionID is
// optional per record; the request-level session fills it in.
type recordPayload struct {
	SessionID    string               `json:"session_id,omitempty"`
	Timestamp    core.Timestamp       `json:"timestamp"`
	Measurements []measurementPayload `json:"measurements"`
}

// dominantPayload is one ranked dimension entry in a dimensional map
type dominantPayload struct {
	Dimension string  `json:"dimension"`
	Value     float64 `json:"value"`
}

// mapPayload is the wire form of a dimensional snapshot
type mapPayload struct {
	Timestamp core.Timestamp    `json:"timestamp"`
	Valence   float64           `json:"valence"`
	Arousal   float64           `json:"arousal"`
	Dominance float64           `json:"dominance"`
	Quadrant  string            `json:"quadrant,omitempty"`
	Dominant  []dominantPayload `json:"dominant_dimensions,omitempty"`
}

// optionsPayload carries per-request analyzer overrides. Zero fields keep
// the configured defaults.
type optionsPayload struct {
	VolatilityWindowSize         int     `json:"volatility_window_size,omitempty"`
	PercentileThreshold          float64 `json:"percentile_threshold,omitempty"`
	TransitionMinDuration        int     `json:"transition_min_duration,omitempty"`
	TransitionIntensityThreshold float64 `json:"transition_intensity_threshold,omitempty"`
}

// analyzeRequest is the POST /api/v1/analyses body
type analyzeRequest struct {
	SessionID string          `json:"session_id,omitempty"`
	Records   []recordPayload `json:"records"`
	Maps      []mapPayload    `json:"maps,omitempty"`
	Options   *optionsPayload `json:"options,omitempty"`
}

// errorResponse is the uniform error body
type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// toDomain validates the record at the boundary: labels normalized via
// ParseType, intensity range enforced by NewRecord.
func (p recordPayload) toDomain(fallback core.SessionID) (emotion.Record, error) {
	if p.Timestamp.IsZero() {
		return emotion.Record{}, core.NewValidationError("record.timestamp", "timestamp is required")
	}
	session := fallback
	if p.SessionID != "" {
		session = core.SessionID(p.SessionID)
	}
	measurements := make([]emotion.Measurement, 0, len(p.Measurements))
	for i, m := range p.Measurements {
		label, err := emotion.ParseType(m.Type)
		if err != nil {
			return emotion.Record{}, fmt.Errorf("measurement %d: %w", i, err)
		}
		measurements = append(measurements, emotion.Measurement{Type: label, Intensity: m.Intensity})
	}
	return emotion.NewRecord(session, p.Timestamp, measurements)
}

// toDomain validates the map at the boundary: every dominant entry must
// name a known axis.
func (p mapPayload) toDomain() (affect.Map, error) {
	if p.Timestamp.IsZero() {
		return affect.Map{}, core.NewValidationError("map.timestamp", "timestamp is required")
	}
	dominant := make([]affect.DimensionWeight, 0, len(p.Dominant))
	for i, d := range p.Dominant {
		dim, err := affect.ParseDimension(d.Dimension)
		if err != nil {
			return affect.Map{}, fmt.Errorf("dominant entry %d: %w", i, err)
		}
		dominant = append(dominant, affect.DimensionWeight{Dimension: dim, Value: d.Value})
	}
	m := affect.Map{
		Timestamp: p.Timestamp,
		Primary: affect.Vector{
			Valence:   p.Valence,
			Arousal:   p.Arousal,
			Dominance: p.Dominance,
		},
		Quadrant: affect.QuadrantLabel(p.Quadrant),
		Dominant: dominant,
	}
	if err := m.Validate(); err != nil {
		return affect.Map{}, err
	}
	return m, nil
}

// toRequest converts the wire request into a service request, validating
// every embedded record and map.
func (r analyzeRequest) toRequest() (app.AnalysisRequest, error) {
	session := core.SessionID(r.SessionID)
	records := make([]emotion.Record, 0, len(r.Records))
	for i, p := range r.Records {
		record, err := p.toDomain(session)
		if err != nil {
			return app.AnalysisRequest{}, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, record)
	}
	maps := make([]affect.Map, 0, len(r.Maps))
	for i, p := range r.Maps {
		m, err := p.toDomain()
		if err != nil {
			return app.AnalysisRequest{}, fmt.Errorf("map %d: %w", i, err)
		}
		maps = append(maps, m)
	}
	req := app.AnalysisRequest{SessionID: session, Records: records, Maps: maps}
	if r.Options != nil {
		req.Options = &app.AnalysisOptions{
			VolatilityWindowSize:         r.Options.VolatilityWindowSize,
			PercentileThreshold:          r.Options.PercentileThreshold,
			TransitionMinDuration:        r.Options.TransitionMinDuration,
			TransitionIntensityThreshold: r.Options.TransitionIntensityThreshold,
		}
	}
	return req, nil
}
