package analysis

import (
	"fmt"

	"goaffect/domain/core"
	"goaffect/domain/emotion"
)

// Results is the deterministic analysis payload: identical input must
// reproduce identical Results and therefore an identical fingerprint.
// Maps marshal with sorted keys and every slice is stable-sorted by its
// analyzer, so the JSON encoding is canonical.
type Results struct {
	Trends         map[emotion.Type]Trendline `json:"trends"`
	Volatility     map[emotion.Type]float64   `json:"volatility"`
	Transitions    []Transition               `json:"transitions"`
	CriticalPoints []CriticalPoint            `json:"critical_points"`
	Progression    Progression                `json:"progression"`
	Relationships  []Relationship             `json:"relationships"`
	Patterns       []Pattern                  `json:"patterns"`
}

// Report is the full analysis artifact. ID and GeneratedAt are run
// metadata and excluded from the fingerprint.
type Report struct {
	ID          core.ReportID    `json:"id"`
	SessionID   core.SessionID   `json:"session_id"`
	GeneratedAt core.Timestamp   `json:"generated_at"`
	Results     Results          `json:"results"`
	Warnings    []string         `json:"warnings,omitempty"`
	Fingerprint core.Fingerprint `json:"fingerprint"`
}

// fingerprintPayload pins down exactly what the determinism hash covers
type fingerprintPayload struct {
	SessionID core.SessionID `json:"session_id"`
	Results   Results        `json:"results"`
	Warnings  []string       `json:"warnings"`
}

// ComputeFingerprint hashes the session, results, and warnings. Run
// metadata (report ID, generation time) never participates.
func (r *Report) ComputeFingerprint() (core.Fingerprint, error) {
	return core.ComputeFingerprint(fingerprintPayload{
		SessionID: r.SessionID,
		Results:   r.Results,
		Warnings:  r.Warnings,
	})
}

// VerifyFingerprint recomputes the fingerprint and compares it to the
// stored one. Callers replaying or re-serving a stored report use this
// to detect payload drift.
func (r *Report) VerifyFingerprint() error {
	computed, err := r.ComputeFingerprint()
	if err != nil {
		return err
	}
	if computed != r.Fingerprint {
		return fmt.Errorf("%w: stored %s, computed %s", core.ErrFingerprintMismatch, r.Fingerprint, computed)
	}
	return nil
}

// EmptyResults returns a Results value with every collection allocated,
// the degraded output substituted for phases that lacked data.
func EmptyResults() Results {
	return Results{
		Trends:         map[emotion.Type]Trendline{},
		Volatility:     map[emotion.Type]float64{},
		Transitions:    []Transition{},
		CriticalPoints: []CriticalPoint{},
		Progression:    Progression{},
		Relationships:  []Relationship{},
		Patterns:       []Pattern{},
	}
}
