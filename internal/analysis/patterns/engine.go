package patterns

import (
	"context"

	"goaffect/domain/affect"
	"goaffect/domain/analysis"
	"goaffect/domain/core"
	"goaffect/domain/emotion"
	"goaffect/internal"
)

// Input floors for multidimensional analysis
const (
	minPatternRecords = 5
	minPatternMaps    = 5
)

// Detector is one multidimensional pattern detector
type Detector interface {
	Name() string
	Description() string
	Detect(ctx context.Context, points []AlignedPoint) []analysis.Pattern
}

// Engine aligns input and fans the detectors out concurrently
type Engine struct {
	detectors []Detector
	log       *internal.Logger
}

// NewEngine creates the pattern engine with the full detector set
func NewEngine(logger *internal.Logger) *Engine {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Engine{
		detectors: []Detector{
			NewOscillationDetector(),
			NewProgressionDetector(),
			NewQuadrantTransitionDetector(),
			NewDominanceDetector(),
		},
		log: logger.WithComponent("pattern_engine"),
	}
}

// Analyze aligns records with dimensional maps and runs every detector.
// Fewer than five records or five maps is an insufficient-data condition.
// Results keep detector registration order regardless of which goroutine
// finishes first, so output is deterministic.
func (e *Engine) Analyze(ctx context.Context, records []emotion.Record, maps []affect.Map) ([]analysis.Pattern, error) {
	if len(records) < minPatternRecords {
		return nil, core.NewInsufficientDataError("pattern_engine", minPatternRecords, len(records))
	}
	if len(maps) < minPatternMaps {
		return nil, core.NewInsufficientDataError("pattern_engine", minPatternMaps, len(maps))
	}

	points := AlignByTimestamp(records, maps)
	e.log.Debug("aligned %d of %d record(s) against %d map(s)", len(points), len(records), len(maps))

	results := make([][]analysis.Pattern, len(e.detectors))

	type resultWithIndex struct {
		patterns []analysis.Pattern
		index    int
	}

	resultChan := make(chan resultWithIndex, len(e.detectors))

	// Run all detectors concurrently
	for i, det := range e.detectors {
		go func(det Detector, idx int) {
			resultChan <- resultWithIndex{patterns: det.Detect(ctx, points), index: idx}
		}(det, i)
	}

	// Collect results into registration-order slots
	for range e.detectors {
		res := <-resultChan
		results[res.index] = res.patterns
	}

	merged := []analysis.Pattern{}
	for _, patterns := range results {
		merged = append(merged, patterns...)
	}
	return merged, nil
}

// ListDetectors returns all detector names in registration order
func (e *Engine) ListDetectors() []string {
	names := make([]string, len(e.detectors))
	for i, det := range e.detectors {
		names[i] = det.Name()
	}
	return names
}
