package temporal

import (
	"context"
	"fmt"
	"math"

	"goaffect/domain/analysis"
	"goaffect/domain/core"
	"goaffect/domain/emotion"
	"goaffect/internal"
	"goaffect/internal/stats"
)

// Relationship floors and the reporting threshold
const (
	minRelationshipRecords = 5
	minRelationshipPoints  = 5

	relationshipThreshold = 0.3
)

// RelationshipAnalyzer correlates every qualifying emotion pair and
// reports only the pairs whose absolute correlation clears the threshold.
type RelationshipAnalyzer struct {
	log *internal.Logger
}

// NewRelationshipAnalyzer creates a relationship analyzer
func NewRelationshipAnalyzer(logger *internal.Logger) *RelationshipAnalyzer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &RelationshipAnalyzer{log: logger.WithComponent("relationship_analyzer")}
}

// Analyze runs pairwise Pearson correlation across emotion types with at
// least five observations each. Fewer than five total records is an
// insufficient-data condition. Pairs are visited in sorted-type order so
// output order never varies; EmotionA always sorts before EmotionB.
func (a *RelationshipAnalyzer) Analyze(ctx context.Context, records []emotion.Record) ([]analysis.Relationship, error) {
	if len(records) < minRelationshipRecords {
		return nil, core.NewInsufficientDataError("relationship_analyzer", minRelationshipRecords, len(records))
	}

	series := ExtractSeries(records)
	qualified := make([]emotion.Type, 0, len(series))
	for _, typ := range emotion.SortedTypes(series) {
		if series[typ].Len() >= minRelationshipPoints {
			qualified = append(qualified, typ)
		}
	}

	relationships := []analysis.Relationship{}
	for i := 0; i < len(qualified); i++ {
		for j := i + 1; j < len(qualified); j++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			typeA, typeB := qualified[i], qualified[j]
			r := stats.Correlation(series[typeA].Intensities(), series[typeB].Intensities())

			var kind analysis.RelationshipKind
			switch {
			case r > relationshipThreshold:
				kind = analysis.RelationshipPositive
			case r < -relationshipThreshold:
				kind = analysis.RelationshipNegative
			default:
				continue
			}

			relationships = append(relationships, analysis.Relationship{
				EmotionA:    typeA,
				EmotionB:    typeB,
				Strength:    math.Abs(r),
				Kind:        kind,
				Description: describeRelationship(typeA, typeB, r, kind),
			})
		}
	}

	a.log.Debug("reported %d relationship(s) across %d qualifying type(s)", len(relationships), len(qualified))
	return relationships, nil
}

// describeRelationship renders the templated narrative for a reported pair
func describeRelationship(a, b emotion.Type, r float64, kind analysis.RelationshipKind) string {
	strength := "Moderate"
	if math.Abs(r) >= 0.7 {
		strength = "Strong"
	}
	return fmt.Sprintf("%s %s relationship between %s and %s (r=%.2f)", strength, kind, a, b, r)
}
