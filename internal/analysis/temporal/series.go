// Package temporal implements the record-based analyzers: series
// extraction, trendlines, volatility, sustained transitions, critical
// points, window progression, and pairwise relationships. Every analyzer
// is deterministic; cross-type merges iterate types in sorted order so
// identical input reproduces identical output.
package temporal

import (
	"goaffect/domain/emotion"
)

// ExtractSeries groups per-emotion observations out of a record stream.
// Records are walked in input order and every measurement appends one
// point carrying the record's timestamp and session. Nothing is sorted
// or deduplicated: analyzers see the stream exactly as it arrived.
func ExtractSeries(records []emotion.Record) map[emotion.Type]emotion.Series {
	series := make(map[emotion.Type]emotion.Series)
	for _, rec := range records {
		for _, m := range rec.Measurements {
			series[m.Type] = append(series[m.Type], emotion.SeriesPoint{
				Intensity: m.Intensity,
				Timestamp: rec.Timestamp,
				SessionID: rec.SessionID,
			})
		}
	}
	return series
}
