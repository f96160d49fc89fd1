package ports

import (
	"context"

	"goaffect/domain/affect"
	"goaffect/domain/core"
	"goaffect/domain/emotion"
)

// RecordSourcePort pulls classified emotion data for one session from an
// upstream source (classifier API, spreadsheet export, generator).
// Implementations validate at this boundary; records crossing it are
// trusted downstream.
type RecordSourcePort interface {
	// FetchRecords returns the session's emotion records in source order
	FetchRecords(ctx context.Context, session core.SessionID) ([]emotion.Record, error)

	// FetchMaps returns the session's dimensional snapshots, if the
	// source provides them. An empty slice is a valid answer: analysis
	// then runs without the multidimensional phase.
	FetchMaps(ctx context.Context, session core.SessionID) ([]affect.Map, error)

	// SourceName identifies the source in logs and report warnings
	SourceName() string
}
