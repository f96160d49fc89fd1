package ports

import (
	"context"

	"goaffect/domain/analysis"
	"goaffect/domain/core"
)

// ReportWriterPort provides append-only write access to finished reports
// This is the ONLY way to persist a report - prevents read-after-write coupling
type ReportWriterPort interface {
	StoreReport(ctx context.Context, report analysis.Report) error
}

// ReportReaderPort provides read-only access to stored reports
// Use this for queries, replay, and API access
type ReportReaderPort interface {
	GetReport(ctx context.Context, id core.ReportID) (*analysis.Report, error)
	ListReports(ctx context.Context, filters ReportFilters) ([]ReportSummary, error)
	LatestReportForSession(ctx context.Context, session core.SessionID) (*analysis.Report, error)
}

// ReportFilters for querying stored reports
type ReportFilters struct {
	SessionID *core.SessionID
	Limit     int
	Offset    int
}

// ReportSummary is the list-view projection of a stored report
type ReportSummary struct {
	ID           core.ReportID    `json:"id"`
	SessionID    core.SessionID   `json:"session_id"`
	GeneratedAt  core.Timestamp   `json:"generated_at"`
	Fingerprint  core.Fingerprint `json:"fingerprint"`
	WarningCount int              `json:"warning_count"`
}

// ReportLedgerPort combines read and write access for adapters that back both
type ReportLedgerPort interface {
	ReportWriterPort
	ReportReaderPort
}
