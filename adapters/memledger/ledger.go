// Package memledger stores finished reports in process memory. It backs
// the CLI and the default server configuration; nothing survives a
// restart.
package memledger

import (
	"context"
	"fmt"
	"sync"

	"goaffect/domain/analysis"
	"goaffect/domain/core"
	"goaffect/ports"
)

// Ledger implements ports.ReportLedgerPort with in-memory storage.
// Insertion order is kept so listings never depend on map iteration.
type Ledger struct {
	reports  map[core.ReportID]analysis.Report
	order    []core.ReportID
	sessions map[core.SessionID][]core.ReportID
	mu       sync.RWMutex
}

// New creates an empty in-memory ledger
func New() *Ledger {
	return &Ledger{
		reports:  make(map[core.ReportID]analysis.Report),
		sessions: make(map[core.SessionID][]core.ReportID),
	}
}

// StoreReport appends a report. Re-storing an existing ID overwrites the
// body but keeps the original position.
func (l *Ledger) StoreReport(ctx context.Context, report analysis.Report) error {
	if report.ID.IsEmpty() {
		return core.NewValidationError("report.id", "cannot be empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.reports[report.ID]; !exists {
		l.order = append(l.order, report.ID)
		l.sessions[report.SessionID] = append(l.sessions[report.SessionID], report.ID)
	}
	l.reports[report.ID] = report
	return nil
}

// GetReport returns one stored report by ID
func (l *Ledger) GetReport(ctx context.Context, id core.ReportID) (*analysis.Report, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	report, exists := l.reports[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", core.ErrReportNotFound, id)
	}
	return &report, nil
}

// ListReports returns summaries newest-first, filtered and paged
func (l *Ledger) ListReports(ctx context.Context, filters ports.ReportFilters) ([]ports.ReportSummary, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	summaries := []ports.ReportSummary{}
	skipped := 0

	for i := len(l.order) - 1; i >= 0; i-- {
		report := l.reports[l.order[i]]
		if filters.SessionID != nil && report.SessionID != *filters.SessionID {
			continue
		}
		if skipped < filters.Offset {
			skipped++
			continue
		}

		summaries = append(summaries, ports.ReportSummary{
			ID:           report.ID,
			SessionID:    report.SessionID,
			GeneratedAt:  report.GeneratedAt,
			Fingerprint:  report.Fingerprint,
			WarningCount: len(report.Warnings),
		})
		if filters.Limit > 0 && len(summaries) >= filters.Limit {
			break
		}
	}
	return summaries, nil
}

// LatestReportForSession returns the most recently stored report for a
// session
func (l *Ledger) LatestReportForSession(ctx context.Context, session core.SessionID) (*analysis.Report, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := l.sessions[session]
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: session %s", core.ErrReportNotFound, session)
	}
	report := l.reports[ids[len(ids)-1]]
	return &report, nil
}

// Len returns the stored report count
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order)
}
