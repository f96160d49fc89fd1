package memledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"goaffect/domain/analysis"
	"goaffect/domain/core"
	"goaffect/ports"
)

func storedReport(t *testing.T, l *Ledger, session core.SessionID, generatedAt time.Time) analysis.Report {
	t.Helper()
	report := analysis.Report{
		ID:          core.NewReportID(),
		SessionID:   session,
		GeneratedAt: core.NewTimestamp(generatedAt),
		Results:     analysis.EmptyResults(),
	}
	if err := l.StoreReport(context.Background(), report); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	return report
}

func TestLedger_StoreAndGetRoundTrip(t *testing.T) {
	ledger := New()
	stored := storedReport(t, ledger, "session-a", time.Now())

	got, err := ledger.GetReport(context.Background(), stored.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ID != stored.ID || got.SessionID != stored.SessionID {
		t.Errorf("round trip mismatch: %+v vs %+v", got, stored)
	}
}

func TestLedger_GetUnknownIDIsReportNotFound(t *testing.T) {
	ledger := New()

	_, err := ledger.GetReport(context.Background(), core.NewReportID())

	if !errors.Is(err, core.ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
	if !core.IsNotFoundError(err) {
		t.Error("report-not-found should classify as a not-found error")
	}
}

func TestLedger_StoreRejectsEmptyID(t *testing.T) {
	ledger := New()

	err := ledger.StoreReport(context.Background(), analysis.Report{SessionID: "session-a"})

	if !core.IsValidationError(err) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestLedger_ListReturnsNewestFirst(t *testing.T) {
	ledger := New()
	base := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	first := storedReport(t, ledger, "session-a", base)
	second := storedReport(t, ledger, "session-a", base.Add(time.Minute))
	third := storedReport(t, ledger, "session-b", base.Add(2*time.Minute))

	summaries, err := ledger.ListReports(context.Background(), ports.ReportFilters{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summaries))
	}
	wantOrder := []core.ReportID{third.ID, second.ID, first.ID}
	for i, want := range wantOrder {
		if summaries[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, summaries[i].ID)
		}
	}
}

func TestLedger_ListFiltersBySessionAndPages(t *testing.T) {
	ledger := New()
	base := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		storedReport(t, ledger, "session-a", base.Add(time.Duration(i)*time.Minute))
	}
	storedReport(t, ledger, "session-b", base.Add(10*time.Minute))

	session := core.SessionID("session-a")
	summaries, err := ledger.ListReports(context.Background(), ports.ReportFilters{
		SessionID: &session,
		Limit:     2,
		Offset:    1,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries after paging, got %d", len(summaries))
	}
	for _, s := range summaries {
		if s.SessionID != session {
			t.Errorf("expected only session-a, got %s", s.SessionID)
		}
	}
}

func TestLedger_LatestReportForSession(t *testing.T) {
	ledger := New()
	base := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	storedReport(t, ledger, "session-a", base)
	latest := storedReport(t, ledger, "session-a", base.Add(time.Minute))

	got, err := ledger.LatestReportForSession(context.Background(), "session-a")
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if got.ID != latest.ID {
		t.Errorf("expected the most recently stored report, got %s", got.ID)
	}

	if _, err := ledger.LatestReportForSession(context.Background(), "session-unknown"); !errors.Is(err, core.ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound for an unknown session, got %v", err)
	}
}

func TestLedger_RestoreKeepsPositionAndOverwritesBody(t *testing.T) {
	ledger := New()
	base := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	first := storedReport(t, ledger, "session-a", base)
	storedReport(t, ledger, "session-a", base.Add(time.Minute))

	updated := first
	updated.Warnings = []string{"re-run"}
	if err := ledger.StoreReport(context.Background(), updated); err != nil {
		t.Fatalf("re-store failed: %v", err)
	}

	if ledger.Len() != 2 {
		t.Fatalf("re-store must not grow the ledger, got %d", ledger.Len())
	}
	got, err := ledger.GetReport(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(got.Warnings) != 1 {
		t.Errorf("expected the overwritten body, got %+v", got.Warnings)
	}
}
