package database

import (
	"context"
	"testing"
	"time"

	"github.com/seoaudit/seoaudit/internal/model"
)

// openTestDB creates an AuditDB in a temp directory, closed on cleanup.
func openTestDB(t *testing.T) *AuditDB {
	t.Helper()

	adb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := adb.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return adb
}

// sampleReport builds a report for persistence tests.
func sampleReport(domain string, healthScore int) *model.AuditReport {
	return &model.AuditReport{
		OK:            true,
		Service:       domain,
		PagesCrawled:  10,
		FindingsCount: 3,
		FindingsBySeverity: model.SeverityCounts{
			High: 1,
			Low:  2,
		},
		Summary: model.ReportSummary{
			HealthScore:  healthScore,
			PagesCrawled: 10,
			Findings:     3,
		},
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database when allowed", func(t *testing.T) {
		t.Parallel()

		adb := openTestDB(t)
		if adb == nil {
			t.Fatal("expected non-nil AuditDB")
		}
	})

	t.Run("fails for missing database when creation disabled", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected error for missing database")
		}
	})
}

func TestSaveAndGetLatestReport(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)
	ctx := context.Background()

	if err := adb.SaveReport(ctx, sampleReport("example.com", 80)); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}
	if err := adb.SaveReport(ctx, sampleReport("example.com", 95)); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	got, err := adb.GetLatestReport(ctx, "example.com")
	if err != nil {
		t.Fatalf("GetLatestReport() error = %v", err)
	}
	if got == nil {
		t.Fatal("expected a report, got nil")
	}
	if got.Service != "example.com" {
		t.Errorf("Service = %q, want example.com", got.Service)
	}
	// Both runs share a CURRENT_TIMESTAMP second; either score is a valid
	// "latest", so only sanity-check the value.
	if got.Summary.HealthScore != 80 && got.Summary.HealthScore != 95 {
		t.Errorf("HealthScore = %d, want 80 or 95", got.Summary.HealthScore)
	}
}

func TestGetLatestReportUnknownDomain(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)

	got, err := adb.GetLatestReport(context.Background(), "unknown.example.com")
	if err != nil {
		t.Fatalf("GetLatestReport() error = %v", err)
	}
	if got != nil {
		t.Errorf("expected nil report for unknown domain, got %+v", got)
	}
}

func TestListAuditedDomains(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)
	ctx := context.Background()

	for _, domain := range []string{"b.example.com", "a.example.com", "b.example.com"} {
		if err := adb.SaveReport(ctx, sampleReport(domain, 90)); err != nil {
			t.Fatalf("SaveReport() error = %v", err)
		}
	}

	domains, err := adb.ListAuditedDomains(ctx)
	if err != nil {
		t.Fatalf("ListAuditedDomains() error = %v", err)
	}

	want := []string{"a.example.com", "b.example.com"}
	if len(domains) != len(want) {
		t.Fatalf("got %d domains, want %d", len(domains), len(want))
	}
	for i, domain := range want {
		if domains[i] != domain {
			t.Errorf("domains[%d] = %q, want %q", i, domains[i], domain)
		}
	}
}

func TestGetHistory(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)
	ctx := context.Background()

	if err := adb.SaveReport(ctx, sampleReport("example.com", 72)); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	history, err := adb.GetHistory(ctx, "example.com")
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("got %d history entries, want 1", len(history))
	}

	meta := history[0]
	if meta.Domain != "example.com" {
		t.Errorf("Domain = %q, want example.com", meta.Domain)
	}
	if meta.HealthScore != 72 {
		t.Errorf("HealthScore = %d, want 72", meta.HealthScore)
	}
	if meta.PagesCrawled != 10 {
		t.Errorf("PagesCrawled = %d, want 10", meta.PagesCrawled)
	}
	if meta.FindingsCount != 3 {
		t.Errorf("FindingsCount = %d, want 3", meta.FindingsCount)
	}
	if meta.SeveritySummary["high"] != 1 {
		t.Errorf("SeveritySummary[high] = %d, want 1", meta.SeveritySummary["high"])
	}
	if meta.Timestamp.IsZero() {
		t.Error("expected a parsed timestamp")
	}
}

func TestGetReportByID(t *testing.T) {
	t.Parallel()

	adb := openTestDB(t)
	ctx := context.Background()

	if err := adb.SaveReport(ctx, sampleReport("example.com", 88)); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	history, err := adb.GetHistory(ctx, "example.com")
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("got %d history entries, want 1", len(history))
	}

	got, err := adb.GetReportByID(ctx, history[0].ID)
	if err != nil {
		t.Fatalf("GetReportByID() error = %v", err)
	}
	if got == nil || got.Summary.HealthScore != 88 {
		t.Errorf("GetReportByID() = %+v, want report with health score 88", got)
	}

	missing, err := adb.GetReportByID(ctx, 99999)
	if err != nil {
		t.Fatalf("GetReportByID() error = %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown ID")
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"sqlite default", "2026-08-30 12:30:45", true},
		{"iso8601 with Z", "2026-08-30T12:30:45Z", true},
		{"rfc3339", time.Now().Format(time.RFC3339), true},
		{"garbage", "not a timestamp", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tt.input)
			if tt.valid && got.IsZero() {
				t.Errorf("parseTimestamp(%q) returned zero time", tt.input)
			}
			if !tt.valid && !got.IsZero() {
				t.Errorf("parseTimestamp(%q) = %v, want zero time", tt.input, got)
			}
		})
	}
}
