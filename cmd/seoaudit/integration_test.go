package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/seoaudit/seoaudit/internal/config"
	"github.com/seoaudit/seoaudit/internal/database"
	"github.com/seoaudit/seoaudit/internal/log"
	"github.com/seoaudit/seoaudit/internal/model"
)

// startTestSite starts a small site with a sitemap and a few pages so the
// whole audit path can run against real HTTP.
func startTestSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintf(w, "User-agent: *\nAllow: /\nSitemap: http://%s/sitemap.xml\n", r.Host)
	})
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>http://%[1]s/</loc></url>
  <url><loc>http://%[1]s/about</loc></url>
</urlset>`, r.Host)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<!DOCTYPE html>
<html><head>
<title>Integration Test Site</title>
<meta name="description" content="A small site used to exercise the full audit path end to end.">
</head><body>
<h1>Integration Test Site</h1>
<p>Welcome to the integration test site. This homepage links to the about page.</p>
<a href="/about">About us</a>
</body></html>`)
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>About</title></head><body>
<h1>About</h1><p>About page content.</p><a href="/">Home</a>
</body></html>`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// TestRunAuditEndToEnd runs a complete audit against a local HTTP site,
// writes a JSON report to disk, and saves the result to a temp database.
func TestRunAuditEndToEnd(t *testing.T) {
	server := startTestSite(t)
	tmpDir := t.TempDir()
	reportPath := filepath.Join(tmpDir, "report.json")

	cfg := config.NewConfig()
	cfg.Targets = []string{server.URL}
	cfg.JSONReport = true
	cfg.ReportFile = reportPath
	cfg.SaveToDB = true
	cfg.DBDir = filepath.Join(tmpDir, "db")
	cfg.ImageSizeThreshold = 0
	cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}

	logger := log.NewSecureLogger(os.Stderr, false)

	if err := runAudit(context.Background(), cfg, logger); err != nil {
		t.Fatalf("runAudit() error = %v", err)
	}

	// The report file must contain a valid audit report.
	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("failed to read report file: %v", err)
	}

	var auditReport model.AuditReport
	if err := json.Unmarshal(data, &auditReport); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}

	if !auditReport.OK {
		t.Error("expected ok report")
	}
	if auditReport.PagesCrawled < 2 {
		t.Errorf("PagesCrawled = %d, want at least 2", auditReport.PagesCrawled)
	}
	if auditReport.SitemapURLsFound != 2 {
		t.Errorf("SitemapURLsFound = %d, want 2", auditReport.SitemapURLsFound)
	}

	// The run must also be retrievable from the database.
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	seedURL, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("failed to parse server URL: %v", err)
	}

	saved, err := db.GetLatestReport(context.Background(), seedURL.Hostname())
	if err != nil {
		t.Fatalf("GetLatestReport() error = %v", err)
	}
	if saved == nil {
		t.Fatal("expected saved report in database")
	}
	if saved.PagesCrawled != auditReport.PagesCrawled {
		t.Errorf("saved PagesCrawled = %d, want %d", saved.PagesCrawled, auditReport.PagesCrawled)
	}
}

// TestRunAuditNoSave audits without persisting to the database and writes
// the default human-readable report to a file.
func TestRunAuditNoSave(t *testing.T) {
	server := startTestSite(t)

	cfg := config.NewConfig()
	cfg.Targets = []string{server.URL}
	cfg.SaveToDB = false
	cfg.ReportFile = filepath.Join(t.TempDir(), "report.txt")
	cfg.ImageSizeThreshold = 0
	cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}

	logger := log.NewSecureLogger(os.Stderr, false)

	if err := runAudit(context.Background(), cfg, logger); err != nil {
		t.Fatalf("runAudit() error = %v", err)
	}

	data, err := os.ReadFile(cfg.ReportFile)
	if err != nil {
		t.Fatalf("failed to read report file: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty human-readable report")
	}
}
