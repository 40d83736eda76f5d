package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/seoaudit/seoaudit/internal/config"
	"github.com/seoaudit/seoaudit/internal/model"
)

// newAuditSite builds a small test site with robots.txt, a sitemap, an
// orphan page, and a robots-blocked section.
func newAuditSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "User-agent: *\nDisallow: /private\nSitemap: %s/sitemap.xml\n", server.URL)
	})
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>%[1]s/</loc></url>
  <url><loc>%[1]s/about</loc></url>
  <url><loc>%[1]s/orphan</loc></url>
  <url><loc>%[1]s/private/secret</loc></url>
</urlset>`, server.URL)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><head><title>Acme Widgets Home Page Catalog</title>
<meta name="description" content="The Acme widget catalog with specifications and pricing."></head>
<body><h1>Acme Widgets</h1><p>`+strings.Repeat("Quality widgets built to last for many years. ", 30)+`</p>
<a href="/about">About our company</a></body></html>`)
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
		longTitle := strings.Repeat("About Acme ", 8) // 88 chars, over the 60 limit
		fmt.Fprint(w, `<html><head><title>`+longTitle+`</title>
<meta name="description" content="How Acme started and where the company is going next."></head>
<body><h1>About Acme</h1><p>`+strings.Repeat("Our story began in a small workshop. ", 30)+`</p>
<a href="/">Back home</a></body></html>`)
	})
	mux.HandleFunc("/orphan", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head><title>Forgotten Page About Old Products</title>
<meta name="description" content="Legacy product documentation kept for reference."></head>
<body><h1>Old Products</h1><p>`+strings.Repeat("These products are discontinued but documented. ", 30)+`</p>
<a href="/">Home</a></body></html>`)
	})
	mux.HandleFunc("/private/secret", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head><title>Secret</title></head><body>internal</body></html>`)
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func auditConfig(target string) *config.Config {
	cfg := config.NewConfig()
	cfg.Targets = []string{target}
	cfg.ImageSizeThreshold = 0 // no image HEAD traffic in tests
	return cfg
}

func TestRun(t *testing.T) {
	t.Parallel()

	server := newAuditSite(t)
	cfg := auditConfig(server.URL)

	audit, err := Run(context.Background(), server.URL, cfg, server.Client(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if audit == nil {
		t.Fatal("expected a report")
	}

	t.Run("collects sitemap URLs", func(t *testing.T) {
		if audit.SitemapURLsFound != 4 {
			t.Errorf("SitemapURLsFound = %d, want 4", audit.SitemapURLsFound)
		}
	})

	t.Run("crawls the site", func(t *testing.T) {
		if audit.PagesCrawled < 4 {
			t.Errorf("PagesCrawled = %d, want at least 4", audit.PagesCrawled)
		}
		if audit.IndexablePages < 3 {
			t.Errorf("IndexablePages = %d, want at least 3", audit.IndexablePages)
		}
	})

	t.Run("blocked page is classified not fetched", func(t *testing.T) {
		var found bool
		for _, p := range audit.PagesSummary {
			if strings.HasSuffix(p.URL, "/private/secret") {
				found = true
				if p.Indexability != model.IndexabilityBlockedByRobots {
					t.Errorf("indexability = %q, want blocked_by_robots", p.Indexability)
				}
			}
		}
		if !found {
			t.Error("expected /private/secret in pages summary")
		}
	})

	t.Run("long title produces exactly one low finding", func(t *testing.T) {
		var count int
		for _, f := range audit.Findings {
			if f.RuleID == "RULE_TITLE_TOO_LONG" && strings.HasSuffix(f.URL, "/about") {
				count++
				if f.Severity != model.SeverityLow {
					t.Errorf("severity = %v, want low", f.Severity)
				}
			}
		}
		if count != 1 {
			t.Errorf("RULE_TITLE_TOO_LONG count for /about = %d, want 1", count)
		}
	})

	t.Run("orphan page flagged exactly once", func(t *testing.T) {
		var count int
		for _, f := range audit.Findings {
			if f.RuleID == "RULE_ORPHAN_PAGE" && strings.HasSuffix(f.URL, "/orphan") {
				count++
			}
		}
		if count != 1 {
			t.Errorf("RULE_ORPHAN_PAGE count for /orphan = %d, want 1", count)
		}
	})

	t.Run("health score within bounds", func(t *testing.T) {
		score := audit.Summary.HealthScore
		if score < 0 || score > 100 {
			t.Errorf("health score = %d, want within [0,100]", score)
		}
	})

	t.Run("homepage HTML retained", func(t *testing.T) {
		if !strings.Contains(audit.HomepageHTML, "Acme Widgets") {
			t.Error("expected homepage HTML in report")
		}
	})
}

func TestRunWithoutRobotsRespect(t *testing.T) {
	t.Parallel()

	server := newAuditSite(t)
	cfg := auditConfig(server.URL)
	cfg.RespectRobots = false

	audit, err := Run(context.Background(), server.URL, cfg, server.Client(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, p := range audit.PagesSummary {
		if strings.HasSuffix(p.URL, "/private/secret") {
			if p.Status != http.StatusOK {
				t.Errorf("status = %d, want 200 when robots ignored", p.Status)
			}
			if p.Indexability == model.IndexabilityBlockedByRobots {
				t.Error("page should not be blocked when robots ignored")
			}
		}
	}
}

func TestRunRespectsPageBudget(t *testing.T) {
	t.Parallel()

	server := newAuditSite(t)
	cfg := auditConfig(server.URL)
	cfg.MaxPages = 2

	audit, err := Run(context.Background(), server.URL, cfg, server.Client(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if audit.PagesCrawled > 2 {
		t.Errorf("PagesCrawled = %d, want at most 2", audit.PagesCrawled)
	}
	if audit.SitemapURLsFound > 2 {
		t.Errorf("SitemapURLsFound = %d, want capped at 2", audit.SitemapURLsFound)
	}
}

func TestRunUnreachableSite(t *testing.T) {
	t.Parallel()

	// A server that is already closed refuses all connections.
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	cfg := auditConfig(server.URL)

	audit, err := Run(context.Background(), server.URL, cfg, http.DefaultClient, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// The seed degrades to an error record; the run itself completes.
	if audit.PagesCrawled != 1 {
		t.Errorf("PagesCrawled = %d, want 1", audit.PagesCrawled)
	}
	if audit.ErrorPages != 1 {
		t.Errorf("ErrorPages = %d, want 1", audit.ErrorPages)
	}
	if audit.Summary.HealthScore < 0 || audit.Summary.HealthScore > 100 {
		t.Errorf("health score = %d, want within [0,100]", audit.Summary.HealthScore)
	}
}
