package report

import (
	"time"

	"github.com/seoaudit/seoaudit/internal/model"
	"github.com/seoaudit/seoaudit/internal/urlutil"
)

// Build assembles the final audit report from the crawl's accumulated pages
// and findings. It computes the page and severity counts, the health score,
// the truncated finding list, and the deduplicated page summaries.
func Build(domain string, pages []*model.CrawledPage, findings []model.Finding, sitemapURLsFound int, duration time.Duration) *model.AuditReport {
	report := &model.AuditReport{
		OK:                 true,
		Service:            domain,
		PagesCrawled:       len(pages),
		SitemapURLsFound:   sitemapURLsFound,
		DurationMs:         duration.Milliseconds(),
		FindingsCount:      len(findings),
		FindingsByCategory: make(map[string]int),
	}

	for _, page := range pages {
		if page.Indexability == model.IndexabilityIndexable {
			report.IndexablePages++
		}
		if page.IsError() {
			report.ErrorPages++
		}
		if page.HTML != "" && report.HomepageHTML == "" {
			report.HomepageHTML = page.HTML
		}
	}

	for _, f := range findings {
		report.FindingsBySeverity.Add(f.Severity)
		report.FindingsByCategory[f.Category]++
	}

	report.Findings = findings
	if len(report.Findings) > model.MaxReportFindings {
		report.Findings = report.Findings[:model.MaxReportFindings]
	}

	report.PagesSummary = summarizePages(pages)

	report.Summary = model.ReportSummary{
		HealthScore:  healthScore(len(pages), findings),
		PagesCrawled: report.PagesCrawled,
		Indexable:    report.IndexablePages,
		Errors:       report.ErrorPages,
		Findings:     report.FindingsCount,
		Critical:     report.FindingsBySeverity.Critical,
		High:         report.FindingsBySeverity.High,
		Medium:       report.FindingsBySeverity.Medium,
		Low:          report.FindingsBySeverity.Low,
	}

	return report
}

// summarizePages builds the compact per-page entries, keeping the first
// occurrence per normalized URL so no URL appears twice.
func summarizePages(pages []*model.CrawledPage) []model.PageSummary {
	seen := make(map[string]bool, len(pages))
	summaries := make([]model.PageSummary, 0, len(pages))
	for _, page := range pages {
		norm := urlutil.Normalize(page.URL)
		if seen[norm] {
			continue
		}
		seen[norm] = true
		summaries = append(summaries, page.Summarize())
	}
	return summaries
}

// healthScore starts at 100, deducts each finding's severity penalty, and
// clamps to [0,100]. A run that crawled zero pages scores 0: there is no
// site health to speak of.
func healthScore(pageCount int, findings []model.Finding) int {
	if pageCount == 0 {
		return 0
	}

	score := 100
	for _, f := range findings {
		score -= f.Severity.Penalty()
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
