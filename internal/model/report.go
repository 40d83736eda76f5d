package model

// MaxReportFindings caps the number of findings included in the serialized
// report. The full severity and category counts always reflect every finding;
// only the detailed list is truncated.
const MaxReportFindings = 200

// AuditReport is the JSON-serializable result of one audit run.
// Downstream collaborators (dashboard, fix automation) consume this as an
// opaque, versionless document, so field names are part of the contract.
type AuditReport struct {
	// OK is true when the run completed; soft per-page failures do not
	// clear it.
	OK bool `json:"ok"`

	// Service is the audited domain.
	Service string `json:"service"`

	// PagesCrawled is the number of pages processed (including degraded
	// error records and robots-blocked pages).
	PagesCrawled int `json:"pages_crawled"`

	// IndexablePages counts pages classified as indexable.
	IndexablePages int `json:"indexable_pages"`

	// ErrorPages counts pages with status >= 400 or a degraded fetch.
	ErrorPages int `json:"error_pages"`

	// SitemapURLsFound is the number of candidate URLs collected from
	// sitemaps during setup.
	SitemapURLsFound int `json:"sitemap_urls_found"`

	// DurationMs is the wall-clock duration of the run in milliseconds.
	DurationMs int64 `json:"duration_ms"`

	// FindingsCount is the total number of findings (pre-truncation).
	FindingsCount int `json:"findings_count"`

	// FindingsBySeverity maps severity name to count.
	FindingsBySeverity SeverityCounts `json:"findings_by_severity"`

	// FindingsByCategory maps category name to count.
	FindingsByCategory map[string]int `json:"findings_by_category"`

	// Findings is the detailed finding list, truncated to the first
	// MaxReportFindings entries.
	Findings []Finding `json:"findings"`

	// PagesSummary holds one compact entry per crawled page.
	PagesSummary []PageSummary `json:"pages_summary"`

	// HomepageHTML is the seed page's raw HTML, "" if unavailable.
	HomepageHTML string `json:"homepage_html"`

	// Summary is the headline numbers block for dashboards.
	Summary ReportSummary `json:"summary"`
}

// SeverityCounts holds per-severity finding counts.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Add increments the counter for the given severity.
func (c *SeverityCounts) Add(s Severity) {
	switch s {
	case SeverityCritical:
		c.Critical++
	case SeverityHigh:
		c.High++
	case SeverityMedium:
		c.Medium++
	case SeverityLow:
		c.Low++
	}
}

// ReportSummary is the headline block of an audit report.
type ReportSummary struct {
	// HealthScore is the bounded site health score in [0,100].
	// An empty run (zero pages) scores 0.
	HealthScore int `json:"health_score"`

	PagesCrawled int `json:"pages_crawled"`
	Indexable    int `json:"indexable"`
	Errors       int `json:"errors"`
	Findings     int `json:"findings"`
	Critical     int `json:"critical"`
	High         int `json:"high"`
	Medium       int `json:"medium"`
	Low          int `json:"low"`
}
