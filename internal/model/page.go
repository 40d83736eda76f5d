package model

// Indexability classifies whether a search engine is permitted and expected
// to index a page. The classifier always returns exactly one of these states;
// IndexabilityError is reserved for pages that failed to fetch or parse and
// is never produced by classification itself.
type Indexability string

const (
	// IndexabilityNonHTML marks non-success responses and non-HTML content.
	IndexabilityNonHTML Indexability = "non_html"

	// IndexabilityBlockedByRobots marks pages disallowed by robots.txt.
	IndexabilityBlockedByRobots Indexability = "blocked_by_robots"

	// IndexabilityNoindex marks pages carrying a noindex directive in the
	// robots meta tag or X-Robots-Tag header.
	IndexabilityNoindex Indexability = "noindex"

	// IndexabilityCanonicalizedAway marks pages whose canonical URL points
	// at a different page.
	IndexabilityCanonicalizedAway Indexability = "canonicalized_away"

	// IndexabilityIndexable marks pages with no indexing obstacle.
	IndexabilityIndexable Indexability = "indexable"

	// IndexabilityError marks pages degraded by a fetch or parse failure.
	IndexabilityError Indexability = "error"
)

// CrawledPage is the persisted-for-report-lifetime record of one visited URL.
// It is appended to the run's page list once and never mutated afterwards.
type CrawledPage struct {
	// URL is the requested URL (before any redirect).
	URL string `json:"url"`

	// StatusCode is the final HTTP status, or 0 for fetch failures.
	StatusCode int `json:"status_code"`

	// Title is the trimmed <title> text, empty when absent.
	Title string `json:"title,omitempty"`

	// MetaDescription is the meta description content, empty when absent.
	MetaDescription string `json:"meta_description,omitempty"`

	// CanonicalUrl is the resolved <link rel="canonical"> href.
	CanonicalURL string `json:"canonical_url,omitempty"`

	// Indexability is the classified indexability state.
	Indexability Indexability `json:"indexability"`

	// H1Count is the number of <h1> elements on the page.
	H1Count int `json:"h1_count"`

	// WordCount is the visible-text word count after stripping
	// script/style/nav/footer/header/aside subtrees.
	WordCount int `json:"word_count"`

	// InternalLinksOut is the number of internal links found on the page.
	InternalLinksOut int `json:"internal_links_out"`

	// ImagesMissingAlt counts <img> elements without alt text.
	ImagesMissingAlt int `json:"images_missing_alt"`

	// ImagesMissingSize counts <img> elements without width/height attributes.
	ImagesMissingSize int `json:"images_missing_size"`

	// HTML is the raw page body. Retained only for the seed page (depth 0)
	// so downstream consumers can reuse the homepage markup.
	HTML string `json:"-"`
}

// IsError reports whether the page counts as an error page in the report:
// a 4xx/5xx status or a degraded fetch (status 0).
func (p *CrawledPage) IsError() bool {
	return p.StatusCode >= 400 || p.StatusCode == 0
}

// PageSummary is the compact per-page entry included in the report.
type PageSummary struct {
	URL          string       `json:"url"`
	Status       int          `json:"status"`
	Indexability Indexability `json:"indexability"`
	Title        string       `json:"title,omitempty"`
	WordCount    int          `json:"word_count"`
}

// Summarize produces the report entry for this page.
func (p *CrawledPage) Summarize() PageSummary {
	return PageSummary{
		URL:          p.URL,
		Status:       p.StatusCode,
		Indexability: p.Indexability,
		Title:        p.Title,
		WordCount:    p.WordCount,
	}
}
