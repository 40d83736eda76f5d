package rules

import (
	"net/http"

	"github.com/seoaudit/seoaudit/internal/model"
)

// Context is a read-only projection of one page's evidence, built once per
// page and passed to every rule. Rules never mutate it.
type Context struct {
	// URL is the requested page URL.
	URL string

	// FinalURL is the URL after redirects; equals URL when none occurred.
	FinalURL string

	// StatusCode is the final HTTP status (0 for degraded fetches).
	StatusCode int

	// RedirectHops is the number of redirects followed to reach FinalURL.
	RedirectHops int

	// Indexability is the page's classified state.
	Indexability model.Indexability

	// Title is the page title, empty when absent.
	Title string

	// MetaDescription is the meta description, empty when absent.
	MetaDescription string

	// CanonicalURL is the declared canonical URL, empty when absent.
	CanonicalURL string

	// RobotsMeta is the robots meta content.
	RobotsMeta string

	// H1Count and H2Count are true element totals; H2s holds the retained
	// heading texts used as duplicate-detection evidence.
	H1Count int
	H2Count int
	H2s     []string

	// WordCount is the visible-text word count.
	WordCount int

	// ReadingEase is the Flesch reading-ease score. Valid only when
	// HasReadingEase is true; the signal is optional and may be absent.
	ReadingEase    float64
	HasReadingEase bool

	// InternalLinksOut / ExternalLinksOut count classified outbound links.
	InternalLinksOut int
	ExternalLinksOut int

	// EmptyAnchorInternal counts internal links with empty anchor text.
	EmptyAnchorInternal int

	// BrokenExternal holds external link targets that fail to parse as
	// absolute URLs.
	BrokenExternal []string

	// InlinkCount is the number of inbound internal links observed for
	// this page so far in the run.
	InlinkCount int

	// InSitemap is true when the page's normalized URL was listed in a
	// sitemap.
	InSitemap bool

	// Images summarizes the page's <img> evidence.
	Images ImageEvidence

	// Headers holds the HTTP response headers, nil for degraded fetches.
	Headers http.Header
}

// ImageEvidence aggregates per-page image signals for the image rules.
type ImageEvidence struct {
	// Total is the number of <img> elements.
	Total int

	// MissingAlt counts images without alt text.
	MissingAlt int

	// MissingDimensions counts images without width/height attributes.
	MissingDimensions int

	// OversizedCount counts images whose measured byte size exceeded the
	// configured threshold; OversizedBytes is their combined size.
	OversizedCount int
	OversizedBytes int64
}

// Header returns the first value of a response header, "" when absent.
func (c *Context) Header(name string) string {
	if c.Headers == nil {
		return ""
	}
	return c.Headers.Get(name)
}

// Indexable reports whether the page was classified as indexable. Most
// content rules only apply to indexable pages.
func (c *Context) Indexable() bool {
	return c.Indexability == model.IndexabilityIndexable
}
