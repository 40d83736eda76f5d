package crawler

import (
	"github.com/seoaudit/seoaudit/internal/model"
	"github.com/seoaudit/seoaudit/internal/rules"
	"github.com/seoaudit/seoaudit/internal/urlutil"
)

// OrphanPass re-checks every crawled page against the final inlink table.
// During the crawl a page's inlink count is only a snapshot, so a page
// evaluated early can look orphaned while later pages link to it, and vice
// versa. This pass runs after the crawl settles and emits orphan findings
// for sitemap-listed pages that truly ended with zero inbound links,
// skipping pages the main pass already flagged.
func OrphanPass(result *Result) []model.Finding {
	var findings []model.Finding
	for _, page := range result.Pages {
		norm := urlutil.Normalize(page.URL)
		if !result.SitemapSet[norm] || result.Inlinks[norm] > 0 {
			continue
		}
		if hasOrphanFinding(result.Findings, page.URL) {
			continue
		}
		findings = append(findings, *rules.OrphanFinding(page.URL))
	}
	return findings
}

// hasOrphanFinding reports whether an orphan finding for the URL already
// exists. Linear scan; finding lists are bounded, so no index is kept.
func hasOrphanFinding(findings []model.Finding, url string) bool {
	for _, f := range findings {
		if f.RuleID == "RULE_ORPHAN_PAGE" && f.URL == url {
			return true
		}
	}
	return false
}
