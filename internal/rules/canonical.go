package rules

import (
	"github.com/seoaudit/seoaudit/internal/model"
)

// missingCanonicalRule flags indexable pages that declare no canonical URL.
// Without one, URL parameter variants can split ranking signals.
type missingCanonicalRule struct{}

func (r *missingCanonicalRule) ID() string       { return "RULE_MISSING_CANONICAL" }
func (r *missingCanonicalRule) Category() string { return model.CategoryCanonical }

func (r *missingCanonicalRule) Check(ctx *Context) *model.Finding {
	if !ctx.Indexable() || ctx.CanonicalURL != "" {
		return nil
	}

	return finding(r, ctx, model.SeverityMedium,
		"Indexable page has no canonical URL",
		nil,
		model.SuggestedAction{
			ActionType:    "add_canonical",
			Target:        "head",
			ProposedValue: ctx.URL,
			Notes:         `Add <link rel="canonical"> pointing at the page's preferred URL.`,
		})
}

// canonicalizedAwayRule flags pages whose canonical points elsewhere.
// These pages hand their ranking signals to a different URL, which is
// frequently unintentional (copied templates, protocol mismatches).
type canonicalizedAwayRule struct{}

func (r *canonicalizedAwayRule) ID() string       { return "RULE_CANONICALIZED_AWAY" }
func (r *canonicalizedAwayRule) Category() string { return model.CategoryCanonical }

func (r *canonicalizedAwayRule) Check(ctx *Context) *model.Finding {
	if ctx.Indexability != model.IndexabilityCanonicalizedAway {
		return nil
	}

	return finding(r, ctx, model.SeverityHigh,
		"Page canonicalizes to a different URL and will not rank itself",
		map[string]any{"canonical_url": ctx.CanonicalURL},
		model.SuggestedAction{
			ActionType:    "review_canonical",
			Target:        ctx.URL,
			ProposedValue: ctx.URL,
			Notes:         "If this page should rank, point its canonical at itself; otherwise confirm the target URL is correct.",
		})
}

// noindexInSitemapRule flags noindex pages still listed in the sitemap.
// The sitemap invites crawling while the meta tag forbids indexing, a
// contradictory signal that wastes crawl budget.
type noindexInSitemapRule struct{}

func (r *noindexInSitemapRule) ID() string       { return "RULE_NOINDEX_IN_SITEMAP" }
func (r *noindexInSitemapRule) Category() string { return model.CategoryCanonical }

func (r *noindexInSitemapRule) Check(ctx *Context) *model.Finding {
	if ctx.Indexability != model.IndexabilityNoindex || !ctx.InSitemap {
		return nil
	}

	return finding(r, ctx, model.SeverityHigh,
		"Page is marked noindex but is listed in the sitemap",
		map[string]any{"robots_meta": ctx.RobotsMeta},
		model.SuggestedAction{
			ActionType: "remove_from_sitemap",
			Target:     ctx.URL,
			Notes:      "Remove the URL from the sitemap, or drop the noindex directive if the page should be indexed.",
		})
}
