package rules

import (
	"fmt"

	"github.com/seoaudit/seoaudit/internal/model"
)

// clientErrorRule flags 4xx responses. A 404 on an internal page is high
// severity because it usually means a broken internal link or stale sitemap
// entry; other 4xx codes are medium.
type clientErrorRule struct{}

func (r *clientErrorRule) ID() string       { return "RULE_HTTP_4XX" }
func (r *clientErrorRule) Category() string { return model.CategoryResponse }

func (r *clientErrorRule) Check(ctx *Context) *model.Finding {
	if ctx.StatusCode < 400 || ctx.StatusCode >= 500 {
		return nil
	}

	severity := model.SeverityMedium
	if ctx.StatusCode == 404 {
		severity = model.SeverityHigh
	}

	return finding(r, ctx, severity,
		fmt.Sprintf("Page returns HTTP %d", ctx.StatusCode),
		map[string]any{"status_code": ctx.StatusCode},
		model.SuggestedAction{
			ActionType: "fix_or_redirect",
			Target:     ctx.URL,
			Notes:      "Restore the page content or 301-redirect the URL to a live replacement, then remove stale references.",
		})
}

// serverErrorRule flags 5xx responses as critical: the server is failing
// to serve the page to crawlers and users alike.
type serverErrorRule struct{}

func (r *serverErrorRule) ID() string       { return "RULE_HTTP_5XX" }
func (r *serverErrorRule) Category() string { return model.CategoryResponse }

func (r *serverErrorRule) Check(ctx *Context) *model.Finding {
	if ctx.StatusCode < 500 || ctx.StatusCode >= 600 {
		return nil
	}

	return finding(r, ctx, model.SeverityCritical,
		fmt.Sprintf("Page returns server error HTTP %d", ctx.StatusCode),
		map[string]any{"status_code": ctx.StatusCode},
		model.SuggestedAction{
			ActionType: "fix_server_error",
			Target:     ctx.URL,
			Notes:      "Investigate server logs for this URL; a 5xx tells search engines the site is unreliable.",
		})
}

// redirectChainRule flags internal redirect chains longer than one hop.
// Each extra hop wastes crawl budget and dilutes link signals.
type redirectChainRule struct{}

func (r *redirectChainRule) ID() string       { return "RULE_REDIRECT_CHAIN" }
func (r *redirectChainRule) Category() string { return model.CategoryResponse }

func (r *redirectChainRule) Check(ctx *Context) *model.Finding {
	if ctx.RedirectHops <= 1 {
		return nil
	}

	return finding(r, ctx, model.SeverityLow,
		fmt.Sprintf("URL redirects through %d hops before resolving", ctx.RedirectHops),
		map[string]any{
			"redirect_hops": ctx.RedirectHops,
			"final_url":     ctx.FinalURL,
		},
		model.SuggestedAction{
			ActionType:    "fix_redirect",
			Target:        ctx.URL,
			ProposedValue: ctx.FinalURL,
			Notes:         "Point the original URL (and links to it) directly at the final destination.",
		})
}
