package rules

import (
	"fmt"

	"github.com/seoaudit/seoaudit/internal/model"
)

// maxExternalLinks is the outbound external link count above which a page
// starts to look like a link farm.
const maxExternalLinks = 25

// orphanPageRule flags sitemap-listed pages with zero observed inbound
// internal links. The dedicated post-crawl pass produces the same finding
// for pages whose inlink count only settles after the crawl completes; the
// post-pass skips pages this rule already flagged.
type orphanPageRule struct{}

func (r *orphanPageRule) ID() string       { return "RULE_ORPHAN_PAGE" }
func (r *orphanPageRule) Category() string { return model.CategoryLinks }

func (r *orphanPageRule) Check(ctx *Context) *model.Finding {
	if !ctx.InSitemap || ctx.InlinkCount > 0 {
		return nil
	}

	return OrphanFinding(ctx.URL)
}

// OrphanFinding builds the orphan-page finding for a URL. Shared with the
// post-crawl orphan pass so both emit an identical finding shape.
func OrphanFinding(url string) *model.Finding {
	return &model.Finding{
		URL:      url,
		Category: model.CategoryLinks,
		RuleID:   "RULE_ORPHAN_PAGE",
		Severity: model.SeverityMedium,
		Summary:  "Page is listed in the sitemap but has no internal links pointing to it",
		SuggestedAction: model.SuggestedAction{
			ActionType: "add_internal_links",
			Target:     url,
			Notes:      "Link to this page from related content or navigation so crawlers and users can reach it.",
		},
	}
}

// noOutboundLinksRule flags indexable pages with no outbound links at all,
// a dead end for both crawlers and users.
type noOutboundLinksRule struct{}

func (r *noOutboundLinksRule) ID() string       { return "RULE_NO_OUTBOUND_LINKS" }
func (r *noOutboundLinksRule) Category() string { return model.CategoryLinks }

func (r *noOutboundLinksRule) Check(ctx *Context) *model.Finding {
	if !ctx.Indexable() || ctx.InternalLinksOut+ctx.ExternalLinksOut > 0 {
		return nil
	}

	return finding(r, ctx, model.SeverityLow,
		"Page has no outbound links",
		nil,
		model.SuggestedAction{
			ActionType: "add_internal_links",
			Target:     ctx.URL,
			Notes:      "Add links to related pages so link equity flows onward.",
		})
}

// tooManyExternalLinksRule flags pages with more than 25 followed external
// outbound links.
type tooManyExternalLinksRule struct{}

func (r *tooManyExternalLinksRule) ID() string       { return "RULE_TOO_MANY_EXTERNAL_LINKS" }
func (r *tooManyExternalLinksRule) Category() string { return model.CategoryLinks }

func (r *tooManyExternalLinksRule) Check(ctx *Context) *model.Finding {
	if ctx.ExternalLinksOut <= maxExternalLinks {
		return nil
	}

	return finding(r, ctx, model.SeverityLow,
		fmt.Sprintf("Page has %d external outbound links", ctx.ExternalLinksOut),
		map[string]any{"external_links": ctx.ExternalLinksOut},
		model.SuggestedAction{
			ActionType: "review_links",
			Target:     ctx.URL,
			Notes:      "Prune low-value external links or mark them rel=\"nofollow\".",
		})
}

// emptyAnchorTextRule flags internal links whose anchor text is empty.
// Anchor text is a relevance signal; empty anchors waste it.
type emptyAnchorTextRule struct{}

func (r *emptyAnchorTextRule) ID() string       { return "RULE_EMPTY_ANCHOR_TEXT" }
func (r *emptyAnchorTextRule) Category() string { return model.CategoryLinks }

func (r *emptyAnchorTextRule) Check(ctx *Context) *model.Finding {
	if ctx.EmptyAnchorInternal == 0 {
		return nil
	}

	return finding(r, ctx, model.SeverityLow,
		fmt.Sprintf("Page has %d internal link(s) with empty anchor text", ctx.EmptyAnchorInternal),
		map[string]any{"empty_anchors": ctx.EmptyAnchorInternal},
		model.SuggestedAction{
			ActionType: "set_anchor_text",
			Target:     ctx.URL,
			Notes:      "Give each internal link descriptive anchor text (or an aria-label for icon links).",
		})
}

// brokenExternalLinksRule flags external link targets that are not valid
// absolute URLs, the malformed-href class of broken link detectable without
// fetching third-party sites.
type brokenExternalLinksRule struct{}

func (r *brokenExternalLinksRule) ID() string       { return "RULE_BROKEN_EXTERNAL_LINKS" }
func (r *brokenExternalLinksRule) Category() string { return model.CategoryLinks }

func (r *brokenExternalLinksRule) Check(ctx *Context) *model.Finding {
	if len(ctx.BrokenExternal) == 0 {
		return nil
	}

	return finding(r, ctx, model.SeverityMedium,
		fmt.Sprintf("Page has %d broken external link(s)", len(ctx.BrokenExternal)),
		map[string]any{"broken_links": ctx.BrokenExternal},
		model.SuggestedAction{
			ActionType: "fix_links",
			Target:     ctx.URL,
			Notes:      "Correct or remove the malformed external link targets.",
		})
}
