// Package rules implements the findings engine: a fixed, ordered catalogue
// of independent, side-effect-free checks over a per-page evidence context.
package rules

import (
	"github.com/seoaudit/seoaudit/internal/model"
)

// Rule is one check in the catalogue. Each rule inspects only the context
// fields relevant to its concern and returns at most one finding, or nil.
//
// Statelessness is a correctness requirement, not an optimization: no rule
// may observe or depend on another rule's output, which is what makes the
// engine deterministic for a fixed context.
type Rule interface {
	// ID returns the stable rule identifier, e.g. "RULE_TITLE_TOO_LONG".
	ID() string

	// Category returns the finding category the rule belongs to.
	Category() string

	// Check evaluates the rule against one page's evidence.
	Check(ctx *Context) *model.Finding
}

// Engine evaluates the rule catalogue against page contexts.
type Engine struct {
	rules []Rule
}

// Options configures threshold-bearing rules.
type Options struct {
	// ImageSizeThreshold is the per-image byte size above which
	// RULE_IMAGES_TOO_LARGE fires. Zero disables the check.
	ImageSizeThreshold int64
}

// DefaultImageSizeThreshold is the default per-image size limit.
const DefaultImageSizeThreshold = 500 * 1024 // 500KB

// NewEngine builds an Engine with the full catalogue in its fixed order.
// Catalogue order is part of the engine's contract: for a fixed context the
// findings always come back in this order.
func NewEngine(opts Options) *Engine {
	if opts.ImageSizeThreshold == 0 {
		opts.ImageSizeThreshold = DefaultImageSizeThreshold
	}

	return &Engine{
		rules: []Rule{
			// Response codes
			&clientErrorRule{},
			&serverErrorRule{},
			&redirectChainRule{},

			// Canonicals
			&missingCanonicalRule{},
			&canonicalizedAwayRule{},
			&noindexInSitemapRule{},

			// Titles and meta descriptions
			&missingTitleRule{},
			&titleTooLongRule{},
			&titleTooShortRule{},
			&missingMetaDescriptionRule{},
			&metaDescriptionTooLongRule{},

			// Headings
			&missingH1Rule{},
			&multipleH1Rule{},
			&tooManyH2Rule{},
			&duplicateH2Rule{},

			// Content
			&thinContentRule{},
			&lowReadabilityRule{},

			// Links
			&orphanPageRule{},
			&noOutboundLinksRule{},
			&tooManyExternalLinksRule{},
			&emptyAnchorTextRule{},
			&brokenExternalLinksRule{},

			// Images
			&imagesMissingAltRule{},
			&imagesMissingDimensionsRule{},
			&imagesTooLargeRule{threshold: opts.ImageSizeThreshold},

			// Security headers
			&missingHeaderRule{id: "RULE_MISSING_REFERRER_POLICY", header: "Referrer-Policy", recommended: "strict-origin-when-cross-origin"},
			&missingHeaderRule{id: "RULE_MISSING_X_CONTENT_TYPE_OPTIONS", header: "X-Content-Type-Options", recommended: "nosniff"},
			&missingHeaderRule{id: "RULE_MISSING_CSP", header: "Content-Security-Policy", recommended: "default-src 'self'"},
			&missingHeaderRule{id: "RULE_MISSING_X_FRAME_OPTIONS", header: "X-Frame-Options", recommended: "SAMEORIGIN"},
		},
	}
}

// Evaluate runs every rule against the context and collects the findings
// in catalogue order.
func (e *Engine) Evaluate(ctx *Context) []model.Finding {
	findings := make([]model.Finding, 0)
	for _, rule := range e.rules {
		if f := rule.Check(ctx); f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}

// Rules returns the catalogue in evaluation order.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// finding assembles a Finding with the rule's identity filled in.
func finding(r Rule, ctx *Context, severity model.Severity, summary string, evidence map[string]any, action model.SuggestedAction) *model.Finding {
	return &model.Finding{
		URL:             ctx.URL,
		Category:        r.Category(),
		RuleID:          r.ID(),
		Severity:        severity,
		Summary:         summary,
		Evidence:        evidence,
		SuggestedAction: action,
	}
}
