package rules

import (
	"fmt"
	"strings"

	"github.com/seoaudit/seoaudit/internal/model"
)

// maxH2PerPage is the count above which the H2 structure reads as noise
// rather than outline.
const maxH2PerPage = 10

// missingH1Rule flags indexable pages with no <h1>.
type missingH1Rule struct{}

func (r *missingH1Rule) ID() string       { return "RULE_MISSING_H1" }
func (r *missingH1Rule) Category() string { return model.CategoryHeadings }

func (r *missingH1Rule) Check(ctx *Context) *model.Finding {
	if !ctx.Indexable() || ctx.H1Count != 0 {
		return nil
	}

	return finding(r, ctx, model.SeverityHigh,
		"Indexable page has no H1 heading",
		nil,
		model.SuggestedAction{
			ActionType: "add_heading",
			Target:     "h1",
			Notes:      "Add exactly one H1 that states the page's main topic.",
		})
}

// multipleH1Rule flags pages with more than one <h1>.
type multipleH1Rule struct{}

func (r *multipleH1Rule) ID() string       { return "RULE_MULTIPLE_H1" }
func (r *multipleH1Rule) Category() string { return model.CategoryHeadings }

func (r *multipleH1Rule) Check(ctx *Context) *model.Finding {
	if ctx.H1Count <= 1 {
		return nil
	}

	return finding(r, ctx, model.SeverityMedium,
		fmt.Sprintf("Page has %d H1 headings", ctx.H1Count),
		map[string]any{"h1_count": ctx.H1Count},
		model.SuggestedAction{
			ActionType: "fix_headings",
			Target:     "h1",
			Notes:      "Keep a single H1 and demote the others to H2.",
		})
}

// tooManyH2Rule is informational: flags pages with more than ten <h2>s.
type tooManyH2Rule struct{}

func (r *tooManyH2Rule) ID() string       { return "RULE_TOO_MANY_H2" }
func (r *tooManyH2Rule) Category() string { return model.CategoryHeadings }

func (r *tooManyH2Rule) Check(ctx *Context) *model.Finding {
	if ctx.H2Count <= maxH2PerPage {
		return nil
	}

	return finding(r, ctx, model.SeverityLow,
		fmt.Sprintf("Page has %d H2 headings", ctx.H2Count),
		map[string]any{"h2_count": ctx.H2Count},
		model.SuggestedAction{
			ActionType: "fix_headings",
			Target:     "h2",
			Notes:      "Consider restructuring: group related sections or demote minor headings to H3.",
		})
}

// duplicateH2Rule flags repeated H2 texts, which make the outline ambiguous
// for both readers and crawlers. Comparison is case-insensitive over the
// retained heading evidence.
type duplicateH2Rule struct{}

func (r *duplicateH2Rule) ID() string       { return "RULE_DUPLICATE_H2" }
func (r *duplicateH2Rule) Category() string { return model.CategoryHeadings }

func (r *duplicateH2Rule) Check(ctx *Context) *model.Finding {
	seen := make(map[string]bool)
	duplicates := make([]string, 0)
	for _, h2 := range ctx.H2s {
		key := strings.ToLower(strings.TrimSpace(h2))
		if key == "" {
			continue
		}
		if seen[key] {
			duplicates = append(duplicates, h2)
		}
		seen[key] = true
	}

	if len(duplicates) == 0 {
		return nil
	}

	return finding(r, ctx, model.SeverityLow,
		fmt.Sprintf("Page repeats %d H2 heading(s)", len(duplicates)),
		map[string]any{"duplicates": duplicates},
		model.SuggestedAction{
			ActionType: "fix_headings",
			Target:     "h2",
			Notes:      "Make each H2 unique so every section has a distinct label.",
		})
}
