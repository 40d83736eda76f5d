package rules

import (
	"fmt"

	"github.com/seoaudit/seoaudit/internal/model"
)

// missingHeaderRule flags an absent security response header on indexable
// pages. One parameterized rule type covers all four headers; each instance
// keeps its own stable ID and recommended value so the catalogue stays a
// flat ordered list.
type missingHeaderRule struct {
	id          string
	header      string
	recommended string
}

func (r *missingHeaderRule) ID() string       { return r.id }
func (r *missingHeaderRule) Category() string { return model.CategorySecurity }

func (r *missingHeaderRule) Check(ctx *Context) *model.Finding {
	if !ctx.Indexable() || ctx.Headers == nil {
		return nil
	}
	if ctx.Header(r.header) != "" {
		return nil
	}

	return finding(r, ctx, model.SeverityLow,
		fmt.Sprintf("Response is missing the %s header", r.header),
		map[string]any{"header": r.header},
		model.SuggestedAction{
			ActionType:    "add_header",
			Target:        r.header,
			ProposedValue: r.recommended,
			Notes:         fmt.Sprintf("Send %q: %q on all HTML responses.", r.header, r.recommended),
		})
}
