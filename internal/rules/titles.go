package rules

import (
	"fmt"
	"unicode/utf8"

	"github.com/seoaudit/seoaudit/internal/model"
)

// Title and meta description length thresholds, in characters. These track
// the pixel widths search engines render before truncating snippets.
const (
	maxTitleLength    = 60
	minTitleLength    = 30
	maxMetaDescLength = 160
)

// missingTitleRule flags indexable pages without a <title>.
type missingTitleRule struct{}

func (r *missingTitleRule) ID() string       { return "RULE_MISSING_TITLE" }
func (r *missingTitleRule) Category() string { return model.CategoryTitle }

func (r *missingTitleRule) Check(ctx *Context) *model.Finding {
	if !ctx.Indexable() || ctx.Title != "" {
		return nil
	}

	return finding(r, ctx, model.SeverityHigh,
		"Indexable page has no title tag",
		nil,
		model.SuggestedAction{
			ActionType: "set_title",
			Target:     "head > title",
			Notes:      "Write a unique, descriptive title of roughly 30-60 characters.",
		})
}

// titleTooLongRule flags titles over 60 characters, which get truncated
// in search result snippets.
type titleTooLongRule struct{}

func (r *titleTooLongRule) ID() string       { return "RULE_TITLE_TOO_LONG" }
func (r *titleTooLongRule) Category() string { return model.CategoryTitle }

func (r *titleTooLongRule) Check(ctx *Context) *model.Finding {
	// Thresholds are in characters, not bytes: multi-byte titles must not
	// trip the limit early.
	length := utf8.RuneCountInString(ctx.Title)
	if length <= maxTitleLength {
		return nil
	}

	return finding(r, ctx, model.SeverityLow,
		fmt.Sprintf("Title is %d characters, over the %d character display limit", length, maxTitleLength),
		map[string]any{"title": ctx.Title, "length": length},
		model.SuggestedAction{
			ActionType: "set_title",
			Target:     "head > title",
			Notes:      fmt.Sprintf("Shorten the title to at most %d characters, keeping the primary keyword near the front.", maxTitleLength),
		})
}

// titleTooShortRule flags non-empty titles under 30 characters, which
// usually underdescribe the page.
type titleTooShortRule struct{}

func (r *titleTooShortRule) ID() string       { return "RULE_TITLE_TOO_SHORT" }
func (r *titleTooShortRule) Category() string { return model.CategoryTitle }

func (r *titleTooShortRule) Check(ctx *Context) *model.Finding {
	length := utf8.RuneCountInString(ctx.Title)
	if ctx.Title == "" || length >= minTitleLength {
		return nil
	}

	return finding(r, ctx, model.SeverityLow,
		fmt.Sprintf("Title is only %d characters", length),
		map[string]any{"title": ctx.Title, "length": length},
		model.SuggestedAction{
			ActionType: "set_title",
			Target:     "head > title",
			Notes:      fmt.Sprintf("Expand the title to %d-%d characters with descriptive keywords.", minTitleLength, maxTitleLength),
		})
}

// missingMetaDescriptionRule flags indexable pages without a meta
// description; search engines then synthesize a snippet from body text.
type missingMetaDescriptionRule struct{}

func (r *missingMetaDescriptionRule) ID() string       { return "RULE_MISSING_META_DESCRIPTION" }
func (r *missingMetaDescriptionRule) Category() string { return model.CategoryMeta }

func (r *missingMetaDescriptionRule) Check(ctx *Context) *model.Finding {
	if !ctx.Indexable() || ctx.MetaDescription != "" {
		return nil
	}

	return finding(r, ctx, model.SeverityMedium,
		"Indexable page has no meta description",
		nil,
		model.SuggestedAction{
			ActionType: "set_meta_description",
			Target:     `head > meta[name="description"]`,
			Notes:      fmt.Sprintf("Write a compelling summary of up to %d characters.", maxMetaDescLength),
		})
}

// metaDescriptionTooLongRule flags descriptions over 160 characters.
type metaDescriptionTooLongRule struct{}

func (r *metaDescriptionTooLongRule) ID() string       { return "RULE_META_DESCRIPTION_TOO_LONG" }
func (r *metaDescriptionTooLongRule) Category() string { return model.CategoryMeta }

func (r *metaDescriptionTooLongRule) Check(ctx *Context) *model.Finding {
	length := utf8.RuneCountInString(ctx.MetaDescription)
	if length <= maxMetaDescLength {
		return nil
	}

	return finding(r, ctx, model.SeverityLow,
		fmt.Sprintf("Meta description is %d characters, over the %d character display limit", length, maxMetaDescLength),
		map[string]any{"length": length},
		model.SuggestedAction{
			ActionType: "set_meta_description",
			Target:     `head > meta[name="description"]`,
			Notes:      fmt.Sprintf("Trim the description to at most %d characters.", maxMetaDescLength),
		})
}
