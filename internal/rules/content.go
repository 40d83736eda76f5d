package rules

import (
	"fmt"

	"github.com/seoaudit/seoaudit/internal/model"
)

const (
	// minWordCount is the visible-text word count below which an indexable
	// page reads as thin content.
	minWordCount = 200

	// maxDifficultReadingEase is the Flesch reading-ease score at or below
	// which text reads as very difficult.
	maxDifficultReadingEase = 30

	// minWordsForReadability is the minimum word count for the readability
	// check; shorter texts produce unstable scores.
	minWordsForReadability = 100
)

// thinContentRule flags indexable pages with fewer than 200 visible words.
type thinContentRule struct{}

func (r *thinContentRule) ID() string       { return "RULE_THIN_CONTENT" }
func (r *thinContentRule) Category() string { return model.CategoryContent }

func (r *thinContentRule) Check(ctx *Context) *model.Finding {
	if !ctx.Indexable() || ctx.WordCount >= minWordCount {
		return nil
	}

	return finding(r, ctx, model.SeverityMedium,
		fmt.Sprintf("Page has only %d words of visible content", ctx.WordCount),
		map[string]any{"word_count": ctx.WordCount},
		model.SuggestedAction{
			ActionType: "expand_content",
			Target:     ctx.URL,
			Notes:      fmt.Sprintf("Expand the page to at least %d words of substantive content, or noindex it.", minWordCount),
		})
}

// lowReadabilityRule flags hard-to-read pages. The readability signal is
// optional: when absent the rule never fires.
type lowReadabilityRule struct{}

func (r *lowReadabilityRule) ID() string       { return "RULE_LOW_READABILITY" }
func (r *lowReadabilityRule) Category() string { return model.CategoryContent }

func (r *lowReadabilityRule) Check(ctx *Context) *model.Finding {
	if !ctx.HasReadingEase || ctx.WordCount <= minWordsForReadability {
		return nil
	}
	if ctx.ReadingEase > maxDifficultReadingEase {
		return nil
	}

	return finding(r, ctx, model.SeverityLow,
		fmt.Sprintf("Content scores %.0f on Flesch reading ease (very difficult)", ctx.ReadingEase),
		map[string]any{"reading_ease": ctx.ReadingEase, "word_count": ctx.WordCount},
		model.SuggestedAction{
			ActionType: "simplify_content",
			Target:     ctx.URL,
			Notes:      "Shorten sentences and prefer common words to raise the reading-ease score.",
		})
}
