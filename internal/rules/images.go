package rules

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/seoaudit/seoaudit/internal/model"
)

// imagesMissingAltRule flags pages with any <img> lacking alt text.
// Alt text is both an accessibility requirement and the main relevance
// signal for image search.
type imagesMissingAltRule struct{}

func (r *imagesMissingAltRule) ID() string       { return "RULE_IMAGES_MISSING_ALT" }
func (r *imagesMissingAltRule) Category() string { return model.CategoryImages }

func (r *imagesMissingAltRule) Check(ctx *Context) *model.Finding {
	if ctx.Images.MissingAlt == 0 {
		return nil
	}

	return finding(r, ctx, model.SeverityMedium,
		fmt.Sprintf("%d of %d images are missing alt text", ctx.Images.MissingAlt, ctx.Images.Total),
		map[string]any{"missing_alt": ctx.Images.MissingAlt, "total_images": ctx.Images.Total},
		model.SuggestedAction{
			ActionType: "add_alt_text",
			Target:     "img",
			Notes:      "Describe each image's content in its alt attribute; use alt=\"\" only for purely decorative images.",
		})
}

// imagesMissingDimensionsRule flags images without width/height attributes,
// which cause layout shift while the page loads.
type imagesMissingDimensionsRule struct{}

func (r *imagesMissingDimensionsRule) ID() string       { return "RULE_IMAGES_MISSING_DIMENSIONS" }
func (r *imagesMissingDimensionsRule) Category() string { return model.CategoryImages }

func (r *imagesMissingDimensionsRule) Check(ctx *Context) *model.Finding {
	if ctx.Images.MissingDimensions == 0 {
		return nil
	}

	return finding(r, ctx, model.SeverityLow,
		fmt.Sprintf("%d of %d images lack width/height attributes", ctx.Images.MissingDimensions, ctx.Images.Total),
		map[string]any{"missing_dimensions": ctx.Images.MissingDimensions, "total_images": ctx.Images.Total},
		model.SuggestedAction{
			ActionType: "add_dimensions",
			Target:     "img",
			Notes:      "Add explicit width and height so the browser can reserve layout space.",
		})
}

// imagesTooLargeRule flags pages whose measured image payload contains
// files above the configured per-image threshold.
type imagesTooLargeRule struct {
	threshold int64
}

func (r *imagesTooLargeRule) ID() string       { return "RULE_IMAGES_TOO_LARGE" }
func (r *imagesTooLargeRule) Category() string { return model.CategoryImages }

func (r *imagesTooLargeRule) Check(ctx *Context) *model.Finding {
	if r.threshold <= 0 || ctx.Images.OversizedCount == 0 {
		return nil
	}

	total := humanize.Bytes(uint64(ctx.Images.OversizedBytes))
	return finding(r, ctx, model.SeverityMedium,
		fmt.Sprintf("%d image(s) exceed %s each (%s combined)",
			ctx.Images.OversizedCount, humanize.Bytes(uint64(r.threshold)), total),
		map[string]any{
			"oversized_count": ctx.Images.OversizedCount,
			"oversized_bytes": ctx.Images.OversizedBytes,
			"threshold_bytes": r.threshold,
		},
		model.SuggestedAction{
			ActionType: "compress_images",
			Target:     ctx.URL,
			Notes:      "Re-encode the large images (WebP/AVIF) and serve responsive sizes.",
		})
}
