// Package report assembles the final audit report and writes it in multiple
// output formats.
//
// Build computes the aggregate counts, severity breakdowns, and the bounded
// health score from the crawl's pages and findings. The Writer
// implementations then serialize the result:
//
//   - JSONWriter: the machine-readable contract consumed by downstream tools
//   - MarkdownWriter: documentation-friendly output with severity tables
//   - SimpleWriter: human-readable terminal output
//
// MultiWriter fans one report out to several destinations at once.
package report
