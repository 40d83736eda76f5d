package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/seoaudit/seoaudit/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AuditReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeFindings(md, report)
	w.writePages(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AuditReport) {
	md.H1("SEO Audit Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Domain", "`" + report.Service + "`"},
			{"Health Score", fmt.Sprintf("%d / 100", report.Summary.HealthScore)},
			{"Pages Crawled", strconv.Itoa(report.PagesCrawled)},
			{"Indexable Pages", strconv.Itoa(report.IndexablePages)},
			{"Error Pages", strconv.Itoa(report.ErrorPages)},
			{"Sitemap URLs", strconv.Itoa(report.SitemapURLsFound)},
			{"Duration", fmt.Sprintf("%dms", report.DurationMs)},
		},
	})
	md.PlainText("")
}

// writeSummary writes the severity summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Severity Summary")
	md.PlainText("")

	counts := report.FindingsBySeverity
	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"🔴 Critical", strconv.Itoa(counts.Critical)},
			{"🟠 High", strconv.Itoa(counts.High)},
			{"🟡 Medium", strconv.Itoa(counts.Medium)},
			{"🔵 Low", strconv.Itoa(counts.Low)},
			{"**Total**", "**" + strconv.Itoa(report.FindingsCount) + "**"},
		},
	})
	md.PlainText("")

	if report.FindingsCount > 0 {
		w.writePieChart(md, counts)
	}

	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart for severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, counts model.SeverityCounts) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Finding Severity Distribution"),
		piechart.WithShowData(true),
	)

	if counts.Critical > 0 {
		chart.LabelAndIntValue("Critical", uint64(counts.Critical))
	}
	if counts.High > 0 {
		chart.LabelAndIntValue("High", uint64(counts.High))
	}
	if counts.Medium > 0 {
		chart.LabelAndIntValue("Medium", uint64(counts.Medium))
	}
	if counts.Low > 0 {
		chart.LabelAndIntValue("Low", uint64(counts.Low))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on severity counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.AuditReport) {
	counts := report.FindingsBySeverity
	switch {
	case counts.Critical > 0:
		md.Cautionf(
			"Critical issues detected! %d finding(s) are likely blocking crawling or serving.",
			counts.Critical,
		)
	case counts.High > 0:
		md.Warningf(
			"High severity issues detected. %d finding(s) can keep pages out of the index.",
			counts.High,
		)
	case counts.Medium > 0:
		md.Importantf(
			"Medium severity issues found. %d finding(s) may hurt rankings or UX.",
			counts.Medium,
		)
	case report.FindingsCount > 0:
		md.Note("Only low severity findings detected.")
	default:
		md.Tip("No SEO issues detected.")
	}
	md.PlainText("")
}

// writeFindings writes all findings grouped by severity.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Findings")
	md.PlainText("")

	if len(report.Findings) == 0 {
		md.PlainText("No findings.")
		md.PlainText("")
		return
	}

	severities := []struct {
		level  model.Severity
		header string
	}{
		{model.SeverityCritical, "### 🔴 Critical"},
		{model.SeverityHigh, "### 🟠 High"},
		{model.SeverityMedium, "### 🟡 Medium"},
		{model.SeverityLow, "### 🔵 Low"},
	}

	for _, sev := range severities {
		findings := findingsBySeverity(report.Findings, sev.level)
		if len(findings) == 0 {
			continue
		}

		md.PlainText(sev.header)
		md.PlainText("")
		w.writeFindingsTable(md, findings)
	}
}

// writeFindingsTable writes a table of findings with details.
func (w *MarkdownWriter) writeFindingsTable(md *markdown.Markdown, findings []model.Finding) {
	rows := make([][]string, len(findings))
	for i, f := range findings {
		rows[i] = []string{
			f.RuleID,
			truncateString(f.URL, 50),
			truncateString(f.Summary, 60),
			truncateString(f.SuggestedAction.Notes, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Rule", "URL", "Summary", "Suggested Fix"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePages writes the per-page summary table.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, report *model.AuditReport) {
	md.H2("Pages")
	md.PlainText("")

	if len(report.PagesSummary) == 0 {
		md.PlainText("No pages crawled.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.PagesSummary))
	for i, p := range report.PagesSummary {
		rows[i] = []string{
			truncateString(p.URL, 60),
			strconv.Itoa(p.Status),
			string(p.Indexability),
			strconv.Itoa(p.WordCount),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Status", "Indexability", "Words"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [seoaudit](https://github.com/seoaudit/seoaudit)*")
}

// findingsBySeverity filters findings to one severity level, preserving order.
func findingsBySeverity(findings []model.Finding, level model.Severity) []model.Finding {
	var out []model.Finding
	for _, f := range findings {
		if f.Severity == level {
			out = append(out, f)
		}
	}
	return out
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
