package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/seoaudit/seoaudit/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no findings are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.AuditReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeFindings(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.AuditReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         SEO AUDIT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Domain:          %s\n", report.Service))
	sb.WriteString(fmt.Sprintf("Health Score:    %d / 100\n", report.Summary.HealthScore))
	sb.WriteString(fmt.Sprintf("Pages Crawled:   %d\n", report.PagesCrawled))
	sb.WriteString(fmt.Sprintf("Indexable Pages: %d\n", report.IndexablePages))
	sb.WriteString(fmt.Sprintf("Error Pages:     %d\n", report.ErrorPages))
	sb.WriteString(fmt.Sprintf("Duration:        %dms\n", report.DurationMs))
	sb.WriteString("\n")
}

// writeSummary writes the severity summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.AuditReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SEVERITY SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	counts := report.FindingsBySeverity
	sb.WriteString(fmt.Sprintf("  CRITICAL: %d\n", counts.Critical))
	sb.WriteString(fmt.Sprintf("  HIGH:     %d\n", counts.High))
	sb.WriteString(fmt.Sprintf("  MEDIUM:   %d\n", counts.Medium))
	sb.WriteString(fmt.Sprintf("  LOW:      %d\n", counts.Low))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  TOTAL:    %d findings\n", report.FindingsCount))
	sb.WriteString("\n")
}

// writeFindings writes all findings grouped by severity.
func (w *SimpleWriter) writeFindings(sb *strings.Builder, report *model.AuditReport) {
	if len(report.Findings) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FINDINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	// Critical first
	severities := []model.Severity{
		model.SeverityCritical,
		model.SeverityHigh,
		model.SeverityMedium,
		model.SeverityLow,
	}

	for _, severity := range severities {
		findings := findingsBySeverity(report.Findings, severity)
		if len(findings) == 0 && !w.showEmpty {
			continue
		}

		w.writeFindingsForSeverity(sb, severity, findings)
	}
}

// writeFindingsForSeverity writes findings of a specific severity level.
func (w *SimpleWriter) writeFindingsForSeverity(sb *strings.Builder, severity model.Severity, findings []model.Finding) {
	indicator := w.getSeverityIndicator(severity)
	sb.WriteString(fmt.Sprintf("[%s] %s\n", indicator, severity.String()))

	if len(findings) == 0 {
		sb.WriteString("  No findings\n\n")
		return
	}

	for _, finding := range findings {
		sb.WriteString(fmt.Sprintf("  * %s: %s\n", finding.RuleID, finding.Summary))
		sb.WriteString(fmt.Sprintf("    URL: %s\n", finding.URL))
		if w.verbose && finding.SuggestedAction.Notes != "" {
			sb.WriteString(fmt.Sprintf("    Fix: %s\n", finding.SuggestedAction.Notes))
		}
	}
	sb.WriteString("\n")
}

// getSeverityIndicator returns a visual indicator for the severity level.
func (w *SimpleWriter) getSeverityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "!!!"
	case model.SeverityHigh:
		return "!!"
	case model.SeverityMedium:
		return "!"
	case model.SeverityLow:
		return "-"
	default:
		return "?"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by seoaudit\n")
	sb.WriteString("https://github.com/seoaudit/seoaudit\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
