package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/seoaudit/seoaudit/internal/config"
	"github.com/seoaudit/seoaudit/internal/database"
	"github.com/seoaudit/seoaudit/internal/model"
)

// Constants for score direction and summary messages.
const (
	scoreDirectionWorsened  = "worsened"
	scoreDirectionImproved  = "improved"
	scoreDirectionUnchanged = "unchanged"
	noFindingsMessage       = "No findings"
)

// NewHistoryCmd creates the history command.
// This command lists and compares audit results stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [domain]",
		Short: "List and compare past audit results",
		Long: `History lists past audit runs for a domain and compares them.

By default it lists the audit history for the given domain. With --compare
it retrieves the latest two audits from the database and shows:
- New findings that appeared since the previous audit
- Resolved findings that are no longer present
- The change in health score and per-severity counts

Comparison requires at least two audits in the database for the specified
domain. Use 'seoaudit audit' to run audits and save results.

Examples:
  # List audit history for a domain
  seoaudit history example.com

  # Compare the latest two audits
  seoaudit history --compare example.com

  # Compare with a specific historical audit by ID
  seoaudit history --compare --with-run-id 5 example.com

  # Compare with the first audit since a specific date
  seoaudit history --compare --since "2026-01-01" example.com

  # Output comparison in JSON format
  seoaudit history --compare --json example.com

  # List all audited domains in the database
  seoaudit history --list-domains`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	// Listing flags
	cmd.Flags().BoolP("list-domains", "L", false,
		"List all audited domains in the database")

	// Comparison flags
	cmd.Flags().Bool("compare", false,
		"Compare the latest audit with a previous one")
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare with a specific audit by ID (use the default listing to see IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first audit after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output result in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	// Handle --list-domains flag first (requires database but no domain)
	listDomains, err := cmd.Flags().GetBool("list-domains")
	if err != nil {
		return err
	}

	// Validate arguments before opening database (unless --list-domains).
	// This prevents database lock issues when validation fails.
	var domain string
	if !listDomains {
		if len(args) == 0 {
			return errors.New("domain is required (use --list-domains to see available domains)")
		}
		domain = normalizeDomain(args[0])
	}

	// Use XDG data directory for database
	dbDir := config.XDGDataDir()

	// Open database
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	// Handle --list-domains flag
	if listDomains {
		return listAuditedDomains(ctx, db)
	}

	compare, err := cmd.Flags().GetBool("compare")
	if err != nil {
		return err
	}
	if !compare {
		return listAuditHistory(ctx, db, domain)
	}

	// Get output format flags
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Get comparison target flags
	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}
	sinceDate, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}

	return runComparison(ctx, db, domain, withRunID, sinceDate, jsonOutput)
}

// normalizeDomain strips any URL scheme and trailing slash from a domain
// argument so it matches the hostname stored in audit records.
func normalizeDomain(domain string) string {
	for _, prefix := range []string{"http://", "https://"} {
		domain = strings.TrimPrefix(domain, prefix)
	}
	return strings.TrimSuffix(domain, "/")
}

// listAuditedDomains lists all domains that have audit records in the database.
func listAuditedDomains(ctx context.Context, db *database.AuditDB) error {
	domains, err := db.ListAuditedDomains(ctx)
	if err != nil {
		return fmt.Errorf("failed to list domains: %w", err)
	}

	if len(domains) == 0 {
		fmt.Println("No audited domains found in the database.")
		fmt.Println("\nUse 'seoaudit audit <domain>' to audit a website.")
		return nil
	}

	fmt.Printf("Audited domains (%d):\n\n", len(domains))
	for _, domain := range domains {
		fmt.Printf("  • %s\n", domain)
	}
	fmt.Println("\nUse 'seoaudit history <domain>' to see audit history for a domain.")

	return nil
}

// listAuditHistory lists all audit records for a specific domain.
func listAuditHistory(ctx context.Context, db *database.AuditDB, domain string) error {
	runs, err := db.GetHistory(ctx, domain)
	if err != nil {
		return fmt.Errorf("failed to get audit history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Printf("No audit history found for %s\n", domain)
		fmt.Println("\nUse 'seoaudit audit' to audit this domain.")
		return nil
	}

	fmt.Printf("Audit history for %s (%d runs):\n\n", domain, len(runs))
	fmt.Printf("  %-6s  %-20s  %-7s  %-7s  %s\n", "ID", "Date", "Score", "Pages", "Findings")
	fmt.Println("  " + strings.Repeat("-", 64))

	for _, meta := range runs {
		fmt.Printf("  %-6d  %-20s  %-7d  %-7d  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			meta.HealthScore,
			meta.PagesCrawled,
			formatSeveritySummary(meta.SeveritySummary),
		)
	}

	fmt.Println("\nUse 'seoaudit history --compare <domain>' to compare the latest two audits.")
	fmt.Println("Use 'seoaudit history --compare --with-run-id <id> <domain>' to compare with a specific audit.")

	return nil
}

// formatSeveritySummary formats the severity summary map into a human-readable string.
func formatSeveritySummary(summary map[string]int) string {
	if summary == nil {
		return "N/A"
	}

	var parts []string
	if v := summary["critical"]; v > 0 {
		parts = append(parts, fmt.Sprintf("C:%d", v))
	}
	if v := summary["high"]; v > 0 {
		parts = append(parts, fmt.Sprintf("H:%d", v))
	}
	if v := summary["medium"]; v > 0 {
		parts = append(parts, fmt.Sprintf("M:%d", v))
	}
	if v := summary["low"]; v > 0 {
		parts = append(parts, fmt.Sprintf("L:%d", v))
	}

	if len(parts) == 0 {
		return noFindingsMessage
	}
	return strings.Join(parts, " ")
}

// runComparison performs the actual comparison between audit reports.
func runComparison(ctx context.Context, db *database.AuditDB, domain string, withRunID int64, sinceDate string, jsonOutput bool) error {
	runs, err := db.GetHistory(ctx, domain)
	if err != nil {
		return fmt.Errorf("failed to get audit history: %w", err)
	}

	if len(runs) == 0 {
		return fmt.Errorf("no audit history found for %s", domain)
	}

	if len(runs) < 2 && withRunID == 0 && sinceDate == "" {
		return fmt.Errorf("at least 2 audits are required for comparison (found %d)", len(runs))
	}

	// Latest report is always the current one
	currentReport, err := db.GetLatestReport(ctx, domain)
	if err != nil {
		return fmt.Errorf("failed to get latest audit: %w", err)
	}
	if currentReport == nil {
		return fmt.Errorf("no audit history found for %s", domain)
	}
	currentMeta := runs[0]

	var previousMeta database.RunMetadata
	switch {
	case withRunID > 0:
		found := false
		for _, meta := range runs {
			if meta.ID == withRunID {
				previousMeta = meta
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("audit with ID %d not found for %s", withRunID, domain)
		}
	case sinceDate != "":
		parsedDate, err := time.Parse("2006-01-02", sinceDate)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		// Runs are sorted by timestamp DESC (newest first), so iterate in
		// reverse to find the oldest run at or after the date.
		found := false
		for i := len(runs) - 1; i >= 0; i-- {
			if !runs[i].Timestamp.Before(parsedDate) {
				previousMeta = runs[i]
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("no audits found since %s", sinceDate)
		}
		if previousMeta.ID == currentMeta.ID {
			return fmt.Errorf("only one audit found since %s; at least 2 audits are required for comparison", sinceDate)
		}
	default:
		previousMeta = runs[1]
	}

	previousReport, err := db.GetReportByID(ctx, previousMeta.ID)
	if err != nil {
		return fmt.Errorf("failed to get audit with ID %d: %w", previousMeta.ID, err)
	}
	if previousReport == nil {
		return fmt.Errorf("audit with ID %d not found", previousMeta.ID)
	}

	comparison := compareReports(domain, previousReport, currentReport, previousMeta.Timestamp, currentMeta.Timestamp)

	if jsonOutput {
		return outputComparisonJSON(comparison)
	}
	return outputComparisonText(comparison)
}

// ComparisonResult holds the result of comparing two audit reports.
type ComparisonResult struct {
	// Domain is the audited domain.
	Domain string `json:"domain"`

	// PreviousRun contains metadata about the previous audit.
	PreviousRun RunSummary `json:"previous_run"`

	// CurrentRun contains metadata about the current audit.
	CurrentRun RunSummary `json:"current_run"`

	// NewFindings contains findings that are new in the current audit.
	NewFindings []model.Finding `json:"new_findings,omitempty"`

	// ResolvedFindings contains findings that were in the previous audit
	// but not in the current one.
	ResolvedFindings []model.Finding `json:"resolved_findings,omitempty"`

	// UnchangedCount is the number of findings that remain unchanged.
	UnchangedCount int `json:"unchanged_count"`

	// ScoreChange describes the overall change in site health.
	ScoreChange ScoreChange `json:"score_change"`
}

// RunSummary contains metadata about an audit run for comparison display.
type RunSummary struct {
	// DateAudited is when the audit was performed.
	DateAudited time.Time `json:"date_audited"`

	// HealthScore is the bounded site health score.
	HealthScore int `json:"health_score"`

	// TotalFindings is the total number of findings in this audit.
	TotalFindings int `json:"total_findings"`

	// CriticalCount is the number of critical findings.
	CriticalCount int `json:"critical_count"`

	// HighCount is the number of high severity findings.
	HighCount int `json:"high_count"`

	// MediumCount is the number of medium severity findings.
	MediumCount int `json:"medium_count"`

	// LowCount is the number of low severity findings.
	LowCount int `json:"low_count"`
}

// ScoreChange describes the change in site health between audits.
type ScoreChange struct {
	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	// ScoreDelta is the change in health score.
	ScoreDelta int `json:"score_delta"`

	// CriticalDelta is the change in critical findings count.
	CriticalDelta int `json:"critical_delta"`

	// HighDelta is the change in high severity findings count.
	HighDelta int `json:"high_delta"`

	// MediumDelta is the change in medium severity findings count.
	MediumDelta int `json:"medium_delta"`

	// LowDelta is the change in low severity findings count.
	LowDelta int `json:"low_delta"`
}

// compareReports compares two audit reports and generates a comparison result.
func compareReports(domain string, previous, current *model.AuditReport, previousDate, currentDate time.Time) *ComparisonResult {
	result := &ComparisonResult{
		Domain:      domain,
		PreviousRun: runSummary(previous, previousDate),
		CurrentRun:  runSummary(current, currentDate),
	}

	// Build finding maps for comparison
	previousFindings := make(map[string]model.Finding)
	currentFindings := make(map[string]model.Finding)

	for _, f := range previous.Findings {
		previousFindings[findingKey(f)] = f
	}
	for _, f := range current.Findings {
		currentFindings[findingKey(f)] = f
	}

	// Find new findings (in current but not in previous)
	for key, finding := range currentFindings {
		if _, exists := previousFindings[key]; !exists {
			result.NewFindings = append(result.NewFindings, finding)
		}
	}

	// Find resolved findings (in previous but not in current)
	for key, finding := range previousFindings {
		if _, exists := currentFindings[key]; !exists {
			result.ResolvedFindings = append(result.ResolvedFindings, finding)
		} else {
			result.UnchangedCount++
		}
	}

	result.ScoreChange = calculateScoreChange(result.PreviousRun, result.CurrentRun)

	return result
}

// runSummary extracts comparison metadata from an audit report.
func runSummary(auditReport *model.AuditReport, date time.Time) RunSummary {
	return RunSummary{
		DateAudited:   date,
		HealthScore:   auditReport.Summary.HealthScore,
		TotalFindings: auditReport.FindingsCount,
		CriticalCount: auditReport.FindingsBySeverity.Critical,
		HighCount:     auditReport.FindingsBySeverity.High,
		MediumCount:   auditReport.FindingsBySeverity.Medium,
		LowCount:      auditReport.FindingsBySeverity.Low,
	}
}

// findingKey generates a unique key for a finding for comparison purposes.
func findingKey(f model.Finding) string {
	return f.RuleID + "|" + f.URL
}

// calculateScoreChange calculates the change in site health between two audits.
func calculateScoreChange(previous, current RunSummary) ScoreChange {
	change := ScoreChange{
		ScoreDelta:    current.HealthScore - previous.HealthScore,
		CriticalDelta: current.CriticalCount - previous.CriticalCount,
		HighDelta:     current.HighCount - previous.HighCount,
		MediumDelta:   current.MediumCount - previous.MediumCount,
		LowDelta:      current.LowCount - previous.LowCount,
	}

	// The health score already weights severities, so direction follows it
	// directly. A higher score means a healthier site.
	switch {
	case change.ScoreDelta > 0:
		change.Direction = scoreDirectionImproved
	case change.ScoreDelta < 0:
		change.Direction = scoreDirectionWorsened
	default:
		change.Direction = scoreDirectionUnchanged
	}

	return change
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(result *ComparisonResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(result *ComparisonResult) error {
	fmt.Printf("Audit Comparison: %s\n", result.Domain)
	fmt.Println(strings.Repeat("=", 60))

	// Score change summary
	fmt.Printf("\nHealth Status: %s\n", formatScoreDirection(result.ScoreChange.Direction))
	fmt.Printf("Health Score:  %d -> %d (%s)\n",
		result.PreviousRun.HealthScore,
		result.CurrentRun.HealthScore,
		formatDelta(result.ScoreChange.ScoreDelta))

	// Audit dates
	fmt.Printf("\nPrevious audit: %s\n", result.PreviousRun.DateAudited.Format("2006-01-02 15:04:05"))
	fmt.Printf("Current audit:  %s\n", result.CurrentRun.DateAudited.Format("2006-01-02 15:04:05"))

	// Summary table
	fmt.Println("\nFindings Summary:")
	fmt.Printf("  %-10s  %-10s  %-10s  %-10s\n", "Severity", "Previous", "Current", "Change")
	fmt.Println("  " + strings.Repeat("-", 45))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Critical",
		result.PreviousRun.CriticalCount, result.CurrentRun.CriticalCount,
		formatDelta(result.ScoreChange.CriticalDelta))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "High",
		result.PreviousRun.HighCount, result.CurrentRun.HighCount,
		formatDelta(result.ScoreChange.HighDelta))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Medium",
		result.PreviousRun.MediumCount, result.CurrentRun.MediumCount,
		formatDelta(result.ScoreChange.MediumDelta))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Low",
		result.PreviousRun.LowCount, result.CurrentRun.LowCount,
		formatDelta(result.ScoreChange.LowDelta))
	fmt.Println("  " + strings.Repeat("-", 45))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Total",
		result.PreviousRun.TotalFindings, result.CurrentRun.TotalFindings,
		formatDelta(result.CurrentRun.TotalFindings-result.PreviousRun.TotalFindings))

	// New findings
	if len(result.NewFindings) > 0 {
		fmt.Printf("\nNew Findings (%d):\n", len(result.NewFindings))
		for _, f := range result.NewFindings {
			fmt.Printf("  [+] [%s] %s: %s\n", f.Severity, f.RuleID, f.Summary)
			if f.URL != "" {
				fmt.Printf("      URL: %s\n", f.URL)
			}
		}
	}

	// Resolved findings
	if len(result.ResolvedFindings) > 0 {
		fmt.Printf("\nResolved Findings (%d):\n", len(result.ResolvedFindings))
		for _, f := range result.ResolvedFindings {
			fmt.Printf("  [-] [%s] %s: %s\n", f.Severity, f.RuleID, f.Summary)
		}
	}

	// Unchanged count
	if result.UnchangedCount > 0 {
		fmt.Printf("\nUnchanged: %d findings\n", result.UnchangedCount)
	}

	return nil
}

// formatScoreDirection formats the score change direction for display.
func formatScoreDirection(direction string) string {
	switch direction {
	case scoreDirectionImproved:
		return "IMPROVED (health score increased)"
	case scoreDirectionWorsened:
		return "WORSENED (health score decreased)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}
