package model

// Finding categories. Each rule belongs to exactly one category; the report
// groups finding counts by these values.
const (
	CategoryResponse  = "response"
	CategoryCanonical = "canonical"
	CategoryTitle     = "title"
	CategoryMeta      = "meta"
	CategoryHeadings  = "headings"
	CategoryContent   = "content"
	CategoryLinks     = "links"
	CategoryImages    = "images"
	CategorySecurity  = "security"
)

// Finding represents a single detected SEO issue on one page.
// Findings are immutable once produced by a rule; the run-scoped list
// is append-only.
type Finding struct {
	// URL is the page the finding applies to.
	URL string `json:"url"`

	// Category groups related rules (response, canonical, title, ...).
	Category string `json:"category"`

	// RuleID identifies the rule that produced this finding, e.g.
	// "RULE_TITLE_TOO_LONG". Stable across runs so downstream tooling
	// can deduplicate and track issues over time.
	RuleID string `json:"rule_id"`

	// Severity is the impact level of the issue.
	Severity Severity `json:"severity"`

	// Summary is a one-line human-readable description.
	Summary string `json:"summary"`

	// Evidence holds the concrete values that triggered the rule
	// (lengths, counts, offending URLs). Keys are rule-specific.
	Evidence map[string]any `json:"evidence,omitempty"`

	// SuggestedAction describes a machine-actionable remediation so
	// downstream automation can attempt a fix without re-deriving intent.
	SuggestedAction SuggestedAction `json:"suggested_action"`
}

// SuggestedAction is a machine-actionable remediation attached to a finding.
type SuggestedAction struct {
	// ActionType names the kind of fix, e.g. "set_title", "add_canonical",
	// "fix_redirect", "add_header".
	ActionType string `json:"action_type"`

	// Target is the URL or CSS selector the fix applies to.
	Target string `json:"target"`

	// ProposedValue is the suggested replacement value, when one can be
	// derived mechanically. Empty when the fix needs human input.
	ProposedValue string `json:"proposed_value,omitempty"`

	// Notes is human-readable guidance for applying the fix.
	Notes string `json:"notes,omitempty"`
}
