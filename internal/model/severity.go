package model

import (
	"encoding/json"
	"fmt"
)

// Severity represents the impact level of an SEO finding.
// It drives report ordering, health score penalties, and dashboard grouping.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. JSON marshaling converts to the
// lowercase string form that downstream consumers expect.
type Severity int

const (
	// SeverityLow indicates minor issues with limited ranking impact.
	// Examples: long titles, missing image dimensions, redirect hops.
	SeverityLow Severity = iota

	// SeverityMedium indicates issues that measurably hurt indexing or UX.
	// Examples: missing meta descriptions, thin content, orphan pages.
	SeverityMedium

	// SeverityHigh indicates issues that can keep a page out of the index.
	// Examples: missing titles, 404 responses, noindex pages in the sitemap.
	SeverityHigh

	// SeverityCritical indicates issues that break crawling or serving.
	// Examples: 5xx responses on internal pages.
	SeverityCritical
)

// String returns the lowercase string form used in reports.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Penalty returns the health score deduction applied per finding of
// this severity. The score starts at 100 and is clamped to [0,100].
func (s Severity) Penalty() int {
	switch s {
	case SeverityCritical:
		return 10
	case SeverityHigh:
		return 5
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// MarshalJSON serializes the severity as its lowercase string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the lowercase string form back into a Severity.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "low":
		*s = SeverityLow
	case "medium":
		*s = SeverityMedium
	case "high":
		*s = SeverityHigh
	case "critical":
		*s = SeverityCritical
	default:
		return fmt.Errorf("unknown severity %q", str)
	}
	return nil
}
