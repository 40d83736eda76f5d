// Package classify maps HTTP, robots, and meta signals to one of the fixed
// indexability states.
package classify

import (
	"net/url"
	"strings"

	"github.com/seoaudit/seoaudit/internal/model"
)

// Signals carries everything the classifier inspects for one page.
type Signals struct {
	// StatusCode is the final HTTP status.
	StatusCode int

	// RobotsMeta is the content of the page's <meta name="robots">.
	RobotsMeta string

	// XRobotsTag is the X-Robots-Tag response header value.
	XRobotsTag string

	// ContentType is the Content-Type response header value.
	ContentType string

	// CanonicalURL is the page's declared canonical URL, if any.
	CanonicalURL string

	// PageURL is the page's own URL.
	PageURL string

	// BlockedByRobots is true when robots.txt disallowed the fetch.
	BlockedByRobots bool
}

// Page returns the indexability state for the given signals.
//
// The evaluation order is a deliberate policy, not incidental: a deeper
// obstacle (non-success status) masks shallower ones (noindex, canonical).
// First match wins:
//  1. status outside [200,300) -> non_html
//  2. Content-Type present and not text/html -> non_html
//  3. blocked by robots.txt -> blocked_by_robots
//  4. noindex in robots meta or X-Robots-Tag -> noindex
//  5. canonical present, valid, and pointing elsewhere -> canonicalized_away
//  6. otherwise -> indexable
func Page(s Signals) model.Indexability {
	if s.StatusCode < 200 || s.StatusCode >= 300 {
		return model.IndexabilityNonHTML
	}

	if s.ContentType != "" && !strings.Contains(s.ContentType, "text/html") {
		return model.IndexabilityNonHTML
	}

	if s.BlockedByRobots {
		return model.IndexabilityBlockedByRobots
	}

	if hasNoindex(s.RobotsMeta) || hasNoindex(s.XRobotsTag) {
		return model.IndexabilityNoindex
	}

	if s.CanonicalURL != "" && canonicalizedAway(s.CanonicalURL, s.PageURL) {
		return model.IndexabilityCanonicalizedAway
	}

	return model.IndexabilityIndexable
}

// hasNoindex matches the noindex directive as a case-insensitive substring,
// tolerating values like "NOINDEX, nofollow".
func hasNoindex(directive string) bool {
	return strings.Contains(strings.ToLower(directive), "noindex")
}

// canonicalizedAway reports whether the canonical URL points at a different
// page, comparing with fragments stripped from both sides. An unparseable
// canonical is swallowed and treated as "not canonicalized away".
func canonicalizedAway(canonical, pageURL string) bool {
	cu, err := url.Parse(canonical)
	if err != nil {
		return false
	}
	pu, err := url.Parse(pageURL)
	if err != nil {
		return false
	}

	cu.Fragment = ""
	pu.Fragment = ""
	return cu.String() != pu.String()
}
