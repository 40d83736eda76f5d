// Package robots parses robots.txt into per-user-agent rule sets and
// answers path-level crawl permission queries.
package robots

import (
	"strings"
)

// RuleSet holds the directives of a single User-agent block.
// All rule sets from one robots.txt share the same Sitemaps list because
// Sitemap lines are global per the robots.txt convention.
type RuleSet struct {
	// UserAgent is the agent string the block applies to ("*" for all).
	UserAgent string

	// Disallow holds path prefixes the agent must not fetch.
	Disallow []string

	// Allow holds path prefixes that override Disallow entries.
	Allow []string

	// Sitemaps holds sitemap URLs declared anywhere in the file.
	Sitemaps []string
}

// Rules is the parsed form of one robots.txt file.
// A nil or empty Rules allows everything, which is also how an absent or
// unfetchable robots.txt is represented.
type Rules struct {
	// groups holds one RuleSet per User-agent block, in file order.
	groups []*RuleSet

	// sitemaps holds all Sitemap directives found in the file.
	sitemaps []string
}

// Parse parses robots.txt content line by line.
//
// Directives are matched case-insensitively. A User-agent line starts a new
// block; Allow/Disallow lines before any User-agent line are ignored.
// Malformed lines (no colon, unknown directive) are skipped, never fatal.
func Parse(content string) *Rules {
	r := &Rules{}

	var current *RuleSet
	for _, line := range strings.Split(content, "\n") {
		// Strip comments and surrounding whitespace.
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		colon := strings.Index(line, ":")
		if colon < 0 {
			continue
		}

		directive := strings.ToLower(strings.TrimSpace(line[:colon]))
		value := strings.TrimSpace(line[colon+1:])

		switch directive {
		case "user-agent":
			current = &RuleSet{UserAgent: value}
			r.groups = append(r.groups, current)
		case "disallow":
			if current != nil && value != "" {
				current.Disallow = append(current.Disallow, value)
			}
		case "allow":
			if current != nil && value != "" {
				current.Allow = append(current.Allow, value)
			}
		case "sitemap":
			if value != "" {
				r.sitemaps = append(r.sitemaps, value)
			}
		}
		// Unknown directives (Crawl-delay, Host, ...) are skipped.
	}

	// Sitemap lines are global: attach them to every block.
	for _, g := range r.groups {
		g.Sitemaps = r.sitemaps
	}

	return r
}

// Sitemaps returns the sitemap URLs declared in the file.
func (r *Rules) Sitemaps() []string {
	if r == nil {
		return nil
	}
	return r.sitemaps
}

// Allowed reports whether the given path may be fetched by the given agent.
//
// Block selection: the block whose User-agent exactly equals agent
// (case-insensitive) wins; otherwise the "*" block; otherwise everything
// is allowed. Within the selected block an Allow prefix match wins
// immediately, before any Disallow is consulted, regardless of declaration
// order in the file. Otherwise a Disallow prefix match blocks.
func (r *Rules) Allowed(agent, path string) bool {
	if r == nil {
		return true
	}
	if path == "" {
		path = "/"
	}

	group := r.findGroup(agent)
	if group == nil {
		return true
	}

	for _, prefix := range group.Allow {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, prefix := range group.Disallow {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// findGroup selects the rule block for an agent: exact match first,
// then the wildcard block.
func (r *Rules) findGroup(agent string) *RuleSet {
	for _, g := range r.groups {
		if strings.EqualFold(g.UserAgent, agent) {
			return g
		}
	}
	for _, g := range r.groups {
		if g.UserAgent == "*" {
			return g
		}
	}
	return nil
}

// Groups returns the parsed rule blocks in file order.
func (r *Rules) Groups() []*RuleSet {
	if r == nil {
		return nil
	}
	return r.groups
}
