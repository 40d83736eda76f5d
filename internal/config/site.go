package config

// SiteConfig holds site-specific configuration for a single domain.
// This allows customizing crawl behavior per audited site.
type SiteConfig struct {
	// Cookie is an HTTP cookie to use when crawling this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	// Useful for auditing staging sites behind a cookie gate.
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// MaxPages overrides the global page budget for this site.
	// If zero, the global MaxPages is used.
	MaxPages int `yaml:"maxPages,omitempty"`

	// MaxDepth overrides the global crawl depth for this site.
	// If zero, the global MaxDepth is used.
	MaxDepth int `yaml:"maxDepth,omitempty"`

	// RespectRobots overrides the global robots.txt setting for this site.
	// Nil means use the global setting.
	RespectRobots *bool `yaml:"respectRobots,omitempty"`

	// IgnorePatterns are URL patterns to skip during crawling.
	// Patterns are matched against the URL path using glob syntax.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`
}

// File represents the structure of the .seoaudit configuration file.
type File struct {
	// Sites maps domains to their site-specific configurations.
	// Keys should be the domain without the protocol (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific domain.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(domain string) SiteConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with site-specific configuration if present
	if siteConfig, ok := cf.Sites[domain]; ok {
		if siteConfig.Cookie != "" {
			result.Cookie = siteConfig.Cookie
		}
		if siteConfig.MaxPages != 0 {
			result.MaxPages = siteConfig.MaxPages
		}
		if siteConfig.MaxDepth != 0 {
			result.MaxDepth = siteConfig.MaxDepth
		}
		if siteConfig.RespectRobots != nil {
			result.RespectRobots = siteConfig.RespectRobots
		}
		if len(siteConfig.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range siteConfig.Headers {
				result.Headers[k] = v
			}
		}
		if len(siteConfig.IgnorePatterns) > 0 {
			result.IgnorePatterns = siteConfig.IgnorePatterns
		}
	}

	return result
}
