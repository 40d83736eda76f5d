// Package urlutil canonicalizes URLs for deduplication and decides
// same-site membership for the crawl.
package urlutil

import (
	"net/url"
	"strings"
)

// Normalize canonicalizes a URL for deduplication.
//
// Design decision: We normalize URLs because:
//  1. The same page can have different URL representations
//  2. Fragments (#anchor) don't change content
//  3. http://example.com and http://example.com/ are the same page
//
// Unparseable input is returned as-is: it still deduplicates against
// itself, and rejecting it is the caller's concern.
func Normalize(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}

// IsInternal reports whether a URL belongs to the audited site.
// Hosts are compared case-insensitively, and a "www." prefix on either
// side is ignored so www.example.com and example.com count as one site.
func IsInternal(rawURL, baseHost string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	// Relative URLs without a host are internal by definition.
	if u.Host == "" && u.Scheme == "" {
		return true
	}
	return sameHost(u.Hostname(), baseHost)
}

// sameHost compares two hostnames ignoring case and a www. prefix.
func sameHost(a, b string) bool {
	return strings.EqualFold(stripWWW(a), stripWWW(b))
}

func stripWWW(host string) string {
	if len(host) > 4 && strings.EqualFold(host[:4], "www.") {
		return host[4:]
	}
	return host
}

// BaseURL builds the root URL for a domain, defaulting to https when the
// caller passed a bare hostname.
func BaseURL(domain string) (*url.URL, error) {
	trimmed := strings.TrimSpace(domain)
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, err
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}
