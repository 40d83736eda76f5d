// Package sitemap fetches and recursively expands XML sitemaps into a
// capped flat list of candidate page URLs.
package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// DefaultMaxBodySize limits how much of a sitemap response is read.
// Sitemaps over this size are truncated, which at worst loses entries.
const DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

// Resolver expands sitemap indexes into page URLs.
// A single Resolver is safe for one run; it keeps a per-run fetch dedup set.
type Resolver struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
	logger      *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithUserAgent sets the User-Agent header for sitemap fetches.
func WithUserAgent(ua string) Option {
	return func(r *Resolver) {
		r.userAgent = ua
	}
}

// WithMaxBodySize limits the bytes read per sitemap document.
func WithMaxBodySize(size int64) Option {
	return func(r *Resolver) {
		r.maxBodySize = size
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver using the given HTTP client.
func NewResolver(client *http.Client, opts ...Option) *Resolver {
	r := &Resolver{
		client:      client,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// document covers both sitemap shapes. The root element name distinguishes
// a <sitemapindex> (child sitemaps) from a <urlset> (page URLs); parsing
// both child kinds unconditionally lets one struct handle either.
type document struct {
	XMLName  xml.Name
	Sitemaps []entry `xml:"sitemap"`
	URLs     []entry `xml:"url"`
}

type entry struct {
	Loc string `xml:"loc"`
}

// Resolve processes the candidate sitemap URLs as a work queue: indexes push
// their children onto the queue, urlsets contribute page URLs to the result.
// Collection stops as soon as maxURLs entries are gathered. Each sitemap URL
// is fetched at most once; fetch failures and malformed XML are logged and
// skipped. Termination is guaranteed by the dedup set plus the cap.
func (r *Resolver) Resolve(ctx context.Context, candidates []string, maxURLs int) []string {
	urls := make([]string, 0)
	queue := append([]string(nil), candidates...)
	fetched := make(map[string]bool)

	for len(queue) > 0 && len(urls) < maxURLs {
		select {
		case <-ctx.Done():
			return urls
		default:
		}

		sitemapURL := queue[0]
		queue = queue[1:]

		if fetched[sitemapURL] {
			continue
		}
		fetched[sitemapURL] = true

		doc, err := r.fetch(ctx, sitemapURL)
		if err != nil {
			r.logger.Debug("sitemap fetch failed", "url", sitemapURL, "error", err)
			continue
		}

		if strings.EqualFold(doc.XMLName.Local, "sitemapindex") {
			for _, child := range doc.Sitemaps {
				if loc := strings.TrimSpace(child.Loc); loc != "" {
					queue = append(queue, loc)
				}
			}
			continue
		}

		for _, page := range doc.URLs {
			if len(urls) >= maxURLs {
				break
			}
			if loc := strings.TrimSpace(page.Loc); loc != "" {
				urls = append(urls, loc)
			}
		}
	}

	return urls
}

// fetch retrieves and parses one sitemap document.
func (r *Resolver) fetch(ctx context.Context, sitemapURL string) (*document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, err
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: sitemapURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBodySize))
	if err != nil {
		return nil, err
	}

	var doc document
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// StatusError reports a non-success HTTP status for a sitemap fetch.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("sitemap fetch returned status %d for %s", e.StatusCode, e.URL)
}
