// Package crawler implements the bounded-concurrency breadth-first crawl
// that drives an audit run: it owns the URL frontier, the visited set, and
// the per-page fetch/extract/classify/findings pipeline.
package crawler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seoaudit/seoaudit/internal/classify"
	"github.com/seoaudit/seoaudit/internal/extractor"
	"github.com/seoaudit/seoaudit/internal/model"
	"github.com/seoaudit/seoaudit/internal/robots"
	"github.com/seoaudit/seoaudit/internal/rules"
	"github.com/seoaudit/seoaudit/internal/urlutil"
)

// Source records how a URL entered the frontier.
type Source string

const (
	// SourceSeed marks the homepage seeded at depth 0.
	SourceSeed Source = "seed"

	// SourceSitemap marks URLs collected from sitemaps.
	SourceSitemap Source = "sitemap"

	// SourceLink marks URLs discovered on crawled pages.
	SourceLink Source = "link"
)

// QueueItem is one frontier entry. Created when a URL is discovered,
// consumed exactly once by the scheduler, never mutated after creation.
type QueueItem struct {
	URL           string
	NormalizedURL string
	Depth         int
	Source        Source
}

// Crawler runs the per-site crawl. Construct with New; a Crawler is good
// for a single Run.
type Crawler struct {
	client             *http.Client
	maxPages           int
	maxDepth           int
	concurrency        int
	respectRobots      bool
	timeout            time.Duration
	userAgent          string
	maxBodySize        int64
	imageSizeThreshold int64
	cookie             string
	headers            map[string]string
	ignorePatterns     []string
	engine             *rules.Engine
	logger             *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithMaxPages sets the total page budget for the run.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		c.maxPages = n
	}
}

// WithMaxDepth sets the maximum link depth from the seed.
func WithMaxDepth(n int) Option {
	return func(c *Crawler) {
		c.maxDepth = n
	}
}

// WithConcurrency sets the worker pool size.
func WithConcurrency(n int) Option {
	return func(c *Crawler) {
		c.concurrency = n
	}
}

// WithRespectRobots controls whether robots.txt disallow rules are honored.
func WithRespectRobots(respect bool) Option {
	return func(c *Crawler) {
		c.respectRobots = respect
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Crawler) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header and the agent string used for
// robots.txt rule lookups.
func WithUserAgent(ua string) Option {
	return func(c *Crawler) {
		c.userAgent = ua
	}
}

// WithMaxBodySize limits the bytes read per response.
func WithMaxBodySize(size int64) Option {
	return func(c *Crawler) {
		c.maxBodySize = size
	}
}

// WithImageSizeThreshold sets the per-image byte threshold for the
// oversized-image rule. Zero disables image size measurement entirely.
func WithImageSizeThreshold(size int64) Option {
	return func(c *Crawler) {
		c.imageSizeThreshold = size
	}
}

// WithCookie sets a Cookie header sent with every request, for auditing
// auth-gated staging sites.
func WithCookie(cookie string) Option {
	return func(c *Crawler) {
		c.cookie = cookie
	}
}

// WithHeaders sets additional request headers.
func WithHeaders(headers map[string]string) Option {
	return func(c *Crawler) {
		c.headers = headers
	}
}

// WithIgnorePatterns sets URL path glob patterns excluded from the crawl.
func WithIgnorePatterns(patterns []string) Option {
	return func(c *Crawler) {
		c.ignorePatterns = patterns
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler with the given HTTP client.
//
// Design decision: We require an external client because:
//  1. Transport configuration (proxies, TLS) is the caller's concern
//  2. Consistent with the sitemap resolver and robots fetcher
//  3. Allows httptest clients in tests
func New(client *http.Client, opts ...Option) *Crawler {
	c := &Crawler{
		client:             client,
		maxPages:           50,
		maxDepth:           3,
		concurrency:        5,
		respectRobots:      true,
		timeout:            10 * time.Second,
		userAgent:          "SEOAudit/1.0 (+https://github.com/seoaudit/seoaudit)",
		maxBodySize:        5 * 1024 * 1024, // 5MB
		imageSizeThreshold: rules.DefaultImageSizeThreshold,
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.client = countingClient(c.client)
	c.engine = rules.NewEngine(rules.Options{ImageSizeThreshold: c.imageSizeThreshold})

	return c
}

// Result holds everything a completed crawl produced.
type Result struct {
	// Pages are the recorded pages in completion order.
	Pages []*model.CrawledPage

	// Findings are the rule-engine findings in completion order.
	Findings []model.Finding

	// Inlinks maps normalized internal URL to observed inbound link count.
	Inlinks map[string]int

	// SitemapSet is the normalized membership set of sitemap-listed URLs.
	SitemapSet map[string]bool
}

// state is the crawl's shared mutable state. All access goes through the
// mutex: the worker pool runs on real OS threads, so check-then-act
// sequences on these structures need explicit mutual exclusion.
type state struct {
	mu        sync.Mutex
	frontier  []QueueItem
	enqueued  map[string]bool
	visited   map[string]bool
	processed int
	pages     []*model.CrawledPage
	findings  []model.Finding
	inlinks   map[string]int
}

// enqueue adds a URL to the frontier unless its normalized form was already
// enqueued. Callers must hold st.mu.
func (st *state) enqueue(item QueueItem) {
	if st.enqueued[item.NormalizedURL] {
		return
	}
	st.enqueued[item.NormalizedURL] = true
	st.frontier = append(st.frontier, item)
}

// Run crawls the site rooted at base. The robots rules and sitemap URLs come
// from the setup phase; sitemap URLs are seeded into the frontier at depth 0
// alongside the homepage.
func (c *Crawler) Run(ctx context.Context, base *url.URL, robotsRules *robots.Rules, sitemapURLs []string) (*Result, error) {
	st := &state{
		enqueued: make(map[string]bool),
		visited:  make(map[string]bool),
		inlinks:  make(map[string]int),
	}

	sitemapSet := make(map[string]bool, len(sitemapURLs))

	st.mu.Lock()
	st.enqueue(QueueItem{
		URL:           base.String(),
		NormalizedURL: urlutil.Normalize(base.String()),
		Depth:         0,
		Source:        SourceSeed,
	})
	for _, su := range sitemapURLs {
		norm := urlutil.Normalize(su)
		sitemapSet[norm] = true
		st.enqueue(QueueItem{URL: su, NormalizedURL: norm, Depth: 0, Source: SourceSitemap})
	}
	st.mu.Unlock()

	baseHost := base.Hostname()

	for {
		if err := ctx.Err(); err != nil {
			return c.result(st, sitemapSet), err
		}

		st.mu.Lock()
		remaining := c.maxPages - st.processed
		if len(st.frontier) == 0 || remaining <= 0 {
			st.mu.Unlock()
			break
		}

		batchSize := 2 * c.concurrency
		if remaining < batchSize {
			batchSize = remaining
		}
		if len(st.frontier) < batchSize {
			batchSize = len(st.frontier)
		}
		batch := st.frontier[:batchSize]
		st.frontier = st.frontier[batchSize:]
		st.mu.Unlock()

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.concurrency)
		for _, item := range batch {
			item := item
			g.Go(func() error {
				c.processItem(gctx, st, item, baseHost, robotsRules, sitemapSet)
				return nil
			})
		}
		// Workers never return errors; Wait only propagates cancellation.
		_ = g.Wait()
	}

	return c.result(st, sitemapSet), nil
}

// result snapshots the final crawl state.
func (c *Crawler) result(st *state, sitemapSet map[string]bool) *Result {
	st.mu.Lock()
	defer st.mu.Unlock()
	return &Result{
		Pages:      st.pages,
		Findings:   st.findings,
		Inlinks:    st.inlinks,
		SitemapSet: sitemapSet,
	}
}

// processItem runs one page through the fetch/extract/classify/findings
// pipeline. All failures are soft: the page degrades to an error record and
// the run continues.
func (c *Crawler) processItem(ctx context.Context, st *state, item QueueItem, baseHost string, robotsRules *robots.Rules, sitemapSet map[string]bool) {
	pageURL, parseErr := url.Parse(item.URL)
	path := "/"
	if parseErr == nil && pageURL.Path != "" {
		path = pageURL.Path
	}

	// Ignored paths never charge the page budget.
	if parseErr == nil && c.skipPath(path) {
		c.logger.Debug("skipping ignored path", "url", item.URL)
		return
	}

	// Visiting is marked here, not at enqueue time, so the frontier needs
	// no separate in-flight set; the cap is double-checked for the same
	// reason.
	st.mu.Lock()
	if st.visited[item.NormalizedURL] || st.processed >= c.maxPages {
		st.mu.Unlock()
		return
	}
	st.visited[item.NormalizedURL] = true
	st.processed++
	st.mu.Unlock()

	if parseErr != nil {
		c.record(st, errorPage(item.URL), nil)
		return
	}

	if c.respectRobots && !robotsRules.Allowed(c.userAgent, path) {
		c.logger.Debug("blocked by robots.txt", "url", item.URL)
		page := &model.CrawledPage{
			URL:          item.URL,
			Indexability: model.IndexabilityBlockedByRobots,
		}
		evidence := &rules.Context{
			URL:          item.URL,
			FinalURL:     item.URL,
			Indexability: model.IndexabilityBlockedByRobots,
			InSitemap:    sitemapSet[item.NormalizedURL],
		}
		c.record(st, page, c.engine.Evaluate(evidence))
		return
	}

	fetched, err := c.fetch(ctx, item.URL)
	if err != nil {
		c.logger.Debug("fetch failed", "url", item.URL, "error", err)
		c.record(st, errorPage(item.URL), nil)
		return
	}

	c.processFetched(ctx, st, item, baseHost, fetched, sitemapSet)
}

// processFetched extracts signals, classifies, evaluates rules, and records
// the page. Discovered internal links feed the inlink table and, below
// maxDepth, the frontier.
func (c *Crawler) processFetched(ctx context.Context, st *state, item QueueItem, baseHost string, f *fetchResult, sitemapSet map[string]bool) {
	var page *extractor.Page
	if f.isHTML() && len(f.body) > 0 {
		ex, err := extractor.New(item.URL, baseHost)
		if err == nil {
			page, err = ex.Extract(strings.NewReader(string(f.body)))
			if err != nil {
				c.logger.Debug("extract failed", "url", item.URL, "error", err)
				page = nil
			}
		}
	}

	signals := classify.Signals{
		StatusCode:  f.statusCode,
		ContentType: f.contentType,
		XRobotsTag:  f.headers.Get("X-Robots-Tag"),
		PageURL:     item.URL,
	}
	if page != nil {
		signals.RobotsMeta = page.RobotsMeta
		signals.CanonicalURL = page.CanonicalURL
	}
	indexability := classify.Page(signals)

	crawled := &model.CrawledPage{
		URL:          item.URL,
		StatusCode:   f.statusCode,
		Indexability: indexability,
	}
	if item.Depth == 0 && item.Source == SourceSeed {
		crawled.HTML = string(f.body)
	}

	evidence := &rules.Context{
		URL:          item.URL,
		FinalURL:     f.finalURL,
		StatusCode:   f.statusCode,
		RedirectHops: f.redirectHops,
		Indexability: indexability,
		InSitemap:    sitemapSet[item.NormalizedURL],
		Headers:      f.headers,
	}

	if page != nil {
		crawled.Title = page.Title
		crawled.MetaDescription = page.MetaDescription
		crawled.CanonicalURL = page.CanonicalURL
		crawled.H1Count = len(page.H1s)
		crawled.WordCount = page.WordCount

		evidence.Title = page.Title
		evidence.MetaDescription = page.MetaDescription
		evidence.CanonicalURL = page.CanonicalURL
		evidence.RobotsMeta = page.RobotsMeta
		evidence.H1Count = len(page.H1s)
		evidence.H2Count = page.H2Count
		evidence.H2s = page.H2s
		evidence.WordCount = page.WordCount
		evidence.ReadingEase = extractor.FleschReadingEase(page.Text)
		evidence.HasReadingEase = page.WordCount > 0

		c.collectLinkEvidence(st, item, page, crawled, evidence)
		c.collectImageEvidence(ctx, page, crawled, evidence)
	}

	// The inlink count visible during the main pass is whatever has been
	// observed so far; the orphan post-pass settles the final verdict.
	st.mu.Lock()
	evidence.InlinkCount = st.inlinks[item.NormalizedURL]
	st.mu.Unlock()

	c.record(st, crawled, c.engine.Evaluate(evidence))
}

// collectLinkEvidence classifies the page's outbound links, bumps inlink
// counts for internal targets, and enqueues them below the depth limit.
func (c *Crawler) collectLinkEvidence(st *state, item QueueItem, page *extractor.Page, crawled *model.CrawledPage, evidence *rules.Context) {
	for _, link := range page.Links {
		if !link.Internal {
			evidence.ExternalLinksOut++
			if broken := brokenExternal(link.URL); broken {
				evidence.BrokenExternal = append(evidence.BrokenExternal, link.URL)
			}
			continue
		}

		evidence.InternalLinksOut++
		if link.Text == "" {
			evidence.EmptyAnchorInternal++
		}

		norm := urlutil.Normalize(link.URL)
		st.mu.Lock()
		st.inlinks[norm]++
		if item.Depth < c.maxDepth {
			st.enqueue(QueueItem{
				URL:           link.URL,
				NormalizedURL: norm,
				Depth:         item.Depth + 1,
				Source:        SourceLink,
			})
		}
		st.mu.Unlock()
	}
	crawled.InternalLinksOut = evidence.InternalLinksOut
}

// collectImageEvidence aggregates image attribute evidence and, when a size
// threshold is configured, measures image sizes via HEAD requests.
func (c *Crawler) collectImageEvidence(ctx context.Context, page *extractor.Page, crawled *model.CrawledPage, evidence *rules.Context) {
	ev := rules.ImageEvidence{Total: len(page.Images)}
	for _, img := range page.Images {
		if !img.HasAlt {
			ev.MissingAlt++
		}
		if !img.HasDimensions {
			ev.MissingDimensions++
		}
	}
	crawled.ImagesMissingAlt = ev.MissingAlt
	crawled.ImagesMissingSize = ev.MissingDimensions

	if c.imageSizeThreshold > 0 {
		oversized, total := c.measureImages(ctx, page.Images)
		ev.OversizedCount = oversized
		ev.OversizedBytes = total
	}

	evidence.Images = ev
}

// brokenExternal flags external link targets that resolved to something
// unusable: a non-web scheme or an empty host.
func brokenExternal(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return true
	}
	return u.Hostname() == ""
}

// record appends a page and its findings to the run accumulators.
func (c *Crawler) record(st *state, page *model.CrawledPage, findings []model.Finding) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.pages = append(st.pages, page)
	st.findings = append(st.findings, findings...)
}

// errorPage builds the minimal degraded record for a failed page.
func errorPage(pageURL string) *model.CrawledPage {
	return &model.CrawledPage{
		URL:          pageURL,
		StatusCode:   0,
		Indexability: model.IndexabilityError,
	}
}

// skipPath reports whether a path matches any configured ignore pattern.
func (c *Crawler) skipPath(path string) bool {
	if path == "" {
		path = "/"
	}
	for _, pattern := range c.ignorePatterns {
		if matchPattern(pattern, path) {
			return true
		}
	}
	return false
}

// isHTML reports whether the fetched content type is HTML.
func (f *fetchResult) isHTML() bool {
	return f.contentType == "" || strings.Contains(f.contentType, "text/html")
}
