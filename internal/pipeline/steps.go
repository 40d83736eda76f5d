package pipeline

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/seoaudit/seoaudit/internal/crawler"
	"github.com/seoaudit/seoaudit/internal/model"
	"github.com/seoaudit/seoaudit/internal/report"
	"github.com/seoaudit/seoaudit/internal/robots"
	"github.com/seoaudit/seoaudit/internal/sitemap"
)

// SetupStep fetches and parses robots.txt, then resolves sitemap URLs.
// It runs once, upfront, so the crawl starts with a robots-compliance
// oracle and a sitemap-seeded frontier.
type SetupStep struct{}

// NewSetupStep creates a SetupStep.
func NewSetupStep() *SetupStep {
	return &SetupStep{}
}

// Name returns the step name for logging.
func (s *SetupStep) Name() string {
	return "setup"
}

// Do fetches robots.txt and collects sitemap URLs.
// Both operations degrade softly: a missing robots.txt means no crawl
// restrictions, and sitemap failures just leave the frontier link-seeded.
func (s *SetupStep) Do(ctx context.Context, state *State) error {
	state.Robots = s.fetchRobots(ctx, state)

	candidates := state.Robots.Sitemaps()
	if len(candidates) == 0 {
		// The sitemap protocol's conventional locations
		candidates = []string{
			rootURL(state, "/sitemap.xml"),
			rootURL(state, "/sitemap_index.xml"),
		}
	}

	resolver := sitemap.NewResolver(state.Client,
		sitemap.WithUserAgent(state.Config.UserAgent),
		sitemap.WithMaxBodySize(state.Config.MaxBodySize),
		sitemap.WithLogger(state.Logger),
	)
	state.SitemapURLs = resolver.Resolve(ctx, candidates, state.MaxPages())

	state.Logger.Info("setup complete",
		"domain", state.Domain,
		"robots_groups", len(state.Robots.Groups()),
		"sitemap_urls", len(state.SitemapURLs),
	)
	return nil
}

// fetchRobots retrieves and parses robots.txt for the run's domain.
// Any failure (network error, non-200) yields empty rules: everything is
// allowed when no robots.txt is served.
func (s *SetupStep) fetchRobots(ctx context.Context, state *State) *robots.Rules {
	robotsURL := rootURL(state, "/robots.txt")

	reqCtx, cancel := context.WithTimeout(ctx, state.Config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return robots.Parse("")
	}
	req.Header.Set("User-Agent", state.Config.UserAgent)

	resp, err := state.Client.Do(req)
	if err != nil {
		state.Logger.Debug("robots.txt fetch failed", "url", robotsURL, "error", err)
		return robots.Parse("")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		state.Logger.Debug("robots.txt not available", "url", robotsURL, "status", resp.StatusCode)
		return robots.Parse("")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, state.Config.MaxBodySize))
	if err != nil {
		state.Logger.Debug("robots.txt read failed", "url", robotsURL, "error", err)
		return robots.Parse("")
	}

	return robots.Parse(string(body))
}

// rootURL builds an absolute URL for a root-relative path on the run's site.
func rootURL(state *State, path string) string {
	u := *state.BaseURL
	u.Path = path
	return u.String()
}

// CrawlStep runs the bounded breadth-first crawl over the seeded frontier.
type CrawlStep struct{}

// NewCrawlStep creates a CrawlStep.
func NewCrawlStep() *CrawlStep {
	return &CrawlStep{}
}

// Name returns the step name for logging.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl and stores its result and findings on the state.
func (s *CrawlStep) Do(ctx context.Context, state *State) error {
	c := crawler.New(state.Client,
		crawler.WithMaxPages(state.MaxPages()),
		crawler.WithMaxDepth(state.MaxDepth()),
		crawler.WithConcurrency(state.Config.Concurrency),
		crawler.WithRespectRobots(state.RespectRobots()),
		crawler.WithTimeout(state.Config.Timeout),
		crawler.WithUserAgent(state.Config.UserAgent),
		crawler.WithMaxBodySize(state.Config.MaxBodySize),
		crawler.WithImageSizeThreshold(state.Config.ImageSizeThreshold),
		crawler.WithCookie(state.Site.Cookie),
		crawler.WithHeaders(state.Site.Headers),
		crawler.WithIgnorePatterns(state.Site.IgnorePatterns),
		crawler.WithLogger(state.Logger),
	)

	result, err := c.Run(ctx, state.BaseURL, state.Robots, state.SitemapURLs)
	state.Crawl = result
	if result != nil {
		state.Findings = append(state.Findings, result.Findings...)
	}
	if err != nil {
		return err
	}

	state.Logger.Info("crawl complete",
		"domain", state.Domain,
		"pages", len(result.Pages),
		"findings", len(result.Findings),
	)
	return nil
}

// OrphanStep re-checks pages against the settled inlink table and emits
// orphan findings the main pass could not decide.
type OrphanStep struct{}

// NewOrphanStep creates an OrphanStep.
func NewOrphanStep() *OrphanStep {
	return &OrphanStep{}
}

// Name returns the step name for logging.
func (s *OrphanStep) Name() string {
	return "orphan-pass"
}

// Do appends post-pass orphan findings to the state.
func (s *OrphanStep) Do(_ context.Context, state *State) error {
	if state.Crawl == nil {
		return nil
	}

	orphans := crawler.OrphanPass(state.Crawl)
	state.Findings = append(state.Findings, orphans...)

	if len(orphans) > 0 {
		state.Logger.Info("orphan pages detected",
			"domain", state.Domain,
			"count", len(orphans),
		)
	}
	return nil
}

// AggregateStep assembles the final report from the accumulated state.
type AggregateStep struct{}

// NewAggregateStep creates an AggregateStep.
func NewAggregateStep() *AggregateStep {
	return &AggregateStep{}
}

// Name returns the step name for logging.
func (s *AggregateStep) Name() string {
	return "aggregate"
}

// Do builds the report. It always produces one, even for an empty crawl.
func (s *AggregateStep) Do(_ context.Context, state *State) error {
	var pages []*model.CrawledPage
	if state.Crawl != nil {
		pages = state.Crawl.Pages
	}

	state.Report = report.Build(
		state.BaseURL.Hostname(),
		pages,
		state.Findings,
		len(state.SitemapURLs),
		time.Since(state.StartTime),
	)

	state.Logger.Info("report assembled",
		"domain", state.Domain,
		"health_score", state.Report.Summary.HealthScore,
		"findings", state.Report.FindingsCount,
	)
	return nil
}
