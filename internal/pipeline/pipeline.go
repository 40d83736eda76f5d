package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/seoaudit/seoaudit/internal/config"
	"github.com/seoaudit/seoaudit/internal/crawler"
	"github.com/seoaudit/seoaudit/internal/model"
	"github.com/seoaudit/seoaudit/internal/robots"
	"github.com/seoaudit/seoaudit/internal/urlutil"
)

// State carries one audit run's accumulated data between pipeline steps.
// Each step reads what earlier steps produced and fills in its own outputs;
// nothing outside the pipeline mutates it.
type State struct {
	// Domain is the audited domain as given by the user.
	Domain string

	// BaseURL is the seed URL derived from Domain.
	BaseURL *url.URL

	// Client is the HTTP client shared by all fetches in this run.
	Client *http.Client

	// Config is the run configuration.
	Config *config.Config

	// Site is the merged per-site configuration for Domain.
	Site config.SiteConfig

	// Logger receives structured progress logging.
	Logger *slog.Logger

	// StartTime anchors the report's duration measurement.
	StartTime time.Time

	// Robots holds the parsed robots.txt rules. Populated by SetupStep;
	// empty rules (allow everything) when robots.txt is unavailable.
	Robots *robots.Rules

	// SitemapURLs are the candidate page URLs collected from sitemaps.
	SitemapURLs []string

	// Crawl is the completed crawl result. Populated by CrawlStep.
	Crawl *crawler.Result

	// Findings accumulates rule findings across the crawl and post passes.
	Findings []model.Finding

	// Report is the final assembled report. Populated by AggregateStep.
	Report *model.AuditReport
}

// NewState prepares the run state for a domain.
// It resolves the seed URL and merges the per-site configuration.
func NewState(domain string, cfg *config.Config, client *http.Client, logger *slog.Logger) (*State, error) {
	base, err := urlutil.BaseURL(domain)
	if err != nil {
		return nil, err
	}

	var site config.SiteConfig
	if cfg.SiteConfigs != nil {
		site = cfg.SiteConfigs.GetSiteConfig(base.Hostname())
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &State{
		Domain:    domain,
		BaseURL:   base,
		Client:    client,
		Config:    cfg,
		Site:      site,
		Logger:    logger,
		StartTime: time.Now(),
	}, nil
}

// MaxPages returns the effective page budget, preferring the per-site
// override.
func (s *State) MaxPages() int {
	if s.Site.MaxPages > 0 {
		return s.Site.MaxPages
	}
	return s.Config.MaxPages
}

// MaxDepth returns the effective crawl depth, preferring the per-site
// override.
func (s *State) MaxDepth() int {
	if s.Site.MaxDepth > 0 {
		return s.Site.MaxDepth
	}
	return s.Config.MaxDepth
}

// RespectRobots returns the effective robots.txt setting, preferring the
// per-site override.
func (s *State) RespectRobots() bool {
	if s.Site.RespectRobots != nil {
		return *s.Site.RespectRobots
	}
	return s.Config.RespectRobots
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the accumulated
// state from previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
// 3. It's more extensible for future features (e.g., priority, dependencies)
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation and the state to modify.
	// Returns an error if the step fails critically; soft per-page failures
	// should be recorded in the state and return nil.
	Do(ctx context.Context, state *State) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, a default logger is created.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. Failed steps are logged but subsequent steps
// still execute.
//
// Design decision: The default is to stop on error because early failures
// (unreachable seed, bad domain) make the later steps meaningless.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// It respects context cancellation and logs each step's execution.
//
// Design decision: We check context.Done() before each step rather than
// during, because steps should handle their own timeouts. This allows
// graceful cleanup between steps while still respecting cancellation.
//
// Returns the first error encountered if continueOnError is false,
// or nil if all steps complete.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for _, step := range p.steps {
		// Check for cancellation before starting each step
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"domain", state.Domain,
		)

		if err := step.Do(ctx, state); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"domain", state.Domain,
				"error", err,
			)

			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"domain", state.Domain,
			)
		}
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}

// Run executes a complete audit for one domain: setup, crawl, orphan pass,
// and report aggregation. This is the entry point the CLI and batch
// processor use.
func Run(ctx context.Context, domain string, cfg *config.Config, client *http.Client, logger *slog.Logger) (*model.AuditReport, error) {
	state, err := NewState(domain, cfg, client, logger)
	if err != nil {
		return nil, err
	}

	p := New(WithLogger(state.Logger))
	p.AddSteps(
		NewSetupStep(),
		NewCrawlStep(),
		NewOrphanStep(),
		NewAggregateStep(),
	)

	if err := p.Execute(ctx, state); err != nil {
		return state.Report, err
	}
	return state.Report, nil
}
