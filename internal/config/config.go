package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen to keep a single audit run fast and polite while
// still covering enough of a site to produce meaningful findings.
const (
	// DefaultTimeout is the per-request timeout. Ten seconds is generous
	// for a single page fetch; pages slower than this are a finding in
	// themselves and get recorded as degraded.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxDepth bounds link-following distance from the seed page.
	// Three hops from the homepage covers the pages that matter for SEO
	// on most sites; deeper pages rarely rank anyway.
	DefaultMaxDepth = 3

	// DefaultMaxPages is the page budget per audit run. This prevents
	// runaway crawling on large or infinitely-generating sites.
	// Users can override this via the --max-pages CLI flag.
	DefaultMaxPages = 50

	// DefaultConcurrency is the crawl worker pool size. Five parallel
	// fetches keeps runs quick without hammering small sites.
	DefaultConcurrency = 5

	// DefaultBatchSize of 3 concurrent domain audits balances throughput
	// with resource usage when auditing a list of domains.
	DefaultBatchSize = 3

	// AppName is the application name used for XDG directory paths.
	AppName = "seoaudit"

	// DefaultUserAgent identifies the auditor in HTTP requests.
	// Using a descriptive User-Agent is good practice and allows operators
	// to identify auditor traffic in their logs.
	DefaultUserAgent = "SEOAudit/1.0 (+https://github.com/seoaudit/seoaudit)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultImageSizeThreshold is the per-image byte size above which the
	// oversized-image rule fires. 500KB is well past the point where an
	// image hurts page speed.
	DefaultImageSizeThreshold = 500 * 1024
)

// Config holds all configuration options for an audit run.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// Timeout is the timeout for each HTTP request.
	// This applies to individual requests, not the overall run duration.
	Timeout time.Duration

	// MaxDepth is the maximum link depth from the seed page.
	// Depth 0 means only fetch the seed and sitemap pages.
	MaxDepth int

	// MaxPages is the maximum number of pages to process per run.
	// A value of 0 means use the default (DefaultMaxPages).
	MaxPages int

	// Concurrency is the number of parallel page fetches during the crawl.
	Concurrency int

	// RespectRobots controls whether robots.txt disallow rules are honored.
	// Disable only for sites you operate, e.g. staging environments that
	// block all crawlers.
	RespectRobots bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent audits when processing multiple
	// domains. Higher values increase throughput but multiply the open
	// connection count.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .seoaudit in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the config
	// file. This is populated by LoadConfigFile and used during audits.
	SiteConfigs *File

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output with tables, alerts,
	// and pie charts. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// Targets is the list of domains or URLs to audit.
	// Must contain at least one entry.
	Targets []string

	// DBDir is the directory path for storing the SQLite database.
	// When set, audit results are saved for historical comparison.
	// When empty, results are not persisted.
	// Defaults to XDG data directory (~/.local/share/seoaudit on Linux).
	DBDir string

	// SaveToDB indicates whether to save audit results to the database.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool

	// UserAgent is the User-Agent header sent with HTTP requests and the
	// agent string matched against robots.txt user-agent blocks.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory exhaustion.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// ImageSizeThreshold is the per-image byte size above which the
	// oversized-image rule fires. Set to 0 to disable image measurement.
	ImageSizeThreshold int64
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, page caps).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:            DefaultTimeout,
		MaxDepth:           DefaultMaxDepth,
		MaxPages:           DefaultMaxPages,
		Concurrency:        DefaultConcurrency,
		RespectRobots:      true,
		BatchSize:          DefaultBatchSize,
		UserAgent:          DefaultUserAgent,
		MaxBodySize:        DefaultMaxBodySize,
		ImageSizeThreshold: DefaultImageSizeThreshold,
	}
}

// XDGDataDir returns the XDG data directory for seoaudit.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/seoaudit
// On macOS: ~/Library/Application Support/seoaudit
// On Windows: %LOCALAPPDATA%\seoaudit
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for seoaudit.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for seoaudit.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any auditing begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one target to audit
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// Concurrency must be positive; zero workers means no crawling
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	// BatchSize must be positive; zero would mean no auditing
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// MaxPages must be positive; the budget bounds the whole run
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	// MaxDepth must be non-negative; 0 restricts the crawl to seeds
	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// MaxBodySize must be non-negative if set
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
