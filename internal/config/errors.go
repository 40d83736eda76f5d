package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoTarget is returned when no target domain is specified.
	// The audit command takes its targets as positional arguments.
	ErrNoTarget = errors.New("no target specified: provide one or more domains")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the crawl worker count is not
	// positive. Zero workers would stall the crawl entirely.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no concurrent audits, effectively
	// stopping the run.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidMaxPages is returned when the page budget is not positive.
	// A budget of zero would produce an empty report on every run.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidMaxDepth is returned when the crawl depth is negative.
	// Use 0 to restrict the crawl to the seed and sitemap pages.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
