package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seoaudit/seoaudit/internal/config"
	"github.com/seoaudit/seoaudit/internal/model"
)

// BatchProcessor handles concurrent auditing of multiple domains.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-run execution
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// cfg is the shared run configuration. Per-site overrides still apply
	// per domain via the config file.
	cfg *config.Config

	// client is the HTTP client shared across audits.
	client *http.Client

	// concurrency is the maximum number of concurrent audits.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed reports, indexed by target position.
	// Access is synchronized via mutex.
	results []*model.AuditReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithBatchConcurrency sets the maximum number of concurrent audits.
func WithBatchConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(cfg *config.Config, client *http.Client, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		cfg:         cfg,
		client:      client,
		concurrency: config.DefaultBatchSize,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch audits multiple domains concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each domain gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// Returns a slice positionally aligned with domains; entries for failed
// audits are nil. The error return indicates cancellation.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, domains []string) ([]*model.AuditReport, error) {
	bp.logger.Info("starting batch audit",
		"total_domains", len(domains),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results slice to maintain order
	bp.results = make([]*model.AuditReport, len(domains))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, domain := range domains {
		i, domain := i, domain
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("auditing domain",
				"domain", domain,
				"index", i+1,
				"total", len(domains),
			)

			audit, err := Run(ctx, domain, bp.cfg, bp.client, bp.logger)

			bp.mu.Lock()
			bp.results[i] = audit
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("audit failed",
					"domain", domain,
					"error", err,
				)
				// Don't return the error to errgroup - other audits continue
				return nil
			}

			bp.logger.Info("audit completed",
				"domain", domain,
			)
			return nil
		})
	}

	err := g.Wait()

	elapsed := time.Since(startTime)
	bp.logger.Info("batch audit complete",
		"total_domains", len(domains),
		"elapsed", elapsed,
	)

	return bp.results, err
}
