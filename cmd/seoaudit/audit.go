package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/seoaudit/seoaudit/internal/config"
	"github.com/seoaudit/seoaudit/internal/database"
	"github.com/seoaudit/seoaudit/internal/log"
	"github.com/seoaudit/seoaudit/internal/model"
	"github.com/seoaudit/seoaudit/internal/pipeline"
	"github.com/seoaudit/seoaudit/internal/report"
)

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [domain]",
		Short: "Audit a website for technical SEO issues",
		Long: `Audit crawls a website and analyzes it for technical SEO issues.

It fetches robots.txt and sitemaps, crawls the site within the configured
page budget and depth, and reports:
- Response problems (4xx/5xx pages, redirect chains)
- Indexability issues (noindex pages in sitemaps, canonical conflicts)
- Content quality (titles, meta descriptions, headings, thin content)
- Link structure (orphan pages, broken external links, empty anchors)
- Image hygiene (missing alt text, missing dimensions, oversized files)

Examples:
  # Audit a single site
  seoaudit audit example.com

  # Audit multiple sites
  seoaudit audit example.com blog.example.com shop.example.com

  # Output JSON report
  seoaudit audit --json example.com

  # Write a Markdown report to a file
  seoaudit audit --markdown -o report.md example.com

  # Crawl more pages, ignore robots.txt on a staging site you own
  seoaudit audit --max-pages 200 --no-robots staging.example.com

  # Use a custom configuration file
  seoaudit audit -c myconfig.yaml example.com

Configuration file (.seoaudit) example:
  sites:
    staging.example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"
      respectRobots: false
    example.com:
      maxPages: 200
      ignorePatterns:
        - "/cart/*"
        - "*.pdf"`,
		Args: cobra.ArbitraryArgs,
		RunE: runAuditCmd,
	}

	// Crawl behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum link depth from the seed page")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to crawl per site")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of parallel page fetches")
	cmd.Flags().Bool("no-robots", false,
		"Ignore robots.txt disallow rules (only for sites you operate)")

	// Batch auditing flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent site audits")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seoaudit in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-save", false,
		"Do not save audit results to the local database")

	return cmd
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging. The secure handler masks auth cookies and
	// headers from site configs before they reach the log output.
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runAudit(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.MaxDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	noRobots, err := cmd.Flags().GetBool("no-robots")
	if err != nil {
		return nil, err
	}
	cfg.RespectRobots = !noRobots

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		// Use empty config if no file found and user didn't explicitly specify one
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	if cfg.SaveToDB {
		cfg.DBDir = config.XDGDataDir()
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Get positional arguments (domains or URLs)
	cfg.Targets = args

	return cfg, nil
}

// newHTTPClient creates the HTTP client shared across audits.
// Per-request timeouts are applied by the crawler via context, so the
// client itself carries no global deadline.
func newHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        cfg.Concurrency * 2,
			MaxIdleConnsPerHost: cfg.Concurrency,
			IdleConnTimeout:     30 * time.Second,
		},
	}
}

// runAudit executes the audit for all configured targets.
func runAudit(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting audit",
		"targets", cfg.Targets,
		"maxPages", cfg.MaxPages,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.AuditDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	client := newHTTPClient(cfg)

	// Use batch processor for parallel auditing if multiple targets
	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchAudit(ctx, cfg, client, db, logger)
	}

	// Single target or sequential auditing
	return runSequentialAudit(ctx, cfg, client, db, logger)
}

// runSequentialAudit audits targets one at a time.
func runSequentialAudit(ctx context.Context, cfg *config.Config, client *http.Client, db *database.AuditDB, logger *slog.Logger) error {
	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Printf("Auditing %s...\n", target)
		startTime := time.Now()

		auditReport, err := pipeline.Run(ctx, target, cfg, client, logger)
		if err != nil {
			logger.Error("audit failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Audit error for %s: %v\n", target, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Audit completed in %s\n\n", elapsed.Round(time.Millisecond))

		// Generate and output report
		if err := outputReport(cfg, auditReport); err != nil {
			logger.Error("report failed", "target", target, "error", err)
		}

		// Save to database if enabled
		if err := saveAuditReport(ctx, db, auditReport, logger); err != nil {
			logger.Error("failed to save audit report", "target", target, "error", err)
		}
	}

	return nil
}

// runBatchAudit audits multiple targets concurrently using BatchProcessor.
func runBatchAudit(ctx context.Context, cfg *config.Config, client *http.Client, db *database.AuditDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch audit of %d targets (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(cfg, client,
		pipeline.WithBatchConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	reports, err := bp.ProcessBatch(ctx, cfg.Targets)

	for i, auditReport := range reports {
		if auditReport == nil {
			fmt.Fprintf(os.Stderr, "[%d/%d] Audit failed: %s\n", i+1, len(cfg.Targets), cfg.Targets[i])
			continue
		}

		fmt.Printf("[%d/%d] Audit completed: %s\n", i+1, len(cfg.Targets), auditReport.Service)

		if err := outputReport(cfg, auditReport); err != nil {
			logger.Error("report failed", "target", auditReport.Service, "error", err)
		}

		if err := saveAuditReport(ctx, db, auditReport, logger); err != nil {
			logger.Error("failed to save audit report", "target", auditReport.Service, "error", err)
		}
	}

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch audit completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// outputReport outputs the audit report in the requested format.
func outputReport(cfg *config.Config, auditReport *model.AuditReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output (the contract consumed by dashboards and automation)
	if cfg.JSONReport {
		writer := report.NewJSONWriter(output, report.WithPrettyPrint())
		_, err := writer.Write(auditReport)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(auditReport)
		return err
	}

	// Human-readable report (default)
	writer := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	_, err := writer.Write(auditReport)
	return err
}

// saveAuditReport saves the audit report to the database if enabled.
// If db is nil, this function is a no-op.
func saveAuditReport(ctx context.Context, db *database.AuditDB, auditReport *model.AuditReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	if err := db.SaveReport(ctx, auditReport); err != nil {
		return fmt.Errorf("failed to save audit report: %w", err)
	}

	logger.Info("audit report saved to database", "target", auditReport.Service)
	return nil
}
