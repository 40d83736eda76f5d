package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/seoaudit/seoaudit/internal/model"
)

// AuditDB provides SQLite-based storage for audit reports.
// It manages connection pooling and provides methods for saving runs and
// querying history.
//
// Design decision: We use a single database file for all audited domains
// rather than one file per domain. This keeps history queries across domains
// simple and makes backup/restore a single-file operation.
type AuditDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures AuditDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an AuditDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*AuditDB, error) {
	dbPath := filepath.Join(dbDir, "seoaudit.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; multiple connections buy nothing here
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	adb := &AuditDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := adb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return adb, nil
}

// Close closes the database connection.
func (adb *AuditDB) Close() error {
	return adb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (adb *AuditDB) createTables() error {
	schema := `
	-- Audit runs store complete audit reports as JSON plus the headline
	-- numbers needed for history listings without deserializing the report
	CREATE TABLE IF NOT EXISTS audit_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		domain TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		pages_crawled INTEGER NOT NULL,
		findings_count INTEGER NOT NULL,
		health_score INTEGER NOT NULL,
		severity_summary TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_domain ON audit_runs(domain);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON audit_runs(timestamp);
	`

	_, err := adb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveReport saves a complete audit report.
func (adb *AuditDB) SaveReport(ctx context.Context, report *model.AuditReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	severitySummary := map[string]int{
		"critical": report.FindingsBySeverity.Critical,
		"high":     report.FindingsBySeverity.High,
		"medium":   report.FindingsBySeverity.Medium,
		"low":      report.FindingsBySeverity.Low,
	}
	severityJSON, _ := json.Marshal(severitySummary) //nolint:errcheck,errchkjson // simple map; Marshal won't fail

	query := `
	INSERT INTO audit_runs (domain, pages_crawled, findings_count, health_score, severity_summary, report_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = adb.db.ExecContext(ctx, query,
		report.Service,
		report.PagesCrawled,
		report.FindingsCount,
		report.Summary.HealthScore,
		string(severityJSON),
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save audit report: %w", err)
	}

	return nil
}

// GetLatestReport retrieves the most recent audit report for a domain.
// Returns nil without error when the domain has no stored runs.
func (adb *AuditDB) GetLatestReport(ctx context.Context, domain string) (*model.AuditReport, error) {
	query := `
	SELECT report_json FROM audit_runs
	WHERE domain = ?
	ORDER BY timestamp DESC
	LIMIT 1
	`

	var reportJSON string
	err := adb.db.QueryRowContext(ctx, query, domain).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit report: %w", err)
	}

	var report model.AuditReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// ListAuditedDomains returns all domains with at least one stored run.
func (adb *AuditDB) ListAuditedDomains(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT domain FROM audit_runs
	ORDER BY domain
	`

	rows, err := adb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		domains = append(domains, domain)
	}

	return domains, rows.Err()
}

// RunMetadata contains summary information about a stored audit run.
// This is used for displaying history without loading the full report.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// Domain is the audited domain.
	Domain string

	// Timestamp is when the audit was performed.
	Timestamp time.Time

	// PagesCrawled is the number of pages the run processed.
	PagesCrawled int

	// FindingsCount is the total number of findings.
	FindingsCount int

	// HealthScore is the bounded site health score.
	HealthScore int

	// SeveritySummary contains counts of findings by severity level.
	SeveritySummary map[string]int
}

// GetHistory retrieves run metadata for a domain, most recent first.
// This is more efficient than loading full reports when only the headline
// numbers are needed.
func (adb *AuditDB) GetHistory(ctx context.Context, domain string) ([]RunMetadata, error) {
	query := `
	SELECT id, domain, timestamp, pages_crawled, findings_count, health_score, severity_summary
	FROM audit_runs
	WHERE domain = ?
	ORDER BY timestamp DESC
	`

	rows, err := adb.db.QueryContext(ctx, query, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit history: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp string
		var severityJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.Domain, &timestamp, &meta.PagesCrawled, &meta.FindingsCount, &meta.HealthScore, &severityJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)

		if severityJSON.Valid && severityJSON.String != "" {
			if err := json.Unmarshal([]byte(severityJSON.String), &meta.SeveritySummary); err != nil {
				meta.SeveritySummary = make(map[string]int)
			}
		} else {
			meta.SeveritySummary = make(map[string]int)
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetReportByID retrieves a stored report by its database ID.
// Returns nil without error when no run has that ID.
func (adb *AuditDB) GetReportByID(ctx context.Context, id int64) (*model.AuditReport, error) {
	query := `
	SELECT report_json FROM audit_runs
	WHERE id = ?
	`

	var reportJSON string
	err := adb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit report: %w", err)
	}

	var report model.AuditReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
