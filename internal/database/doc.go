// Package database provides SQLite-based persistence for audit reports.
//
// Each completed run can be saved with its headline numbers (pages crawled,
// findings count, health score) denormalized into columns so the history
// subcommand can list past runs without deserializing full reports.
// Persistence is optional; when no database directory is configured, runs
// are not stored.
package database
