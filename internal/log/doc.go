// Package log provides secure logging utilities built on log/slog.
//
// The SecureHandler wrapper sanitizes sensitive information (auth cookies,
// custom headers, tokens) before it reaches the log output. Audit runs can
// carry per-site credentials for staging environments, and those values must
// never leak into logs that get shared or attached to bug reports.
package log
