// Package config provides configuration structures and utilities for seoaudit.
// It defines the main configuration options for crawling, per-site overrides,
// and report generation preferences.
package config
