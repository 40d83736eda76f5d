// Package model defines the data structures shared across the audit engine:
// crawled pages, findings with severities, and the final report shape
// consumed by downstream dashboards and fix-automation workflows.
package model
