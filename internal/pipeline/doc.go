// Package pipeline orchestrates audit runs as ordered step sequences.
//
// A single run executes four steps over a shared State: setup (robots.txt
// and sitemap resolution), crawl, the orphan-page post pass, and report
// aggregation. Run wires the standard sequence; BatchProcessor fans whole
// runs out across multiple domains with bounded concurrency.
package pipeline
