// Package main provides the entry point for the seoaudit CLI.
//
// seoaudit crawls a website and reports technical SEO issues: broken
// responses, indexability problems, weak titles and meta descriptions,
// thin content, orphan pages, and more.
//
// Usage:
//
//	seoaudit audit example.com
//	seoaudit audit --json example.com
//
// See --help for all available options.
package main

// main is the entry point for seoaudit.
func main() {
	Execute()
}
