package crawler

import (
	"path/filepath"
	"strings"
)

// matchPattern matches a URL path against an ignore pattern. Supported
// forms: directory prefixes ("/admin/*"), extension patterns ("*.pdf"),
// and standard single-segment globs via filepath.Match.
func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(path, prefix+"/") || path == prefix {
			return true
		}
	}

	if strings.HasPrefix(pattern, "*.") {
		ext := strings.TrimPrefix(pattern, "*")
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	matched, err := filepath.Match(pattern, path)
	if err != nil {
		return false
	}
	if matched {
		return true
	}

	// Patterns without a slash also match against the last path segment,
	// so "*.pdf" catches "/docs/manual.pdf".
	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		matched, err := filepath.Match(pattern, filepath.Base(path))
		if err == nil && matched {
			return true
		}
	}

	return false
}
