package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/seoaudit/seoaudit/internal/model"
)

// testReport builds a small report with one finding per severity.
func testReport() *model.AuditReport {
	pages := []*model.CrawledPage{
		{URL: "https://example.com/", StatusCode: 200, Title: "Home", Indexability: model.IndexabilityIndexable, WordCount: 500},
		{URL: "https://example.com/broken", StatusCode: 500, Indexability: model.IndexabilityNonHTML},
	}
	findings := []model.Finding{
		{
			URL:      "https://example.com/broken",
			Category: model.CategoryResponse,
			RuleID:   "RULE_HTTP_5XX",
			Severity: model.SeverityCritical,
			Summary:  "Page returns a server error",
		},
		{
			URL:      "https://example.com/",
			Category: model.CategoryTitle,
			RuleID:   "RULE_TITLE_TOO_SHORT",
			Severity: model.SeverityLow,
			Summary:  "Title is shorter than 30 characters",
			SuggestedAction: model.SuggestedAction{
				ActionType: "set_title",
				Target:     "https://example.com/",
				Notes:      "Expand the title to describe the page.",
			},
		},
	}
	return Build("example.com", pages, findings, 2, 1500*time.Millisecond)
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes valid JSON with contract keys", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		n, err := w.Write(testReport())
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if n != buf.Len() {
			t.Errorf("Write() returned %d bytes, buffer has %d", n, buf.Len())
		}

		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		for _, key := range []string{
			"ok", "service", "pages_crawled", "indexable_pages", "error_pages",
			"sitemap_urls_found", "duration_ms", "findings_count",
			"findings_by_severity", "findings_by_category", "findings",
			"pages_summary", "homepage_html", "summary",
		} {
			if _, exists := decoded[key]; !exists {
				t.Errorf("missing key %q in JSON output", key)
			}
		}
	})

	t.Run("pretty print indents output", func(t *testing.T) {
		t.Parallel()

		var compact, pretty bytes.Buffer
		if _, err := NewJSONWriter(&compact).Write(testReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if _, err := NewJSONWriter(&pretty, WithPrettyPrint()).Write(testReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		if pretty.Len() <= compact.Len() {
			t.Error("pretty output should be longer than compact output")
		}
	})

	t.Run("severity serializes as string", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(testReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		if !strings.Contains(buf.String(), `"severity":"critical"`) {
			t.Error("expected severity to serialize as lowercase string")
		}
	})
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("contains report sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(testReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"SEO AUDIT REPORT",
			"example.com",
			"SEVERITY SUMMARY",
			"FINDINGS",
			"RULE_HTTP_5XX",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("verbose includes suggested fixes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(testReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		if !strings.Contains(buf.String(), "Expand the title") {
			t.Error("verbose output should include suggested fix notes")
		}
	})

	t.Run("hides findings section when empty", func(t *testing.T) {
		t.Parallel()

		report := Build("example.com", []*model.CrawledPage{
			{URL: "https://example.com/", StatusCode: 200, Indexability: model.IndexabilityIndexable},
		}, nil, 0, time.Second)

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(report); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		if strings.Contains(buf.String(), "FINDINGS") {
			t.Error("empty report should omit the findings section")
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(testReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"# SEO Audit Report",
		"## Severity Summary",
		"## Findings",
		"## Pages",
		"RULE_HTTP_5XX",
		"`example.com`",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var first, second bytes.Buffer
		mw := NewMultiWriter(NewJSONWriter(&first), NewSimpleWriter(&second))

		if _, err := mw.Write(testReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		if first.Len() == 0 {
			t.Error("first writer received no output")
		}
		if second.Len() == 0 {
			t.Error("second writer received no output")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var ok bytes.Buffer
		mw := NewMultiWriter(
			NewJSONWriter(&failingWriter{}),
			NewJSONWriter(&ok),
		)

		if _, err := mw.Write(testReport()); err == nil {
			t.Fatal("expected error from failing writer")
		}
		if ok.Len() != 0 {
			t.Error("writers after the failure should not be invoked")
		}
	})
}

// failingWriter always fails, for MultiWriter error propagation tests.
type failingWriter struct{}

func (f *failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"long string truncated with ellipsis", "hello world", 8, "hello..."},
		{"tiny max returns prefix", "hello", 2, "he"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := truncateString(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}
