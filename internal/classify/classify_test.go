package classify

import (
	"testing"

	"github.com/seoaudit/seoaudit/internal/model"
)

func TestPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		signals Signals
		want    model.Indexability
	}{
		{
			name: "plain successful html page is indexable",
			signals: Signals{
				StatusCode:  200,
				ContentType: "text/html; charset=utf-8",
				PageURL:     "https://example.com/",
			},
			want: model.IndexabilityIndexable,
		},
		{
			name: "404 is non_html",
			signals: Signals{
				StatusCode:  404,
				ContentType: "text/html",
			},
			want: model.IndexabilityNonHTML,
		},
		{
			name: "redirect status is non_html",
			signals: Signals{
				StatusCode: 301,
			},
			want: model.IndexabilityNonHTML,
		},
		{
			name: "non-html content type is non_html",
			signals: Signals{
				StatusCode:  200,
				ContentType: "application/pdf",
			},
			want: model.IndexabilityNonHTML,
		},
		{
			name: "missing content type does not force non_html",
			signals: Signals{
				StatusCode: 200,
			},
			want: model.IndexabilityIndexable,
		},
		{
			name: "status check masks noindex",
			signals: Signals{
				StatusCode: 500,
				RobotsMeta: "noindex",
			},
			want: model.IndexabilityNonHTML,
		},
		{
			name: "robots block",
			signals: Signals{
				StatusCode:      200,
				ContentType:     "text/html",
				BlockedByRobots: true,
			},
			want: model.IndexabilityBlockedByRobots,
		},
		{
			name: "robots block masks noindex",
			signals: Signals{
				StatusCode:      200,
				RobotsMeta:      "noindex",
				BlockedByRobots: true,
			},
			want: model.IndexabilityBlockedByRobots,
		},
		{
			name: "noindex in robots meta",
			signals: Signals{
				StatusCode:  200,
				ContentType: "text/html",
				RobotsMeta:  "noindex, nofollow",
			},
			want: model.IndexabilityNoindex,
		},
		{
			name: "noindex is case insensitive",
			signals: Signals{
				StatusCode: 200,
				RobotsMeta: "NOINDEX",
			},
			want: model.IndexabilityNoindex,
		},
		{
			name: "noindex in x-robots-tag header",
			signals: Signals{
				StatusCode: 200,
				XRobotsTag: "noindex",
			},
			want: model.IndexabilityNoindex,
		},
		{
			name: "nofollow alone does not make a page noindex",
			signals: Signals{
				StatusCode: 200,
				RobotsMeta: "nofollow",
			},
			want: model.IndexabilityIndexable,
		},
		{
			name: "noindex masks canonical",
			signals: Signals{
				StatusCode:   200,
				RobotsMeta:   "noindex",
				CanonicalURL: "https://example.com/other",
				PageURL:      "https://example.com/page",
			},
			want: model.IndexabilityNoindex,
		},
		{
			name: "canonical pointing elsewhere",
			signals: Signals{
				StatusCode:   200,
				ContentType:  "text/html",
				CanonicalURL: "https://example.com/main",
				PageURL:      "https://example.com/variant",
			},
			want: model.IndexabilityCanonicalizedAway,
		},
		{
			name: "self-canonical is indexable",
			signals: Signals{
				StatusCode:   200,
				CanonicalURL: "https://example.com/page",
				PageURL:      "https://example.com/page",
			},
			want: model.IndexabilityIndexable,
		},
		{
			name: "canonical differing only by fragment is self-canonical",
			signals: Signals{
				StatusCode:   200,
				CanonicalURL: "https://example.com/page#top",
				PageURL:      "https://example.com/page",
			},
			want: model.IndexabilityIndexable,
		},
		{
			name: "unparseable canonical is ignored",
			signals: Signals{
				StatusCode:   200,
				CanonicalURL: "http://%zz",
				PageURL:      "https://example.com/page",
			},
			want: model.IndexabilityIndexable,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Page(tt.signals); got != tt.want {
				t.Errorf("Page() = %v, want %v", got, tt.want)
			}
		})
	}
}
