package sitemap

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func urlset(locs ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	for _, loc := range locs {
		fmt.Fprintf(&b, "<url><loc>%s</loc></url>", loc)
	}
	b.WriteString(`</urlset>`)
	return b.String()
}

func sitemapindex(locs ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	for _, loc := range locs {
		fmt.Fprintf(&b, "<sitemap><loc>%s</loc></sitemap>", loc)
	}
	b.WriteString(`</sitemapindex>`)
	return b.String()
}

func TestResolverResolve(t *testing.T) {
	t.Parallel()

	t.Run("collects page URLs from a urlset", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, urlset("https://example.com/", "https://example.com/about"))
		})
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)

		resolver := NewResolver(server.Client())
		urls := resolver.Resolve(context.Background(), []string{server.URL + "/sitemap.xml"}, 100)

		if len(urls) != 2 {
			t.Fatalf("Resolve() returned %d URLs, want 2", len(urls))
		}
		if urls[0] != "https://example.com/" {
			t.Errorf("urls[0] = %q, want homepage URL", urls[0])
		}
	})

	t.Run("expands a sitemap index recursively", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)

		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, sitemapindex(server.URL+"/pages.xml", server.URL+"/posts.xml"))
		})
		mux.HandleFunc("/pages.xml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, urlset("https://example.com/a", "https://example.com/b"))
		})
		mux.HandleFunc("/posts.xml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, urlset("https://example.com/post-1"))
		})

		resolver := NewResolver(server.Client())
		urls := resolver.Resolve(context.Background(), []string{server.URL + "/sitemap.xml"}, 100)

		if len(urls) != 3 {
			t.Errorf("Resolve() returned %d URLs, want 3: %v", len(urls), urls)
		}
	})

	t.Run("stops at the URL cap", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			locs := make([]string, 10)
			for i := range locs {
				locs[i] = fmt.Sprintf("https://example.com/page-%d", i)
			}
			fmt.Fprint(w, urlset(locs...))
		})
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)

		resolver := NewResolver(server.Client())
		urls := resolver.Resolve(context.Background(), []string{server.URL + "/sitemap.xml"}, 4)

		if len(urls) != 4 {
			t.Errorf("Resolve() returned %d URLs, want 4 (capped)", len(urls))
		}
	})

	t.Run("fetches each sitemap URL at most once", func(t *testing.T) {
		t.Parallel()

		var fetches int
		mux := http.NewServeMux()
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)

		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			fetches++
			// A self-referencing index must not loop forever.
			fmt.Fprint(w, sitemapindex(server.URL+"/sitemap.xml", server.URL+"/pages.xml"))
		})
		mux.HandleFunc("/pages.xml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, urlset("https://example.com/a"))
		})

		resolver := NewResolver(server.Client())
		urls := resolver.Resolve(context.Background(), []string{server.URL + "/sitemap.xml"}, 100)

		if fetches != 1 {
			t.Errorf("index fetched %d times, want 1", fetches)
		}
		if len(urls) != 1 {
			t.Errorf("Resolve() returned %d URLs, want 1", len(urls))
		}
	})

	t.Run("skips failed and malformed sitemaps", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)

		mux.HandleFunc("/missing.xml", func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})
		mux.HandleFunc("/broken.xml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "this is not xml <<<")
		})
		mux.HandleFunc("/good.xml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, urlset("https://example.com/ok"))
		})

		resolver := NewResolver(server.Client())
		candidates := []string{
			server.URL + "/missing.xml",
			server.URL + "/broken.xml",
			server.URL + "/good.xml",
		}
		urls := resolver.Resolve(context.Background(), candidates, 100)

		if len(urls) != 1 || urls[0] != "https://example.com/ok" {
			t.Errorf("Resolve() = %v, want just the URL from good.xml", urls)
		}
	})

	t.Run("empty loc entries are dropped", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, urlset("https://example.com/a", "  ", ""))
		})
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)

		resolver := NewResolver(server.Client())
		urls := resolver.Resolve(context.Background(), []string{server.URL + "/sitemap.xml"}, 100)

		if len(urls) != 1 {
			t.Errorf("Resolve() returned %d URLs, want 1", len(urls))
		}
	})

	t.Run("cancelled context stops resolution", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		resolver := NewResolver(http.DefaultClient)
		urls := resolver.Resolve(ctx, []string{"https://example.com/sitemap.xml"}, 100)

		if len(urls) != 0 {
			t.Errorf("Resolve() returned %d URLs after cancel, want 0", len(urls))
		}
	})
}

func TestResolverUserAgent(t *testing.T) {
	t.Parallel()

	var gotUA string
	mux := http.NewServeMux()
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, urlset("https://example.com/"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	resolver := NewResolver(server.Client(), WithUserAgent("seoaudit-test/1.0"))
	resolver.Resolve(context.Background(), []string{server.URL + "/sitemap.xml"}, 10)

	if gotUA != "seoaudit-test/1.0" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "seoaudit-test/1.0")
	}
}

func TestStatusError(t *testing.T) {
	t.Parallel()

	err := &StatusError{URL: "https://example.com/sitemap.xml", StatusCode: 404}
	msg := err.Error()
	if !strings.Contains(msg, "404") || !strings.Contains(msg, "sitemap.xml") {
		t.Errorf("Error() = %q, want status and URL in the message", msg)
	}
}
