package crawler

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/seoaudit/seoaudit/internal/extractor"
)

// maxMeasuredImages caps per-page HEAD requests for image size evidence.
const maxMeasuredImages = 10

// fetchResult is the raw outcome of one page fetch.
type fetchResult struct {
	statusCode   int
	contentType  string
	headers      http.Header
	body         []byte
	finalURL     string
	redirectHops int
}

type redirectCounterKey struct{}

// redirectCounter accumulates the hop count for one request chain. The
// standard client calls CheckRedirect from its own goroutine context, so
// the counter is atomic rather than relying on happens-before through the
// response.
type redirectCounter struct {
	hops atomic.Int32
}

// countingClient wraps the caller's client so redirect hops land in the
// request context's counter. Other transport settings pass through.
func countingClient(base *http.Client) *http.Client {
	clone := *base
	clone.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if counter, ok := req.Context().Value(redirectCounterKey{}).(*redirectCounter); ok {
			counter.hops.Store(int32(len(via)))
		}
		if len(via) >= 10 {
			return http.ErrUseLastResponse
		}
		return nil
	}
	return &clone
}

// fetch GETs a page with the per-request timeout, capped body read, and
// redirect hop tracking.
func (c *Crawler) fetch(ctx context.Context, pageURL string) (*fetchResult, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	counter := &redirectCounter{}
	reqCtx = context.WithValue(reqCtx, redirectCounterKey{}, counter)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	c.setRequestHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, err
	}

	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &fetchResult{
		statusCode:   resp.StatusCode,
		contentType:  resp.Header.Get("Content-Type"),
		headers:      resp.Header,
		body:         body,
		finalURL:     finalURL,
		redirectHops: int(counter.hops.Load()),
	}, nil
}

// setRequestHeaders applies the User-Agent, optional cookie, and per-site
// extra headers to a request.
func (c *Crawler) setRequestHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
}

// measureImages issues best-effort HEAD requests for up to
// maxMeasuredImages image URLs and reports how many exceed the size
// threshold plus their combined bytes. Images without a Content-Length or
// whose HEAD fails are skipped silently.
func (c *Crawler) measureImages(ctx context.Context, images []extractor.Image) (count int, totalBytes int64) {
	measured := 0
	for _, img := range images {
		if measured >= maxMeasuredImages {
			break
		}
		if img.Src == "" || img.Broken {
			continue
		}
		measured++

		size, ok := c.headImageSize(ctx, img.Src)
		if !ok {
			continue
		}
		if size > c.imageSizeThreshold {
			count++
			totalBytes += size
		}
	}
	return count, totalBytes
}

// headImageSize returns the Content-Length reported for an image URL.
func (c *Crawler) headImageSize(ctx context.Context, imageURL string) (int64, bool) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, imageURL, nil)
	if err != nil {
		return 0, false
	}
	c.setRequestHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, false
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused; a failed drain only costs us
	// the keep-alive.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return 0, false
	}
	size, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
	if err != nil || size < 0 {
		return 0, false
	}
	return size, true
}
