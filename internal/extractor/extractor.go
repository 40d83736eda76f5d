// Package extractor parses fetched HTML into the structured on-page signals
// the classification and rule engines consume.
package extractor

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/seoaudit/seoaudit/internal/urlutil"
)

// maxH2Evidence bounds how many <h2> texts are retained for rule evidence.
// The true total count is recorded separately in H2Count.
const maxH2Evidence = 20

// skippedSubtrees are elements whose text never counts as visible content.
var skippedSubtrees = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"nav":      true,
	"footer":   true,
	"header":   true,
	"aside":    true,
}

// Extractor pulls SEO signals out of one page's HTML.
//
// Design decision: We use golang.org/x/net/html rather than regex because:
//  1. It correctly handles malformed HTML common on the web
//  2. Provides a proper DOM-like structure
//  3. Standard library extension, well-maintained
type Extractor struct {
	// pageURL is the page being parsed, used to resolve relative URLs.
	pageURL *url.URL

	// baseHost is the audited site's hostname for internal/external
	// link classification.
	baseHost string
}

// Page contains all signals extracted from one HTML document.
// It is ephemeral: produced once per successful fetch, owned by the
// page-processing step, and discarded after findings are generated.
type Page struct {
	// Title is the trimmed <title> text, empty if absent.
	Title string

	// MetaDescription is the content of <meta name="description">.
	MetaDescription string

	// CanonicalURL is the <link rel="canonical"> href resolved against
	// the page URL. Empty if absent or unresolvable.
	CanonicalURL string

	// RobotsMeta is the content of <meta name="robots">.
	RobotsMeta string

	// H1s holds all <h1> texts.
	H1s []string

	// H2s holds the first 20 <h2> texts, kept as rule evidence.
	H2s []string

	// H2Count is the true total number of <h2> elements.
	H2Count int

	// WordCount is the visible-text word count after stripping
	// script/style/noscript/nav/footer/header/aside subtrees.
	WordCount int

	// Text is the collected visible text, used for readability scoring.
	Text string

	// Links holds every anchor with a usable href, resolved and classified.
	Links []Link

	// Images holds every <img> element.
	Images []Image
}

// Link is one classified anchor on a page.
type Link struct {
	// URL is the absolute resolved link target.
	URL string

	// Text is the anchor text, empty when the anchor has none.
	Text string

	// Internal is true when the target belongs to the audited site.
	Internal bool
}

// Image is one <img> element on a page.
type Image struct {
	// Src is the resolved image source URL.
	Src string

	// Alt is the alt attribute value.
	Alt string

	// HasAlt is true when the alt attribute is present and non-empty.
	HasAlt bool

	// HasDimensions is true when both width and height attributes exist.
	HasDimensions bool

	// Broken flags empty sources and 1x1 tracking pixels.
	Broken bool
}

// New creates an Extractor for one page.
func New(pageURL, baseHost string) (*Extractor, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	return &Extractor{pageURL: u, baseHost: baseHost}, nil
}

// Extract parses the HTML and collects all signals in a single pass.
func (e *Extractor) Extract(content io.Reader) (*Page, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	page := &Page{
		H1s:    make([]string, 0),
		H2s:    make([]string, 0),
		Links:  make([]Link, 0),
		Images: make([]Image, 0),
	}

	var visibleText strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if skippedSubtrees[n.Data] {
				return
			}
			e.processElement(n, page)
		case html.TextNode:
			visibleText.WriteString(n.Data)
			visibleText.WriteString(" ")
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	page.Text = strings.TrimSpace(visibleText.String())
	page.WordCount = len(strings.Fields(page.Text))

	return page, nil
}

// processElement handles a single element node.
func (e *Extractor) processElement(n *html.Node, page *Page) {
	switch n.Data {
	case "title":
		if page.Title == "" {
			page.Title = strings.TrimSpace(nodeText(n))
		}

	case "meta":
		name := strings.ToLower(getAttr(n, "name"))
		content := getAttr(n, "content")
		switch name {
		case "description":
			if page.MetaDescription == "" {
				page.MetaDescription = strings.TrimSpace(content)
			}
		case "robots":
			if page.RobotsMeta == "" {
				page.RobotsMeta = strings.TrimSpace(content)
			}
		}

	case "link":
		rel := strings.ToLower(getAttr(n, "rel"))
		if rel == "canonical" && page.CanonicalURL == "" {
			if resolved := e.resolveURL(getAttr(n, "href")); resolved != "" {
				page.CanonicalURL = resolved
			}
		}

	case "h1":
		page.H1s = append(page.H1s, strings.TrimSpace(nodeText(n)))

	case "h2":
		page.H2Count++
		if len(page.H2s) < maxH2Evidence {
			page.H2s = append(page.H2s, strings.TrimSpace(nodeText(n)))
		}

	case "a":
		if resolved := e.resolveURL(getAttr(n, "href")); resolved != "" {
			page.Links = append(page.Links, Link{
				URL:      resolved,
				Text:     strings.TrimSpace(nodeText(n)),
				Internal: urlutil.IsInternal(resolved, e.baseHost),
			})
		}

	case "img":
		src := strings.TrimSpace(getAttr(n, "src"))
		alt := getAttr(n, "alt")
		width := getAttr(n, "width")
		height := getAttr(n, "height")
		page.Images = append(page.Images, Image{
			Src:           e.resolveURL(src),
			Alt:           alt,
			HasAlt:        strings.TrimSpace(alt) != "",
			HasDimensions: width != "" && height != "",
			Broken:        isBrokenImage(src, width, height),
		})
	}
}

// resolveURL resolves an href against the page URL, dropping non-navigable
// schemes (javascript:, mailto:, tel:, data:) and bare fragments entirely.
func (e *Extractor) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return ""
	}

	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return e.pageURL.ResolveReference(u).String()
}

// isBrokenImage flags empty sources and 1x1 tracking pixels.
func isBrokenImage(src, width, height string) bool {
	if src == "" {
		return true
	}
	return width == "1" && height == "1"
}

// nodeText concatenates all text nodes under n.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}
