package crawler

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LinkExtractor extracts raw href values from an HTML document.
type LinkExtractor interface {
	// ExtractHrefs returns each distinct raw href found in body.
	ExtractHrefs(body string) ([]string, error)
}

// skippedSchemes are href prefixes that never lead to a crawlable page.
var skippedSchemes = []string{
	"javascript:",
	"mailto:",
	"tel:",
	"data:",
}

// HTMLExtractor extracts href attributes from <a> and <link> elements
// using golang.org/x/net/html.
type HTMLExtractor struct{}

// NewHTMLExtractor creates an HTMLExtractor.
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

// ExtractHrefs parses body and returns the href of every anchor and link
// element, in document order, without duplicates. Hrefs that are empty, a
// bare "#", or use a non-navigable scheme (javascript:, mailto:, tel:,
// data:) are skipped. Values are otherwise returned as written.
func (x *HTMLExtractor) ExtractHrefs(body string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	hrefs := make([]string, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.DataAtom == atom.A || n.DataAtom == atom.Link) {
			if href, ok := getAttr(n, "href"); ok && !skipHref(href) && !seen[href] {
				seen[href] = true
				hrefs = append(hrefs, href)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return hrefs, nil
}

// skipHref reports whether href can never be crawled.
func skipHref(href string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(href))
	if trimmed == "" || trimmed == "#" {
		return true
	}
	for _, scheme := range skippedSchemes {
		if strings.HasPrefix(trimmed, scheme) {
			return true
		}
	}
	return false
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}
