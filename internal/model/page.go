package model

// Page represents a fetched web page.
// A Page is transient: it is produced by a fetch, consumed by link
// extraction and then discarded.
type Page struct {
	// URL is the URL the page was fetched from.
	URL string `json:"url"`

	// Body is the decoded response body.
	Body string `json:"-"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the value of the Content-Type response header.
	ContentType string `json:"content_type"`
}

// NewPage creates a Page with the given URL and body.
func NewPage(url, body string) *Page {
	return &Page{
		URL:  url,
		Body: body,
	}
}

// MaxPageSize is the default maximum size of a response body to read.
// Larger bodies are truncated to this size.
const MaxPageSize = 5 * 1024 * 1024 // 5 MB
