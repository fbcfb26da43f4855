package crawler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"github.com/nao1215/bfscrawl/internal/model"
)

// DefaultUserAgent is sent when no User-Agent is configured.
const DefaultUserAgent = "bfscrawl/1.0 (+https://github.com/nao1215/bfscrawl)"

// errNotText is wrapped in a KindBodyRead error when a decoded body is not
// valid UTF-8 text.
var errNotText = errors.New("body is not valid text")

// Fetcher retrieves a page by URL.
type Fetcher interface {
	// Fetch performs a GET for rawURL. Failures are *Error values of kind
	// KindTransport, KindStatus or KindBodyRead.
	Fetch(ctx context.Context, rawURL string) (*model.Page, error)
}

// HTTPFetcher is a Fetcher backed by an *http.Client.
type HTTPFetcher struct {
	// client performs the requests. Timeouts and proxying are configured
	// on the client by the transport package.
	client *http.Client

	// userAgent is the User-Agent header to use.
	userAgent string

	// maxBodySize limits the number of body bytes read.
	maxBodySize int64

	// headers are extra request headers.
	headers map[string]string
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the maximum number of body bytes to read.
// Non-positive values keep the default.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithHeaders adds extra request headers.
func WithHeaders(headers map[string]string) FetcherOption {
	return func(f *HTTPFetcher) {
		for k, v := range headers {
			f.headers[k] = v
		}
	}
}

// NewHTTPFetcher creates an HTTPFetcher using client.
// A nil client is replaced with http.DefaultClient.
func NewHTTPFetcher(client *http.Client, opts ...FetcherOption) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}

	f := &HTTPFetcher{
		client:      client,
		userAgent:   DefaultUserAgent,
		maxBodySize: model.MaxPageSize,
		headers:     make(map[string]string),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch performs a GET request and returns the decoded page.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*model.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, newError(KindTransport, rawURL, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, newError(KindTransport, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind:       KindStatus,
			URL:        rawURL,
			StatusCode: resp.StatusCode,
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, newError(KindBodyRead, rawURL, err)
	}

	contentType := resp.Header.Get("Content-Type")
	body, err := decodeBody(raw, contentType)
	if err != nil {
		return nil, newError(KindBodyRead, rawURL, err)
	}

	return &model.Page{
		URL:         rawURL,
		Body:        body,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
	}, nil
}

// decodeBody converts raw to UTF-8 using the charset declared in the
// content type or sniffed from the document.
func decodeBody(raw []byte, contentType string) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	reader, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return "", err
	}

	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(decoded) {
		return "", errNotText
	}

	return string(decoded), nil
}
