package crawler

import (
	"errors"
	"net/url"
	"path"
	"strings"
)

// Link rejection reasons returned by Normalize.
var (
	// ErrEmptyHref is returned for an empty or whitespace-only href.
	ErrEmptyHref = errors.New("empty href")

	// ErrOffDomain is returned when same-domain crawling is enabled and the
	// href neither is root-relative nor mentions the base domain.
	ErrOffDomain = errors.New("link leaves the base domain")

	// ErrResourceLink is returned for links to images, stylesheets, scripts
	// and other non-document resources.
	ErrResourceLink = errors.New("link points to a resource file")

	// ErrNoHost is wrapped in a KindURLParse error when a URL has no host.
	ErrNoHost = errors.New("url has no host")
)

// resourceExtensions are the path extensions of links that are never crawled.
var resourceExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".svg":  {},
	".ico":  {},
	".pdf":  {},
	".css":  {},
	".js":   {},
}

// Normalize turns a raw href found on the page at base into a canonical
// absolute URL, or returns an error explaining why the link is rejected.
// Rejections are never fatal; callers drop the link.
//
// The checks run in order:
//  1. empty hrefs are rejected
//  2. with sameDomain, only root-relative hrefs or hrefs containing the
//     base hostname are kept
//  3. links whose path ends in a resource extension are rejected
//  4. root-relative hrefs are joined to the base scheme and lowercased host
//     and lose a trailing slash; scheme-relative hrefs take the base scheme; anything
//     else must already be absolute with a host and is returned unchanged
func Normalize(base, href string, sameDomain bool) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", ErrEmptyHref
	}

	rootRelative := isRootRelative(href)

	if sameDomain && !rootRelative {
		b, err := parseWithHost(base)
		if err != nil {
			return "", err
		}
		if !strings.Contains(href, strings.ToLower(b.Hostname())) {
			return "", ErrOffDomain
		}
	}

	if isResourceLink(href) {
		return "", ErrResourceLink
	}

	switch {
	case rootRelative:
		b, err := parseWithHost(base)
		if err != nil {
			return "", err
		}
		return strings.TrimSuffix(b.Scheme+"://"+strings.ToLower(b.Host)+href, "/"), nil

	case strings.HasPrefix(href, "//"):
		b, err := parseWithHost(base)
		if err != nil {
			return "", err
		}
		abs := b.Scheme + ":" + href
		if _, err := parseWithHost(abs); err != nil {
			return "", err
		}
		return abs, nil

	default:
		if _, err := parseWithHost(href); err != nil {
			return "", err
		}
		return href, nil
	}
}

// Accept reports whether Normalize keeps the link, returning the canonical
// URL when it does.
func Accept(base, href string, sameDomain bool) (string, bool) {
	link, err := Normalize(base, href, sameDomain)
	return link, err == nil
}

// isRootRelative reports whether href is a path on the base host.
// Scheme-relative hrefs ("//host/path") are not root-relative.
func isRootRelative(href string) bool {
	return strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//")
}

// isResourceLink reports whether the href's path ends in a resource extension.
// Unparseable hrefs are reported as non-resources and rejected later.
func isResourceLink(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	_, ok := resourceExtensions[path.Ext(strings.ToLower(u.Path))]
	return ok
}

// parseWithHost parses raw and requires a host component.
func parseWithHost(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, newError(KindURLParse, raw, err)
	}
	if u.Host == "" {
		return nil, newError(KindURLParse, raw, ErrNoHost)
	}
	return u, nil
}
