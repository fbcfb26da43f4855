// Package transport builds the HTTP clients used to fetch pages.
//
// Clients connect directly by default. When a proxy address is configured,
// every connection is routed through a SOCKS5 proxy using
// golang.org/x/net/proxy. CheckProxy performs a SOCKS5 handshake so a
// misconfigured proxy is reported before a crawl starts rather than as a
// transport error on every page.
package transport
