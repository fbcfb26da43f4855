// Package crawler implements a breadth-first web crawler.
//
// # Architecture
//
// The package is built around the Engine type, which runs a crawl in rounds.
// A round fetches every URL in the current frontier, waits for all fetches to
// complete, adds the frontier to the visited set and then computes the next
// frontier as the newly discovered links minus everything already visited.
// The crawl ends when the next frontier is empty. Because the visited set is
// only updated at the round barrier, no URL is fetched twice.
//
// # Components
//
//   - Engine: coordinates rounds and owns the visited set and session stats
//   - Fetcher: retrieves a page (HTTPFetcher is the net/http implementation)
//   - LinkExtractor: pulls raw hrefs out of a page (HTMLExtractor)
//   - Normalize: turns a raw href into a canonical absolute URL or rejects it
//
// # Failure Policy
//
// Fetch failures never abort a crawl. A URL whose fetch fails still counts as
// visited, contributes no links and increments the failure counter. Links
// that cannot be normalized are dropped silently.
//
// # Usage
//
//	fetcher := crawler.NewHTTPFetcher(client)
//	engine := crawler.NewEngine(fetcher, crawler.WithSameDomain(true))
//	result, err := engine.Crawl(ctx, []string{"https://example.com"})
package crawler
