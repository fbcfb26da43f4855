// Package model defines the data structures shared by the crawler, the
// report writers and the run history store.
//
// This package contains the following main types:
//   - URLSet: A set of canonical URL strings (visited set, frontier)
//   - Page: A fetched page, produced by a Fetcher and consumed by link extraction
//   - SessionStats: Visit counters and start/finish timestamps of one crawl
//   - CrawlOutput: The serialized result of a crawl
//
// The types live in their own package so that crawler, report and database
// can all use them without import cycles.
package model
