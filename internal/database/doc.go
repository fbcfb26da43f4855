// Package database provides SQLite-based run history for bfscrawl.
//
// Each completed crawl is stored as a run: its seeds, the same-domain flag,
// the session stats and the full visited set. Runs are grouped by a seed
// fingerprint so the history of one crawl target can be listed and two runs
// can be compared link by link.
//
// The store uses modernc.org/sqlite, a CGO-free driver, with a single
// database file in WAL mode. History is never read back into a crawl.
package database
