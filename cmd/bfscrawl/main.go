// Package main provides the entry point for the bfscrawl CLI.
//
// bfscrawl crawls the web breadth-first from a set of seed URLs and prints
// every page it visited, optionally with session statistics.
//
// Usage:
//
//	bfscrawl crawl -u https://example.com
//	bfscrawl crawl -u https://example.com --same-domain --stats --json
//
// See --help for all available options.
package main

// main is the entry point for bfscrawl.
func main() {
	Execute()
}
