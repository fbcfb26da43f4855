package model

// CrawlOutput is the serialized result of a crawl run.
type CrawlOutput struct {
	// Seeds are the seed URLs in the order the caller supplied them.
	Seeds []string `json:"seeds" yaml:"seeds"`

	// Links are all visited URLs in lexicographic order.
	Links []string `json:"links" yaml:"links"`

	// Stats are the session stats, or nil when not requested.
	Stats *SessionStats `json:"stats" yaml:"stats"`
}

// NewCrawlOutput builds the output payload for a finished crawl.
// Stats are included only when withStats is true.
func NewCrawlOutput(seeds []string, visited URLSet, stats SessionStats, withStats bool) *CrawlOutput {
	out := &CrawlOutput{
		Seeds: append([]string(nil), seeds...),
		Links: visited.Sorted(),
	}
	if out.Seeds == nil {
		out.Seeds = []string{}
	}
	if withStats {
		out.Stats = &stats
	}
	return out
}
