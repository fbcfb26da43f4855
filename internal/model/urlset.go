package model

import "sort"

// URLSet is a set of canonical URL strings.
// Set membership is the only deduplication key used by the crawler.
type URLSet map[string]struct{}

// NewURLSet creates a URLSet containing the given URLs.
// Duplicates collapse into a single member.
func NewURLSet(urls ...string) URLSet {
	s := make(URLSet, len(urls))
	for _, u := range urls {
		s[u] = struct{}{}
	}
	return s
}

// Add inserts u and reports whether it was not already present.
func (s URLSet) Add(u string) bool {
	if _, ok := s[u]; ok {
		return false
	}
	s[u] = struct{}{}
	return true
}

// Has reports whether u is a member of the set.
func (s URLSet) Has(u string) bool {
	_, ok := s[u]
	return ok
}

// Len returns the number of members.
func (s URLSet) Len() int {
	return len(s)
}

// Union adds every member of other to s.
func (s URLSet) Union(other URLSet) {
	for u := range other {
		s[u] = struct{}{}
	}
}

// Difference returns a new set with the members of s that are not in other.
func (s URLSet) Difference(other URLSet) URLSet {
	diff := make(URLSet)
	for u := range s {
		if !other.Has(u) {
			diff[u] = struct{}{}
		}
	}
	return diff
}

// Sorted returns the members in lexicographic order.
func (s URLSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for u := range s {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}
