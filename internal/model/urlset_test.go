package model

import (
	"reflect"
	"testing"
)

// TestURLSet tests the set operations used by the crawl engine.
func TestURLSet(t *testing.T) {
	t.Parallel()

	t.Run("new set collapses duplicates", func(t *testing.T) {
		t.Parallel()

		s := NewURLSet("https://a.com", "https://b.com", "https://a.com")
		if s.Len() != 2 {
			t.Errorf("expected 2 members, got %d", s.Len())
		}
	})

	t.Run("add reports insertion", func(t *testing.T) {
		t.Parallel()

		s := NewURLSet()
		if !s.Add("https://a.com") {
			t.Error("expected first Add to return true")
		}
		if s.Add("https://a.com") {
			t.Error("expected second Add to return false")
		}
		if !s.Has("https://a.com") {
			t.Error("expected member to be present")
		}
	})

	t.Run("union merges members", func(t *testing.T) {
		t.Parallel()

		s := NewURLSet("https://a.com")
		s.Union(NewURLSet("https://a.com", "https://b.com"))
		want := []string{"https://a.com", "https://b.com"}
		if got := s.Sorted(); !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, expected %v", got, want)
		}
	})

	t.Run("difference excludes other members", func(t *testing.T) {
		t.Parallel()

		s := NewURLSet("https://a.com", "https://b.com", "https://c.com")
		diff := s.Difference(NewURLSet("https://b.com"))
		want := []string{"https://a.com", "https://c.com"}
		if got := diff.Sorted(); !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, expected %v", got, want)
		}
		if s.Len() != 3 {
			t.Errorf("difference must not modify the receiver, got %d members", s.Len())
		}
	})

	t.Run("sorted is lexicographic and non-nil", func(t *testing.T) {
		t.Parallel()

		if got := NewURLSet().Sorted(); got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", got)
		}

		s := NewURLSet("https://c.com", "https://a.com/z", "https://a.com/b")
		want := []string{"https://a.com/b", "https://a.com/z", "https://c.com"}
		if got := s.Sorted(); !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, expected %v", got, want)
		}
	})
}
