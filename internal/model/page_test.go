package model

import "testing"

// TestNewPage tests the Page constructor.
func TestNewPage(t *testing.T) {
	t.Parallel()

	page := NewPage("https://a.com/", "<html></html>")
	if page.URL != "https://a.com/" {
		t.Errorf("expected URL 'https://a.com/', got %q", page.URL)
	}
	if page.Body != "<html></html>" {
		t.Errorf("unexpected body %q", page.Body)
	}
}
