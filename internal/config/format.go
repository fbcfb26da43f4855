package config

import (
	"fmt"
	"strings"
)

// OutputFormat selects how crawl results are rendered.
type OutputFormat string

const (
	// OutputFormatText is plain text for terminals.
	OutputFormatText OutputFormat = "text"

	// OutputFormatJSON is pretty-printed JSON.
	OutputFormatJSON OutputFormat = "json"

	// OutputFormatYAML is YAML.
	OutputFormatYAML OutputFormat = "yaml"

	// OutputFormatMarkdown is GitHub Flavored Markdown.
	OutputFormatMarkdown OutputFormat = "markdown"
)

// OutputFormats returns every supported format.
func OutputFormats() []OutputFormat {
	return []OutputFormat{
		OutputFormatJSON,
		OutputFormatText,
		OutputFormatYAML,
		OutputFormatMarkdown,
	}
}

// ParseOutputFormat parses a format name case-insensitively.
// "md" and "yml" are accepted as aliases.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return OutputFormatJSON, nil
	case "text", "txt":
		return OutputFormatText, nil
	case "yaml", "yml":
		return OutputFormatYAML, nil
	case "markdown", "md":
		return OutputFormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOutputFormat, s)
	}
}

// String returns the format name.
func (f OutputFormat) String() string {
	return string(f)
}

// Valid reports whether f is a supported format.
func (f OutputFormat) Valid() bool {
	for _, known := range OutputFormats() {
		if f == known {
			return true
		}
	}
	return false
}
