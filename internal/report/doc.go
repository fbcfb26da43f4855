// Package report renders crawl results.
//
// This package contains writers for different output formats:
//   - TextWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - YAMLWriter: YAML output
//   - MarkdownWriter: GitHub Flavored Markdown for sharing
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably. NewWriter selects one by config.OutputFormat.
package report
