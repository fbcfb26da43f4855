package report

import (
	"fmt"
	"io"

	"github.com/nao1215/bfscrawl/internal/config"
	"github.com/nao1215/bfscrawl/internal/model"
)

// Writer defines the interface for crawl output.
type Writer interface {
	// Write outputs the crawl result to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(output *model.CrawlOutput) (int, error)
}

// NewWriter returns the Writer for format.
func NewWriter(format config.OutputFormat, output io.Writer) (Writer, error) {
	switch format {
	case config.OutputFormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case config.OutputFormatYAML:
		return NewYAMLWriter(output), nil
	case config.OutputFormatText:
		return NewTextWriter(output), nil
	case config.OutputFormatMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidOutputFormat, format)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
