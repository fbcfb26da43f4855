package report

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/bfscrawl/internal/model"
)

// YAMLWriter outputs crawl results in YAML format.
type YAMLWriter struct {
	baseWriter
}

// NewYAMLWriter creates a YAMLWriter that outputs to the given writer.
func NewYAMLWriter(output io.Writer) *YAMLWriter {
	return &YAMLWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the crawl result in YAML format.
func (w *YAMLWriter) Write(output *model.CrawlOutput) (int, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(output); err != nil {
		return 0, err
	}
	if err := enc.Close(); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}
