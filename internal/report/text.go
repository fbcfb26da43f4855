package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/bfscrawl/internal/model"
)

// textWidth is the width of section rules in text output.
const textWidth = 70

// TextWriter outputs human-readable text for terminal display.
type TextWriter struct {
	baseWriter

	// title formats section labels.
	title cases.Caser
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{
		baseWriter: newBaseWriter(output),
		title:      cases.Title(language.English),
	}
}

// Write outputs the crawl result as plain text.
func (w *TextWriter) Write(output *model.CrawlOutput) (int, error) {
	var sb strings.Builder

	w.writeSection(&sb, "seeds", output.Seeds)
	w.writeSection(&sb, fmt.Sprintf("links (%d)", len(output.Links)), output.Links)

	if output.Stats != nil {
		w.writeStats(&sb, output.Stats)
	}

	return w.output.Write([]byte(sb.String()))
}

// writeSection writes a titled list of URLs.
func (w *TextWriter) writeSection(sb *strings.Builder, label string, urls []string) {
	w.writeRule(sb, label)

	if len(urls) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, u := range urls {
		sb.WriteString("  ")
		sb.WriteString(u)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// writeStats writes the session stats block.
func (w *TextWriter) writeStats(sb *strings.Builder, stats *model.SessionStats) {
	w.writeRule(sb, "stats")

	rows := []statRow{
		{"total visited", strconv.FormatUint(stats.TotalVisited, 10)},
		{"total failed", strconv.FormatUint(stats.TotalFailed, 10)},
		{"rounds", strconv.FormatUint(stats.Rounds, 10)},
		{"started at", formatDay(stats.StartedAt)},
		{"finished at", formatDay(stats.FinishedAt)},
	}

	if elapsed, err := stats.ElapsedTime(); err == nil && stats.Finished() {
		rows = append(rows, statRow{"elapsed", elapsed.String()})
	}

	for _, row := range rows {
		fmt.Fprintf(sb, "  %-15s %s\n", w.title.String(row.label)+":", row.value)
	}
	sb.WriteString("\n")
}

// writeRule writes a section header framed by horizontal rules.
func (w *TextWriter) writeRule(sb *strings.Builder, label string) {
	sb.WriteString(strings.Repeat("-", textWidth))
	sb.WriteString("\n")
	sb.WriteString(strings.ToUpper(label))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", textWidth))
	sb.WriteString("\n")
}

// statRow is one labelled line of the stats block.
type statRow struct {
	label string
	value string
}

// formatDay formats t as a UTC day, or "-" when t is unset.
func formatDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(model.DateLayout)
}
