package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/bfscrawl/internal/model"
)

// MarkdownWriter outputs crawl results in GitHub Flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the crawl result in Markdown format.
func (w *MarkdownWriter) Write(output *model.CrawlOutput) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl Report")
	md.PlainText("")

	w.writeSeeds(md, output)
	w.writeStats(md, output.Stats)
	w.writeLinks(md, output)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeSeeds writes the seed list.
func (w *MarkdownWriter) writeSeeds(md *markdown.Markdown, output *model.CrawlOutput) {
	md.H2("Seeds")
	md.PlainText("")

	if len(output.Seeds) == 0 {
		md.PlainText("No seeds.")
		md.PlainText("")
		return
	}

	md.BulletList(codeSpans(output.Seeds)...)
	md.PlainText("")
}

// writeStats writes the stats table and a visited/failed chart.
func (w *MarkdownWriter) writeStats(md *markdown.Markdown, stats *model.SessionStats) {
	if stats == nil {
		return
	}

	md.H2("Stats")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Visited", strconv.FormatUint(stats.TotalVisited, 10)},
			{"Total Failed", strconv.FormatUint(stats.TotalFailed, 10)},
			{"Rounds", strconv.FormatUint(stats.Rounds, 10)},
			{"Started At", formatDay(stats.StartedAt)},
			{"Finished At", formatDay(stats.FinishedAt)},
		},
	})
	md.PlainText("")

	if stats.TotalVisited > 0 {
		w.writePieChart(md, stats)
	}

	if stats.TotalFailed > 0 {
		md.Warningf("%d of %d fetches failed.", stats.TotalFailed, stats.TotalVisited)
		md.PlainText("")
	}
}

// writePieChart writes a mermaid pie chart of fetched and failed pages.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, stats *model.SessionStats) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Fetch Results"),
		piechart.WithShowData(true),
	)

	if ok := stats.TotalVisited - stats.TotalFailed; ok > 0 {
		chart.LabelAndIntValue("Fetched", ok)
	}
	if stats.TotalFailed > 0 {
		chart.LabelAndIntValue("Failed", stats.TotalFailed)
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeLinks writes the visited links.
func (w *MarkdownWriter) writeLinks(md *markdown.Markdown, output *model.CrawlOutput) {
	md.H2("Links")
	md.PlainText("")

	if len(output.Links) == 0 {
		md.Note("No links were visited.")
		md.PlainText("")
		return
	}

	md.PlainTextf("%d visited URL(s).", len(output.Links))
	md.PlainText("")
	md.BulletList(codeSpans(output.Links)...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by [bfscrawl](https://github.com/nao1215/bfscrawl)*")
}

// codeSpans wraps each URL in backticks so Markdown renderers do not
// autolink or mangle it.
func codeSpans(urls []string) []string {
	out := make([]string, len(urls))
	for i, u := range urls {
		out[i] = "`" + u + "`"
	}
	return out
}
