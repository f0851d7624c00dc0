package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs summaries in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeSources(md, summary)
	w.writeMatchers(md, summary)
	w.writeRecent(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with summary totals.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *Summary) {
	md.H1("PasteWatch Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Stored Pastes", strconv.Itoa(summary.TotalPastes)},
			{"Matches", strconv.Itoa(summary.TotalMatches)},
		},
	})
	md.PlainText("")

	w.writeAlert(md, summary)
}

// writeAlert writes an appropriate alert based on match activity.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *Summary) {
	switch {
	case summary.HasMatches():
		md.Warningf(
			"%d match(es) recorded. Review the matched pastes: leaked credentials should be rotated immediately.",
			summary.TotalMatches,
		)
	case summary.TotalPastes > 0:
		md.Note("Pastes were scraped but no matcher hit. Consider reviewing the watch rules.")
	default:
		md.Tip("No activity recorded yet. Run the watcher to collect pastes.")
	}
	md.PlainText("")
}

// writeSources writes the per-source paste counts.
func (w *MarkdownWriter) writeSources(md *markdown.Markdown, summary *Summary) {
	md.H2("Pastes by Source")
	md.PlainText("")

	if len(summary.PastesBySource) == 0 {
		md.PlainText("No pastes stored.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.PastesBySource))
	for i, sc := range summary.PastesBySource {
		rows[i] = []string{displayName(sc.Source), strconv.Itoa(sc.Count)}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Source", "Pastes"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeMatchers writes the per-matcher match counts with a pie chart.
func (w *MarkdownWriter) writeMatchers(md *markdown.Markdown, summary *Summary) {
	md.H2("Matches by Matcher")
	md.PlainText("")

	if len(summary.MatchesByMatcher) == 0 {
		md.PlainText("No matches recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.MatchesByMatcher))
	for i, mc := range summary.MatchesByMatcher {
		rows[i] = []string{displayName(mc.Matcher), strconv.Itoa(mc.Count)}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Matcher", "Matches"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, summary)
}

// writePieChart writes a mermaid pie chart for the match distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Match Distribution"),
		piechart.WithShowData(true),
	)

	for _, mc := range summary.MatchesByMatcher {
		if mc.Count > 0 {
			chart.LabelAndIntValue(displayName(mc.Matcher), uint64(mc.Count))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeRecent writes the most recent match records.
func (w *MarkdownWriter) writeRecent(md *markdown.Markdown, summary *Summary) {
	md.H2("Recent Matches")
	md.PlainText("")

	if len(summary.Recent) == 0 {
		md.PlainText("No matches recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Recent))
	for i, rec := range summary.Recent {
		matched := strings.Join(rec.Matched, ", ")
		if matched == "" {
			matched = "-"
		}

		rows[i] = []string{
			rec.CreatedAt.Format("2006-01-02 15:04"),
			"`" + rec.PasteKey + "`",
			rec.Source,
			rec.Matcher,
			truncateString(matched, 50),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Time", "Key", "Source", "Matcher", "Matched"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [PasteWatch](https://github.com/pastewatch/pastewatch)*")
}
