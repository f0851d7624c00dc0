package report

import (
	"fmt"
	"io"
	"strings"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no data are shown.
	showEmpty bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeSources(&sb, summary)
	w.writeMatchers(&sb, summary)
	w.writeRecent(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with summary totals.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        PASTEWATCH REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Generated:      %s\n", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Stored Pastes:  %d\n", summary.TotalPastes))
	sb.WriteString(fmt.Sprintf("Matches:        %d\n", summary.TotalMatches))
	sb.WriteString("\n")
}

// writeSources writes the per-source paste counts.
func (w *SimpleWriter) writeSources(sb *strings.Builder, summary *Summary) {
	if len(summary.PastesBySource) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("PASTES BY SOURCE\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(summary.PastesBySource) == 0 {
		sb.WriteString("  No pastes stored\n")
	} else {
		for _, sc := range summary.PastesBySource {
			sb.WriteString(fmt.Sprintf("  %-30s %d\n", displayName(sc.Source), sc.Count))
		}
	}
	sb.WriteString("\n")
}

// writeMatchers writes the per-matcher match counts.
func (w *SimpleWriter) writeMatchers(sb *strings.Builder, summary *Summary) {
	if len(summary.MatchesByMatcher) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("MATCHES BY MATCHER\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(summary.MatchesByMatcher) == 0 {
		sb.WriteString("  No matches recorded\n")
	} else {
		for _, mc := range summary.MatchesByMatcher {
			sb.WriteString(fmt.Sprintf("  %-30s %d\n", displayName(mc.Matcher), mc.Count))
		}
	}
	sb.WriteString("\n")
}

// writeRecent writes the most recent match records.
func (w *SimpleWriter) writeRecent(sb *strings.Builder, summary *Summary) {
	if len(summary.Recent) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RECENT MATCHES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(summary.Recent) == 0 {
		sb.WriteString("  No matches recorded\n")
	} else {
		for _, rec := range summary.Recent {
			sb.WriteString(fmt.Sprintf("  * %s  %s/%s  matcher=%s\n",
				rec.CreatedAt.Format("2006-01-02 15:04"),
				rec.Source,
				rec.PasteKey,
				rec.Matcher,
			))
			if len(rec.Matched) > 0 {
				sb.WriteString(fmt.Sprintf("    Matched: %s\n", truncateString(strings.Join(rec.Matched, ", "), 60)))
			}
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by PasteWatch\n")
	sb.WriteString("https://github.com/pastewatch/pastewatch\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
