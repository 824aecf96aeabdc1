package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dshills/figcrit/internal/critique"
)

// MarkdownWriter outputs the report body under a short metadata header.
type MarkdownWriter struct {
	// NoHeader writes the model's Markdown only.
	NoHeader bool
}

func (m *MarkdownWriter) Write(w io.Writer, report *critique.Report) error {
	ew := &errWriter{w: w}
	if !m.NoHeader {
		writeHeader(ew, report)
	}
	ew.println(strings.TrimRight(report.Markdown, "\n"))
	return ew.err
}

func writeHeader(ew *errWriter, report *critique.Report) {
	title := report.Source.Name
	if title == "" {
		title = "Untitled design"
	}
	ew.printf("# Design review: %s\n\n", title)

	if report.Source.FileKey != "" {
		ew.printf("- **File:** `%s`", report.Source.FileKey)
		if report.Source.NodeID != "" {
			ew.printf(" node `%s`", report.Source.NodeID)
		}
		ew.println("")
	}
	if report.Source.Input != "" {
		ew.printf("- **Input:** `%s`\n", report.Source.Input)
	}
	ew.printf("- **Model:** %s / %s", report.Provider, report.Model)
	switch {
	case report.CachedFrom != nil:
		ew.printf(" (cached from run `%s`, %s)", report.CachedFrom.RunID,
			report.CachedFrom.CreatedAt.UTC().Format(time.RFC3339))
	case report.CacheHit:
		ew.printf(" (cached)")
	}
	ew.println("")
	ew.printf("- **Layers:** %d nodes, %d levels, %d text\n",
		report.Stats.Nodes, report.Stats.Depth, report.Stats.TextNodes)
	if report.Redactions > 0 {
		ew.printf("- **Redacted:** %d fields\n", report.Redactions)
	}
	ew.printf("- **Generated:** %s in %dms\n",
		report.CreatedAt.UTC().Format(time.RFC3339), report.Timing.TotalMs)
	ew.printf("\n---\n\n")
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
