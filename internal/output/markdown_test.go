package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dshills/figcrit/internal/critique"
	"github.com/dshills/figcrit/internal/node"
)

func sampleReport() *critique.Report {
	return &critique.Report{
		Tool:      critique.ToolName,
		Version:   critique.ReportVersion,
		RunID:     "test-run",
		CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Provider:  "gemini",
		Model:     "gemini-2.5-pro",
		Lang:      "en",
		Source:    critique.Source{FileKey: "AbC123", NodeID: "1:2", Name: "Checkout"},
		Stats:     node.Stats{Nodes: 12, Depth: 4, TextNodes: 5},
		Markdown:  "## Accessibility\n\n- The **Pay** label is 12px; use at least 14px.\n",
		Timing:    critique.Timing{TotalMs: 1500},
	}
}

func TestMarkdownWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &MarkdownWriter{}
	if err := w.Write(&buf, sampleReport()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Design review: Checkout\n",
		"- **File:** `AbC123` node `1:2`\n",
		"- **Model:** gemini / gemini-2.5-pro\n",
		"- **Layers:** 12 nodes, 4 levels, 5 text\n",
		"- **Generated:** 2026-03-14T09:30:00Z in 1500ms\n",
		"---\n\n## Accessibility\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "Redacted") {
		t.Error("Redacted line should be omitted when nothing was redacted")
	}
	if !strings.HasSuffix(out, "use at least 14px.\n") {
		t.Errorf("output should end with a single newline, got %q", out[len(out)-20:])
	}
}

func TestMarkdownWriter_Variants(t *testing.T) {
	report := sampleReport()
	report.Source = critique.Source{Input: "fixtures/button.json"}
	report.CacheHit = true
	report.Redactions = 2

	var buf bytes.Buffer
	if err := (&MarkdownWriter{}).Write(&buf, report); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# Design review: Untitled design",
		"- **Input:** `fixtures/button.json`",
		"gemini-2.5-pro (cached)",
		"- **Redacted:** 2 fields",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	report.CachedFrom = &critique.CacheOrigin{RunID: "run-0", CreatedAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)}
	buf.Reset()
	if err := (&MarkdownWriter{}).Write(&buf, report); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if want := "gemini-2.5-pro (cached from run `run-0`, 2026-03-04T05:06:07Z)"; !strings.Contains(buf.String(), want) {
		t.Errorf("output missing %q", want)
	}
	if strings.Contains(out, "**File:**") {
		t.Error("File line should be omitted for local input")
	}
}

func TestMarkdownWriter_NoHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := (&MarkdownWriter{NoHeader: true}).Write(&buf, sampleReport()); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if got, want := buf.String(), "## Accessibility\n\n- The **Pay** label is 12px; use at least 14px.\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
