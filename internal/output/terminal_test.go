package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestTerminalWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &TerminalWriter{Style: "notty", Width: 60}
	if err := w.Write(&buf, sampleReport()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Design review: Checkout", "Accessibility", "14px"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered output missing %q\n%s", want, out)
		}
	}
}

func TestTerminalWriter_BadStyle(t *testing.T) {
	w := &TerminalWriter{Style: "/nonexistent/style.json"}
	if err := w.Write(&bytes.Buffer{}, sampleReport()); err == nil {
		t.Error("expected error for a missing style file")
	}
}
