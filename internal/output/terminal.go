package output

import (
	"bytes"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"

	"github.com/dshills/figcrit/internal/critique"
)

const defaultWrap = 80

// TerminalWriter renders the Markdown report with ANSI styling.
type TerminalWriter struct {
	// Width is the word-wrap column; zero means 80.
	Width int
	// Style is a glamour style name such as "dark" or "notty". Empty picks
	// one from the terminal background.
	Style string
}

func (t *TerminalWriter) Write(w io.Writer, report *critique.Report) error {
	width := t.Width
	if width <= 0 {
		width = defaultWrap
	}
	style := glamour.WithAutoStyle()
	if t.Style != "" {
		style = glamour.WithStylePath(t.Style)
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	var src bytes.Buffer
	if err := (&MarkdownWriter{}).Write(&src, report); err != nil {
		return err
	}
	out, err := renderer.Render(src.String())
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
