package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/figcrit/internal/critique"
)

// DefaultOutPath is where reports go when no destination is given.
const DefaultOutPath = "report.md"

// Stdout is the destination name that writes to standard output.
const Stdout = "-"

// Writer writes a report in a specific format.
type Writer interface {
	Write(w io.Writer, report *critique.Report) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "", "markdown":
		return &MarkdownWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "terminal":
		return &TerminalWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteReport writes the report with writer to outPath, or to stdout when
// outPath is "-". An empty outPath means DefaultOutPath.
func WriteReport(writer Writer, report *critique.Report, outPath string) error {
	return withDestination(outPath, func(w io.Writer) error {
		return writer.Write(w, report)
	})
}

// WriteBytes writes data followed by a newline to outPath, or to stdout
// when outPath is "-" or empty.
func WriteBytes(data []byte, outPath string) error {
	if outPath == "" {
		outPath = Stdout
	}
	return withDestination(outPath, func(w io.Writer) error {
		if _, err := w.Write(data); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	})
}

func withDestination(outPath string, fn func(io.Writer) error) error {
	if outPath == "" {
		outPath = DefaultOutPath
	}
	if outPath == Stdout {
		return fn(os.Stdout)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", outPath, err)
	}
	return nil
}
