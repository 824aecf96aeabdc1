// Package output formats critique reports for reading or machine consumption.
//
// Three formats are supported:
//   - markdown: the report body under a short metadata header (default)
//   - json: the full structured report
//   - terminal: the Markdown rendered for the terminal with glamour
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*critique.Report]. [WriteReport]
// handles destination selection: a file path, or "-" for stdout.
package output
