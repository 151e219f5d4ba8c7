package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/nao1215/navcheck/internal/model"
)

// Writer defines the interface for report output.
// Implementations write validation runs in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or an MCP tool
// result with the same API.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(run *model.Run) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Summary returns the one-line totals for run, for example
// "3 finding(s) (2 errors, 1 warnings) in 12 documents, 140 links checked".
func Summary(run *model.Run) string {
	return fmt.Sprintf("%d finding(s) (%d errors, %d warnings) in %d documents, %d links checked",
		run.TotalFindings(), run.Errors(), run.Warnings(), run.Documents, run.Links)
}

// ErrUnknownFormat is returned by NewWriter for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown report format")

// Options tunes the Writer returned by NewWriter.
type Options struct {
	// Color enables ANSI colors in the text format.
	Color bool

	// Render styles the markdown format for a terminal.
	Render bool
}

// NewWriter returns the Writer for format: "text", "json" or "markdown".
func NewWriter(output io.Writer, format string, opts Options) (Writer, error) {
	switch format {
	case "", "text":
		return NewTextWriter(output, WithColor(opts.Color)), nil
	case "json":
		return NewJSONWriter(output), nil
	case "markdown":
		if opts.Render {
			return NewTerminalWriter(output), nil
		}
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
