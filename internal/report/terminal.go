package report

import (
	"bytes"
	"io"

	"github.com/charmbracelet/glamour"

	"github.com/nao1215/navcheck/internal/model"
)

// TerminalStyle is the glamour style used for rendered Markdown reports.
const TerminalStyle = "dark"

// TerminalWriter renders the Markdown report with glamour for display in a
// terminal. If rendering fails, the raw Markdown is written instead.
type TerminalWriter struct {
	baseWriter
	style string
}

// NewTerminalWriter creates a TerminalWriter that outputs to the given writer.
func NewTerminalWriter(output io.Writer) *TerminalWriter {
	return &TerminalWriter{
		baseWriter: newBaseWriter(output),
		style:      TerminalStyle,
	}
}

// Write renders the run as Markdown and writes the styled result.
func (w *TerminalWriter) Write(run *model.Run) (int, error) {
	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(run); err != nil {
		return 0, err
	}

	rendered, err := glamour.Render(buf.String(), w.style)
	if err != nil {
		return w.output.Write(buf.Bytes())
	}
	return io.WriteString(w.output, rendered)
}
