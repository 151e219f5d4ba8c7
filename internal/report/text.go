package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/nao1215/navcheck/internal/model"
)

// TextWriter outputs one line per finding followed by a summary line:
//
//	docs/guide.md:12: broken-anchor — anchor #setup not found in docs/install.md
//
// The format is stable so that editors and CI annotations can parse it.
type TextWriter struct {
	baseWriter

	colorize bool

	errorColor   *color.Color
	warningColor *color.Color
	infoColor    *color.Color
	okColor      *color.Color
	faintColor   *color.Color
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithColor enables ANSI colors. The caller decides whether the destination
// is a terminal; TextWriter never guesses.
func WithColor(enabled bool) TextWriterOption {
	return func(w *TextWriter) {
		w.colorize = enabled
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
// Colors are off unless WithColor(true) is given.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter:   newBaseWriter(output),
		errorColor:   color.New(color.FgRed, color.Bold),
		warningColor: color.New(color.FgYellow),
		infoColor:    color.New(color.FgCyan),
		okColor:      color.New(color.FgGreen),
		faintColor:   color.New(color.Faint),
	}

	for _, opt := range opts {
		opt(w)
	}

	for _, c := range []*color.Color{w.errorColor, w.warningColor, w.infoColor, w.okColor, w.faintColor} {
		if w.colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return w
}

// Write outputs every finding of run in order, then the summary line.
func (w *TextWriter) Write(run *model.Run) (int, error) {
	var sb strings.Builder

	for _, f := range run.Findings {
		sb.WriteString(w.formatFinding(f))
		sb.WriteString("\n")
	}

	summary := Summary(run)
	switch {
	case run.Failed():
		summary = w.errorColor.Sprint(summary)
	case run.HasFindings():
		summary = w.warningColor.Sprint(summary)
	default:
		summary = w.okColor.Sprint(summary)
	}
	sb.WriteString(summary)
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

// FormatFinding returns the uncolored report line for f.
func FormatFinding(f model.Finding) string {
	return NewTextWriter(io.Discard).formatFinding(f)
}

func (w *TextWriter) formatFinding(f model.Finding) string {
	msg := f.Message
	if f.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", f.Suggestion)
	}
	return fmt.Sprintf("%s: %s — %s",
		w.faintColor.Sprint(f.Location()),
		w.severityColor(f.Severity).Sprint(string(f.Category)),
		msg)
}

func (w *TextWriter) severityColor(s model.Severity) *color.Color {
	switch s {
	case model.SeverityError:
		return w.errorColor
	case model.SeverityWarning:
		return w.warningColor
	default:
		return w.infoColor
	}
}
