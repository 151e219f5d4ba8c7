package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nao1215/navcheck/internal/model"
)

// JSONWriter outputs the run as indented JSON for tools and CI scripts.
// HTML characters are written as is, since link targets and messages
// often contain '&', '<' and '>'.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the run followed by a newline.
func (w *JSONWriter) Write(run *model.Run) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(run); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
