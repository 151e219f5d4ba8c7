package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/navcheck/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for pull request comments and CI job summaries.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run in Markdown format.
func (w *MarkdownWriter) Write(run *model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeSummary(md, run)
	w.writeFindings(md, run)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.Run) {
	md.H1("navcheck Report")
	md.PlainText("")

	strict := "no"
	if run.Strict {
		strict = "yes"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Root", "`" + run.Root + "`"},
			{"Run ID", "`" + run.ID + "`"},
			{"Started", run.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", run.Duration.Round(time.Millisecond).String()},
			{"Documents", strconv.Itoa(run.Documents)},
			{"Links Checked", strconv.Itoa(run.Links)},
			{"External Links Skipped", strconv.Itoa(run.ExternalSkipped)},
			{"Strict", strict},
			{"Status", statusText(run)},
		},
	})
	md.PlainText("")
}

// statusText returns the status text based on run state.
func statusText(run *model.Run) string {
	switch {
	case run.Failed():
		return "❌ Failed"
	case run.HasFindings():
		return "⚠️ Passed with findings"
	default:
		return "✅ Passed"
	}
}

// writeSummary writes the severity table, the category chart and an alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, run *model.Run) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"🔴 Error", strconv.Itoa(run.Errors())},
			{"🟡 Warning", strconv.Itoa(run.Warnings())},
			{"⚪ Info", strconv.Itoa(run.CountBySeverity(model.SeverityInfo))},
			{"**Total**", "**" + strconv.Itoa(run.TotalFindings()) + "**"},
		},
	})
	md.PlainText("")

	if run.HasFindings() {
		w.writePieChart(md, run)
	}

	w.writeAlert(md, run)
}

// writePieChart writes a mermaid pie chart of findings per category.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, run *model.Run) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Findings by Category"),
		piechart.WithShowData(true),
	)

	counts := run.CountByCategory()
	for _, c := range model.AllCategories() {
		if n := counts[c]; n > 0 {
			chart.LabelAndIntValue(string(c), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert that matches the exit status.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, run *model.Run) {
	switch {
	case run.Errors() > 0:
		md.Cautionf("%d broken link(s) found. The run fails until they are fixed.", run.Errors())
	case run.Failed():
		md.Warningf("%d warning(s) found. Strict mode treats warnings as failures.", run.Warnings())
	case run.HasFindings():
		md.Note("Only warnings were found. They do not fail the run without --strict.")
	default:
		md.Tip("All links resolve.")
	}
	md.PlainText("")
}

// writeFindings writes all findings as one table, followed by guidance for
// each category that occurred.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, run *model.Run) {
	md.H2("Findings")
	md.PlainText("")

	if !run.HasFindings() {
		md.PlainText("No findings.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(run.Findings))
	for i, f := range run.Findings {
		suggestion := "-"
		if f.Suggestion != "" {
			suggestion = "`" + f.Suggestion + "`"
		}
		rows[i] = []string{
			"`" + f.Location() + "`",
			f.Severity.String(),
			string(f.Category),
			escapeCell(truncateString(f.Message, 80)),
			escapeCell(suggestion),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Location", "Severity", "Category", "Message", "Suggestion"},
		Rows:   rows,
	})
	md.PlainText("")

	counts := run.CountByCategory()
	for _, c := range model.AllCategories() {
		if counts[c] == 0 {
			continue
		}
		info := model.GetCategoryInfo(c)
		md.Details(fmt.Sprintf("%s (%d)", c, counts[c]), info.Impact+" "+info.Recommendation)
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [navcheck](https://github.com/nao1215/navcheck)*")
}

// escapeCell keeps pipes inside a table cell from splitting the row.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
