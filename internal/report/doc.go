// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - TextWriter: one line per finding plus a summary line, for terminals and CI logs
//   - JSONWriter: the model.Run as JSON, for tool integration
//   - MarkdownWriter: a Markdown document with tables and a category chart
//
// Design decision: We separate report writing from report data structures
// (which are in the model package) to follow the single responsibility
// principle. This allows adding new output formats without modifying
// the core data structures.
package report
