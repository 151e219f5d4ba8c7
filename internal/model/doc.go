// Package model defines the core data structures used throughout navcheck.
//
// This package contains the following main types:
//   - Document: A markdown file with its headings, links and explicit anchors
//   - Link: A single link occurrence inside a Document
//   - Finding: A validation failure produced by the graph checker
//   - Run: The result of one validation run over a documentation root
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The extractor, checker, reporter and history store all need
// these types, so centralizing them prevents import cycles.
//
// Documents and headings are derived data. They are recomputed on every run
// and never persisted; only Run summaries may be recorded in history.
package model
