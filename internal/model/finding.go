package model

import (
	"fmt"
	"sort"
)

// Category classifies a finding.
type Category string

const (
	// CategoryBrokenFile means the target file does not exist.
	CategoryBrokenFile Category = "broken-file"
	// CategoryBrokenAnchor means the fragment matches no heading or explicit anchor.
	CategoryBrokenAnchor Category = "broken-anchor"
	// CategoryNonPortableFileURL means the link uses the file: scheme.
	CategoryNonPortableFileURL Category = "non-portable-file-url"
	// CategoryParseError means the document could not be read as markdown.
	CategoryParseError Category = "parse-error"
	// CategoryCaseMismatch means the target exists only with different letter case.
	CategoryCaseMismatch Category = "case-mismatch"
	// CategoryEscapesRoot means the target resolves outside the root.
	CategoryEscapesRoot Category = "escapes-root"
	// CategoryEmptyLink means the link has an empty destination.
	CategoryEmptyLink Category = "empty-link"
)

// AllCategories lists every category in reporting order.
func AllCategories() []Category {
	return []Category{
		CategoryBrokenFile,
		CategoryBrokenAnchor,
		CategoryNonPortableFileURL,
		CategoryParseError,
		CategoryCaseMismatch,
		CategoryEscapesRoot,
		CategoryEmptyLink,
	}
}

// Finding is a single validation failure.
type Finding struct {
	Category Category `json:"category"`
	Severity Severity `json:"severity"`

	// File is the source document, relative to the root.
	File string `json:"file"`

	// Line is 1-based; 0 when the finding concerns the whole file.
	Line int `json:"line"`

	Message string `json:"message"`

	// Target is the raw link destination, empty for parse errors.
	Target string `json:"target,omitempty"`

	// Suggestion is the closest existing file or anchor, if any.
	Suggestion string `json:"suggestion,omitempty"`

	Recommendation string `json:"recommendation,omitempty"`
}

// NewFinding builds a finding with severity and recommendation taken from the category table.
func NewFinding(c Category, file string, line int, target, message string) Finding {
	info := GetCategoryInfo(c)
	return Finding{
		Category:       c,
		Severity:       info.Severity,
		File:           file,
		Line:           line,
		Message:        message,
		Target:         target,
		Recommendation: info.Recommendation,
	}
}

// Key identifies a finding across runs. Line numbers are left out so that
// edits above a broken link do not turn it into a "new" finding.
func (f Finding) Key() string {
	return fmt.Sprintf("%s|%s|%s", f.File, f.Category, f.Target)
}

// Location returns "file:line", or just the file when the line is unknown.
func (f Finding) Location() string {
	if f.Line <= 0 {
		return f.File
	}
	return fmt.Sprintf("%s:%d", f.File, f.Line)
}

// SortFindings orders findings by file, line, category, then target.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Target < b.Target
	})
}
