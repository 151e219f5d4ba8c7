package model

import "strings"

// Severity represents how serious a finding is.
//
// Design decision: Severity is an ordered int so that comparisons such as
// "at least warning" stay trivial. Only errors fail a run by default;
// --strict promotes warnings to failures.
type Severity int

const (
	// SeverityInfo is informational and never fails a run.
	SeverityInfo Severity = iota
	// SeverityWarning fails a run only in strict mode.
	SeverityWarning
	// SeverityError always fails a run.
	SeverityError
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so JSON output uses names.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	*s = ParseSeverity(string(b))
	return nil
}

// ParseSeverity converts a name back to a Severity. Unknown names map to info.
func ParseSeverity(name string) Severity {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "error":
		return SeverityError
	case "warning", "warn":
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// CategoryInfo contains the severity and guidance for a finding category.
type CategoryInfo struct {
	Severity       Severity
	Impact         string
	Recommendation string
}

// categoryInfoMapping maps categories to their severity and guidance.
//
// Design decision: keeping the table here instead of scattering severities
// across the checker means reporters and history read the same source.
var categoryInfoMapping = map[Category]CategoryInfo{
	CategoryBrokenFile: {
		Severity:       SeverityError,
		Impact:         "Readers following the link land on a 404 page.",
		Recommendation: "Fix the path or restore the missing file.",
	},
	CategoryBrokenAnchor: {
		Severity:       SeverityError,
		Impact:         "The link opens the right file but not the intended section.",
		Recommendation: "Update the fragment to match the current heading slug.",
	},
	CategoryNonPortableFileURL: {
		Severity:       SeverityError,
		Impact:         "file:// links only work on the author's machine.",
		Recommendation: "Replace the file:// URL or drive path with a path relative to the linking document.",
	},
	CategoryParseError: {
		Severity:       SeverityError,
		Impact:         "Links in this file could not be validated.",
		Recommendation: "Save the file as UTF-8.",
	},
	CategoryCaseMismatch: {
		Severity:       SeverityWarning,
		Impact:         "The link works on case-insensitive filesystems but breaks on Linux and GitHub.",
		Recommendation: "Match the exact case of the file name.",
	},
	CategoryEscapesRoot: {
		Severity:       SeverityWarning,
		Impact:         "The target lies outside the documentation root and cannot be verified.",
		Recommendation: "Keep links inside the repository or widen --root.",
	},
	CategoryEmptyLink: {
		Severity:       SeverityWarning,
		Impact:         "The link has no destination and goes nowhere.",
		Recommendation: "Add a destination or remove the link markup.",
	},
}

// GetCategoryInfo returns the info for a category.
// Unknown categories are reported as informational.
func GetCategoryInfo(c Category) CategoryInfo {
	if info, ok := categoryInfoMapping[c]; ok {
		return info
	}
	return CategoryInfo{
		Severity:       SeverityInfo,
		Impact:         "Unknown category.",
		Recommendation: "Review the finding manually.",
	}
}

// GetSeverity returns the severity for a category.
func GetSeverity(c Category) Severity {
	return GetCategoryInfo(c).Severity
}
