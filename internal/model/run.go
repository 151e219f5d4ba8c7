package model

import (
	"time"

	"github.com/google/uuid"
)

// Run is the result of one validation pass over a root directory.
type Run struct {
	ID              string        `json:"id"`
	Root            string        `json:"root"`
	StartedAt       time.Time     `json:"startedAt"`
	Duration        time.Duration `json:"duration"`
	Documents       int           `json:"documents"`
	Links           int           `json:"links"`
	ExternalSkipped int           `json:"externalSkipped"`
	Strict          bool          `json:"strict"`

	// Digest is a hex sha3-256 over the sorted document paths and contents.
	Digest string `json:"digest,omitempty"`

	Findings []Finding `json:"findings"`
}

// NewRun creates a Run with a fresh ID.
func NewRun(root string, strict bool) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Root:      root,
		StartedAt: time.Now(),
		Strict:    strict,
		Findings:  make([]Finding, 0),
	}
}

// AddFinding appends a finding.
func (r *Run) AddFinding(f Finding) {
	r.Findings = append(r.Findings, f)
}

// Sort orders findings for stable output.
func (r *Run) Sort() {
	SortFindings(r.Findings)
}

// TotalFindings returns the number of findings.
func (r *Run) TotalFindings() int {
	return len(r.Findings)
}

// HasFindings reports whether any finding exists.
func (r *Run) HasFindings() bool {
	return len(r.Findings) > 0
}

// CountBySeverity returns how many findings have the given severity.
func (r *Run) CountBySeverity(s Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}

// Errors returns the number of error findings.
func (r *Run) Errors() int { return r.CountBySeverity(SeverityError) }

// Warnings returns the number of warning findings.
func (r *Run) Warnings() int { return r.CountBySeverity(SeverityWarning) }

// CountByCategory returns finding counts keyed by category.
func (r *Run) CountByCategory() map[Category]int {
	counts := make(map[Category]int)
	for _, f := range r.Findings {
		counts[f.Category]++
	}
	return counts
}

// GetFindingsBySeverity returns findings filtered by severity.
func (r *Run) GetFindingsBySeverity(s Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == s {
			out = append(out, f)
		}
	}
	return out
}

// Failed reports whether the run should exit non-zero.
// Errors always fail; warnings fail only in strict mode.
func (r *Run) Failed() bool {
	for _, f := range r.Findings {
		if f.Severity >= SeverityError {
			return true
		}
		if r.Strict && f.Severity == SeverityWarning {
			return true
		}
	}
	return false
}
