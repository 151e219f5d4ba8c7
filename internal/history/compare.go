package history

import (
	"time"

	"github.com/nao1215/navcheck/internal/model"
)

// Directions describing how the failing findings changed between runs.
const (
	DirectionImproved  = "improved"
	DirectionWorsened  = "worsened"
	DirectionUnchanged = "unchanged"
)

// RunSummary contains the counts of one side of a comparison.
type RunSummary struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"startedAt"`
	Documents int       `json:"documents"`
	Links     int       `json:"links"`
	Errors    int       `json:"errors"`
	Warnings  int       `json:"warnings"`
	Total     int       `json:"total"`
	Digest    string    `json:"digest,omitempty"`
}

// Comparison holds the result of comparing two runs over the same root.
type Comparison struct {
	Root     string     `json:"root"`
	Previous RunSummary `json:"previous"`
	Current  RunSummary `json:"current"`

	// NewFindings are in the current run but not in the previous one.
	NewFindings []model.Finding `json:"newFindings"`

	// ResolvedFindings were in the previous run but are gone now.
	ResolvedFindings []model.Finding `json:"resolvedFindings"`

	UnchangedCount int `json:"unchangedCount"`

	// Direction is DirectionImproved, DirectionWorsened or DirectionUnchanged.
	Direction string `json:"direction"`

	// ContentChanged is false when both runs saw byte-identical documents.
	ContentChanged bool `json:"contentChanged"`
}

// Compare diffs two runs. Findings are matched by model.Finding.Key, so a
// broken link that only moved to another line is reported as unchanged.
func Compare(previous, current *model.Run) *Comparison {
	result := &Comparison{
		Root:             current.Root,
		Previous:         summarize(previous),
		Current:          summarize(current),
		NewFindings:      make([]model.Finding, 0),
		ResolvedFindings: make([]model.Finding, 0),
		ContentChanged:   previous.Digest == "" || previous.Digest != current.Digest,
	}

	previousKeys := keyCounts(previous.Findings)
	currentKeys := keyCounts(current.Findings)

	// Duplicates of the same key are matched one to one.
	seen := make(map[string]int)
	for _, f := range current.Findings {
		k := f.Key()
		seen[k]++
		if seen[k] > previousKeys[k] {
			result.NewFindings = append(result.NewFindings, f)
		} else {
			result.UnchangedCount++
		}
	}

	seen = make(map[string]int)
	for _, f := range previous.Findings {
		k := f.Key()
		seen[k]++
		if seen[k] > currentKeys[k] {
			result.ResolvedFindings = append(result.ResolvedFindings, f)
		}
	}

	model.SortFindings(result.NewFindings)
	model.SortFindings(result.ResolvedFindings)
	result.Direction = direction(result.Previous, result.Current)

	return result
}

func summarize(run *model.Run) RunSummary {
	return RunSummary{
		ID:        run.ID,
		StartedAt: run.StartedAt,
		Documents: run.Documents,
		Links:     run.Links,
		Errors:    run.Errors(),
		Warnings:  run.Warnings(),
		Total:     run.TotalFindings(),
		Digest:    run.Digest,
	}
}

func keyCounts(findings []model.Finding) map[string]int {
	counts := make(map[string]int, len(findings))
	for _, f := range findings {
		counts[f.Key()]++
	}
	return counts
}

// direction weighs errors above warnings, and warnings above info findings.
func direction(previous, current RunSummary) string {
	score := func(s RunSummary) int {
		info := s.Total - s.Errors - s.Warnings
		return s.Errors*100 + s.Warnings*10 + info
	}

	switch p, c := score(previous), score(current); {
	case c < p:
		return DirectionImproved
	case c > p:
		return DirectionWorsened
	default:
		return DirectionUnchanged
	}
}
