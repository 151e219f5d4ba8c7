package pipeline

import (
	"io/fs"

	"github.com/nao1215/navcheck/internal/graph"
	"github.com/nao1215/navcheck/internal/model"
)

// State is the working set shared by the steps of one run.
// Everything in it is rebuilt from scratch on every run.
type State struct {
	// FS is rooted at the validation root.
	FS fs.FS

	// Paths are the discovered documents, slash-separated and sorted.
	Paths []string

	// Documents are the parsed documents. Files that failed to parse are absent.
	Documents []*model.Document

	// Index is built by the resolve step.
	Index *graph.Index

	// Run collects counters and findings.
	Run *model.Run

	// PerformedSteps lists the steps that ran, in order.
	PerformedSteps []string

	// Cancelled is set when the context ended before all steps ran.
	Cancelled bool

	// Err is the last step error, if any.
	Err error
}

// NewState creates the state for a run over fsys. root is only recorded
// in the Run for display and history.
func NewState(fsys fs.FS, root string, strict bool) *State {
	return &State{
		FS:  fsys,
		Run: model.NewRun(root, strict),
	}
}
