package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/navcheck/internal/model"
)

// Validate runs the default pipeline over root and returns the finished run.
//
// The returned error wraps ErrRootUnreadable when root cannot be listed, or
// is the context error when ctx ends first. Per-document problems are never
// returned as errors; they are findings in the run.
func Validate(ctx context.Context, root string, strict bool, pipelineOpts []Option, configOpts ...DefaultPipelineOption) (*model.Run, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRootUnreadable, root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRootUnreadable, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootUnreadable, root)
	}

	state := NewState(os.DirFS(abs), abs, strict)
	start := time.Now()

	p := DefaultPipeline(pipelineOpts, configOpts...)
	if err := p.Execute(ctx, state); err != nil {
		return nil, err
	}

	state.Run.StartedAt = start
	state.Run.Duration = time.Since(start)
	return state.Run, nil
}
