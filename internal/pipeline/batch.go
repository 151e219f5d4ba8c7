package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/navcheck/internal/markdown"
	"github.com/nao1215/navcheck/internal/model"
)

// LoadResult is the outcome of reading and parsing one document.
// Exactly one of Document and Err is set.
type LoadResult struct {
	Path     string
	Document *model.Document
	Err      error
}

// BatchLoader reads and parses documents concurrently.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it is simpler and errgroup handles the concurrency correctly.
// Each document gets its own goroutine, but only 'concurrency' goroutines
// run at the same time. Results are written to their discovery index, so
// no lock is needed and ordering stays deterministic.
type BatchLoader struct {
	extractor   *markdown.Extractor
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchLoader.
type BatchOption func(*BatchLoader)

// WithBatchLogger sets a custom logger for batch loading.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchLoader) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of documents parsed at once.
// Default is runtime.NumCPU().
func WithConcurrency(n int) BatchOption {
	return func(b *BatchLoader) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchLoader creates a new BatchLoader.
func NewBatchLoader(extractor *markdown.Extractor, opts ...BatchOption) *BatchLoader {
	bl := &BatchLoader{
		extractor:   extractor,
		concurrency: runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(bl)
	}

	if bl.logger == nil {
		bl.logger = slog.Default()
	}

	return bl
}

// Load reads and parses every path from fsys.
//
// A document that cannot be read or parsed is returned with Err set and
// does not stop the others. The returned error is non-nil only when ctx
// is cancelled.
func (bl *BatchLoader) Load(ctx context.Context, fsys fs.FS, paths []string) ([]LoadResult, error) {
	bl.logger.Debug("loading documents",
		"total", len(paths),
		"concurrency", bl.concurrency,
	)
	startTime := time.Now()

	results := make([]LoadResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bl.concurrency)

	for i, p := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			results[i] = bl.loadOne(fsys, p)
			if results[i].Err != nil {
				bl.logger.Debug("document failed to load",
					"path", p,
					"error", results[i].Err,
				)
			}
			return nil
		})
	}

	err := g.Wait()

	bl.logger.Debug("documents loaded",
		"total", len(paths),
		"elapsed", time.Since(startTime),
	)

	return results, err
}

func (bl *BatchLoader) loadOne(fsys fs.FS, p string) LoadResult {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return LoadResult{Path: p, Err: fmt.Errorf("%w: cannot read %s: %w", markdown.ErrParse, p, err)}
	}
	doc, err := bl.extractor.Extract(p, data)
	if err != nil {
		return LoadResult{Path: p, Err: err}
	}
	return LoadResult{Path: p, Document: doc}
}
