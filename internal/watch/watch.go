// Package watch re-runs validation when files under the root change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nao1215/navcheck/internal/pathmatch"
)

// DefaultDebounce is used when no positive debounce is configured.
const DefaultDebounce = 300 * time.Millisecond

// RunFunc performs one validation pass. An error is logged and watching
// continues; only context cancellation ends Watch.
type RunFunc func(ctx context.Context) error

// Watcher runs a RunFunc once, then again after every burst of changes.
// Runs never overlap: changes made during a run schedule the next one.
type Watcher struct {
	root     string
	run      RunFunc
	debounce time.Duration
	exclude  []string
	logger   *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period after the last change before a re-run.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithExclude ignores changes to paths matching the pathmatch patterns.
func WithExclude(patterns []string) Option {
	return func(w *Watcher) {
		w.exclude = append(w.exclude, patterns...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a Watcher for root.
func New(root string, run RunFunc, opts ...Option) *Watcher {
	w := &Watcher{
		root:     root,
		run:      run,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch runs once immediately and then after each debounced change until
// ctx is done. It returns nil on cancellation.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, w.root); err != nil {
		return err
	}

	debouncer := newDebouncer(w.debounce)
	defer debouncer.stop()

	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				// New directories need their own watch; errors mean it is a file.
				_ = w.addTree(fsw, event.Name) //nolint:errcheck // best effort
			}
			w.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			if debouncer.trigger() {
				w.logger.Debug("change folded into pending run", "path", event.Name)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		case <-debouncer.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := w.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		w.logger.Error("validation run failed", "error", err)
	}
}

// addTree watches dir and every directory below it that is not skipped.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			if path == dir {
				return fmt.Errorf("%s: %w", path, errNotDir)
			}
			return nil
		}
		if path != w.root && w.skip(path) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

var errNotDir = errors.New("not a directory")

// relevant drops attribute-only changes and changes below skipped paths.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	return !w.skip(event.Name)
}

// skip reports whether path is hidden or excluded, relative to the root.
func (w *Watcher) skip(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return pathmatch.Any(w.exclude, rel)
}
