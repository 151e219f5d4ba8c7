package pipeline

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/navcheck/internal/graph"
	"github.com/nao1215/navcheck/internal/markdown"
	"github.com/nao1215/navcheck/internal/model"
	"github.com/nao1215/navcheck/internal/pathmatch"
)

// DefaultExtensions are the file extensions treated as markdown.
var DefaultExtensions = []string{".md", ".markdown"}

// DiscoverStep walks the root and collects markdown documents.
// Hidden directories such as .git are never entered.
type DiscoverStep struct {
	extensions map[string]struct{}
	exclude    []string
	logger     *slog.Logger
}

// DiscoverStepOption configures a DiscoverStep.
type DiscoverStepOption func(*DiscoverStep)

// WithDiscoverExtensions sets the extensions of files to collect.
func WithDiscoverExtensions(exts []string) DiscoverStepOption {
	return func(s *DiscoverStep) {
		if len(exts) == 0 {
			return
		}
		s.extensions = make(map[string]struct{}, len(exts))
		for _, e := range exts {
			s.extensions[strings.ToLower(e)] = struct{}{}
		}
	}
}

// WithDiscoverExclude sets glob patterns of paths to skip.
// A matching directory is not descended into.
func WithDiscoverExclude(patterns []string) DiscoverStepOption {
	return func(s *DiscoverStep) {
		s.exclude = append(s.exclude, patterns...)
	}
}

// WithDiscoverLogger sets a custom logger for the discover step.
func WithDiscoverLogger(logger *slog.Logger) DiscoverStepOption {
	return func(s *DiscoverStep) {
		s.logger = logger
	}
}

// NewDiscoverStep creates a new discover step.
func NewDiscoverStep(opts ...DiscoverStepOption) *DiscoverStep {
	s := &DiscoverStep{logger: slog.Default()}
	WithDiscoverExtensions(DefaultExtensions)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *DiscoverStep) Name() string {
	return "discover"
}

// Do executes the discover step.
func (s *DiscoverStep) Do(_ context.Context, state *State) error {
	paths := make([]string, 0)

	err := fs.WalkDir(state.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." {
				return fmt.Errorf("%w: %w", ErrRootUnreadable, err)
			}
			s.logger.Warn("skipping unreadable path", "path", p, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if p == "." {
			return nil
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || pathmatch.Any(s.exclude, p) {
				s.logger.Debug("skipping directory", "path", p)
				return fs.SkipDir
			}
			return nil
		}

		if _, ok := s.extensions[strings.ToLower(path.Ext(p))]; !ok {
			return nil
		}
		if pathmatch.Any(s.exclude, p) {
			s.logger.Debug("excluded document", "path", p)
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRootUnreadable) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrRootUnreadable, err)
	}

	state.Paths = paths
	state.Run.Documents = len(paths)
	s.logger.Debug("discovered documents", "count", len(paths))
	return nil
}

// ExtractStep reads and parses every discovered document.
// Documents that fail become parse-error findings.
type ExtractStep struct {
	loader *BatchLoader
	logger *slog.Logger
}

// NewExtractStep creates a new extract step.
func NewExtractStep(loader *BatchLoader, logger *slog.Logger) *ExtractStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStep{loader: loader, logger: logger}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do executes the extract step.
func (s *ExtractStep) Do(ctx context.Context, state *State) error {
	results, err := s.loader.Load(ctx, state.FS, state.Paths)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	docs := make([]*model.Document, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			msg := strings.TrimPrefix(r.Err.Error(), r.Path+": ")
			state.Run.AddFinding(model.NewFinding(model.CategoryParseError, r.Path, 0, "", msg))
			continue
		}
		docs = append(docs, r.Document)
	}
	state.Documents = docs
	return nil
}

// ResolveStep builds the anchor index and the corpus digest.
type ResolveStep struct{}

// NewResolveStep creates a new resolve step.
func NewResolveStep() *ResolveStep {
	return &ResolveStep{}
}

// Name returns the step name.
func (s *ResolveStep) Name() string {
	return "resolve"
}

// Do executes the resolve step.
func (s *ResolveStep) Do(_ context.Context, state *State) error {
	state.Index = graph.NewIndex(state.Documents)

	h := sha3.New256()
	for _, d := range state.Documents {
		h.Write([]byte(d.Path))
		h.Write([]byte{0})
		h.Write(d.Raw)
		h.Write([]byte{0})
	}
	state.Run.Digest = hex.EncodeToString(h.Sum(nil))
	return nil
}

// CheckStep validates every link and records findings.
type CheckStep struct {
	opts   []graph.Option
	logger *slog.Logger
}

// NewCheckStep creates a new check step. opts are passed to graph.NewChecker.
func NewCheckStep(logger *slog.Logger, opts ...graph.Option) *CheckStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckStep{opts: opts, logger: logger}
}

// Name returns the step name.
func (s *CheckStep) Name() string {
	return "check"
}

// Do executes the check step.
func (s *CheckStep) Do(_ context.Context, state *State) error {
	if state.Index == nil {
		state.Index = graph.NewIndex(state.Documents)
	}
	checker := graph.NewChecker(state.FS, state.Index, s.opts...)

	for _, doc := range state.Documents {
		for _, l := range doc.Links {
			state.Run.Links++
			if l.IsExternal() {
				state.Run.ExternalSkipped++
			}
		}
		for _, f := range checker.Check(doc) {
			state.Run.AddFinding(f)
		}
	}

	state.Run.Sort()
	s.logger.Debug("links checked",
		"documents", state.Index.Len(),
		"links", state.Run.Links,
		"external", state.Run.ExternalSkipped,
		"findings", state.Run.TotalFindings(),
	)
	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// Extensions are the file extensions treated as markdown.
	Extensions []string

	// Exclude are glob patterns of documents and directories to skip.
	Exclude []string

	// IgnoreTargets are glob patterns of link targets that are never reported.
	IgnoreTargets []string

	// Workers is the number of documents parsed concurrently.
	Workers int
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineExtensions sets the markdown extensions.
func WithPipelineExtensions(exts []string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		if len(exts) > 0 {
			c.Extensions = exts
		}
	}
}

// WithPipelineExclude sets the exclude patterns.
func WithPipelineExclude(patterns []string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Exclude = patterns
	}
}

// WithPipelineIgnoreTargets sets the ignored target patterns.
func WithPipelineIgnoreTargets(patterns []string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.IgnoreTargets = patterns
	}
}

// WithPipelineWorkers sets the number of parse workers.
func WithPipelineWorkers(n int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Workers = n
	}
}

// DefaultPipeline creates a pipeline with discover, extract, resolve and
// check steps configured.
//
// The first parameter accepts pipeline options (WithLogger, etc).
// The variadic parameter accepts pipeline config options (WithPipelineExclude, etc).
func DefaultPipeline(pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		Extensions: DefaultExtensions,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	loader := NewBatchLoader(markdown.NewExtractor(),
		WithConcurrency(cfg.Workers),
		WithBatchLogger(p.logger),
	)

	p.AddSteps(
		NewDiscoverStep(
			WithDiscoverExtensions(cfg.Extensions),
			WithDiscoverExclude(cfg.Exclude),
			WithDiscoverLogger(p.logger),
		),
		NewExtractStep(loader, p.logger),
		NewResolveStep(),
		NewCheckStep(p.logger,
			graph.WithExtensions(cfg.Extensions),
			graph.WithIgnoreTargets(cfg.IgnoreTargets),
		),
	)

	return p
}
