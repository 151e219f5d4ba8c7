package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/nao1215/navcheck/internal/markdown"
)

// TestBatchLoaderNew tests the BatchLoader constructor and options.
func TestBatchLoaderNew(t *testing.T) {
	t.Parallel()

	t.Run("uses defaults", func(t *testing.T) {
		t.Parallel()

		bl := NewBatchLoader(markdown.NewExtractor())
		if bl.concurrency < 1 {
			t.Errorf("expected positive default concurrency, got %d", bl.concurrency)
		}
		if bl.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("WithConcurrency sets concurrency", func(t *testing.T) {
		t.Parallel()

		bl := NewBatchLoader(markdown.NewExtractor(), WithConcurrency(5))
		if bl.concurrency != 5 {
			t.Errorf("expected concurrency 5, got %d", bl.concurrency)
		}
	})

	t.Run("WithConcurrency ignores invalid values", func(t *testing.T) {
		t.Parallel()

		def := NewBatchLoader(markdown.NewExtractor()).concurrency
		bl := NewBatchLoader(markdown.NewExtractor(), WithConcurrency(0), WithBatchLogger(nil))
		if bl.concurrency != def {
			t.Errorf("expected default concurrency %d, got %d", def, bl.concurrency)
		}
	})
}

// TestBatchLoaderLoad tests concurrent loading keeps discovery order.
func TestBatchLoaderLoad(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{}
	var paths []string
	for i := 0; i < 50; i++ {
		p := fmt.Sprintf("doc%02d.md", i)
		fsys[p] = &fstest.MapFile{Data: []byte(fmt.Sprintf("# Doc %d\n", i))}
		paths = append(paths, p)
	}
	fsys["bad.md"] = &fstest.MapFile{Data: []byte{0xff}}
	paths = append(paths, "bad.md", "missing.md")

	bl := NewBatchLoader(markdown.NewExtractor(), WithConcurrency(4))
	results, err := bl.Load(context.Background(), fsys, paths)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("got %d results, want %d", len(results), len(paths))
	}

	for i := 0; i < 50; i++ {
		r := results[i]
		if r.Err != nil || r.Document == nil {
			t.Fatalf("results[%d] = %+v", i, r)
		}
		if r.Path != paths[i] || r.Document.Path != paths[i] {
			t.Errorf("results[%d] path = %q, want %q", i, r.Path, paths[i])
		}
		if want := fmt.Sprintf("Doc %d", i); r.Document.Headings[0].Text != want {
			t.Errorf("results[%d] heading = %q, want %q", i, r.Document.Headings[0].Text, want)
		}
	}

	for _, r := range results[50:] {
		if !errors.Is(r.Err, markdown.ErrParse) {
			t.Errorf("%s: error = %v, want ErrParse", r.Path, r.Err)
		}
	}
}

// TestBatchLoaderCancelled tests that a cancelled context is reported.
func TestBatchLoaderCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fsys := fstest.MapFS{"a.md": {Data: []byte("# A\n")}}
	bl := NewBatchLoader(markdown.NewExtractor())
	if _, err := bl.Load(ctx, fsys, []string{"a.md"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}
