package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/navcheck/internal/history"
	"github.com/nao1215/navcheck/internal/model"
)

// TestNewCompareCmd tests the compare command creation.
func TestNewCompareCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCompareCmd()

	if cmd.Use != "compare [root]" {
		t.Errorf("expected use 'compare [root]', got %q", cmd.Use)
	}

	flags := []struct {
		name      string
		shorthand string
	}{
		{"list", "l"},
		{"list-roots", "L"},
		{"with-run-id", "i"},
		{"json", "j"},
		{"markdown", "m"},
	}
	for _, f := range flags {
		flag := cmd.Flags().Lookup(f.name)
		if flag == nil {
			t.Errorf("expected %s flag", f.name)
			continue
		}
		if flag.Shorthand != f.shorthand {
			t.Errorf("%s: expected shorthand %q, got %q", f.name, f.shorthand, flag.Shorthand)
		}
	}
}

func testComparison() *history.Comparison {
	previous := &model.Run{
		ID:        "prev",
		Root:      "/docs",
		StartedAt: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
		Documents: 3,
		Links:     10,
		Digest:    "aaa",
	}
	previous.AddFinding(model.NewFinding(model.CategoryBrokenFile, "README.md", 3, "old.md", `file "old.md" not found`))
	previous.AddFinding(model.NewFinding(model.CategoryCaseMismatch, "guide.md", 8, "Readme.md", "case differs"))

	current := &model.Run{
		ID:        "curr",
		Root:      "/docs",
		StartedAt: time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC),
		Documents: 4,
		Links:     12,
		Digest:    "bbb",
	}
	current.AddFinding(model.NewFinding(model.CategoryCaseMismatch, "guide.md", 9, "Readme.md", "case differs"))
	current.AddFinding(model.NewFinding(model.CategoryBrokenAnchor, "api.md", 2, "#usage", "anchor #usage not found in this document"))
	current.AddFinding(model.NewFinding(model.CategoryBrokenAnchor, "api.md", 5, "#install", "anchor #install not found in this document"))

	return history.Compare(previous, current)
}

func TestOutputComparisonText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := outputComparisonText(&buf, testComparison()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Run Comparison: /docs",
		"Status: WORSENED",
		"New Findings (2):",
		"[+] [broken-anchor] api.md:2",
		"Resolved Findings (1):",
		"[-] [broken-file] README.md:3",
		"Unchanged: 1 findings",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "No document changed") {
		t.Error("digests differ, content change note should be absent")
	}
}

func TestOutputComparisonJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := outputComparisonJSON(&buf, testComparison()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got history.Comparison
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Direction != history.DirectionWorsened {
		t.Errorf("expected direction %q, got %q", history.DirectionWorsened, got.Direction)
	}
	if len(got.NewFindings) != 2 || len(got.ResolvedFindings) != 1 {
		t.Errorf("expected 2 new and 1 resolved, got %d and %d", len(got.NewFindings), len(got.ResolvedFindings))
	}
}

func TestOutputComparisonMarkdown(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := outputComparisonMarkdown(&buf, testComparison()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Run Comparison: /docs",
		"## Summary",
		"| Errors |",
		"## New Findings (2)",
		"## Resolved Findings (1)",
		"~~**[broken-file]** `README.md:3`",
		"*1 findings unchanged*",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected markdown to contain %q, got:\n%s", want, out)
		}
	}
}

func TestFormatDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		delta int
		want  string
	}{
		{3, "+3"},
		{-2, "-2"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := formatDelta(tt.delta); got != tt.want {
			t.Errorf("formatDelta(%d) = %q, want %q", tt.delta, got, tt.want)
		}
	}
}

func TestFormatDirection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		direction string
		want      string
	}{
		{history.DirectionImproved, "IMPROVED"},
		{history.DirectionWorsened, "WORSENED"},
		{history.DirectionUnchanged, "UNCHANGED"},
		{"", "UNCHANGED"},
	}
	for _, tt := range tests {
		if got := formatDirection(tt.direction); !strings.HasPrefix(got, tt.want) {
			t.Errorf("formatDirection(%q) = %q, want prefix %q", tt.direction, got, tt.want)
		}
	}
}

// TestCompareIntegration records runs through the root command and
// compares them through the compare command.
func TestCompareIntegration(t *testing.T) {
	t.Parallel()

	t.Run("compares the latest two runs", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		root := writeDocs(t, map[string]string{
			"README.md": "# Home\n\nSee [old](old.md).\n",
		})

		if code, _, stderr := runCLI(t, "--root", root, "--record", "--db-dir", dbDir); code != exitFindings {
			t.Fatalf("first run: expected exit %d, got %d (stderr: %s)", exitFindings, code, stderr)
		}

		readme := filepath.Join(root, "README.md")
		if err := os.WriteFile(readme, []byte("# Home\n\nSee [new](new.md).\n"), 0600); err != nil {
			t.Fatalf("failed to update README: %v", err)
		}
		if code, _, stderr := runCLI(t, "--root", root, "--record", "--db-dir", dbDir); code != exitFindings {
			t.Fatalf("second run: expected exit %d, got %d (stderr: %s)", exitFindings, code, stderr)
		}

		code, stdout, stderr := runCLI(t, "compare", "--db-dir", dbDir, "--json", root)
		if code != exitOK {
			t.Fatalf("compare: expected exit %d, got %d (stderr: %s)", exitOK, code, stderr)
		}

		var got history.Comparison
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, stdout)
		}
		if len(got.NewFindings) != 1 || got.NewFindings[0].Target != "new.md" {
			t.Errorf("expected new.md as new finding, got %+v", got.NewFindings)
		}
		if len(got.ResolvedFindings) != 1 || got.ResolvedFindings[0].Target != "old.md" {
			t.Errorf("expected old.md as resolved finding, got %+v", got.ResolvedFindings)
		}
		if !got.ContentChanged {
			t.Error("expected content change")
		}
		if got.Direction != history.DirectionUnchanged {
			t.Errorf("expected direction %q, got %q", history.DirectionUnchanged, got.Direction)
		}
	})

	t.Run("lists runs and roots", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		root := writeDocs(t, map[string]string{"README.md": "# Home\n"})

		if code, _, stderr := runCLI(t, "--root", root, "--record", "--db-dir", dbDir); code != exitOK {
			t.Fatalf("expected exit %d, got %d (stderr: %s)", exitOK, code, stderr)
		}

		_, stdout, _ := runCLI(t, "compare", "--db-dir", dbDir, "--list", root)
		if !strings.Contains(stdout, "Run history for "+root) || !strings.Contains(stdout, "no findings") {
			t.Errorf("unexpected run list:\n%s", stdout)
		}

		_, stdout, _ = runCLI(t, "compare", "--db-dir", dbDir, "--list-roots")
		if !strings.Contains(stdout, root) {
			t.Errorf("expected %s in root list:\n%s", root, stdout)
		}
	})

	t.Run("needs two runs", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		root := writeDocs(t, map[string]string{"README.md": "# Home\n"})
		runCLI(t, "--root", root, "--record", "--db-dir", dbDir)

		code, _, stderr := runCLI(t, "compare", "--db-dir", dbDir, root)
		if code != exitFatal {
			t.Fatalf("expected exit %d, got %d", exitFatal, code)
		}
		if !strings.Contains(stderr, "at least two recorded runs") {
			t.Errorf("unexpected error: %q", stderr)
		}
	})

	t.Run("reports missing history", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()

		_, stdout, _ := runCLI(t, "compare", "--db-dir", dbDir, "--list-roots")
		if !strings.Contains(stdout, "No recorded runs") {
			t.Errorf("expected friendly message, got %q", stdout)
		}

		code, _, stderr := runCLI(t, "compare", "--db-dir", dbDir)
		if code != exitFatal {
			t.Fatalf("expected exit %d, got %d", exitFatal, code)
		}
		if !strings.Contains(stderr, "not found") {
			t.Errorf("expected database not found error, got %q", stderr)
		}
	})

	t.Run("rejects a run of another root", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		rootA := writeDocs(t, map[string]string{"README.md": "# A\n"})
		rootB := writeDocs(t, map[string]string{"README.md": "# B\n"})
		runCLI(t, "--root", rootA, "--record", "--db-dir", dbDir)
		runCLI(t, "--root", rootB, "--record", "--db-dir", dbDir)

		store, err := history.Open(dbDir, history.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open history: %v", err)
		}
		runs, err := store.ListRuns(context.Background(), rootA)
		store.Close()
		if err != nil || len(runs) != 1 {
			t.Fatalf("expected one run of %s, got %v (err %v)", rootA, runs, err)
		}

		code, _, stderr := runCLI(t, "compare", "--db-dir", dbDir, "--with-run-id", runs[0].ID, rootB)
		if code != exitFatal {
			t.Fatalf("expected exit %d, got %d", exitFatal, code)
		}
		if !strings.Contains(stderr, "belongs to") {
			t.Errorf("unexpected error: %q", stderr)
		}
	})

	t.Run("json and markdown conflict", func(t *testing.T) {
		t.Parallel()

		code, _, _ := runCLI(t, "compare", "--db-dir", t.TempDir(), "--json", "--markdown")
		if code != exitFatal {
			t.Errorf("expected exit %d, got %d", exitFatal, code)
		}
	})
}
