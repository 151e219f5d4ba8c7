package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/nao1215/navcheck/internal/model"
)

func TestValidateReportFile(t *testing.T) {
	t.Parallel()

	t.Run("writes report to file with owner-only permissions", func(t *testing.T) {
		t.Parallel()

		root := writeDocs(t, map[string]string{
			"README.md": "# Home\n\n[gone](gone.md)\n",
		})
		outPath := filepath.Join(t.TempDir(), "reports", "links.json")

		code, stdout, stderr := runCLI(t, "--root", root, "--format", "json", "--output", outPath)
		if code != exitFindings {
			t.Fatalf("expected exit %d, got %d (stderr: %s)", exitFindings, code, stderr)
		}
		if stdout != "" {
			t.Errorf("expected empty stdout when writing to a file, got %q", stdout)
		}

		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		var run model.Run
		if err := json.Unmarshal(data, &run); err != nil {
			t.Fatalf("invalid JSON report: %v", err)
		}
		if len(run.Findings) != 1 || run.Findings[0].Category != model.CategoryBrokenFile {
			t.Errorf("expected one broken-file finding, got %+v", run.Findings)
		}

		if runtime.GOOS != "windows" {
			info, err := os.Stat(outPath)
			if err != nil {
				t.Fatalf("failed to stat report: %v", err)
			}
			if perm := info.Mode().Perm(); perm != 0600 {
				t.Errorf("expected permissions 0600, got %o", perm)
			}
		}
	})

	t.Run("markdown report is raw when not a terminal", func(t *testing.T) {
		t.Parallel()

		root := writeDocs(t, map[string]string{"README.md": "# Home\n"})
		code, stdout, stderr := runCLI(t, "--root", root, "--format", "markdown")
		if code != exitOK {
			t.Fatalf("expected exit %d, got %d (stderr: %s)", exitOK, code, stderr)
		}
		if !strings.Contains(stdout, "# navcheck Report") {
			t.Errorf("expected markdown heading, got %q", stdout)
		}
	})

	t.Run("watch cannot write to a file", func(t *testing.T) {
		t.Parallel()

		root := writeDocs(t, map[string]string{"README.md": "# Home\n"})
		code, _, stderr := runCLI(t, "--root", root, "--watch", "--output", filepath.Join(t.TempDir(), "r.txt"))
		if code != exitFatal {
			t.Fatalf("expected exit %d, got %d", exitFatal, code)
		}
		if !strings.Contains(stderr, "configuration error") {
			t.Errorf("expected configuration error, got %q", stderr)
		}
	})
}

func TestValidateConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("root config file excludes documents", func(t *testing.T) {
		t.Parallel()

		root := writeDocs(t, map[string]string{
			"README.md":     "# Home\n",
			"drafts/wip.md": "# WIP\n\n[todo](todo.md)\n",
			".navcheck":     "exclude:\n  - drafts/**\n",
		})

		code, stdout, stderr := runCLI(t, "--root", root)
		if code != exitOK {
			t.Fatalf("expected exit %d, got %d (stdout: %s, stderr: %s)", exitOK, code, stdout, stderr)
		}
	})

	t.Run("flags override the config file", func(t *testing.T) {
		t.Parallel()

		root := writeDocs(t, map[string]string{
			"README.md": "# Home\n\n[guide](Guide.md)\n",
			"guide.md":  "# Guide\n",
			".navcheck": "strict: true\n",
		})

		if code, _, _ := runCLI(t, "--root", root); code != exitFindings {
			t.Errorf("expected strict from config to fail the run, got exit %d", code)
		}
		if code, _, _ := runCLI(t, "--root", root, "--strict=false"); code != exitOK {
			t.Errorf("expected --strict=false to win, got exit %d", code)
		}
	})

	t.Run("explicit config path must exist", func(t *testing.T) {
		t.Parallel()

		root := writeDocs(t, map[string]string{"README.md": "# Home\n"})
		code, _, stderr := runCLI(t, "--root", root, "--config", filepath.Join(root, "missing.yaml"))
		if code != exitFatal {
			t.Fatalf("expected exit %d, got %d", exitFatal, code)
		}
		if !strings.Contains(stderr, "missing.yaml") {
			t.Errorf("expected path in error, got %q", stderr)
		}
	})

	t.Run("unknown config keys are rejected", func(t *testing.T) {
		t.Parallel()

		root := writeDocs(t, map[string]string{
			"README.md": "# Home\n",
			".navcheck": "stict: true\n",
		})
		if code, _, _ := runCLI(t, "--root", root); code != exitFatal {
			t.Errorf("expected exit %d, got %d", exitFatal, code)
		}
	})
}
