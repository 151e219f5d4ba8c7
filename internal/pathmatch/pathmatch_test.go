package pathmatch

import "testing"

func TestMatch(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"node_modules/**", "node_modules", true},
		{"node_modules/**", "node_modules/pkg/README.md", true},
		{"node_modules/**", "docs/node_modules/x.md", false},
		{"**/node_modules/**", "docs/node_modules/x.md", true},
		{"**", "anything/at/all.md", true},
		{"CHANGELOG.md", "CHANGELOG.md", true},
		{"CHANGELOG.md", "docs/CHANGELOG.md", true},
		{"*.draft.md", "docs/plan.draft.md", true},
		{"docs/*.md", "docs/a.md", true},
		{"docs/*.md", "docs/sub/a.md", false},
		{"docs/**/*.md", "docs/sub/deep/a.md", true},
		{"docs/**/*.md", "docs/a.md", true},
		{"./vendor/**", "vendor/x.md", true},
		{"[", "x", false},
		{"{README,index}.md", "guide/index.md", true},
		{"docs/{api,cli}/**", "docs/cli/flags.md", true},
		{"docs/{api,cli}/**", "docs/guide/flags.md", false},
	}

	for _, tc := range testCases {
		t.Run(tc.pattern+"|"+tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Match(tc.pattern, tc.name); got != tc.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tc.pattern, tc.name, got, tc.want)
			}
		})
	}
}

func TestAny(t *testing.T) {
	t.Parallel()

	patterns := []string{"vendor/**", "*.tmp.md"}
	if !Any(patterns, "a/b.tmp.md") {
		t.Error("expected *.tmp.md to match")
	}
	if Any(patterns, "docs/a.md") {
		t.Error("expected docs/a.md not to match")
	}
	if Any(nil, "a.md") {
		t.Error("nil patterns must not match")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if bad, ok := Validate([]string{"docs/**", "*.md"}); !ok {
		t.Errorf("Validate() rejected %q", bad)
	}
	if bad, ok := Validate([]string{"ok/**", "bad/[x"}); ok || bad != "bad/[x" {
		t.Errorf("Validate() = (%q, %v), want (bad/[x, false)", bad, ok)
	}
	if bad, ok := Validate([]string{"{a,b"}); ok || bad != "{a,b" {
		t.Errorf("Validate() = (%q, %v), want ({a,b, false)", bad, ok)
	}
}
