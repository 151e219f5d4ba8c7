package graph

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/nao1215/navcheck/internal/markdown"
	"github.com/nao1215/navcheck/internal/model"
)

// newCorpus parses every .md file in files and returns a checker over them.
func newCorpus(t *testing.T, files map[string]string, opts ...Option) (*Checker, map[string]*model.Document) {
	t.Helper()

	fsys := fstest.MapFS{}
	docs := make(map[string]*model.Document)
	var list []*model.Document
	ex := markdown.NewExtractor()
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
		if strings.HasSuffix(name, ".md") {
			doc, err := ex.Extract(name, []byte(content))
			if err != nil {
				t.Fatalf("Extract(%s) error = %v", name, err)
			}
			docs[name] = doc
			list = append(list, doc)
		}
	}
	return NewChecker(fsys, NewIndex(list), opts...), docs
}

func categories(findings []model.Finding) []model.Category {
	out := make([]model.Category, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Category)
	}
	return out
}

func TestCheckValidCorpus(t *testing.T) {
	t.Parallel()

	c, docs := newCorpus(t, map[string]string{
		"a.md": "[see B](b.md#section-one)\n",
		"b.md": "# B\n\n## Section One\n",
	})

	if got := c.Check(docs["a.md"]); len(got) != 0 {
		t.Errorf("Check() = %+v, want no findings", got)
	}
}

func TestCheckRenamedHeading(t *testing.T) {
	t.Parallel()

	c, docs := newCorpus(t, map[string]string{
		"a.md": "[see B](b.md#section-one)\n",
		"b.md": "# B\n\n## Section Two\n",
	})

	got := c.Check(docs["a.md"])
	if len(got) != 1 || got[0].Category != model.CategoryBrokenAnchor {
		t.Fatalf("Check() = %+v, want one broken-anchor", got)
	}
	if got[0].File != "a.md" || got[0].Line != 1 {
		t.Errorf("finding location = %s, want a.md:1", got[0].Location())
	}
	if got[0].Suggestion != "#section-two" {
		t.Errorf("Suggestion = %q, want #section-two", got[0].Suggestion)
	}
}

func TestCheckMissingFile(t *testing.T) {
	t.Parallel()

	c, docs := newCorpus(t, map[string]string{
		"a.md":             "[missing](zzz-missing.md)\n[typo](guide/instal.md)\n",
		"guide/install.md": "# Install\n",
	})

	got := c.Check(docs["a.md"])
	want := []model.Category{model.CategoryBrokenFile, model.CategoryBrokenFile}
	if len(got) != len(want) {
		t.Fatalf("Check() = %+v, want %v", got, want)
	}
	if got[0].Suggestion != "" {
		t.Errorf("unexpected suggestion for zzz-missing.md: %q", got[0].Suggestion)
	}
	if got[1].Suggestion != "guide/install.md" {
		t.Errorf("Suggestion = %q, want guide/install.md", got[1].Suggestion)
	}
}

func TestCheckRules(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"docs/index.md":      "# Index\n\n## Usage\n\n<a id=\"Custom\"></a>\n",
		"docs/sub/README.md": "# Sub\n\n## Details\n",
		"docs/Guide.md":      "# Guide\n",
		"src/main.go":        "package main\n",
		"CHANGELOG.md":       "# Changes\n",
	}

	testCases := []struct {
		name string
		link string
		want []model.Category
	}{
		{"existing file", "[x](index.md)", nil},
		{"existing file with anchor", "[x](index.md#usage)", nil},
		{"explicit html anchor", "[x](index.md#Custom)", nil},
		{"anchor case insensitive", "[x](index.md#USAGE)", nil},
		{"top anchor", "[x](index.md#top)", nil},
		{"self anchor", "[x](#local)", nil},
		{"broken self anchor", "[x](#nowhere)", []model.Category{model.CategoryBrokenAnchor}},
		{"bare hash", "[x](#)", nil},
		{"directory", "[x](sub/)", nil},
		{"directory readme anchor", "[x](sub/#details)", nil},
		{"directory readme bad anchor", "[x](sub#nope)", []model.Category{model.CategoryBrokenAnchor}},
		{"root relative", "[x](/src/main.go)", nil},
		{"source line anchor", "[x](../src/main.go#L10)", nil},
		{"plain view", "[x](index.md?plain=1#L3)", nil},
		{"file url", "[x](file:///Users/me/docs/index.md)", []model.Category{model.CategoryNonPortableFileURL}},
		{"file url missing", "[x](file:///nope.md)", []model.Category{model.CategoryNonPortableFileURL}},
		{"windows drive path", "[x](C:/Users/me/docs/index.md)", []model.Category{model.CategoryNonPortableFileURL}},
		{"external", "[x](https://example.com/missing.md)", nil},
		{"empty", "[x]()", []model.Category{model.CategoryEmptyLink}},
		{"escapes root", "[x](../../outside.md)", []model.Category{model.CategoryEscapesRoot}},
		{"case mismatch", "[x](guide.md)", []model.Category{model.CategoryCaseMismatch}},
		{"missing", "[x](nope.md)", []model.Category{model.CategoryBrokenFile}},
		{"missing under file", "[x](index.md/nope.md)", []model.Category{model.CategoryBrokenFile}},
		{"ignored target", "[x](../CHANGELOG.md#whatever)", nil},
		{"readme file anchor", "[x](sub/README.md#details)", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			corpus := make(map[string]string, len(files)+1)
			for k, v := range files {
				corpus[k] = v
			}
			corpus["docs/page.md"] = "# Page\n\n## Local\n\n" + tc.link + "\n"

			c, docs := newCorpus(t, corpus, WithIgnoreTargets([]string{"CHANGELOG.md"}))
			got := categories(c.Check(docs["docs/page.md"]))
			if len(got) != len(tc.want) {
				t.Fatalf("Check() categories = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("finding %d = %s, want %s", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestCheckExcludedTargetAnchorNotChecked(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"a.md":          {Data: []byte("[x](vendor/lib.md#anything)\n")},
		"vendor/lib.md": {Data: []byte("# Lib\n")},
	}
	doc, err := markdown.NewExtractor().Extract("a.md", fsys["a.md"].Data)
	if err != nil {
		t.Fatal(err)
	}

	c := NewChecker(fsys, NewIndex([]*model.Document{doc}))
	if got := c.Check(doc); len(got) != 0 {
		t.Errorf("Check() = %+v, want no findings for unindexed target", got)
	}
}

func TestCheckCustomExtensions(t *testing.T) {
	t.Parallel()

	c, docs := newCorpus(t, map[string]string{
		"a.md":      "[x](notes.txt#missing)\n",
		"notes.txt": "plain\n",
	}, WithExtensions([]string{".md", ".txt"}))

	// notes.txt counts as markdown but is not indexed, so the anchor is skipped.
	if got := c.Check(docs["a.md"]); len(got) != 0 {
		t.Errorf("Check() = %+v, want none", got)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		source, target string
		want           string
		ok             bool
	}{
		{"a.md", "b.md", "b.md", true},
		{"docs/a.md", "../b.md", "b.md", true},
		{"docs/a.md", "./sub/c.md", "docs/sub/c.md", true},
		{"docs/a.md", "/b.md", "b.md", true},
		{"docs/a.md", "//b.md", "b.md", true},
		{"a.md", "../b.md", "", false},
		{"docs/a.md", "../../b.md", "", false},
		{"docs/a.md", "..", ".", true},
		{"a.md", "/", ".", true},
	}

	for _, tc := range testCases {
		got, ok := resolve(tc.source, tc.target)
		if got != tc.want || ok != tc.ok {
			t.Errorf("resolve(%q, %q) = (%q, %v), want (%q, %v)", tc.source, tc.target, got, ok, tc.want, tc.ok)
		}
	}
}
