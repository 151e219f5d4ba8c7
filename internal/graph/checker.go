package graph

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/nao1215/navcheck/internal/model"
	"github.com/nao1215/navcheck/internal/pathmatch"
)

// readmeNames are the files GitHub renders for a directory link, in order of preference.
var readmeNames = []string{"README.md", "README.markdown", "readme.md", "Readme.md", "index.md"}

// Checker validates the links of indexed documents.
//
// A Checker caches directory listings and is not safe for concurrent use.
type Checker struct {
	fsys       fs.FS
	index      *Index
	ignore     []string
	extensions map[string]struct{}
	dirs       map[string][]fs.DirEntry
}

// Option configures a Checker.
type Option func(*Checker)

// WithIgnoreTargets skips links whose resolved target matches any of the
// given pathmatch patterns.
func WithIgnoreTargets(patterns []string) Option {
	return func(c *Checker) {
		c.ignore = append(c.ignore, patterns...)
	}
}

// WithExtensions sets which file extensions are treated as markdown when
// deciding whether an anchor can be checked. Defaults to .md and .markdown.
func WithExtensions(exts []string) Option {
	return func(c *Checker) {
		if len(exts) == 0 {
			return
		}
		c.extensions = make(map[string]struct{}, len(exts))
		for _, e := range exts {
			c.extensions[strings.ToLower(e)] = struct{}{}
		}
	}
}

// NewChecker creates a Checker over fsys, which must be rooted at the
// validation root.
func NewChecker(fsys fs.FS, index *Index, opts ...Option) *Checker {
	c := &Checker{
		fsys:       fsys,
		index:      index,
		extensions: map[string]struct{}{".md": {}, ".markdown": {}},
		dirs:       make(map[string][]fs.DirEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check returns the findings for every link in doc, in link order.
// External links produce no findings.
func (c *Checker) Check(doc *model.Document) []model.Finding {
	var findings []model.Finding
	for _, link := range doc.Links {
		if f, ok := c.checkLink(doc, link); ok {
			findings = append(findings, f)
		}
	}
	return findings
}

// checkLink applies the rules in order and stops at the first failure,
// so a link produces at most one finding.
func (c *Checker) checkLink(doc *model.Document, link model.Link) (model.Finding, bool) {
	if link.IsFileURL() {
		return model.NewFinding(model.CategoryNonPortableFileURL, doc.Path, link.Line, link.Destination,
			fmt.Sprintf("%q is a local filesystem path that only resolves on one machine", link.Destination)), true
	}
	if link.IsExternal() {
		return model.Finding{}, false
	}
	if strings.TrimSpace(link.Destination) == "" {
		return model.NewFinding(model.CategoryEmptyLink, doc.Path, link.Line, "",
			fmt.Sprintf("link %q has an empty destination", link.Text)), true
	}

	// Same-document anchor.
	if link.TargetPath == "" {
		if !link.HasAnchor {
			return model.Finding{}, false
		}
		return c.checkAnchor(doc.Path, link, doc.Path)
	}

	target, ok := resolve(doc.Path, link.TargetPath)
	if !ok {
		return model.NewFinding(model.CategoryEscapesRoot, doc.Path, link.Line, link.Destination,
			fmt.Sprintf("%q points outside the documentation root", link.Destination)), true
	}
	if c.ignored(target) {
		return model.Finding{}, false
	}

	actual, isDir, status := c.lookup(target)
	switch status {
	case lookupMissing:
		f := model.NewFinding(model.CategoryBrokenFile, doc.Path, link.Line, link.Destination,
			fmt.Sprintf("file %q not found", link.TargetPath))
		f.Suggestion = c.suggestPath(target)
		return f, true
	case lookupCaseMismatch:
		f := model.NewFinding(model.CategoryCaseMismatch, doc.Path, link.Line, link.Destination,
			fmt.Sprintf("%q only matches %q when case is ignored", link.TargetPath, actual))
		f.Suggestion = actual
		return f, true
	}

	if !link.HasAnchor {
		return model.Finding{}, false
	}

	anchorDoc := actual
	if isDir {
		readme, found := c.readme(actual)
		if !found {
			return model.Finding{}, false
		}
		anchorDoc = readme
	}
	if !c.isMarkdown(anchorDoc) || strings.Contains(link.Destination, "?plain=1") {
		// Line anchors such as #L10 on source files are not checked.
		return model.Finding{}, false
	}
	return c.checkAnchor(doc.Path, link, anchorDoc)
}

func (c *Checker) checkAnchor(source string, link model.Link, target string) (model.Finding, bool) {
	anchors, ok := c.index.Anchors(target)
	if !ok {
		// Excluded from discovery; nothing to compare against.
		return model.Finding{}, false
	}
	if hasAnchor(anchors, link.Anchor) {
		return model.Finding{}, false
	}

	where := "this document"
	if target != source {
		where = target
	}
	f := model.NewFinding(model.CategoryBrokenAnchor, source, link.Line, link.Destination,
		fmt.Sprintf("anchor #%s not found in %s", link.Anchor, where))
	if s, ok := closest(strings.ToLower(link.Anchor), sortedKeys(anchors)); ok {
		f.Suggestion = "#" + s
	}
	return f, true
}

// hasAnchor matches exactly first, then lowercased, the way GitHub scrolls
// to user content anchors. "top" always scrolls to the start of the page.
func hasAnchor(anchors map[string]struct{}, anchor string) bool {
	if _, ok := anchors[anchor]; ok {
		return true
	}
	if _, ok := anchors[strings.ToLower(anchor)]; ok {
		return true
	}
	return strings.EqualFold(anchor, "top")
}

// resolve returns the root-relative path of target as seen from source.
// A leading slash is relative to the root. ok is false when the result
// leaves the root.
func resolve(source, target string) (string, bool) {
	var p string
	if strings.HasPrefix(target, "/") {
		p = path.Clean(strings.TrimLeft(target, "/"))
	} else {
		p = path.Join(path.Dir(source), target)
	}
	if p == "" {
		p = "."
	}
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", false
	}
	return p, true
}

func (c *Checker) ignored(target string) bool {
	return pathmatch.Any(c.ignore, target)
}

func (c *Checker) isMarkdown(p string) bool {
	_, ok := c.extensions[strings.ToLower(path.Ext(p))]
	return ok
}

type lookupStatus int

const (
	lookupFound lookupStatus = iota
	lookupCaseMismatch
	lookupMissing
)

// lookup resolves p one component at a time against directory listings so
// that names are compared exactly, even on case-insensitive filesystems.
// It returns the path as it exists on disk.
func (c *Checker) lookup(p string) (actual string, isDir bool, status lookupStatus) {
	if p == "." {
		return ".", true, lookupFound
	}

	status = lookupFound
	dir := "."
	isDir = true
	for _, name := range strings.Split(p, "/") {
		if !isDir {
			return p, false, lookupMissing
		}
		entries := c.readDir(dir)
		entry, exact := findEntry(entries, name)
		if entry == nil {
			return p, false, lookupMissing
		}
		if !exact {
			status = lookupCaseMismatch
		}
		dir = path.Join(dir, entry.Name())
		isDir = entry.IsDir()
		if !isDir && entry.Type()&fs.ModeSymlink != 0 {
			if info, err := fs.Stat(c.fsys, dir); err == nil {
				isDir = info.IsDir()
			}
		}
	}
	return dir, isDir, status
}

func findEntry(entries []fs.DirEntry, name string) (fs.DirEntry, bool) {
	var folded fs.DirEntry
	for _, e := range entries {
		if e.Name() == name {
			return e, true
		}
		if folded == nil && strings.EqualFold(e.Name(), name) {
			folded = e
		}
	}
	return folded, false
}

func (c *Checker) readDir(dir string) []fs.DirEntry {
	if entries, ok := c.dirs[dir]; ok {
		return entries
	}
	entries, err := fs.ReadDir(c.fsys, dir)
	if err != nil {
		// Missing or unreadable directories behave like empty ones.
		entries = nil
	}
	c.dirs[dir] = entries
	return entries
}

func (c *Checker) readme(dir string) (string, bool) {
	entries := c.readDir(dir)
	for _, name := range readmeNames {
		for _, e := range entries {
			if e.Name() == name && !e.IsDir() {
				return path.Join(dir, name), true
			}
		}
	}
	return "", false
}

// suggestPath proposes an existing sibling for a missing target. Only the
// last path component is compared, inside the deepest directory that exists.
func (c *Checker) suggestPath(target string) string {
	dir, base := path.Split(target)
	dir = path.Clean(dir)
	if dir != "." {
		actual, isDir, status := c.lookup(dir)
		if status == lookupMissing || !isDir {
			return ""
		}
		dir = actual
	}

	entries := c.readDir(dir)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	s, ok := closest(base, names)
	if !ok {
		return ""
	}
	return path.Join(dir, s)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
