package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"

	"github.com/nao1215/navcheck/internal/model"
	"github.com/nao1215/navcheck/internal/slug"
)

// ErrParse is returned when a document cannot be read as markdown.
var ErrParse = errors.New("cannot parse markdown")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor turns markdown source into a model.Document.
// An Extractor is safe for concurrent use.
type Extractor struct {
	md goldmark.Markdown
}

// NewExtractor creates an Extractor configured for GitHub Flavored Markdown.
func NewExtractor() *Extractor {
	return &Extractor{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Extract parses src and returns the document at path.
// The returned error wraps ErrParse when src is not valid UTF-8.
func (e *Extractor) Extract(path string, src []byte) (*model.Document, error) {
	if !utf8.Valid(src) {
		return nil, fmt.Errorf("%s: %w: not valid UTF-8", path, ErrParse)
	}

	body := src
	if bytes.HasPrefix(body, utf8BOM) {
		body = append(bytes.Repeat([]byte(" "), len(utf8BOM)), body[len(utf8BOM):]...)
	}
	body = blankFrontMatter(body)

	w := &walker{
		path:   path,
		source: body,
		lines:  lineStarts(body),
		doc: &model.Document{
			Path:     path,
			Raw:      src,
			Headings: make([]model.Heading, 0),
			Links:    make([]model.Link, 0),
		},
	}

	root := e.md.Parser().Parse(text.NewReader(body))
	if err := ast.Walk(root, w.visit); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, ErrParse, err)
	}

	return w.doc, nil
}

// walker collects headings and links during an AST walk.
type walker struct {
	path    string
	source  []byte
	lines   []int
	slugger slug.Slugger
	doc     *model.Document
}

func (w *walker) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	switch node := n.(type) {
	case *ast.Heading:
		w.addHeading(node)
	case *ast.Link:
		kind := model.LinkInline
		if w.isReference(node) {
			kind = model.LinkReference
		}
		w.addLink(kind, string(node.Destination), w.plainText(node), w.offsetOf(node))
	case *ast.Image:
		w.addLink(model.LinkImage, string(node.Destination), w.plainText(node), w.offsetOf(node))
	case *ast.AutoLink:
		w.addLink(model.LinkAutolink, string(node.URL(w.source)), string(node.Label(w.source)), w.offsetOf(node))
	case *ast.RawHTML:
		if node.Segments.Len() > 0 {
			var buf bytes.Buffer
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				buf.Write(seg.Value(w.source))
			}
			w.addHTML(buf.Bytes(), node.Segments.At(0).Start)
		}
	case *ast.HTMLBlock:
		lines := node.Lines()
		if lines.Len() > 0 {
			var buf bytes.Buffer
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(w.source))
			}
			if node.HasClosure() {
				buf.Write(node.ClosureLine.Value(w.source))
			}
			w.addHTML(buf.Bytes(), lines.At(0).Start)
		}
	case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.CodeSpan:
		return ast.WalkSkipChildren, nil
	}

	return ast.WalkContinue, nil
}

// addHeading slugs the untrimmed text content. Images contribute nothing,
// so "# Project ![CI](badge.svg)" becomes "project-" as on GitHub.
func (w *walker) addHeading(h *ast.Heading) {
	content := w.textContent(h, false)
	line := 0
	if h.Lines().Len() > 0 {
		line = w.lineOf(h.Lines().At(0).Start)
	}
	w.doc.Headings = append(w.doc.Headings, model.Heading{
		Level: h.Level,
		Text:  strings.TrimSpace(content),
		Slug:  w.slugger.Slug(content),
		Line:  line,
	})
}

func (w *walker) addLink(kind model.LinkKind, dest, label string, offset int) {
	t := SplitTarget(dest)
	w.doc.Links = append(w.doc.Links, model.Link{
		Source:      w.path,
		Line:        w.lineOf(offset),
		Kind:        kind,
		Destination: dest,
		Scheme:      t.Scheme,
		TargetPath:  t.Path,
		Anchor:      t.Anchor,
		HasAnchor:   t.HasAnchor,
		Text:        label,
	})
}

func (w *walker) addHTML(fragment []byte, offset int) {
	scan := scanHTML(fragment)
	base := w.lineOf(offset)
	for _, ref := range scan.refs {
		t := SplitTarget(ref.dest)
		w.doc.Links = append(w.doc.Links, model.Link{
			Source:      w.path,
			Line:        base + ref.line,
			Kind:        model.LinkHTML,
			Destination: ref.dest,
			Scheme:      t.Scheme,
			TargetPath:  t.Path,
			Anchor:      t.Anchor,
			HasAnchor:   t.HasAnchor,
			Text:        ref.dest,
		})
	}
	w.doc.Anchors = append(w.doc.Anchors, scan.anchors...)
}

// plainText returns the rendered text content of n, the way a browser
// would show it: markup removed, entities and backslash escapes resolved,
// code span content kept verbatim, raw HTML dropped. Image alt text is
// kept so that badge links still have a label.
func (w *walker) plainText(n ast.Node) string {
	return w.textContent(n, true)
}

// textContent is plainText with control over image alt text, which the
// DOM textContent of a heading does not include.
func (w *walker) textContent(n ast.Node, withImages bool) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *ast.CodeSpan:
			for cc := node.FirstChild(); cc != nil; cc = cc.NextSibling() {
				if t, ok := cc.(*ast.Text); ok {
					b.Write(t.Segment.Value(w.source))
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			b.WriteString(html.UnescapeString(string(util.UnescapePunctuations(node.Segment.Value(w.source)))))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.AutoLink:
			b.Write(node.Label(w.source))
		case *ast.Image:
			if !withImages {
				return ast.WalkSkipChildren, nil
			}
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// isReference reports whether a link was written as [text][ref] or
// [ref] instead of [text](dest). goldmark resolves both to *ast.Link, so
// we look at the byte after the link text.
func (w *walker) isReference(link *ast.Link) bool {
	end := lastTextStop(link)
	if end < 0 {
		return false
	}
	rest := w.source[end:]
	i := bytes.IndexByte(rest, ']')
	if i < 0 || i+1 >= len(rest) {
		return true
	}
	return rest[i+1] != '('
}

// offsetOf returns a byte offset that lies on the line where n starts.
// Inline nodes carry no position of their own, so the first text segment
// inside n is used, then the end of the previous sibling, then the start
// of the enclosing block.
func (w *walker) offsetOf(n ast.Node) int {
	if off := firstTextStart(n); off >= 0 {
		return off
	}
	for prev := n.PreviousSibling(); prev != nil; prev = prev.PreviousSibling() {
		if off := lastTextStop(prev); off >= 0 {
			return off
		}
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() == ast.TypeBlock && p.Lines().Len() > 0 {
			return p.Lines().At(0).Start
		}
	}
	return 0
}

func firstTextStart(n ast.Node) int {
	if t, ok := n.(*ast.Text); ok {
		return t.Segment.Start
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if off := firstTextStart(c); off >= 0 {
			return off
		}
	}
	return -1
}

func lastTextStop(n ast.Node) int {
	if t, ok := n.(*ast.Text); ok {
		return t.Segment.Stop
	}
	for c := n.LastChild(); c != nil; c = c.PreviousSibling() {
		if off := lastTextStop(c); off >= 0 {
			return off
		}
	}
	return -1
}

// lineStarts returns the byte offset at which each line begins.
func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineOf converts a byte offset into a 1-based line number.
func (w *walker) lineOf(offset int) int {
	return sort.Search(len(w.lines), func(i int) bool { return w.lines[i] > offset })
}
