package model

// LinkKind identifies the markdown construct a Link was extracted from.
type LinkKind string

const (
	// LinkInline is an inline link such as [text](target).
	LinkInline LinkKind = "inline"
	// LinkImage is an image such as ![alt](target).
	LinkImage LinkKind = "image"
	// LinkReference is a reference link such as [text][ref] resolved through a definition.
	LinkReference LinkKind = "reference"
	// LinkAutolink is an autolink such as <https://example.com>.
	LinkAutolink LinkKind = "autolink"
	// LinkHTML is an <a href> or <img src> found in raw HTML.
	LinkHTML LinkKind = "html"
)

// Document is a markdown file under the validation root.
type Document struct {
	// Path is slash-separated and relative to the root.
	Path string `json:"path"`

	// Raw is the file content as read from disk.
	Raw []byte `json:"-"`

	// Headings are in document order. Slugs are already de-duplicated.
	Headings []Heading `json:"headings"`

	// Links are in document order.
	Links []Link `json:"links"`

	// Anchors holds explicit HTML anchors (id and <a name>) declared in the document.
	Anchors []string `json:"anchors,omitempty"`
}

// Heading is a section heading owned by a Document.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Slug  string `json:"slug"`
	Line  int    `json:"line"`
}

// Link is a single link occurrence.
type Link struct {
	// Source is the path of the document containing the link.
	Source string `json:"source"`

	// Line is 1-based.
	Line int `json:"line"`

	Kind LinkKind `json:"kind"`

	// Destination is the raw destination as written.
	Destination string `json:"destination"`

	// Scheme is the lowercased URL scheme, empty for relative targets.
	Scheme string `json:"scheme,omitempty"`

	// TargetPath is the decoded path component. Empty means the same file.
	TargetPath string `json:"targetPath,omitempty"`

	// Anchor is the decoded fragment. Only meaningful when HasAnchor is true.
	Anchor    string `json:"anchor,omitempty"`
	HasAnchor bool   `json:"hasAnchor,omitempty"`

	// Text is the raw span used in messages.
	Text string `json:"text"`
}

// IsExternal reports whether the link points outside the documentation tree.
// file: links are not external; they are reported as non-portable.
func (l Link) IsExternal() bool {
	if l.Kind == LinkAutolink {
		return true
	}
	return l.Scheme != "" && l.Scheme != "file"
}

// IsFileURL reports whether the link uses the file: scheme.
func (l Link) IsFileURL() bool {
	return l.Scheme == "file"
}

// SlugSet returns every anchor a link may legally target in this document:
// heading slugs plus explicit anchors.
func (d *Document) SlugSet() map[string]struct{} {
	set := make(map[string]struct{}, len(d.Headings)+len(d.Anchors))
	for _, h := range d.Headings {
		set[h.Slug] = struct{}{}
	}
	for _, a := range d.Anchors {
		set[a] = struct{}{}
	}
	return set
}

// Slugs returns heading slugs in document order.
func (d *Document) Slugs() []string {
	out := make([]string, 0, len(d.Headings))
	for _, h := range d.Headings {
		out = append(out, h.Slug)
	}
	return out
}
