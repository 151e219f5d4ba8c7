// Package markdown extracts headings, links and explicit anchors from
// markdown documents.
//
// Documents are parsed with goldmark using the GitHub Flavored Markdown
// extensions, so the structure seen here matches what GitHub renders.
// Links inside fenced or indented code blocks and code spans are never
// reported: they are not link nodes in the AST.
//
// Raw HTML found in the document (inline tags and HTML blocks) is scanned
// with golang.org/x/net/html for <a href>, <img src>, id and <a name>.
//
// Design decision: We work from the AST rather than regular expressions
// because markdown link syntax nests (links inside emphasis, brackets in
// link text, reference definitions) and a line-based scanner cannot tell
// a code sample from a real link reliably.
package markdown
