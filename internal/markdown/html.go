package markdown

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// htmlRef is a link found in raw HTML.
type htmlRef struct {
	dest string
	// line is relative to the start of the fragment, 0-based.
	line int
}

// htmlScan is everything of interest in one raw HTML fragment.
type htmlScan struct {
	refs    []htmlRef
	anchors []string
}

// scanHTML tokenizes a raw HTML fragment. A tokenizer is used instead of
// html.Parse because inline raw HTML arrives as isolated tags such as
// `<a href="x">` without their closing counterparts, and because we need
// the line each tag starts on.
func scanHTML(fragment []byte) htmlScan {
	var out htmlScan
	z := html.NewTokenizer(bytes.NewReader(fragment))
	line := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF or malformed input. Broken HTML is not a finding.
			return out
		}

		raw := z.Raw()
		tagLine := line
		line += bytes.Count(raw, []byte("\n"))

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		tok := z.Token()

		if id := getAttr(tok, "id"); id != "" {
			out.anchors = append(out.anchors, id)
		}

		switch tok.Data {
		case "a":
			if name := getAttr(tok, "name"); name != "" {
				out.anchors = append(out.anchors, name)
			}
			if href, ok := lookupAttr(tok, "href"); ok {
				out.refs = append(out.refs, htmlRef{dest: href, line: tagLine})
			}
		case "img":
			if src, ok := lookupAttr(tok, "src"); ok {
				out.refs = append(out.refs, htmlRef{dest: src, line: tagLine})
			}
		}
	}
}

// getAttr retrieves an attribute value from an HTML token.
func getAttr(t html.Token, key string) string {
	v, _ := lookupAttr(t, key)
	return v
}

func lookupAttr(t html.Token, key string) (string, bool) {
	for _, attr := range t.Attr {
		if attr.Key == key {
			return strings.TrimSpace(attr.Val), true
		}
	}
	return "", false
}
