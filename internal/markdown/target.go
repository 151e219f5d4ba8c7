package markdown

import (
	"net/url"
	"regexp"
	"strings"
)

// schemePattern matches an RFC 3986 scheme at the start of a destination.
var schemePattern = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.\-]*):`)

// drivePattern matches a Windows absolute path such as C:/ or C:\.
var drivePattern = regexp.MustCompile(`^[a-zA-Z]:[/\\]`)

// Target is a link destination split into the parts the checker needs.
type Target struct {
	// Scheme is lowercased. Empty for relative and root-relative paths.
	Scheme string

	// Path is percent-decoded. Empty means the current document.
	Path string

	// Anchor is percent-decoded and does not include the '#'.
	Anchor string

	// HasAnchor is false for a bare "#" so that it is treated as no anchor.
	HasAnchor bool
}

// SplitTarget splits a raw link destination.
//
// file: URLs keep their scheme so they can be reported as non-portable.
// Windows drive paths like C:/Users/me/doc.md are local absolute paths,
// so they are given the file scheme too.
// Any other scheme, and protocol-relative "//host" URLs, are external and
// only the scheme is filled in. For everything else the query string is
// dropped, the first '#' separates path from anchor, and both parts are
// percent-decoded. Invalid escapes are left as written.
func SplitTarget(dest string) Target {
	dest = strings.TrimSpace(dest)

	if drivePattern.MatchString(dest) {
		return Target{Scheme: "file"}
	}
	if m := schemePattern.FindStringSubmatch(dest); m != nil {
		return Target{Scheme: strings.ToLower(m[1])}
	}
	if strings.HasPrefix(dest, "//") {
		return Target{Scheme: "//"}
	}

	var t Target
	pathPart, anchor, hasHash := strings.Cut(dest, "#")
	if q := strings.IndexByte(pathPart, '?'); q >= 0 {
		pathPart = pathPart[:q]
	}
	t.Path = unescape(pathPart)
	if hasHash && anchor != "" {
		t.Anchor = unescape(anchor)
		t.HasAnchor = true
	}
	return t
}

func unescape(s string) string {
	if v, err := url.PathUnescape(s); err == nil {
		return v
	}
	return s
}
