// Package pathmatch matches slash-separated paths against glob patterns.
//
// Patterns use doublestar syntax: "*", "?", "[...]" and "{a,b}" within a
// segment, and "**" for zero or more whole segments. A pattern without any
// slash is matched against the last path segment only, so "*.tmp.md"
// excludes such files in every directory.
package pathmatch

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Match reports whether name matches pattern. Malformed patterns never match.
func Match(pattern, name string) bool {
	pattern = strings.TrimPrefix(pattern, "./")
	name = strings.TrimPrefix(path.Clean(name), "./")

	if !strings.Contains(pattern, "/") && pattern != "**" {
		name = path.Base(name)
	}
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

// Any reports whether name matches at least one of patterns.
func Any(patterns []string, name string) bool {
	for _, p := range patterns {
		if Match(p, name) {
			return true
		}
	}
	return false
}

// Validate returns the first malformed pattern, if any.
func Validate(patterns []string) (string, bool) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(strings.TrimPrefix(p, "./")) {
			return p, false
		}
	}
	return "", true
}
