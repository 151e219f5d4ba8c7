// Package main provides the entry point for the navcheck CLI.
//
// navcheck validates the relative links and heading anchors of a markdown
// documentation tree, the way GitHub resolves them, and exits non-zero when
// a link is broken.
//
// Usage:
//
//	navcheck --root docs
//	navcheck --strict --format markdown -o report.md
//
// See --help for all available options.
package main

import "os"

// main is the entry point for navcheck.
func main() {
	os.Exit(Execute())
}
