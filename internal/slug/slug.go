// Package slug generates heading anchors the way GitHub renders them.
//
// The algorithm follows github-slugger, which is what github.com uses for
// README and docs rendering:
//
//  1. Lowercase the heading text using Unicode case rules.
//  2. Remove every rune that is not a letter, mark, number, connector
//     punctuation (such as '_'), hyphen, or ASCII space.
//  3. Replace each space with a hyphen. Runs of spaces are not collapsed,
//     so "a  b" becomes "a--b".
//
// Emoji and other symbols disappear; non-ASCII letters are kept as is.
// Repeated headings within a document are de-duplicated with numeric
// suffixes by Slugger.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slug returns the base slug for a heading text, without de-duplication.
func Slug(text string) string {
	lower := cases.Lower(language.Und).String(text)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r == '-':
			b.WriteRune(r)
		case unicode.IsLetter(r), unicode.IsMark(r), unicode.IsNumber(r), unicode.Is(unicode.Pc, r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Slugger assigns unique slugs within one document.
// The zero value is ready to use. A Slugger is not safe for concurrent use.
type Slugger struct {
	occurrences map[string]int
}

// Slug returns a slug for text that is unique among all slugs this Slugger
// has returned. The first occurrence keeps the base slug; repeats become
// base-1, base-2 and so on, skipping any candidate already taken.
func (s *Slugger) Slug(text string) string {
	if s.occurrences == nil {
		s.occurrences = make(map[string]int)
	}

	base := Slug(text)
	result := base
	for s.taken(result) {
		s.occurrences[base]++
		result = base + "-" + strconv.Itoa(s.occurrences[base])
	}
	s.occurrences[result] = 0
	return result
}

func (s *Slugger) taken(slug string) bool {
	_, ok := s.occurrences[slug]
	return ok
}

// Resolve returns the de-duplicated slugs for an ordered list of heading texts.
func Resolve(headings []string) []string {
	var s Slugger
	out := make([]string, len(headings))
	for i, h := range headings {
		out[i] = s.Slug(h)
	}
	return out
}
