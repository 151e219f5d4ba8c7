package markdown

import "bytes"

var frontMatterDelim = []byte("---")

// blankFrontMatter replaces a leading YAML front matter block with spaces,
// keeping newlines so that byte offsets and line numbers stay unchanged.
// The input is not modified. An opening "---" without a closing line is a
// thematic break, so src is returned unchanged.
func blankFrontMatter(src []byte) []byte {
	first, rest, found := bytes.Cut(src, []byte("\n"))
	if !found || !bytes.Equal(bytes.TrimRight(first, " \t\r"), frontMatterDelim) {
		return src
	}

	offset := len(first) + 1
	for len(rest) > 0 {
		line, next, _ := bytes.Cut(rest, []byte("\n"))
		trimmed := bytes.TrimRight(line, " \t\r")
		if bytes.Equal(trimmed, frontMatterDelim) || bytes.Equal(trimmed, []byte("...")) {
			end := offset + len(line)
			out := make([]byte, len(src))
			copy(out, src)
			for i := 0; i < end; i++ {
				if out[i] != '\n' {
					out[i] = ' '
				}
			}
			return out
		}
		offset += len(line) + 1
		rest = next
	}

	return src
}
