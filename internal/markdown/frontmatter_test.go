package markdown

import (
	"bytes"
	"testing"
)

func TestBlankFrontMatter(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		src  string
		want string
	}{
		{"none", "# Title\n", "# Title\n"},
		{"yaml", "---\na: 1\n---\n# T\n", "   \n    \n   \n# T\n"},
		{"dots closer", "---\na: 1\n...\nbody\n", "   \n    \n   \nbody\n"},
		{"crlf", "---\r\na: 1\r\n---\r\nbody", "    \n     \n    \nbody"},
		{"thematic break later", "# T\n---\n", "# T\n---\n"},
		{"unclosed is a thematic break", "---\na: 1\n", "---\na: 1\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := blankFrontMatter([]byte(tc.src))
			if !bytes.Equal(got, []byte(tc.want)) {
				t.Errorf("blankFrontMatter() = %q, want %q", got, tc.want)
			}
			if len(got) != len(tc.src) {
				t.Errorf("length changed: %d -> %d", len(tc.src), len(got))
			}
		})
	}
}
