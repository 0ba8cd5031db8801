package testutil

import (
	"strings"
	"testing"

	"github.com/specialistvlad/labprotocol/internal/comment"
	"github.com/stretchr/testify/require"
)

// AssertInOrder checks that every fragment occurs in text, each one after the
// previous.
func AssertInOrder(t *testing.T, text string, fragments ...string) {
	t.Helper()

	rest := text
	for _, f := range fragments {
		idx := strings.Index(rest, f)
		require.NotEqual(t, -1, idx, "expected %q after the previous fragment in:\n%s", f, text)
		rest = rest[idx+len(f):]
	}
}

// Tags returns the tags of all comment lines of a program in order,
// skipping the end marker.
func Tags(program string) []string {
	var tags []string
	for _, raw := range strings.Split(program, "\n") {
		line, ok := comment.ParseLine(raw)
		if !ok || line.Tag == "end" {
			continue
		}
		tags = append(tags, line.Tag)
	}
	return tags
}

// AssertTags checks the sequence of structured comment tags of a program.
func AssertTags(t *testing.T, program string, want ...string) {
	t.Helper()
	require.Equal(t, want, Tags(program), "structured comment tags")
}
