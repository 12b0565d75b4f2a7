package adapters

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParagraphs_FoldsContinuationLines(t *testing.T) {
	input := `Package: green
Version: 2
Depends: libgreen1 (>= 2),
 libc6 (>= 2.34)
Description: a green package
 this is the long description

Package: blue
Version: 1
`
	paragraphs, err := parseParagraphs(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, paragraphs, 2)

	assert.Equal(t, "green", paragraphs[0]["Package"])
	assert.Equal(t, "libgreen1 (>= 2),\nlibc6 (>= 2.34)", paragraphs[0]["Depends"])
	assert.Equal(t, "a green package\nthis is the long description", paragraphs[0]["Description"])
	assert.Equal(t, "blue", paragraphs[1]["Package"])
}

func TestParseParagraphs_BlankInputYieldsNoParagraphs(t *testing.T) {
	paragraphs, err := parseParagraphs(strings.NewReader("\n\n"))
	require.NoError(t, err)
	assert.Empty(t, paragraphs)
}

func TestSplitFields_JoinsFoldedLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitFields("a b\nc"))
	assert.Empty(t, splitFields(""))
}
