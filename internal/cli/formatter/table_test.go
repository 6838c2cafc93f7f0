package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable(
		[]string{"ID", "Title"},
		[][]string{
			{"a1", "Short"},
			{"b2", "A much longer title"},
		},
	)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4, "header, separator, two rows")
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[1], "─")
	assert.Contains(t, lines[2], "Short")
	assert.Contains(t, lines[3], "A much longer title")

	// Both rows start their second column at the same offset.
	assert.Equal(t, strings.Index(lines[2], "Short"), strings.Index(lines[3], "A much"))
}

func TestRenderTable_HandlesRaggedRows(t *testing.T) {
	out := RenderTable(
		[]string{"A", "B", "C"},
		[][]string{{"only one cell"}},
	)
	assert.Contains(t, out, "only one cell")
}

func TestRenderTable_EmptyHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, nil))
}
