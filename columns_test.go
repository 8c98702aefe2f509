package ocrtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threeRowColumn returns three stacked word boxes spanning [left, left+width].
func threeRowColumn(left, width float64) []WordBox {
	return []WordBox{
		word("r0", left, 0, width, 20),
		word("r1", left, 40, width, 20),
		word("r2", left, 80, width, 20),
	}
}

func TestClusterColumns_Empty(t *testing.T) {
	assert.Empty(t, ClusterColumns(nil, DefaultClusterSettings()))
}

func TestClusterColumns_TwoSeparatedTokens(t *testing.T) {
	words := []WordBox{
		word("A", 0, 0, 10, 10),
		word("B", 100, 0, 10, 10),
	}

	columns := ClusterColumns(words, DefaultClusterSettings())
	require.Len(t, columns, 2)
	assert.Equal(t, ColumnBand{ID: 0, Left: 0, Right: 10}, columns[0])
	assert.Equal(t, ColumnBand{ID: 1, Left: 100, Right: 110}, columns[1])
}

func TestClusterColumns_NarrowStrayColumnMerged(t *testing.T) {
	words := append(threeRowColumn(0, 60), threeRowColumn(200, 60)...)
	// A lone footnote marker between the two columns.
	words = append(words, word("*", 100, 40, 4, 10))

	columns := ClusterColumns(words, DefaultClusterSettings())
	require.Len(t, columns, 2)
	assert.Equal(t, ColumnBand{ID: 0, Left: 0, Right: 60}, columns[0])
	assert.Equal(t, ColumnBand{ID: 1, Left: 100, Right: 260}, columns[1])
}

func TestClusterColumns_SmallGapMerged(t *testing.T) {
	// Centers are 65px apart (beyond the 54px threshold) but only 5px
	// separate the bands.
	words := append(threeRowColumn(0, 60), threeRowColumn(65, 60)...)

	columns := ClusterColumns(words, DefaultClusterSettings())
	require.Len(t, columns, 1)
	assert.Equal(t, ColumnBand{ID: 0, Left: 0, Right: 125}, columns[0])
}

func TestClusterColumns_WideGapsKept(t *testing.T) {
	var words []WordBox
	for c := 0; c < 4; c++ {
		words = append(words, threeRowColumn(float64(c)*120, 80)...)
	}

	columns := ClusterColumns(words, DefaultClusterSettings())
	require.Len(t, columns, 4)
	for i, col := range columns {
		assert.Equal(t, i, col.ID)
		assert.Equal(t, float64(i)*120, col.Left)
		assert.InDelta(t, 80, col.Width(), 1e-9)
	}
}

func TestClusterColumns_NarrowLastColumnKept(t *testing.T) {
	words := []WordBox{
		word("Total", 0, 0, 50, 10),
		word("5", 200, 0, 8, 10),
	}

	columns := ClusterColumns(words, DefaultClusterSettings())
	require.Len(t, columns, 2)
	assert.Equal(t, ColumnBand{ID: 0, Left: 0, Right: 50}, columns[0])
	assert.Equal(t, ColumnBand{ID: 1, Left: 200, Right: 208}, columns[1])

	AssignGrid(ClusterRows(words, DefaultClusterSettings()), columns, words)
	assert.Equal(t, "Total\t5", ComposeText(words, testComposeSettings()))
}

func TestClusterColumns_CustomSettings(t *testing.T) {
	settings := DefaultClusterSettings()
	settings.MinColumnThreshold = 200

	words := []WordBox{
		word("A", 0, 0, 10, 10),
		word("B", 100, 0, 10, 10),
	}
	assert.Len(t, ClusterColumns(words, settings), 1)
}
