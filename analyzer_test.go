package ocrtable_test

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ivanvanderbyl/ocrtable"
)

func box(text string, left, top, width, height float64) ocrtable.WordBox {
	return ocrtable.WordBox{Text: text, Box: ocrtable.NewRect(left, top, width, height)}
}

func newTestAnalyzer() *ocrtable.Analyzer {
	config := ocrtable.DefaultConfig()
	config.Compose.LineSeparator = "\n"
	return ocrtable.NewAnalyzerWithConfig(config)
}

// syntheticGrid lays out rows x cols cells of 80x20 with 40px column gaps and
// 20px row gaps, listed in reverse reading order.
func syntheticGrid(rows, cols int) []ocrtable.WordBox {
	words := make([]ocrtable.WordBox, 0, rows*cols)
	for r := rows - 1; r >= 0; r-- {
		for c := cols - 1; c >= 0; c-- {
			words = append(words, box(fmt.Sprintf("r%dc%d", r, c), float64(c)*120, float64(r)*40, 80, 20))
		}
	}
	return words
}

func TestAnalyzer_EmptyInput(t *testing.T) {
	table, text := newTestAnalyzer().Reconstruct(nil, ocrtable.Rect{})

	assert.Empty(t, table.Rows)
	assert.Empty(t, table.Columns)
	assert.Equal(t, "", text)

	_, ok := table.Bounds()
	assert.False(t, ok)
}

func TestAnalyzer_SingleRowTwoColumns(t *testing.T) {
	words := []ocrtable.WordBox{
		box("A", 0, 0, 10, 10),
		box("B", 100, 0, 10, 10),
	}

	table, text := newTestAnalyzer().Reconstruct(words, ocrtable.Rect{})

	assert.Equal(t, 1, table.NumRows())
	assert.Equal(t, 2, table.NumCols())
	assert.Equal(t, "A\tB", text)
}

func TestAnalyzer_TwoRowsOneColumn(t *testing.T) {
	words := []ocrtable.WordBox{
		box("A", 0, 0, 10, 10),
		box("B", 0, 50, 10, 10),
	}

	table, text := newTestAnalyzer().Reconstruct(words, ocrtable.Rect{})

	assert.Equal(t, 2, table.NumRows())
	assert.Equal(t, 1, table.NumCols())
	assert.Equal(t, "A\nB", text)
}

func TestAnalyzer_PlatformLineSeparatorByDefault(t *testing.T) {
	words := []ocrtable.WordBox{
		box("A", 0, 0, 10, 10),
		box("B", 0, 50, 10, 10),
	}

	analyzer := ocrtable.NewAnalyzer()
	_, text := analyzer.Reconstruct(words, ocrtable.Rect{})

	assert.Equal(t, "A"+analyzer.Config().Compose.LineSeparator+"B", text)
}

func TestAnalyzer_GluesDetachedPercent(t *testing.T) {
	words := []ocrtable.WordBox{
		box("50", 0, 0, 20, 10),
		box("%", 22, 0, 8, 10),
	}

	table, text := newTestAnalyzer().Reconstruct(words, ocrtable.Rect{})

	assert.Equal(t, 1, table.NumCols())
	assert.Equal(t, "50%", text)
}

func TestAnalyzer_FootnoteRowKeepsPercentSpacing(t *testing.T) {
	words := []ocrtable.WordBox{
		box("(1)", 0, 0, 20, 10),
		box("50  %", 100, 0, 40, 10),
		box("x", 0, 30, 10, 10),
		box("50  %", 100, 30, 40, 10),
	}

	_, text := newTestAnalyzer().Reconstruct(words, ocrtable.Rect{})

	assert.Equal(t, "(1)\t50  %\nx\t50%", text)
}

func TestAnalyzer_BackfillsPercentColumn(t *testing.T) {
	words := []ocrtable.WordBox{
		box("a", 0, 0, 10, 10), box("75%", 100, 0, 30, 10),
		box("b", 0, 30, 10, 10), box("75%", 100, 30, 30, 10),
		box("c", 0, 60, 10, 10), box("50", 100, 60, 20, 10),
		box("d", 0, 90, 10, 10), box("75%", 100, 90, 30, 10),
	}

	table, text := newTestAnalyzer().Reconstruct(words, ocrtable.Rect{})

	require.Equal(t, 4, table.NumRows())
	require.Equal(t, 2, table.NumCols())
	assert.Equal(t, "a\t75%\nb\t75%\nc\t50%\nd\t75%", text)
}

func TestAnalyzer_SyntheticGridFidelity(t *testing.T) {
	const rows, cols = 50, 6
	words := syntheticGrid(rows, cols)

	table, text := newTestAnalyzer().Reconstruct(words, ocrtable.Rect{})

	require.Len(t, table.Rows, rows)
	require.Len(t, table.Columns, cols)

	for i, row := range table.Rows {
		assert.Equal(t, i, row.ID)
		if i > 0 {
			assert.Less(t, table.Rows[i-1].Top, row.Top)
		}
	}
	for i, col := range table.Columns {
		assert.Equal(t, i, col.ID)
		if i > 0 {
			assert.Less(t, table.Columns[i-1].Left, col.Left)
		}
	}

	for _, w := range words {
		assert.Equal(t, fmt.Sprintf("r%dc%d", w.RowID, w.ColumnID), w.Text)
	}

	lines := strings.Split(text, "\n")
	require.Len(t, lines, rows)
	assert.Equal(t, "r0c0\tr0c1\tr0c2\tr0c3\tr0c4\tr0c5", lines[0])
	assert.Equal(t, "r49c0\tr49c1\tr49c2\tr49c3\tr49c4\tr49c5", lines[rows-1])
}

func TestAnalyzer_ComposeIsIdempotent(t *testing.T) {
	analyzer := newTestAnalyzer()
	words := syntheticGrid(5, 3)
	analyzer.Analyze(words, ocrtable.Rect{})

	assert.Equal(t, analyzer.Compose(words), analyzer.Compose(words))
}

func TestAnalyzer_DegenerateGeometry(t *testing.T) {
	words := []ocrtable.WordBox{
		box("nan", math.NaN(), 0, 10, 10),
		box("inf", 0, 0, math.Inf(1), 10),
		box("zero", 50, 50, 0, 0),
		box("neg", 100, 100, -10, -10),
		box("ok", 200, 200, 20, 10),
	}

	var table ocrtable.Table
	var text string
	require.NotPanics(t, func() {
		table, text = newTestAnalyzer().Reconstruct(words, ocrtable.Rect{})
	})

	assert.LessOrEqual(t, table.NumRows(), len(words))
	assert.LessOrEqual(t, table.NumCols(), len(words))
	for _, w := range words {
		assert.GreaterOrEqual(t, w.RowID, 0)
		assert.Less(t, w.RowID, table.NumRows())
		assert.GreaterOrEqual(t, w.ColumnID, 0)
		assert.Less(t, w.ColumnID, table.NumCols())
	}
	assert.Contains(t, text, "ok")
}

func TestAnalyzer_ConcurrentIndependentInputs(t *testing.T) {
	analyzer := newTestAnalyzer()
	_, want := analyzer.Reconstruct(syntheticGrid(10, 4), ocrtable.Rect{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, got := analyzer.Reconstruct(syntheticGrid(10, 4), ocrtable.Rect{})
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func TestAnalyzer_MetricsLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	config := ocrtable.DefaultConfig()
	config.EnableMetricsLogging = true
	config.Logger = zap.New(core)
	analyzer := ocrtable.NewAnalyzerWithConfig(config)

	_, _, metrics := analyzer.ReconstructWithMetrics(syntheticGrid(4, 3), ocrtable.Rect{})

	assert.Equal(t, 12, metrics.Words)
	assert.Equal(t, 4, metrics.Rows)
	assert.Equal(t, 3, metrics.Columns)
	assert.GreaterOrEqual(t, metrics.TotalTime, metrics.Composition)

	require.Equal(t, 1, logs.FilterMessage("table reconstructed").Len())
	entry := logs.FilterMessage("table reconstructed").All()[0]
	assert.Equal(t, int64(12), entry.ContextMap()["words"])
	assert.Equal(t, 1, logs.FilterMessage("table grid inferred").Len())
}

func TestAnalyzer_NoMetricsLoggingByDefault(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	config := ocrtable.DefaultConfig()
	config.Logger = zap.New(core)
	ocrtable.NewAnalyzerWithConfig(config).Reconstruct(syntheticGrid(2, 2), ocrtable.Rect{})

	assert.Equal(t, 0, logs.Len())
}

func BenchmarkAnalyze50x6(b *testing.B) {
	analyzer := newTestAnalyzer()
	words := syntheticGrid(50, 6)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		analyzer.Reconstruct(words, ocrtable.Rect{})
	}
}
