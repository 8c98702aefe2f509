package ocrtable

import (
	"bytes"
	"sort"
	"strings"

	"github.com/ivanvanderbyl/markdown"
)

// Cells returns the composed text as a matrix indexed by row and column id.
// Bands that received no word box yield empty cells.
func (t Table) Cells() [][]string {
	if len(t.Rows) == 0 || len(t.Columns) == 0 {
		return nil
	}

	numCols := len(t.Columns)
	cells := make([][]string, len(t.Rows))
	for i := range cells {
		cells[i] = make([]string, numCols)
	}

	// Composed lines follow the distinct row ids in ascending order.
	rowCols := make(map[int]map[int]bool)
	for _, w := range t.Words {
		if rowCols[w.RowID] == nil {
			rowCols[w.RowID] = make(map[int]bool)
		}
		rowCols[w.RowID][w.ColumnID] = true
	}
	rowIDs := make([]int, 0, len(rowCols))
	for row := range rowCols {
		rowIDs = append(rowIDs, row)
	}
	sort.Ints(rowIDs)

	sep := t.settings.LineSeparator
	if sep == "" {
		sep = "\n"
	}
	lines := strings.Split(t.Text(), sep)

	for k, line := range lines {
		if k >= len(rowIDs) {
			break
		}
		row := rowIDs[k]
		if row < 0 || row >= len(cells) {
			continue
		}
		fillRow(cells[row], strings.Split(line, "\t"), sortedKeys(rowCols[row]))
	}
	return cells
}

// fillRow places the tab-separated fields of one composed line into row.
// Leading tabs depend on the previous line, so the non-empty fields are
// matched to the columns the row occupies. Fields are placed by position
// when the two disagree.
func fillRow(row []string, fields []string, cols []int) {
	var texts []string
	for _, f := range fields {
		if f != "" {
			texts = append(texts, f)
		}
	}

	if len(texts) == len(cols) {
		for j, col := range cols {
			if col >= 0 && col < len(row) {
				row[col] = texts[j]
			}
		}
		return
	}

	last := len(row) - 1
	for col, field := range fields {
		if col < last {
			row[col] = field
			continue
		}
		// Surplus fields only occur with inconsistent ids; keep the text.
		row[last] = strings.TrimSpace(row[last] + " " + field)
	}
}

func sortedKeys(set map[int]bool) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// ToMarkdown renders the table as a markdown table, using the first row as
// the header. It returns an empty string when no grid was inferred.
func (t Table) ToMarkdown() string {
	cells := t.Cells()
	if len(cells) == 0 {
		return ""
	}

	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)
	convertCellsToMarkdown(md, cells)

	if err := md.Build(); err != nil {
		// If there's an error building the markdown, fall back to empty string
		return ""
	}
	return buf.String()
}

// convertCellsToMarkdown converts a cell matrix to markdown format using the builder.
func convertCellsToMarkdown(md *markdown.Markdown, cells [][]string) {
	header := cells[0]
	rows := cells[1:]

	// If we only have a header and no data rows, still create a valid table
	if len(rows) == 0 {
		rows = [][]string{make([]string, len(header))}
	}

	md.Table(markdown.TableSet{
		Header: header,
		Rows:   rows,
	})
}
