package ocrtable

// word builds a word box from its left/top corner and size.
func word(text string, left, top, width, height float64) WordBox {
	return WordBox{Text: text, Box: NewRect(left, top, width, height)}
}

// cell builds a word box already assigned to a grid cell.
func cell(text string, row, col int, left, top, width, height float64) WordBox {
	w := word(text, left, top, width, height)
	w.RowID = row
	w.ColumnID = col
	return w
}
