package ocrtable

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var (
	// footnotePattern matches footnote markers such as "(1)".
	footnotePattern = regexp.MustCompile(`^\(\d+\)$`)

	// spacedPercentPattern matches the spaces OCR leaves before a trailing '%'.
	spacedPercentPattern = regexp.MustCompile(` +%$`)
)

// escapedAmpersand is how some OCR engines hand back '&'.
const escapedAmpersand = `\u0026`

// layoutSummary holds the facts gathered in the pre-pass over the sorted
// word boxes.
type layoutSummary struct {
	multiRow      bool
	footnoteRows  map[int]bool
	percentColumn int // -1 when no token carries '%'
}

// ComposeText renders word boxes with assigned row and column ids as text,
// separating cells with '\t' and rows with settings.LineSeparator.
//
// Beyond plain joining it repairs common OCR damage to percentages: a '%'
// recognized as its own fragment is glued back onto the number before it, a
// percent sign misread as "1%" loses the stray "1", spaces before a trailing
// '%' are collapsed (except in rows that carry a footnote marker), and plain
// numbers in the column that mostly holds percentages get their missing '%'
// back.
//
// The input slice is not modified, so composing the same assigned words twice
// yields identical output.
func ComposeText(words []WordBox, settings ComposeSettings) string {
	if len(words) == 0 {
		return ""
	}

	sorted := sortForComposition(words, settings.StackTolerance)
	layout := summarizeLayout(sorted)

	var out, line strings.Builder
	lastCol := 0

	for i, w := range sorted {
		var prev *WordBox
		if i > 0 {
			prev = &sorted[i-1]
		}

		if prev != nil && w.RowID != prev.RowID {
			out.WriteString(line.String())
			line.Reset()
			out.WriteString(settings.LineSeparator)
			if settings.AlignRows {
				lastCol = 0
			}
		}

		sameCell := prev != nil && prev.RowID == w.RowID && prev.ColumnID == w.ColumnID

		// Tabs count the columns skipped since the previous token. A column
		// that moves backwards counts from zero again.
		if !sameCell && w.ColumnID != lastCol {
			tabs := w.ColumnID - lastCol
			if tabs < 0 {
				tabs = w.ColumnID
			}
			if !layout.multiRow {
				// A single line reads like a list; never pad skipped columns.
				tabs = 1
			}
			line.WriteString(strings.Repeat("\t", tabs))
			lastCol = w.ColumnID
		}

		if sameCell && glueToken(&line, *prev, w, settings) {
			continue
		}

		text := normalizeToken(w.Text, layout.footnoteRows[w.RowID])
		if sameCell && settings.SpaceJoining && !endsWithBreak(line.String()) {
			line.WriteByte(' ')
		}
		line.WriteString(text)

		if w.ColumnID == layout.percentColumn && isPlainNumber(text) && !cellHasPercentAhead(sorted, i) {
			line.WriteByte('%')
		}
	}

	out.WriteString(line.String())
	return out.String()
}

// sortForComposition returns a copy of words in grid order. Tokens in the same
// cell whose left edges are within tolerance are stacked fragments (a header
// split over two lines) and are ordered top-to-bottom.
func sortForComposition(words []WordBox, tolerance float64) []WordBox {
	sorted := make([]WordBox, len(words))
	copy(sorted, words)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.RowID != b.RowID {
			return a.RowID < b.RowID
		}
		if a.ColumnID != b.ColumnID {
			return a.ColumnID < b.ColumnID
		}
		if math.Abs(a.Box.X0-b.Box.X0) <= tolerance {
			return a.Box.Y0 < b.Box.Y0
		}
		return a.Box.X0 < b.Box.X0
	})
	return sorted
}

func summarizeLayout(sorted []WordBox) layoutSummary {
	summary := layoutSummary{
		footnoteRows:  make(map[int]bool),
		percentColumn: -1,
	}

	rows := make(map[int]struct{})
	percentCounts := make(map[int]int)
	for _, w := range sorted {
		rows[w.RowID] = struct{}{}
		if footnotePattern.MatchString(w.Text) {
			summary.footnoteRows[w.RowID] = true
		}
		// Covers a standalone "%" and the "1%" misread as well.
		if strings.Contains(w.Text, "%") {
			percentCounts[w.ColumnID]++
		}
	}
	summary.multiRow = len(rows) > 1

	best := 0
	for col, count := range percentCounts {
		if count > best || (count == best && col < summary.percentColumn) {
			best = count
			summary.percentColumn = col
		}
	}
	return summary
}

// glueToken appends cur directly onto the line when it is a detached percent
// sign sitting right after prev. It reports whether cur was consumed.
func glueToken(line *strings.Builder, prev, cur WordBox, settings ComposeSettings) bool {
	gap := cur.Box.X0 - prev.Box.X1
	if !(gap <= settings.GlueGap(prev.Box.Height(), cur.Box.Height())) {
		return false
	}

	switch {
	case cur.Text == "%":
		line.WriteByte('%')
		return true
	case cur.Text == "1%" && endsWithDigit(line.String()):
		// The '%' glyph read as "1%" after a number; keep only the sign.
		line.WriteByte('%')
		return true
	}
	return false
}

// normalizeToken undoes escaping artifacts and, outside footnote rows,
// collapses the spaces in front of a trailing '%'.
func normalizeToken(text string, footnoteRow bool) string {
	text = strings.ReplaceAll(text, escapedAmpersand, "&")
	if !footnoteRow && strings.Contains(text, "%") {
		text = spacedPercentPattern.ReplaceAllString(text, "%")
	}
	return text
}

// cellHasPercentAhead reports whether a later token in the same cell as
// sorted[i] already carries a '%'.
func cellHasPercentAhead(sorted []WordBox, i int) bool {
	row, col := sorted[i].RowID, sorted[i].ColumnID
	for j := i + 1; j < len(sorted); j++ {
		if sorted[j].RowID != row || sorted[j].ColumnID != col {
			break
		}
		if strings.Contains(sorted[j].Text, "%") {
			return true
		}
	}
	return false
}

// isPlainNumber reports whether s is an unsigned integer, optionally with
// thousands separators or in the "(-123)" negative form.
func isPlainNumber(s string) bool {
	// '/' also rules out "N/A".
	if s == "" || strings.ContainsAny(s, "/$") {
		return false
	}
	if strings.HasPrefix(s, "(-") && strings.HasSuffix(s, ")") {
		s = s[2 : len(s)-1]
	}
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isDigit(r) {
			return false
		}
	}
	return true
}

func endsWithDigit(s string) bool {
	return s != "" && isDigit(rune(s[len(s)-1]))
}

func endsWithBreak(s string) bool {
	if s == "" {
		return true
	}
	last := s[len(s)-1]
	return last == '\t' || last == '\n'
}
