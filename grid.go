package ocrtable

import "sort"

// AssignGrid writes the row and column index of the nearest band to every
// word box. rows and columns must be sorted ascending, as returned by
// ClusterRows and ClusterColumns. It is a no-op when either band list is empty.
//
// Each axis is resolved with a binary search for the last band starting at or
// before the box center. When the center falls outside that band (in the gap
// between two bands) the band itself and its immediate neighbors are compared
// by distance to their nearest boundary.
func AssignGrid(rows []RowBand, columns []ColumnBand, words []WordBox) {
	if len(rows) == 0 || len(columns) == 0 {
		return
	}

	rowTops := make([]float64, len(rows))
	rowBottoms := make([]float64, len(rows))
	for i, r := range rows {
		rowTops[i] = r.Top
		rowBottoms[i] = r.Bottom
	}

	colLefts := make([]float64, len(columns))
	colRights := make([]float64, len(columns))
	for i, c := range columns {
		colLefts[i] = c.Left
		colRights[i] = c.Right
	}

	for i := range words {
		box := words[i].Box
		words[i].RowID = nearestBand(rowTops, rowBottoms, box.CenterY())
		words[i].ColumnID = nearestBand(colLefts, colRights, box.CenterX())
	}
}

// nearestBand returns the index of the band [starts[i], ends[i]] closest to v.
func nearestBand(starts, ends []float64, v float64) int {
	n := len(starts)
	i := sort.Search(n, func(k int) bool { return starts[k] > v }) - 1
	if i < 0 {
		i = 0
	}
	if i > n-1 {
		i = n - 1
	}

	if starts[i] <= v && v <= ends[i] {
		return i
	}

	best := i
	bestDist := boundaryDistance(v, starts[i], ends[i])
	for _, j := range [2]int{i - 1, i + 1} {
		if j < 0 || j >= n {
			continue
		}
		d := boundaryDistance(v, starts[j], ends[j])
		if d < bestDist || (d == bestDist && j < best) {
			best, bestDist = j, d
		}
	}
	return best
}

// boundaryDistance is the distance from v to the closest edge of [lo, hi],
// or zero when v lies inside.
func boundaryDistance(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo - v
	case v > hi:
		return v - hi
	default:
		return 0
	}
}
