package ocrtable

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Bounds returns the region covered by the inferred grid, expanded by the
// configured margin and clipped to the canvas when one was given. ok is false
// when no grid was inferred.
func (t Table) Bounds() (region Rect, ok bool) {
	if len(t.Rows) == 0 || len(t.Columns) == 0 {
		return Rect{}, false
	}

	region = Rect{
		X0: t.Columns[0].Left - t.margin,
		Y0: t.Rows[0].Top - t.margin,
		X1: t.Columns[len(t.Columns)-1].Right + t.margin,
		Y1: t.Rows[len(t.Rows)-1].Bottom + t.margin,
	}

	if !t.Canvas.IsEmpty() {
		region.X0 = clamp(region.X0, t.Canvas.X0, t.Canvas.X1)
		region.X1 = clamp(region.X1, t.Canvas.X0, t.Canvas.X1)
		region.Y0 = clamp(region.Y0, t.Canvas.Y0, t.Canvas.Y1)
		region.Y1 = clamp(region.Y1, t.Canvas.Y0, t.Canvas.Y1)
	}
	return region, true
}

// RowSeparators returns the y positions of the lines drawn between rows,
// midway across the gap between consecutive bands.
func (t Table) RowSeparators() []float64 {
	seps := make([]float64, 0, max(len(t.Rows)-1, 0))
	for i := 1; i < len(t.Rows); i++ {
		seps = append(seps, (t.Rows[i-1].Bottom+t.Rows[i].Top)/2)
	}
	return seps
}

// ColumnSeparators returns the x positions of the lines drawn between columns.
func (t Table) ColumnSeparators() []float64 {
	seps := make([]float64, 0, max(len(t.Columns)-1, 0))
	for i := 1; i < len(t.Columns); i++ {
		seps = append(seps, (t.Columns[i-1].Right+t.Columns[i].Left)/2)
	}
	return seps
}

// DrawGrid draws the outline of the grid and the separators between its rows
// and columns onto dst. Coordinates are taken as pixels of dst.
func (t Table) DrawGrid(dst draw.Image, c color.Color) {
	region, ok := t.Bounds()
	if !ok {
		return
	}

	src := image.NewUniform(c)
	x0, y0 := int(math.Floor(region.X0)), int(math.Floor(region.Y0))
	x1, y1 := int(math.Ceil(region.X1)), int(math.Ceil(region.Y1))

	hline := func(y int) {
		draw.Draw(dst, image.Rect(x0, y, x1, y+1), src, image.Point{}, draw.Over)
	}
	vline := func(x int) {
		draw.Draw(dst, image.Rect(x, y0, x+1, y1), src, image.Point{}, draw.Over)
	}

	hline(y0)
	hline(y1 - 1)
	vline(x0)
	vline(x1 - 1)
	for _, y := range t.RowSeparators() {
		hline(int(math.Round(y)))
	}
	for _, x := range t.ColumnSeparators() {
		vline(int(math.Round(x)))
	}
}

// RenderOverlay returns a copy of src with the grid drawn on top.
func (t Table) RenderOverlay(src image.Image, c color.Color) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	t.DrawGrid(dst, c)
	return dst
}
