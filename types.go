package ocrtable

// Rect represents an axis-aligned bounding box in canvas coordinates
// (origin top-left, y grows downwards).
type Rect struct {
	X0 float64 `json:"left"`
	Y0 float64 `json:"top"`
	X1 float64 `json:"right"`
	Y1 float64 `json:"bottom"`
}

// NewRect creates a rectangle from its left/top corner and size.
func NewRect(left, top, width, height float64) Rect {
	return Rect{
		X0: left,
		Y0: top,
		X1: left + width,
		Y1: top + height,
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 {
	return (r.X0 + r.X1) / 2
}

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 {
	return (r.Y0 + r.Y1) / 2
}

// IsEmpty reports whether the rectangle has no positive area.
func (r Rect) IsEmpty() bool {
	return !(r.Width() > 0 && r.Height() > 0)
}

// WordBox is one recognized text fragment and its bounding rectangle.
//
// RowID and ColumnID are zero until AssignGrid runs and are only meaningful
// after a full analysis pass. A WordBox slice must not be shared between
// concurrent analyses: AssignGrid writes to it in place.
type WordBox struct {
	Text     string `json:"text"`
	Box      Rect   `json:"box"`
	RowID    int    `json:"row"`
	ColumnID int    `json:"column"`
}

// RowBand is a horizontal band of word boxes judged to share a table row.
type RowBand struct {
	ID     int     `json:"id"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Height returns the height of the band.
func (b RowBand) Height() float64 {
	return b.Bottom - b.Top
}

// Center returns the vertical center of the band.
func (b RowBand) Center() float64 {
	return (b.Top + b.Bottom) / 2
}

// ColumnBand is a vertical band of word boxes judged to share a table column.
type ColumnBand struct {
	ID    int     `json:"id"`
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

// Width returns the width of the band.
func (b ColumnBand) Width() float64 {
	return b.Right - b.Left
}

// Center returns the horizontal center of the band.
func (b ColumnBand) Center() float64 {
	return (b.Left + b.Right) / 2
}

// Table is the result of one analysis pass: the inferred bands and the word
// boxes with their row and column assignments.
type Table struct {
	Rows    []RowBand    `json:"rows"`
	Columns []ColumnBand `json:"columns"`
	Words   []WordBox    `json:"words"`
	Canvas  Rect         `json:"canvas"` // Bound of the captured region, used for visualization only

	settings ComposeSettings
	margin   float64
}

// NumRows returns the number of inferred rows.
func (t Table) NumRows() int {
	return len(t.Rows)
}

// NumCols returns the number of inferred columns.
func (t Table) NumCols() int {
	return len(t.Columns)
}

// Text composes the delimited text for the table.
func (t Table) Text() string {
	return ComposeText(t.Words, t.settings)
}
