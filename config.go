package ocrtable

import (
	"runtime"

	"go.uber.org/zap"
)

// ClusterSettings holds the adaptive thresholds used to build row and column
// bands. Every threshold is derived from the median glyph box size of the
// input; these values are the multipliers and floors applied to it.
type ClusterSettings struct {
	// DefaultMedianHeight is used when no word box has a valid height.
	DefaultMedianHeight float64
	// MinRowThreshold is the floor for the row center threshold.
	MinRowThreshold float64
	// RowThresholdRatio scales the median height into the row center threshold.
	RowThresholdRatio float64
	// RowMergeRatio scales the row center threshold into the fragment merge threshold.
	RowMergeRatio float64

	// DefaultMedianWidth is used when no word box has a valid width.
	DefaultMedianWidth float64
	// MinColumnThreshold is the floor for the column center threshold.
	MinColumnThreshold float64
	// ColumnThresholdRatio scales the median width into the column center threshold.
	ColumnThresholdRatio float64
	// NarrowColumnRatio is the fraction of the average band width below which
	// a single-member column is folded into its neighbor.
	NarrowColumnRatio float64
	// MinColumnGap is the floor for the gap below which neighboring columns merge.
	MinColumnGap float64
	// ColumnGapRatio scales the column center threshold into the merge gap.
	ColumnGapRatio float64
}

// DefaultClusterSettings returns the default clustering thresholds.
func DefaultClusterSettings() ClusterSettings {
	return ClusterSettings{
		DefaultMedianHeight: 20,
		MinRowThreshold:     4,
		RowThresholdRatio:   0.75,
		RowMergeRatio:       1.5,

		DefaultMedianWidth:   40,
		MinColumnThreshold:   24,
		ColumnThresholdRatio: 0.9,
		NarrowColumnRatio:    0.4,
		MinColumnGap:         6,
		ColumnGapRatio:       0.25,
	}
}

// RowThreshold returns the row center threshold for a median height.
func (s ClusterSettings) RowThreshold(medianHeight float64) float64 {
	return max(s.MinRowThreshold, medianHeight*s.RowThresholdRatio)
}

// RowMergeThreshold returns the distance under which a single-member row
// fragment is merged into a neighboring row.
func (s ClusterSettings) RowMergeThreshold(centerThreshold, medianHeight float64) float64 {
	return max(centerThreshold*s.RowMergeRatio, medianHeight)
}

// ColumnThreshold returns the column center threshold for a median width.
func (s ClusterSettings) ColumnThreshold(medianWidth float64) float64 {
	return max(s.MinColumnThreshold, medianWidth*s.ColumnThresholdRatio)
}

// ColumnMergeGap returns the gap under which neighboring columns are merged.
func (s ClusterSettings) ColumnMergeGap(centerThreshold float64) float64 {
	return max(s.MinColumnGap, centerThreshold*s.ColumnGapRatio)
}

// ComposeSettings controls how an assigned grid is turned back into text.
type ComposeSettings struct {
	// SpaceJoining reports whether the source script separates words with
	// spaces. When false, tokens sharing a cell are concatenated.
	SpaceJoining bool

	// LineSeparator is written between rows.
	LineSeparator string

	// AlignRows restarts the tab count at column 0 on every row, so each
	// line carries leading tabs for the columns it skips. By default the
	// count continues from the last column of the previous row (default: false)
	AlignRows bool

	// StackTolerance is the horizontal distance under which two tokens in the
	// same cell are ordered top-to-bottom instead of left-to-right.
	StackTolerance float64

	// GlueMinGap and GlueHeightRatio bound the horizontal gap under which a
	// stray "%" fragment is glued onto the preceding token.
	GlueMinGap      float64
	GlueHeightRatio float64
}

// DefaultComposeSettings returns the default composition settings.
func DefaultComposeSettings() ComposeSettings {
	return ComposeSettings{
		SpaceJoining:    true,
		LineSeparator:   platformLineSeparator(),
		StackTolerance:  12,
		GlueMinGap:      3,
		GlueHeightRatio: 0.25,
	}
}

// GlueGap returns the largest gap at which two tokens are treated as
// visually adjacent.
func (s ComposeSettings) GlueGap(heightA, heightB float64) float64 {
	return max(s.GlueMinGap, s.GlueHeightRatio*min(heightA, heightB))
}

func platformLineSeparator() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// Config controls table reconstruction behavior.
type Config struct {
	// Clustering configures row and column band detection.
	Clustering ClusterSettings

	// Compose configures text reconstruction.
	Compose ComposeSettings

	// DrawGrid is read by the ocrtable command only, which then renders the
	// grid with Table.RenderOverlay. Analysis ignores it and always produces
	// the geometry (see Table.Bounds).
	DrawGrid bool

	// RegionMargin expands the bounding region around the bands (default: 2)
	RegionMargin float64

	// EnableMetricsLogging logs timing and counts for every analysis (default: false)
	EnableMetricsLogging bool

	// Logger receives debug and metrics output. Nil disables logging.
	Logger *zap.Logger
}

// DefaultConfig returns the default analyzer configuration.
func DefaultConfig() Config {
	return Config{
		Clustering:   DefaultClusterSettings(),
		Compose:      DefaultComposeSettings(),
		RegionMargin: 2,
	}
}
