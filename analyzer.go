package ocrtable

import (
	"time"

	"go.uber.org/zap"
)

// AnalysisMetrics contains timing and counts for one reconstruction.
type AnalysisMetrics struct {
	TotalTime        time.Duration
	RowClustering    time.Duration
	ColumnClustering time.Duration
	GridAssignment   time.Duration
	Composition      time.Duration
	Words            int
	Rows             int
	Columns          int
}

// Analyzer reconstructs the row/column structure of a table from recognized
// text fragments. It holds no mutable state, so one Analyzer may serve
// concurrent calls as long as each call gets its own word box slice.
type Analyzer struct {
	config Config
	logger *zap.Logger
}

// NewAnalyzer creates a new analyzer with default configuration.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(DefaultConfig())
}

// NewAnalyzerWithConfig creates a new analyzer with custom configuration.
func NewAnalyzerWithConfig(config Config) *Analyzer {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		config: config,
		logger: logger,
	}
}

// Config returns the analyzer configuration.
func (a *Analyzer) Config() Config {
	return a.config
}

// Analyze infers row and column bands for words and assigns every word box
// to a cell. words is modified in place and is referenced by the returned
// Table. canvas bounds the captured region and is only used for
// visualization.
func (a *Analyzer) Analyze(words []WordBox, canvas Rect) Table {
	var metrics AnalysisMetrics
	return a.analyze(words, canvas, &metrics)
}

// Compose renders already assigned word boxes as delimited text.
func (a *Analyzer) Compose(words []WordBox) string {
	return ComposeText(words, a.config.Compose)
}

// Reconstruct runs the full pipeline: clustering, assignment and composition.
func (a *Analyzer) Reconstruct(words []WordBox, canvas Rect) (Table, string) {
	table, text, _ := a.ReconstructWithMetrics(words, canvas)
	return table, text
}

// ReconstructWithMetrics runs the full pipeline and returns per-phase timing.
func (a *Analyzer) ReconstructWithMetrics(words []WordBox, canvas Rect) (Table, string, AnalysisMetrics) {
	startTime := time.Now()

	var metrics AnalysisMetrics
	table := a.analyze(words, canvas, &metrics)

	composeStart := time.Now()
	text := table.Text()
	metrics.Composition = time.Since(composeStart)
	metrics.TotalTime = time.Since(startTime)

	if a.config.EnableMetricsLogging {
		logAnalysisMetrics(a.logger, metrics)
	}

	return table, text, metrics
}

func (a *Analyzer) analyze(words []WordBox, canvas Rect, metrics *AnalysisMetrics) Table {
	settings := a.config.Clustering

	start := time.Now()
	rows := ClusterRows(words, settings)
	metrics.RowClustering = time.Since(start)

	start = time.Now()
	columns := ClusterColumns(words, settings)
	metrics.ColumnClustering = time.Since(start)

	start = time.Now()
	AssignGrid(rows, columns, words)
	metrics.GridAssignment = time.Since(start)

	metrics.Words = len(words)
	metrics.Rows = len(rows)
	metrics.Columns = len(columns)

	a.logger.Debug("table grid inferred",
		zap.Int("words", len(words)),
		zap.Int("rows", len(rows)),
		zap.Int("columns", len(columns)),
	)

	return Table{
		Rows:     rows,
		Columns:  columns,
		Words:    words,
		Canvas:   canvas,
		settings: a.config.Compose,
		margin:   a.config.RegionMargin,
	}
}

// logAnalysisMetrics logs the analysis metrics as a single structured record
func logAnalysisMetrics(logger *zap.Logger, metrics AnalysisMetrics) {
	logger.Info("table reconstructed",
		zap.Int("words", metrics.Words),
		zap.Int("rows", metrics.Rows),
		zap.Int("columns", metrics.Columns),
		zap.Duration("total", metrics.TotalTime),
		zap.Duration("rows_time", metrics.RowClustering),
		zap.Duration("columns_time", metrics.ColumnClustering),
		zap.Duration("assign_time", metrics.GridAssignment),
		zap.Duration("compose_time", metrics.Composition),
	)
}
