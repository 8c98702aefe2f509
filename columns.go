package ocrtable

// ClusterColumns groups word boxes into vertical bands by the proximity of
// their horizontal centers. It mirrors ClusterRows on the other axis with a
// wider threshold and a single left-to-right repair pass: a band is folded
// into its right-hand neighbor when it is a lone narrow fragment (a stray
// footnote marker, say) or when the gap between the two is small enough to be
// OCR jitter.
//
// The returned bands are ordered by Left and numbered from zero.
func ClusterColumns(words []WordBox, settings ClusterSettings) []ColumnBand {
	if len(words) == 0 {
		return []ColumnBand{}
	}

	widths := make([]float64, len(words))
	for i, w := range words {
		widths[i] = w.Box.Width()
	}
	medianWidth := medianOfPositive(widths, settings.DefaultMedianWidth)
	threshold := settings.ColumnThreshold(medianWidth)

	spans := buildSpans(words, horizontalAxis, threshold)
	spans = mergeColumnFragments(spans, settings.NarrowColumnRatio, settings.ColumnMergeGap(threshold))
	sortSpans(spans)

	columns := make([]ColumnBand, len(spans))
	for i, s := range spans {
		columns[i] = ColumnBand{ID: i, Left: s.lo, Right: s.hi}
	}
	return columns
}

// mergeColumnFragments runs the single forward merge pass. The average band
// width is taken once, before any merge.
func mergeColumnFragments(spans []span, narrowRatio, mergeGap float64) []span {
	if len(spans) < 2 {
		return spans
	}

	sizes := make([]float64, len(spans))
	for i, s := range spans {
		sizes[i] = s.size()
	}
	narrowWidth := narrowRatio * average(sizes)

	shouldMerge := func(s span, gap float64) bool {
		if len(s.members) == 1 && s.size() < narrowWidth {
			return true
		}
		return gap < mergeGap
	}

	// The rightmost band only ever absorbs merges from its left.
	for i := 0; i < len(spans)-1; {
		if shouldMerge(spans[i], spans[i+1].lo-spans[i].hi) {
			mergeInto(&spans[i+1], spans[i], true)
			spans = append(spans[:i], spans[i+1:]...)
			continue
		}
		i++
	}
	return spans
}
