package ocrtable

import "math"

// ClusterRows groups word boxes into horizontal bands by the proximity of
// their vertical centers.
//
// The center threshold adapts to the median word height. OCR line detection
// often splits one visual row into a real row plus a single stray fragment a
// few pixels off; two repair passes fold such single-member bands into their
// nearest neighbor when it lies within the merge threshold.
//
// The returned bands are ordered by Top and numbered from zero.
func ClusterRows(words []WordBox, settings ClusterSettings) []RowBand {
	if len(words) == 0 {
		return []RowBand{}
	}

	heights := make([]float64, len(words))
	for i, w := range words {
		heights[i] = w.Box.Height()
	}
	medianHeight := medianOfPositive(heights, settings.DefaultMedianHeight)
	threshold := settings.RowThreshold(medianHeight)
	mergeThreshold := settings.RowMergeThreshold(threshold, medianHeight)

	spans := buildSpans(words, verticalAxis, threshold)
	spans = mergeRowFragmentsForward(spans, mergeThreshold)
	spans = mergeRowFragmentsBackward(spans, mergeThreshold)
	sortSpans(spans)

	rows := make([]RowBand, len(spans))
	for i, s := range spans {
		rows[i] = RowBand{ID: i, Top: s.lo, Bottom: s.hi}
	}
	return rows
}

// mergeRowFragmentsForward folds single-member spans into the following span
// until no merge applies.
func mergeRowFragmentsForward(spans []span, mergeThreshold float64) []span {
	for merged := true; merged; {
		merged = false
		for i := 0; i < len(spans)-1; {
			if len(spans[i].members) == 1 &&
				math.Abs(spans[i+1].center()-spans[i].center()) <= mergeThreshold {
				mergeInto(&spans[i+1], spans[i], true)
				spans = append(spans[:i], spans[i+1:]...)
				merged = true
				continue
			}
			i++
		}
	}
	return spans
}

// mergeRowFragmentsBackward folds single-member spans into the preceding
// span until no merge applies.
func mergeRowFragmentsBackward(spans []span, mergeThreshold float64) []span {
	for merged := true; merged; {
		merged = false
		for i := len(spans) - 1; i > 0; i-- {
			if len(spans[i].members) == 1 &&
				math.Abs(spans[i].center()-spans[i-1].center()) <= mergeThreshold {
				mergeInto(&spans[i-1], spans[i], false)
				spans = append(spans[:i], spans[i+1:]...)
				merged = true
			}
		}
	}
	return spans
}
