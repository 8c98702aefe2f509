package ocrtable

import (
	"math"
	"sort"
)

// span is a one-dimensional cluster of word boxes along a single axis.
type span struct {
	lo, hi  float64
	members []int // indices into the word box slice
}

func newSpan(lo, hi float64, idx int) span {
	return span{lo: lo, hi: hi, members: []int{idx}}
}

func (s span) center() float64 {
	return (s.lo + s.hi) / 2
}

func (s span) size() float64 {
	return s.hi - s.lo
}

// absorb grows the span to cover [lo, hi] and records the member.
// Comparisons are written so a NaN coordinate never widens the span.
func (s *span) absorb(lo, hi float64, idx int) {
	if lo < s.lo {
		s.lo = lo
	}
	if hi > s.hi {
		s.hi = hi
	}
	s.members = append(s.members, idx)
}

// mergeInto folds src into dst. When prepend is set the members of src are
// placed before those of dst.
func mergeInto(dst *span, src span, prepend bool) {
	if src.lo < dst.lo {
		dst.lo = src.lo
	}
	if src.hi > dst.hi {
		dst.hi = src.hi
	}
	if prepend {
		dst.members = append(append(make([]int, 0, len(src.members)+len(dst.members)), src.members...), dst.members...)
	} else {
		dst.members = append(dst.members, src.members...)
	}
}

// axis extracts the interval a word box covers along one axis.
type axis struct {
	lo, hi func(Rect) float64
	// tie orders boxes with equal centers.
	tie func(Rect) float64
}

var (
	verticalAxis = axis{
		lo:  func(r Rect) float64 { return r.Y0 },
		hi:  func(r Rect) float64 { return r.Y1 },
		tie: func(r Rect) float64 { return r.X0 },
	}
	horizontalAxis = axis{
		lo:  func(r Rect) float64 { return r.X0 },
		hi:  func(r Rect) float64 { return r.X1 },
		tie: func(r Rect) float64 { return r.Y0 },
	}
)

// buildSpans walks the word boxes in center order and groups those whose
// center lies within threshold of the running span's center.
func buildSpans(words []WordBox, ax axis, threshold float64) []span {
	if len(words) == 0 {
		return nil
	}

	order := make([]int, len(words))
	for i := range order {
		order[i] = i
	}
	center := func(i int) float64 {
		return (ax.lo(words[i].Box) + ax.hi(words[i].Box)) / 2
	}
	sort.SliceStable(order, func(a, b int) bool {
		ca, cb := center(order[a]), center(order[b])
		if ca != cb {
			return ca < cb
		}
		return ax.tie(words[order[a]].Box) < ax.tie(words[order[b]].Box)
	})

	var spans []span
	for _, idx := range order {
		lo, hi := ax.lo(words[idx].Box), ax.hi(words[idx].Box)
		c := (lo + hi) / 2
		if len(spans) > 0 {
			last := &spans[len(spans)-1]
			if math.Abs(c-last.center()) <= threshold {
				last.absorb(lo, hi, idx)
				continue
			}
		}
		spans = append(spans, newSpan(lo, hi, idx))
	}
	return spans
}

// sortSpans orders spans by their leading edge.
func sortSpans(spans []span) {
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].lo < spans[j].lo
	})
}
