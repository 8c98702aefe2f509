package ocrtable

import (
	"math"
	"sort"
)

// calculateMedian calculates the median value of a float64 slice
func calculateMedian(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// medianOfPositive returns the median of the finite, positive samples, or
// fallback when there are none.
func medianOfPositive(values []float64, fallback float64) float64 {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if isPositiveFinite(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return fallback
	}
	return calculateMedian(valid)
}

func isPositiveFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// average returns the arithmetic mean of values
func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// clamp restricts value to the range [minVal, maxVal]
func clamp(value, minVal, maxVal float64) float64 {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
