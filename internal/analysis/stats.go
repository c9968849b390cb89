package analysis

import (
	"math"
	"sort"
)

// SummaryStats describes the valid (non-NaN) values of one series.
type SummaryStats struct {
	Median float64
	Mean   float64
	Min    float64
	Max    float64
	Valid  int
}

// ValidValues strips NaN entries.
func ValidValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Median is NaN-aware; an all-NaN or empty input yields NaN.
func Median(values []float64) float64 {
	valid := ValidValues(values)
	if len(valid) == 0 {
		return math.NaN()
	}
	sort.Float64s(valid)
	mid := len(valid) / 2
	if len(valid)%2 == 1 {
		return valid[mid]
	}
	return (valid[mid-1] + valid[mid]) / 2
}

// Summarize computes NaN-aware summary statistics for report tables.
func Summarize(values []float64) SummaryStats {
	valid := ValidValues(values)
	s := SummaryStats{
		Median: math.NaN(),
		Mean:   math.NaN(),
		Min:    math.NaN(),
		Max:    math.NaN(),
		Valid:  len(valid),
	}
	if len(valid) == 0 {
		return s
	}
	sum := 0.0
	s.Min, s.Max = valid[0], valid[0]
	for _, v := range valid {
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean = sum / float64(len(valid))
	s.Median = Median(valid)
	return s
}
