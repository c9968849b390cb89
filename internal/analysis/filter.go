package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/user/susi_analyzer_go/internal/parser"
)

// FilterRange is an inclusive bound pair. Values outside it become NaN;
// they are never dropped, so slice lengths are preserved.
type FilterRange struct {
	Low  float64
	High float64
}

// Unbounded accepts every value.
func Unbounded() FilterRange {
	return FilterRange{Low: math.Inf(-1), High: math.Inf(1)}
}

// ParseFilterRange parses a "low,high" string. "inf" and "-inf" are accepted.
func ParseFilterRange(s string) (FilterRange, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return FilterRange{}, fmt.Errorf("invalid range %q: expected \"low,high\"", s)
	}
	low, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return FilterRange{}, fmt.Errorf("invalid lower bound %q: %w", parts[0], err)
	}
	high, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return FilterRange{}, fmt.Errorf("invalid upper bound %q: %w", parts[1], err)
	}
	if low > high {
		return FilterRange{}, fmt.Errorf("invalid range %q: lower bound above upper", s)
	}
	return FilterRange{Low: low, High: high}, nil
}

func (r FilterRange) String() string {
	return fmt.Sprintf("%g,%g", r.Low, r.High)
}

// Contains reports whether v lies inside the bounds. NaN is never contained.
func (r FilterRange) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// Apply returns a copy of values with everything outside the bounds replaced
// by NaN. Applying the same range twice yields the same result as once.
func (r FilterRange) Apply(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) || !r.Contains(v) {
			out[i] = math.NaN()
		} else {
			out[i] = v
		}
	}
	return out
}

// FilterSet maps metric names to their ranges.
type FilterSet map[Metric]FilterRange

// DefaultFilters mirrors the tool's startup settings: Jsc, Voc and the
// voltage window unbounded, Efficiency and Fill Factor clamped to 0..100%.
func DefaultFilters() FilterSet {
	return FilterSet{
		MetricJsc:        Unbounded(),
		MetricVoc:        Unbounded(),
		MetricEfficiency: {Low: 0, High: 100},
		MetricFillFactor: {Low: 0, High: 100},
		MetricVoltage:    Unbounded(),
	}
}

// Range returns the configured range for m, or an unbounded one.
func (fs FilterSet) Range(m Metric) FilterRange {
	if r, ok := fs[m]; ok {
		return r
	}
	return Unbounded()
}

// ApplyMetrics filters every series of a MetricSet with its metric's range.
func (fs FilterSet) ApplyMetrics(ms *MetricSet) *MetricSet {
	filter := func(m Metric, s MetricSeries) MetricSeries {
		r := fs.Range(m)
		return MetricSeries{Forward: r.Apply(s.Forward), Reverse: r.Apply(s.Reverse)}
	}
	return &MetricSet{
		Jsc:        filter(MetricJsc, ms.Jsc),
		Voc:        filter(MetricVoc, ms.Voc),
		FillFactor: filter(MetricFillFactor, ms.FillFactor),
		Efficiency: filter(MetricEfficiency, ms.Efficiency),
		NumPixels:  ms.NumPixels,
	}
}

// WindowIV narrows an I-V table to the rows whose voltage lies inside the
// voltage range. This is the only filter that drops rows.
func (fs FilterSet) WindowIV(iv *parser.Table) *parser.Table {
	if iv == nil {
		return nil
	}
	r := fs.Range(MetricVoltage)
	out := &parser.Table{Columns: iv.Columns}
	for _, row := range iv.Rows {
		if r.Contains(row[0]) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// WithSpecs returns a copy of fs with the ranges named in specs replaced,
// parsed from "metric" -> "low,high" strings. Metrics not named keep their
// current ranges; unknown metric names are rejected.
func (fs FilterSet) WithSpecs(specs map[string]string) (FilterSet, error) {
	out := make(FilterSet, len(fs))
	for m, r := range fs {
		out[m] = r
	}
	for name, spec := range specs {
		m := Metric(name)
		if _, ok := out[m]; !ok {
			return nil, fmt.Errorf("unknown metric %q", name)
		}
		r, err := ParseFilterRange(spec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[m] = r
	}
	return out, nil
}
