package analysis

import (
	"fmt"

	"github.com/user/susi_analyzer_go/internal/parser"
)

// ExtractMetrics turns a performance table into named forward/reverse series.
// Row order is fixed: Jsc, Voc, Fill Factor, Efficiency. Even columns are
// forward sweeps, odd columns reverse sweeps; a single-column table is a
// single-pixel measurement whose values serve as both directions.
func ExtractMetrics(perf *parser.Table) (*MetricSet, error) {
	if perf.NumRows() < parser.NumMetricRows {
		return nil, fmt.Errorf("performance table has %d rows, expected at least %d", perf.NumRows(), parser.NumMetricRows)
	}
	cols := perf.NumCols()
	if cols == 0 {
		return nil, fmt.Errorf("performance table has no columns")
	}
	if cols > 1 && cols%2 != 0 {
		return nil, fmt.Errorf("performance table has odd column count %d", cols)
	}

	ms := &MetricSet{
		Jsc:        splitDirections(perf.Row(parser.RowJsc)),
		Voc:        splitDirections(perf.Row(parser.RowVoc)),
		FillFactor: splitDirections(perf.Row(parser.RowFillFactor)),
		Efficiency: splitDirections(perf.Row(parser.RowEfficiency)),
	}
	ms.NumPixels = len(ms.Jsc.Forward)
	return ms, nil
}

// splitDirections partitions an interleaved row into forward (even index) and
// reverse (odd index) slices. A length-1 row duplicates into both.
func splitDirections(values []float64) MetricSeries {
	if len(values) == 1 {
		return MetricSeries{
			Forward: []float64{values[0]},
			Reverse: []float64{values[0]},
		}
	}
	s := MetricSeries{
		Forward: make([]float64, 0, len(values)/2),
		Reverse: make([]float64, 0, len(values)/2),
	}
	for i, v := range values {
		if i%2 == 0 {
			s.Forward = append(s.Forward, v)
		} else {
			s.Reverse = append(s.Reverse, v)
		}
	}
	return s
}

// ExtractIVCurves builds per-pixel sweep curves from an I-V table. With a
// single current column, one unpaired trace is returned; otherwise currents
// pair up as forward/reverse per pixel.
func ExtractIVCurves(iv *parser.Table) []IVCurve {
	if iv == nil || iv.NumCols() < 2 {
		return nil
	}
	voltage := iv.Column(0)
	currents := iv.NumCols() - 1
	if currents == 1 {
		return []IVCurve{{
			Label:   "Pixel 1",
			Voltage: voltage,
			Forward: iv.Column(1),
		}}
	}
	var curves []IVCurve
	for p := 0; p*2+2 <= currents; p++ {
		curves = append(curves, IVCurve{
			Label:   fmt.Sprintf("Pixel %d", p+1),
			Voltage: voltage,
			Forward: iv.Column(1 + p*2),
			Reverse: iv.Column(2 + p*2),
		})
	}
	return curves
}
