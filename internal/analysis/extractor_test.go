package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/susi_analyzer_go/internal/parser"
)

func perfTable(rows ...[]float64) *parser.Table {
	cols := make([]string, len(rows[0]))
	for i := range cols {
		cols[i] = "c"
	}
	return &parser.Table{Columns: cols, Rows: rows}
}

func TestExtractMetrics(t *testing.T) {
	perf := perfTable(
		[]float64{21.5, 21.1, 20.9, 20.7}, // Jsc
		[]float64{1.08, 1.07, 1.06, 1.05}, // Voc
		[]float64{74.2, 73.1, 72.8, 71.9}, // FF
		[]float64{17.2, 16.6, 16.1, 15.7}, // Eff
	)
	ms, err := ExtractMetrics(perf)
	require.NoError(t, err)

	assert.Equal(t, 2, ms.NumPixels)
	assert.Equal(t, []float64{21.5, 20.9}, ms.Jsc.Forward)
	assert.Equal(t, []float64{21.1, 20.7}, ms.Jsc.Reverse)
	assert.Equal(t, []float64{1.08, 1.06}, ms.Voc.Forward)
	assert.Equal(t, []float64{74.2, 72.8}, ms.FillFactor.Forward)
	assert.Equal(t, []float64{16.6, 15.7}, ms.Efficiency.Reverse)

	// Even/odd slicing partitions the row.
	assert.Equal(t, 4, len(ms.Jsc.Forward)+len(ms.Jsc.Reverse))
}

func TestExtractMetricsSingleColumnDuplicates(t *testing.T) {
	perf := perfTable(
		[]float64{5},
		[]float64{0.6},
		[]float64{70},
		[]float64{18},
	)
	ms, err := ExtractMetrics(perf)
	require.NoError(t, err)

	assert.Equal(t, 1, ms.NumPixels)
	assert.Equal(t, ms.Jsc.Forward, ms.Jsc.Reverse)
	assert.Equal(t, []float64{5}, ms.Jsc.Forward)
	assert.Equal(t, []float64{0.6}, ms.Voc.Reverse)
	assert.Equal(t, []float64{70}, ms.FillFactor.Forward)
	assert.Equal(t, []float64{18}, ms.Efficiency.Reverse)
}

func TestExtractMetricsShapeErrors(t *testing.T) {
	_, err := ExtractMetrics(perfTable(
		[]float64{1, 2},
		[]float64{1, 2},
	))
	require.Error(t, err)

	_, err = ExtractMetrics(perfTable(
		[]float64{1, 2, 3},
		[]float64{1, 2, 3},
		[]float64{1, 2, 3},
		[]float64{1, 2, 3},
	))
	require.Error(t, err)
}

func TestMetricSetSeries(t *testing.T) {
	ms := &MetricSet{Jsc: MetricSeries{Forward: []float64{1}}}
	assert.Equal(t, []float64{1}, ms.Series(MetricJsc).Forward)
	assert.Nil(t, ms.Series(Metric("bogus")).Forward)
}

func TestExtractIVCurves(t *testing.T) {
	iv := &parser.Table{
		Columns: []string{"Voltage", "P1F", "P1R", "P2F", "P2R"},
		Rows: [][]float64{
			{-0.2, 5.2, 5.1, 5.0, 4.9},
			{0.0, -21.5, -21.4, -20.9, -20.8},
		},
	}
	curves := ExtractIVCurves(iv)
	require.Len(t, curves, 2)
	assert.Equal(t, "Pixel 1", curves[0].Label)
	assert.Equal(t, []float64{-0.2, 0.0}, curves[0].Voltage)
	assert.Equal(t, []float64{5.2, -21.5}, curves[0].Forward)
	assert.Equal(t, []float64{5.1, -21.4}, curves[0].Reverse)
	assert.Equal(t, []float64{4.9, -20.8}, curves[1].Reverse)
}

func TestExtractIVCurvesSingleTrace(t *testing.T) {
	iv := &parser.Table{
		Columns: []string{"Voltage", "J"},
		Rows:    [][]float64{{0, -21}, {0.5, -19}},
	}
	curves := ExtractIVCurves(iv)
	require.Len(t, curves, 1)
	assert.Nil(t, curves[0].Reverse)
	assert.Equal(t, []float64{-21, -19}, curves[0].Forward)
}

func TestExtractIVCurvesNil(t *testing.T) {
	assert.Nil(t, ExtractIVCurves(nil))
}
