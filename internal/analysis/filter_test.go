package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/susi_analyzer_go/internal/parser"
)

func TestFilterRangeApply(t *testing.T) {
	r := FilterRange{Low: 0, High: 100}
	out := r.Apply([]float64{150, 55, -3, 0, 100})

	assert.Len(t, out, 5)
	assert.True(t, math.IsNaN(out[0]))
	assert.Equal(t, 55.0, out[1])
	assert.True(t, math.IsNaN(out[2]))
	// Bounds are inclusive.
	assert.Equal(t, 0.0, out[3])
	assert.Equal(t, 100.0, out[4])
}

func TestFilterRangeIdempotent(t *testing.T) {
	r := FilterRange{Low: -5, High: 5}
	in := []float64{-10, -5, 0, 5, 10, math.NaN()}
	once := r.Apply(in)
	twice := r.Apply(once)
	for i := range once {
		if math.IsNaN(once[i]) {
			assert.True(t, math.IsNaN(twice[i]))
		} else {
			assert.Equal(t, once[i], twice[i])
		}
	}
}

func TestUnboundedKeepsEverything(t *testing.T) {
	out := Unbounded().Apply([]float64{-1e300, 0, 1e300})
	assert.Equal(t, []float64{-1e300, 0, 1e300}, out)
}

func TestParseFilterRange(t *testing.T) {
	tests := []struct {
		in      string
		want    FilterRange
		wantErr bool
	}{
		{in: "0,100", want: FilterRange{Low: 0, High: 100}},
		{in: " -2.5 , 3.5 ", want: FilterRange{Low: -2.5, High: 3.5}},
		{in: "-inf,inf", want: Unbounded()},
		{in: "5", wantErr: true},
		{in: "a,b", wantErr: true},
		{in: "10,1", wantErr: true},
		{in: "1,2,3", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseFilterRange(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDefaultFilters(t *testing.T) {
	fs := DefaultFilters()
	assert.Equal(t, FilterRange{Low: 0, High: 100}, fs[MetricEfficiency])
	assert.Equal(t, FilterRange{Low: 0, High: 100}, fs[MetricFillFactor])
	assert.Equal(t, Unbounded(), fs[MetricJsc])
	assert.Equal(t, Unbounded(), fs[MetricVoltage])
}

func TestApplyMetricsPreservesShape(t *testing.T) {
	fs := FilterSet{MetricEfficiency: {Low: 0, High: 100}}
	ms := &MetricSet{
		Efficiency: MetricSeries{Forward: []float64{150, 18}, Reverse: []float64{17, -2}},
		Jsc:        MetricSeries{Forward: []float64{21}, Reverse: []float64{20}},
		NumPixels:  2,
	}
	out := fs.ApplyMetrics(ms)

	assert.Len(t, out.Efficiency.Forward, 2)
	assert.True(t, math.IsNaN(out.Efficiency.Forward[0]))
	assert.Equal(t, 18.0, out.Efficiency.Forward[1])
	assert.True(t, math.IsNaN(out.Efficiency.Reverse[1]))
	// Unconfigured metrics pass through unbounded.
	assert.Equal(t, 21.0, out.Jsc.Forward[0])
	assert.Equal(t, 2, out.NumPixels)

	// Input is left untouched.
	assert.Equal(t, 150.0, ms.Efficiency.Forward[0])
}

func TestWindowIV(t *testing.T) {
	iv := &parser.Table{
		Columns: []string{"Voltage", "J1", "J2"},
		Rows: [][]float64{
			{-0.5, 1, 2},
			{0.0, 3, 4},
			{0.5, 5, 6},
			{1.5, 7, 8},
		},
	}
	fs := FilterSet{MetricVoltage: {Low: 0, High: 1}}
	out := fs.WindowIV(iv)

	require.NotNil(t, out)
	assert.Equal(t, 2, out.NumRows())
	assert.Equal(t, 0.0, out.Rows[0][0])
	assert.Equal(t, 0.5, out.Rows[1][0])

	assert.Nil(t, fs.WindowIV(nil))
}

func TestWithSpecs(t *testing.T) {
	base := DefaultFilters()
	base[MetricEfficiency] = FilterRange{Low: 5, High: 25}

	fs, err := base.WithSpecs(map[string]string{"Voltage": "-0.2,1.2"})
	require.NoError(t, err)
	assert.Equal(t, FilterRange{Low: -0.2, High: 1.2}, fs[MetricVoltage])
	// Metrics not named keep the ranges they already had.
	assert.Equal(t, FilterRange{Low: 5, High: 25}, fs[MetricEfficiency])
	assert.Equal(t, FilterRange{Low: 0, High: 100}, fs[MetricFillFactor])
	// The receiver is left untouched.
	assert.Equal(t, Unbounded(), base[MetricVoltage])

	_, err = base.WithSpecs(map[string]string{"Bogus": "0,1"})
	assert.Error(t, err)

	_, err = base.WithSpecs(map[string]string{"Jsc": "nope"})
	assert.Error(t, err)
}
