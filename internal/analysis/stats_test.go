package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, Median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, Median([]float64{1, 2, 3, 4}))
	assert.Equal(t, 2.0, Median([]float64{math.NaN(), 1, 3, math.NaN()}))
	assert.True(t, math.IsNaN(Median(nil)))
	assert.True(t, math.IsNaN(Median([]float64{math.NaN()})))
}

func TestValidValues(t *testing.T) {
	out := ValidValues([]float64{1, math.NaN(), 2})
	assert.Equal(t, []float64{1, 2}, out)
	assert.Empty(t, ValidValues([]float64{math.NaN()}))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{4, math.NaN(), 1, 3, 2})
	assert.Equal(t, 4, s.Valid)
	assert.Equal(t, 2.5, s.Median)
	assert.Equal(t, 2.5, s.Mean)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Valid)
	assert.True(t, math.IsNaN(empty.Median))
	assert.True(t, math.IsNaN(empty.Mean))
}
