package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/susi_analyzer_go/internal/parser"
)

func measurement(name string, perfCols int) *parser.MeasurementFile {
	cols := make([]string, perfCols)
	rows := make([][]float64, parser.NumMetricRows)
	for r := range rows {
		rows[r] = make([]float64, perfCols)
		for c := range rows[r] {
			rows[r][c] = float64(r*10 + c)
		}
	}
	return &parser.MeasurementFile{
		Name:        name,
		Performance: &parser.Table{Columns: cols, Rows: rows},
	}
}

func TestBuildGroupsExplicitOrder(t *testing.T) {
	// Order fields reverse the discovery order.
	groups, err := BuildGroups(3, []GroupAssignment{
		{Label: "c", Order: 3},
		{Label: "b", Order: 2},
		{Label: "a", Order: 1},
	})
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "a", groups[0].Label)
	assert.Equal(t, []int{2}, groups[0].Indices)
	assert.Equal(t, "c", groups[2].Label)
}

func TestBuildGroupsMergesByLabel(t *testing.T) {
	groups, err := BuildGroups(3, []GroupAssignment{
		{Label: "dev1", Order: 2},
		{Label: "dev1", Order: 1},
		{Label: "dev2", Order: 3},
	})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "dev1", groups[0].Label)
	// Member order follows the explicit ordering, not discovery order.
	assert.Equal(t, []int{1, 0}, groups[0].Indices)
}

func TestBuildGroupsValidation(t *testing.T) {
	_, err := BuildGroups(0, nil)
	assert.Error(t, err)

	_, err = BuildGroups(2, []GroupAssignment{{Label: "a", Order: 1}})
	assert.Error(t, err)

	_, err = BuildGroups(1, []GroupAssignment{{Label: "", Order: 1}})
	assert.Error(t, err)
}

func TestCombineGroupsConcatenatesColumns(t *testing.T) {
	files := []*parser.MeasurementFile{
		measurement("f1", 2),
		measurement("f2", 4),
	}
	groups := []Group{{Label: "dev", Indices: []int{0, 1}}}
	combined, err := CombineGroups(files, groups)
	require.NoError(t, err)
	require.Len(t, combined, 1)

	got := combined[0]
	assert.Equal(t, "dev", got.Name)
	assert.Equal(t, 6, got.Performance.NumCols())
	assert.Equal(t, parser.NumMetricRows, got.Performance.NumRows())
	// f1's columns first, then f2's.
	assert.Equal(t, files[0].Performance.Rows[0][0], got.Performance.Rows[0][0])
	assert.Equal(t, files[1].Performance.Rows[0][0], got.Performance.Rows[0][2])
}

func TestCombineGroupsSingleMemberKeepsData(t *testing.T) {
	files := []*parser.MeasurementFile{measurement("orig", 2)}
	combined, err := CombineGroups(files, []Group{{Label: "renamed", Indices: []int{0}}})
	require.NoError(t, err)
	assert.Equal(t, "renamed", combined[0].Name)
	assert.Equal(t, 2, combined[0].Performance.NumCols())
}

func TestCombineGroupsIV(t *testing.T) {
	f1 := measurement("f1", 2)
	f1.IV = &parser.Table{
		Columns: []string{"Voltage", "a", "b"},
		Rows:    [][]float64{{0, 1, 2}, {0.5, 3, 4}},
	}
	f2 := measurement("f2", 2)
	f2.IV = &parser.Table{
		Columns: []string{"Voltage", "c", "d"},
		Rows:    [][]float64{{0, 5, 6}, {0.5, 7, 8}, {1.0, 9, 10}},
	}
	combined, err := CombineGroups([]*parser.MeasurementFile{f1, f2}, []Group{{Label: "g", Indices: []int{0, 1}}})
	require.NoError(t, err)

	iv := combined[0].IV
	require.NotNil(t, iv)
	// Voltage column plus both members' current columns.
	assert.Equal(t, 5, iv.NumCols())
	// Row count follows the longest member; the shorter pads with NaN.
	assert.Equal(t, 3, iv.NumRows())
	assert.True(t, math.IsNaN(iv.Rows[2][1]))
	assert.Equal(t, 9.0, iv.Rows[2][3])
	// Voltage axis comes from the first member; its third row is padding.
	assert.True(t, math.IsNaN(iv.Rows[2][0]))
}

func TestCombineGroupsDuplicatesSingleIVColumn(t *testing.T) {
	f1 := measurement("f1", 2)
	f1.IV = &parser.Table{
		Columns: []string{"Voltage", "only"},
		Rows:    [][]float64{{0, 1}, {0.5, 2}},
	}
	f2 := measurement("f2", 2) // no IV
	combined, err := CombineGroups([]*parser.MeasurementFile{f1, f2}, []Group{{Label: "g", Indices: []int{0, 1}}})
	require.NoError(t, err)

	iv := combined[0].IV
	require.NotNil(t, iv)
	assert.Equal(t, 3, iv.NumCols())
	assert.Equal(t, iv.Rows[0][1], iv.Rows[0][2])
}

func TestCombineGroupsBadIndex(t *testing.T) {
	files := []*parser.MeasurementFile{measurement("f1", 2)}
	_, err := CombineGroups(files, []Group{{Label: "g", Indices: []int{5}}})
	assert.Error(t, err)
}
