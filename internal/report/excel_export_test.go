package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/user/susi_analyzer_go/internal/analysis"
	"github.com/user/susi_analyzer_go/internal/parser"
)

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.xlsx")
	files := []*parser.MeasurementFile{twoPixelFile("cell_a"), twoPixelFile("cell_b")}
	require.NoError(t, ExportXLSX(path, files, nil))

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close()

	got, err := wb.GetCellValue("Metrics", "A1")
	require.NoError(t, err)
	assert.Equal(t, "File", got)
	got, _ = wb.GetCellValue("Metrics", "C1")
	assert.Equal(t, "Jsc Fwd", got)

	// Pixel 1 of the first file: forward Jsc is the first even column.
	got, _ = wb.GetCellValue("Metrics", "A2")
	assert.Equal(t, "cell_a", got)
	got, _ = wb.GetCellValue("Metrics", "B2")
	assert.Equal(t, "1", got)
	got, _ = wb.GetCellValue("Metrics", "C2")
	assert.Equal(t, "20.1", got)

	// 2 files x 2 pixels after the header row.
	rows, err := wb.GetRows("Metrics")
	require.NoError(t, err)
	assert.Len(t, rows, 5)

	got, _ = wb.GetCellValue("Summary", "B2")
	assert.Equal(t, "Jsc", got)
	got, _ = wb.GetCellValue("Summary", "H2")
	assert.Equal(t, "2", got)
}

func TestExportXLSXFilteredCellsStayEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filtered.xlsx")
	filters := analysis.DefaultFilters()
	filters[analysis.MetricEfficiency] = analysis.FilterRange{Low: 90, High: 100}
	require.NoError(t, ExportXLSX(path, []*parser.MeasurementFile{twoPixelFile("cell_a")}, filters))

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close()

	// Efficiency Fwd sits in the fourth metric pair: column I.
	got, err := wb.GetCellValue("Metrics", "I2")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestExportXLSXNoFiles(t *testing.T) {
	err := ExportXLSX(filepath.Join(t.TempDir(), "x.xlsx"), nil, nil)
	assert.ErrorContains(t, err, "no data loaded")
}
