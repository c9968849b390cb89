package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/susi_analyzer_go/internal/parser"
)

func TestBuildPDFReport(t *testing.T) {
	files := []*parser.MeasurementFile{twoPixelFile("cell_a"), twoPixelFile("cell_b")}
	d := &Dashboard{Files: files, Title: "Comparison Plot"}
	png, err := d.Render()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, BuildPDFReport(path, files, nil, png))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestBuildPDFReportWithoutChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, BuildPDFReport(path, []*parser.MeasurementFile{twoPixelFile("cell_a")}, nil, nil))
	assert.FileExists(t, path)
}

func TestBuildPDFReportNoFiles(t *testing.T) {
	err := BuildPDFReport(filepath.Join(t.TempDir(), "x.pdf"), nil, nil, nil)
	assert.ErrorContains(t, err, "no data loaded")
}
