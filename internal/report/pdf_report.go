package report

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/user/susi_analyzer_go/internal/analysis"
	"github.com/user/susi_analyzer_go/internal/parser"
)

const (
	pdfMarginMM       = 12.7
	pdfPageWidthMM    = 279.4 // Letter landscape
	pdfContentWidthMM = pdfPageWidthMM - 2*pdfMarginMM
)

// BuildPDFReport writes a report with the measurement parameters, a summary
// table per file and metric, and the composed chart image.
func BuildPDFReport(path string, files []*parser.MeasurementFile, filters analysis.FilterSet, chartPNG []byte) error {
	if len(files) == 0 {
		return fmt.Errorf("no data loaded")
	}
	if filters == nil {
		filters = analysis.DefaultFilters()
	}

	pdf := gofpdf.New("L", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(pdfMarginMM, pdfMarginMM, pdfMarginMM)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(pdfContentWidthMM, 9, "SuSi Measurement Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(pdfContentWidthMM, 5, fmt.Sprintf("Generated %s - %d file(s)", time.Now().Format("2006-01-02 15:04"), len(files)), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	writeSummaryTable(pdf, files, filters)

	if len(chartPNG) > 0 {
		pdf.AddPage()
		opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader("charts", opt, bytes.NewReader(chartPNG))
		pdf.ImageOptions("charts", pdfMarginMM, pdfMarginMM+4, pdfContentWidthMM, 0, false, opt, 0, "")
	}

	// Parameter blocks go last; they can be long.
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(pdfContentWidthMM, 7, "Measurement Parameters", "", 1, "L", false, 0, "")
	pdf.SetFont("Courier", "", 7)
	for _, f := range files {
		pdf.SetFont("Courier", "B", 8)
		pdf.CellFormat(pdfContentWidthMM, 5, tr(f.Name), "", 1, "L", false, 0, "")
		pdf.SetFont("Courier", "", 7)
		pdf.MultiCell(pdfContentWidthMM, 3.2, tr(f.Params), "", "L", false)
		pdf.Ln(2)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF report: %w", err)
	}
	return nil
}

func writeSummaryTable(pdf *gofpdf.Fpdf, files []*parser.MeasurementFile, filters analysis.FilterSet) {
	colWidths := []float64{60, 30, 12, 28, 28, 28, 28, 14}
	headers := []string{"File", "Metric", "Dir", "Median", "Mean", "Min", "Max", "n"}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 6, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	fmtVal := func(v float64) string {
		if math.IsNaN(v) {
			return "-"
		}
		return fmt.Sprintf("%.3f", v)
	}

	pdf.SetFont("Arial", "", 8)
	for _, f := range files {
		ms, err := analysis.ExtractMetrics(f.Performance)
		if err != nil {
			pdf.CellFormat(pdfContentWidthMM, 5, fmt.Sprintf("%s: %v", f.Name, err), "1", 1, "L", false, 0, "")
			continue
		}
		ms = filters.ApplyMetrics(ms)
		for _, metric := range analysis.PerformanceMetrics {
			series := ms.Series(metric)
			for _, dir := range []struct {
				name   string
				values []float64
			}{{"Fwd", series.Forward}, {"Rev", series.Reverse}} {
				s := analysis.Summarize(dir.values)
				cells := []string{
					f.Name, string(metric), dir.name,
					fmtVal(s.Median), fmtVal(s.Mean), fmtVal(s.Min), fmtVal(s.Max),
					fmt.Sprintf("%d", s.Valid),
				}
				for i, c := range cells {
					align := "L"
					if i >= 3 {
						align = "R"
					}
					pdf.CellFormat(colWidths[i], 5, c, "1", 0, align, false, 0, "")
				}
				pdf.Ln(-1)
			}
		}
	}
}
