package report

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/user/susi_analyzer_go/internal/analysis"
	"github.com/user/susi_analyzer_go/internal/parser"
)

const (
	metricsSheet = "Metrics"
	summarySheet = "Summary"
)

// ExportXLSX writes the filtered per-pixel metrics and their summary
// statistics to an Excel workbook. Filtered-out values stay as empty cells so
// the pixel layout is preserved.
func ExportXLSX(path string, files []*parser.MeasurementFile, filters analysis.FilterSet) error {
	if len(files) == 0 {
		return fmt.Errorf("no data loaded")
	}
	if filters == nil {
		filters = analysis.DefaultFilters()
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", metricsSheet)
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	header := []interface{}{"File", "Pixel"}
	for _, metric := range analysis.PerformanceMetrics {
		header = append(header, string(metric)+" Fwd", string(metric)+" Rev")
	}
	if err := f.SetSheetRow(metricsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write metrics header: %w", err)
	}

	setCell := func(row []interface{}, v float64) []interface{} {
		if math.IsNaN(v) {
			return append(row, "")
		}
		return append(row, v)
	}

	rowIdx := 2
	for _, file := range files {
		ms, err := analysis.ExtractMetrics(file.Performance)
		if err != nil {
			return fmt.Errorf("file %q: %w", file.Name, err)
		}
		ms = filters.ApplyMetrics(ms)
		for p := 0; p < ms.NumPixels; p++ {
			row := []interface{}{file.Name, p + 1}
			for _, metric := range analysis.PerformanceMetrics {
				series := ms.Series(metric)
				row = setCell(row, series.Forward[p])
				row = setCell(row, series.Reverse[p])
			}
			cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
			if err := f.SetSheetRow(metricsSheet, cell, &row); err != nil {
				return fmt.Errorf("failed to write metrics row: %w", err)
			}
			rowIdx++
		}
	}

	if err := writeSummarySheet(f, files, filters); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, files []*parser.MeasurementFile, filters analysis.FilterSet) error {
	header := []interface{}{"File", "Metric", "Direction", "Median", "Mean", "Min", "Max", "Valid"}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}

	statCell := func(v float64) interface{} {
		if math.IsNaN(v) {
			return ""
		}
		return v
	}

	rowIdx := 2
	for _, file := range files {
		ms, err := analysis.ExtractMetrics(file.Performance)
		if err != nil {
			return fmt.Errorf("file %q: %w", file.Name, err)
		}
		ms = filters.ApplyMetrics(ms)
		for _, metric := range analysis.PerformanceMetrics {
			series := ms.Series(metric)
			for _, dir := range []struct {
				name   string
				values []float64
			}{{"Fwd", series.Forward}, {"Rev", series.Reverse}} {
				s := analysis.Summarize(dir.values)
				row := []interface{}{
					file.Name, string(metric), dir.name,
					statCell(s.Median), statCell(s.Mean), statCell(s.Min), statCell(s.Max), s.Valid,
				}
				cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
				if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
					return fmt.Errorf("failed to write summary row: %w", err)
				}
				rowIdx++
			}
		}
	}
	return nil
}
