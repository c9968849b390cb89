package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/wailsapp/wails/v2/pkg/runtime"
	"gonum.org/v1/plot/vg"

	"github.com/user/susi_analyzer_go/internal/analysis"
	"github.com/user/susi_analyzer_go/internal/config"
	"github.com/user/susi_analyzer_go/internal/parser"
	"github.com/user/susi_analyzer_go/internal/report"
)

// App holds the session state: loaded files, filter settings and plot
// options. All mutation happens through bound handlers driven by direct user
// action; there is no background work besides chart generation.
type App struct {
	ctx context.Context
	cfg *config.Config

	files  []*parser.MeasurementFile
	labels []string
	title  string

	filters analysis.FilterSet
	opts    *report.PlotOptions
}

// NewApp creates a new App application struct
func NewApp() *App {
	cfg := config.Load()
	opts := report.DefaultPlotOptions()
	opts.ChartWidth = vg.Points(cfg.ChartWidthPt)
	opts.ChartHeight = vg.Points(cfg.ChartHeightPt)

	filters := analysis.DefaultFilters()
	if r, err := analysis.ParseFilterRange(cfg.EfficiencyRange); err == nil {
		filters[analysis.MetricEfficiency] = r
	}
	if r, err := analysis.ParseFilterRange(cfg.FillFactorRange); err == nil {
		filters[analysis.MetricFillFactor] = r
	}

	return &App{cfg: cfg, filters: filters, opts: opts}
}

// Startup is called when the app starts. The context is saved so we can call
// the runtime methods.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	runtime.WindowSetTitle(a.ctx, "SuSi Analysis Tool")
}

func (a *App) sendStatus(message string) {
	if a.ctx != nil {
		runtime.EventsEmit(a.ctx, "statusUpdate", message)
	}
	log.Info().Msg(message)
}

func (a *App) clearLog() {
	if a.ctx != nil {
		runtime.EventsEmit(a.ctx, "clearLog")
	}
}

// HandleLoadFile loads one data file. A parse failure is reported back to the
// frontend rather than skipped.
func (a *App) HandleLoadFile(path string) (string, error) {
	a.clearLog()
	m, err := parser.ParseSuSiFile(path)
	if err != nil {
		return "", err
	}
	a.files = []*parser.MeasurementFile{m}
	a.labels = []string{m.Name}
	a.title = m.Name
	for _, w := range m.ParseErrors {
		a.sendStatus("Warning: " + w)
	}
	a.sendStatus(fmt.Sprintf("Loaded %s: %d pixel(s), I-V data: %v", m.Name, m.NumPixels(), m.IV != nil))
	return m.Params, nil
}

// HandleLoadFiles loads several files for comparison, skipping any that fail
// to parse.
func (a *App) HandleLoadFiles(paths []string) (string, error) {
	a.clearLog()
	files, skipped := parser.ParseSuSiFiles(paths)
	for _, s := range skipped {
		a.sendStatus("Skipped: " + s)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("none of the %d file(s) could be parsed", len(paths))
	}
	a.files = files
	a.labels = nil
	for _, f := range files {
		a.labels = append(a.labels, f.Name)
	}
	a.title = "Comparison Plot"

	var params []string
	for _, f := range files {
		params = append(params, f.Name+":\n"+f.Params)
	}
	a.sendStatus(fmt.Sprintf("Loaded %d of %d file(s).", len(files), len(paths)))
	return strings.Join(params, "\n\n---\n\n"), nil
}

// HandleSetFilters updates the filter ranges from "metric" -> "low,high"
// entries and reports validation errors back to the filter dialog. Metrics
// the dialog leaves blank keep their current ranges.
func (a *App) HandleSetFilters(specs map[string]string) (string, error) {
	fs, err := a.filters.WithSpecs(specs)
	if err != nil {
		return "", err
	}
	a.filters = fs
	a.sendStatus("Filter settings updated.")
	return "ok", nil
}

func (a *App) HandleSetSeparateForwardReverse(separate bool) {
	a.opts.SeparateForwardReverse = separate
}

func (a *App) HandleSetTitle(title string) {
	a.title = title
}

// HandleSetLabels replaces the per-file labels with a comma-separated list.
// The count must match the number of loaded files.
func (a *App) HandleSetLabels(csv string) (string, error) {
	labels := strings.Split(csv, ",")
	for i := range labels {
		labels[i] = strings.TrimSpace(labels[i])
	}
	if len(labels) != len(a.files) {
		return "", fmt.Errorf("number of custom labels must match number of files (%d)", len(a.files))
	}
	a.labels = labels
	return "ok", nil
}

// HandleApplyGrouping renames and orders the loaded files into groups. Files
// sharing a label are combined by concatenating their columns.
func (a *App) HandleApplyGrouping(labels []string, order []int) (string, error) {
	if len(labels) != len(order) {
		return "", fmt.Errorf("have %d label(s) for %d order value(s)", len(labels), len(order))
	}
	assigns := make([]analysis.GroupAssignment, len(labels))
	for i := range labels {
		assigns[i] = analysis.GroupAssignment{Label: labels[i], Order: order[i]}
	}
	groups, err := analysis.BuildGroups(len(a.files), assigns)
	if err != nil {
		return "", err
	}
	combined, err := analysis.CombineGroups(a.files, groups)
	if err != nil {
		return "", err
	}
	a.files = combined
	a.labels = nil
	for _, f := range combined {
		a.labels = append(a.labels, f.Name)
	}
	a.sendStatus(fmt.Sprintf("Grouping applied: %d group(s).", len(combined)))
	return strings.Join(a.labels, ","), nil
}

// HandleGenerateCharts renders the dashboard PNG in the background and emits
// generationComplete when done.
func (a *App) HandleGenerateCharts(pngPath string) (string, error) {
	if len(a.files) == 0 {
		return "", fmt.Errorf("no data loaded")
	}
	if pngPath == "" {
		pngPath = filepath.Join(a.cfg.OutputDir, sanitizeName(a.title)+"_plots.png")
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				errMsg := fmt.Sprintf("PANIC recovered: %v", r)
				a.sendStatus(errMsg)
				runtime.EventsEmit(a.ctx, "generationComplete", false, errMsg)
			}
		}()

		runtime.EventsEmit(a.ctx, "generationStart")
		a.sendStatus(fmt.Sprintf("Rendering charts for %d file(s)...", len(a.files)))

		d := &report.Dashboard{
			Files:   a.files,
			Labels:  a.labels,
			Title:   a.title,
			Filters: a.filters,
			Options: a.opts,
		}
		if err := d.RenderToFile(pngPath); err != nil {
			errMsg := fmt.Sprintf("Error rendering charts: %v", err)
			a.sendStatus(errMsg)
			runtime.EventsEmit(a.ctx, "generationComplete", false, errMsg)
			return
		}
		successMsg := fmt.Sprintf("Charts saved: %s", pngPath)
		a.sendStatus(successMsg)
		runtime.EventsEmit(a.ctx, "generationComplete", true, successMsg)
	}()

	return "Chart generation started in background.", nil
}

// HandleExportPDF writes the summary report with the rendered charts embedded.
func (a *App) HandleExportPDF(pdfPath string) (string, error) {
	if len(a.files) == 0 {
		return "", fmt.Errorf("no data loaded")
	}
	if pdfPath == "" {
		pdfPath = filepath.Join(a.cfg.OutputDir, sanitizeName(a.title)+"_report.pdf")
	}
	d := &report.Dashboard{
		Files:   a.files,
		Labels:  a.labels,
		Title:   a.title,
		Filters: a.filters,
		Options: a.opts,
	}
	png, err := d.Render()
	if err != nil {
		return "", err
	}
	if err := report.BuildPDFReport(pdfPath, a.files, a.filters, png); err != nil {
		return "", err
	}
	a.sendStatus(fmt.Sprintf("PDF report saved: %s", pdfPath))
	return pdfPath, nil
}

// HandleExportXLSX writes the filtered metric tables to a workbook.
func (a *App) HandleExportXLSX(xlsxPath string) (string, error) {
	if len(a.files) == 0 {
		return "", fmt.Errorf("no data loaded")
	}
	if xlsxPath == "" {
		xlsxPath = filepath.Join(a.cfg.OutputDir, sanitizeName(a.title)+"_metrics.xlsx")
	}
	if err := report.ExportXLSX(xlsxPath, a.files, a.filters); err != nil {
		return "", err
	}
	a.sendStatus(fmt.Sprintf("Workbook saved: %s", xlsxPath))
	return xlsxPath, nil
}

func sanitizeName(s string) string {
	if s == "" {
		return "Untitled_Plot"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s)
}
