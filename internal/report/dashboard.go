package report

import (
	"bytes"
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/user/susi_analyzer_go/internal/analysis"
	"github.com/user/susi_analyzer_go/internal/parser"
)

// Dashboard bundles everything needed to render the five-panel chart image:
// Jsc, Voc, Efficiency and Fill Factor on the left, I-V curves spanning the
// right column.
type Dashboard struct {
	Files   []*parser.MeasurementFile
	Labels  []string // one per file; empty means use file names
	Title   string
	Filters analysis.FilterSet
	Options *PlotOptions
}

// Render composes the dashboard into a single PNG image.
func (d *Dashboard) Render() ([]byte, error) {
	if len(d.Files) == 0 {
		return nil, fmt.Errorf("no data loaded")
	}
	filters := d.Filters
	if filters == nil {
		filters = analysis.DefaultFilters()
	}
	opts := d.Options
	if opts == nil {
		opts = DefaultPlotOptions()
	}
	labels := d.Labels
	if len(labels) == 0 {
		for _, f := range d.Files {
			labels = append(labels, f.Name)
		}
	}
	if len(labels) != len(d.Files) {
		return nil, fmt.Errorf("have %d label(s) for %d file(s)", len(labels), len(d.Files))
	}

	var panels map[string]*plot.Plot
	var err error
	if len(d.Files) == 1 {
		panels, err = d.singleFilePanels(filters, opts)
	} else {
		panels, err = d.multiFilePanels(filters, opts, labels)
	}
	if err != nil {
		return nil, err
	}
	return composePanels(panels, d.Title, opts)
}

// RenderToFile writes the composed PNG to path.
func (d *Dashboard) RenderToFile(path string) error {
	png, err := d.Render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("failed to write chart image: %w", err)
	}
	return nil
}

func (d *Dashboard) singleFilePanels(filters analysis.FilterSet, opts *PlotOptions) (map[string]*plot.Plot, error) {
	file := d.Files[0]
	ms, err := analysis.ExtractMetrics(file.Performance)
	if err != nil {
		return nil, fmt.Errorf("file %q: %w", file.Name, err)
	}
	ms = filters.ApplyMetrics(ms)

	pixelLabels := make([]string, ms.NumPixels)
	for i := range pixelLabels {
		pixelLabels[i] = fmt.Sprintf("Pixel %d", i+1)
	}

	panels := make(map[string]*plot.Plot)
	for _, metric := range analysis.PerformanceMetrics {
		// Only the bottom row shows pixel labels.
		var ticks []string
		if metric == analysis.MetricEfficiency || metric == analysis.MetricFillFactor {
			ticks = pixelLabels
		}
		p, err := ScatterMetricPlot(ms, metric, opts, ticks)
		if err != nil {
			return nil, err
		}
		panels[string(metric)] = p
	}

	curves := analysis.ExtractIVCurves(filters.WindowIV(file.IV))
	iv, err := IVPlot(curves, opts)
	if err != nil {
		return nil, err
	}
	panels[SubplotIV] = iv
	return panels, nil
}

func (d *Dashboard) multiFilePanels(filters analysis.FilterSet, opts *PlotOptions, labels []string) (map[string]*plot.Plot, error) {
	var sets []*analysis.MetricSet
	var curves []analysis.IVCurve
	for i, file := range d.Files {
		ms, err := analysis.ExtractMetrics(file.Performance)
		if err != nil {
			return nil, fmt.Errorf("file %q: %w", file.Name, err)
		}
		sets = append(sets, filters.ApplyMetrics(ms))

		// Comparison mode shows one curve pair per file: the first pixel.
		if pixelCurves := analysis.ExtractIVCurves(filters.WindowIV(file.IV)); len(pixelCurves) > 0 {
			c := pixelCurves[0]
			c.Label = labels[i]
			curves = append(curves, c)
		}
	}

	panels := make(map[string]*plot.Plot)
	for _, metric := range analysis.PerformanceMetrics {
		showLabels := metric == analysis.MetricEfficiency || metric == analysis.MetricFillFactor
		p, err := BoxMetricPlot(sets, labels, metric, opts, showLabels)
		if err != nil {
			return nil, err
		}
		panels[string(metric)] = p
	}
	iv, err := IVPlot(curves, opts)
	if err != nil {
		return nil, err
	}
	panels[SubplotIV] = iv
	return panels, nil
}

// composePanels tiles the four metric plots into a 2x2 block on the left two
// thirds of the canvas and gives the I-V plot the full-height right third,
// with the overall title across the top.
func composePanels(panels map[string]*plot.Plot, title string, opts *PlotOptions) ([]byte, error) {
	width := opts.ChartWidth * 3
	height := opts.ChartHeight * 2
	titleBand := vg.Points(0)
	if title != "" {
		titleBand = vg.Points(28)
	}

	img := vgimg.New(width, height+titleBand)
	dc := draw.New(img)

	if title != "" {
		sty := text.Style{
			Color:   color.Black,
			Font:    plot.DefaultFont,
			Handler: plot.DefaultTextHandler,
			XAlign:  draw.XCenter,
			YAlign:  draw.YTop,
		}
		sty.Font.Size = vg.Points(16)
		dc.FillText(sty, vg.Point{X: width / 2, Y: height + titleBand - vg.Points(6)}, title)
	}

	region := func(x0, y0, x1, y1 vg.Length) draw.Canvas {
		return draw.Canvas{
			Canvas:    dc.Canvas,
			Rectangle: vg.Rectangle{Min: vg.Point{X: x0, Y: y0}, Max: vg.Point{X: x1, Y: y1}},
		}
	}

	cw, ch := opts.ChartWidth, opts.ChartHeight
	layout := []struct {
		name   string
		canvas draw.Canvas
	}{
		{string(analysis.MetricJsc), region(0, ch, cw, 2*ch)},
		{string(analysis.MetricVoc), region(cw, ch, 2*cw, 2*ch)},
		{string(analysis.MetricEfficiency), region(0, 0, cw, ch)},
		{string(analysis.MetricFillFactor), region(cw, 0, 2*cw, ch)},
		{SubplotIV, region(2*cw, 0, 3*cw, 2*ch)},
	}
	for _, cell := range layout {
		p, ok := panels[cell.name]
		if !ok {
			return nil, fmt.Errorf("missing %s panel", cell.name)
		}
		p.Draw(cell.canvas)
	}

	var buf bytes.Buffer
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart image: %w", err)
	}
	return buf.Bytes(), nil
}
