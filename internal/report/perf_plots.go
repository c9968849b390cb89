package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/user/susi_analyzer_go/internal/analysis"
)

// newMetricPlot applies the shared axis styling for a performance subplot.
func newMetricPlot(subplot string, opts *PlotOptions) *plot.Plot {
	p := plot.New()
	p.Title.Text = opts.Titles[subplot]
	p.X.Label.Text = opts.XLabels[subplot]
	p.Y.Label.Text = opts.YLabels[subplot]
	p.X.Label.TextStyle.Font.Size = opts.AxisLabelSize
	p.Y.Label.TextStyle.Font.Size = opts.AxisLabelSize
	p.X.Tick.Label.Font.Size = opts.TickLabelSize
	p.Y.Tick.Label.Font.Size = opts.TickLabelSize
	return p
}

func validXYs(xs, ys []float64) plotter.XYs {
	var pts plotter.XYs
	for i := range ys {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}
	return pts
}

func constantXs(x float64, n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = x
	}
	return xs
}

// pixelTicks labels every pixel position; empty labels keep the tick mark
// but hide the text, matching the stacked-subplot look where only the bottom
// row shows x labels.
func pixelTicks(n int, labels []string) []plot.Tick {
	ticks := make([]plot.Tick, n)
	for i := range ticks {
		ticks[i] = plot.Tick{Value: float64(i + 1)}
		if labels != nil {
			ticks[i].Label = labels[i]
		}
	}
	return ticks
}

// ScatterMetricPlot renders one metric of a single file as per-pixel forward
// and reverse scatter points.
func ScatterMetricPlot(ms *analysis.MetricSet, metric analysis.Metric, opts *PlotOptions, tickLabels []string) (*plot.Plot, error) {
	p := newMetricPlot(string(metric), opts)
	series := ms.Series(metric)

	xsFwd := make([]float64, ms.NumPixels)
	xsRev := make([]float64, ms.NumPixels)
	for i := 0; i < ms.NumPixels; i++ {
		xsFwd[i] = float64(i + 1)
		xsRev[i] = float64(i + 1)
		if opts.SeparateForwardReverse && ms.NumPixels > 1 {
			xsRev[i] += opts.ForwardReverseOffset
		}
	}

	if pts := validXYs(xsFwd, series.Forward); len(pts) > 0 {
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("forward scatter for %s: %w", metric, err)
		}
		s.GlyphStyle.Color = opts.forwardColor(string(metric))
		s.GlyphStyle.Radius = opts.MarkerRadius
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add("Fwd", s)
	}
	if pts := validXYs(xsRev, series.Reverse); len(pts) > 0 {
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("reverse scatter for %s: %w", metric, err)
		}
		s.GlyphStyle.Color = opts.reverseColor(string(metric))
		s.GlyphStyle.Radius = opts.MarkerRadius
		s.GlyphStyle.Shape = draw.BoxGlyph{}
		p.Add(s)
		p.Legend.Add("Rev", s)
	}

	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.X.Tick.Marker = plot.ConstantTicks(pixelTicks(ms.NumPixels, tickLabels))
	p.X.Min = 0.5
	p.X.Max = float64(ms.NumPixels) + 1
	return p, nil
}

// BoxMetricPlot renders one metric across several files or groups as box
// plots with the raw values overlaid and the median annotated. With
// SeparateForwardReverse set, each file gets a forward and a reverse box a
// small offset apart; otherwise all of a file's values share one box.
func BoxMetricPlot(sets []*analysis.MetricSet, labels []string, metric analysis.Metric, opts *PlotOptions, showLabels bool) (*plot.Plot, error) {
	if len(sets) != len(labels) {
		return nil, fmt.Errorf("have %d label(s) for %d file(s)", len(labels), len(sets))
	}
	p := newMetricPlot(string(metric), opts)

	for i, ms := range sets {
		series := ms.Series(metric)
		x := float64(i + 1)
		if opts.SeparateForwardReverse {
			if err := addBoxWithPoints(p, x, series.Forward, opts.forwardColor(string(metric)), opts); err != nil {
				return nil, fmt.Errorf("%s forward box for %q: %w", metric, labels[i], err)
			}
			if err := addBoxWithPoints(p, x+opts.ForwardReverseOffset, series.Reverse, opts.reverseColor(string(metric)), opts); err != nil {
				return nil, fmt.Errorf("%s reverse box for %q: %w", metric, labels[i], err)
			}
		} else {
			all := append(append([]float64{}, series.Forward...), series.Reverse...)
			if err := addBoxWithPoints(p, x, all, opts.forwardColor(string(metric)), opts); err != nil {
				return nil, fmt.Errorf("%s box for %q: %w", metric, labels[i], err)
			}
		}
	}

	ticks := make([]plot.Tick, len(sets))
	for i := range ticks {
		ticks[i] = plot.Tick{Value: float64(i + 1)}
		if opts.SeparateForwardReverse {
			ticks[i].Value += opts.ForwardReverseOffset / 2
		}
		if showLabels {
			ticks[i].Label = labels[i]
		}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Min = 0.5
	p.X.Max = float64(len(sets)) + 1
	return p, nil
}

// addBoxWithPoints draws one box plot at x from the valid values, overlays
// the individual points and writes the median next to the box. All-NaN input
// adds nothing.
func addBoxWithPoints(p *plot.Plot, x float64, values []float64, ptColor color.Color, opts *PlotOptions) error {
	valid := analysis.ValidValues(values)
	if len(valid) == 0 {
		return nil
	}

	box, err := plotter.NewBoxPlot(vg.Points(12), x, plotter.Values(valid))
	if err != nil {
		return fmt.Errorf("box plot: %w", err)
	}
	box.MedianStyle.Color = medianColor
	p.Add(box)

	pts := validXYs(constantXs(x, len(valid)), valid)
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("value overlay: %w", err)
	}
	scatter.GlyphStyle.Color = ptColor
	scatter.GlyphStyle.Radius = vg.Points(2)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(scatter)

	med := analysis.Median(valid)
	lbl, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: x + 0.12, Y: med}},
		Labels: []string{fmt.Sprintf("%.2f", med)},
	})
	if err != nil {
		return fmt.Errorf("median label: %w", err)
	}
	for i := range lbl.TextStyle {
		lbl.TextStyle[i].Color = medianColor
		lbl.TextStyle[i].Font.Size = opts.TickLabelSize
	}
	p.Add(lbl)
	return nil
}
