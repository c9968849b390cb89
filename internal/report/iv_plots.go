package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/user/susi_analyzer_go/internal/analysis"
)

// IVPlot renders current density against voltage. Forward traces are solid,
// reverse traces dashed, one color per curve.
func IVPlot(curves []analysis.IVCurve, opts *PlotOptions) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = opts.Titles[SubplotIV]
	p.X.Label.Text = opts.XLabels[SubplotIV]
	p.Y.Label.Text = opts.YLabels[SubplotIV]
	p.X.Label.TextStyle.Font.Size = opts.AxisLabelSize
	p.Y.Label.TextStyle.Font.Size = opts.AxisLabelSize
	p.X.Tick.Label.Font.Size = opts.TickLabelSize
	p.Y.Tick.Label.Font.Size = opts.TickLabelSize

	if len(curves) == 0 {
		p.Title.Text = "No I-V Data"
		return p, nil
	}

	for i, c := range curves {
		col := curveColors[i%len(curveColors)]
		if err := addTrace(p, c.Voltage, c.Forward, col, nil, fmt.Sprintf("%s (Fwd)", c.Label)); err != nil {
			return nil, fmt.Errorf("forward trace %q: %w", c.Label, err)
		}
		if c.Reverse != nil {
			if err := addTrace(p, c.Voltage, c.Reverse, col, opts.IVReverseDashes, fmt.Sprintf("%s (Rev)", c.Label)); err != nil {
				return nil, fmt.Errorf("reverse trace %q: %w", c.Label, err)
			}
		}
	}
	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

func addTrace(p *plot.Plot, voltage, current []float64, col color.Color, dashes []vg.Length, label string) error {
	pts := validXYs(voltage, current)
	if len(pts) == 0 {
		return nil
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = col
	line.Width = vg.Points(1.5)
	line.Dashes = dashes
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}
