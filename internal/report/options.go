package report

import (
	"image/color"

	"gonum.org/v1/plot/vg"

	"github.com/user/susi_analyzer_go/internal/analysis"
)

// SubplotIV keys the I-V subplot in the per-subplot option maps, alongside
// the four performance metric names.
const SubplotIV = "IV"

// Subplots lists all dashboard panels in layout order.
var Subplots = []string{
	string(analysis.MetricJsc),
	string(analysis.MetricVoc),
	string(analysis.MetricEfficiency),
	string(analysis.MetricFillFactor),
	SubplotIV,
}

// PlotOptions is the user-adjustable chart appearance. Zero values are not
// meaningful; start from DefaultPlotOptions and override.
type PlotOptions struct {
	AxisLabelSize vg.Length
	TickLabelSize vg.Length
	MarkerRadius  vg.Length

	// SeparateForwardReverse plots forward and reverse sweeps at distinct
	// x positions, ForwardReverseOffset apart.
	SeparateForwardReverse bool
	ForwardReverseOffset   float64

	ForwardColor map[string]color.Color
	ReverseColor map[string]color.Color

	Titles  map[string]string
	XLabels map[string]string
	YLabels map[string]string

	// Dashed reverse I-V traces; forward traces are solid.
	IVReverseDashes []vg.Length

	ChartWidth  vg.Length
	ChartHeight vg.Length
}

// DefaultPlotOptions mirrors the tool's startup appearance.
func DefaultPlotOptions() *PlotOptions {
	return &PlotOptions{
		AxisLabelSize:          vg.Points(14),
		TickLabelSize:          vg.Points(10),
		MarkerRadius:           vg.Points(3),
		SeparateForwardReverse: false,
		ForwardReverseOffset:   0.2,
		ForwardColor: map[string]color.Color{
			string(analysis.MetricJsc):        color.RGBA{B: 0xff, A: 0xff},
			string(analysis.MetricVoc):        color.RGBA{R: 0xff, A: 0xff},
			string(analysis.MetricEfficiency): color.RGBA{G: 0x80, A: 0xff},
			string(analysis.MetricFillFactor): color.RGBA{R: 0xff, B: 0xff, A: 0xff},
		},
		ReverseColor: map[string]color.Color{
			string(analysis.MetricJsc):        color.RGBA{R: 0xad, G: 0xd8, B: 0xe6, A: 0xff},
			string(analysis.MetricVoc):        color.RGBA{R: 0xff, G: 0x63, B: 0x47, A: 0xff},
			string(analysis.MetricEfficiency): color.RGBA{R: 0x32, G: 0xcd, B: 0x32, A: 0xff},
			string(analysis.MetricFillFactor): color.RGBA{R: 0xee, G: 0x82, B: 0xee, A: 0xff},
		},
		Titles: map[string]string{},
		XLabels: map[string]string{
			SubplotIV: "Voltage [V]",
		},
		YLabels: map[string]string{
			string(analysis.MetricJsc):        "Jsc [mA/cm²]",
			string(analysis.MetricVoc):        "Voc [V]",
			string(analysis.MetricEfficiency): "Efficiency [%]",
			string(analysis.MetricFillFactor): "Fill Factor [%]",
			SubplotIV:                         "J [mA/cm²]",
		},
		IVReverseDashes: []vg.Length{vg.Points(3), vg.Points(3)},
		ChartWidth:      vg.Points(420),
		ChartHeight:     vg.Points(260),
	}
}

func (o *PlotOptions) forwardColor(subplot string) color.Color {
	if c, ok := o.ForwardColor[subplot]; ok {
		return c
	}
	return color.RGBA{B: 0xff, A: 0xff}
}

func (o *PlotOptions) reverseColor(subplot string) color.Color {
	if c, ok := o.ReverseColor[subplot]; ok {
		return c
	}
	return color.RGBA{R: 0xff, A: 0xff}
}

// curveColors cycles per-pixel and per-file I-V trace colors.
var curveColors = []color.Color{
	color.RGBA{B: 0xff, A: 0xff},
	color.RGBA{R: 0xff, A: 0xff},
	color.RGBA{G: 0x80, A: 0xff},
	color.RGBA{R: 0xff, G: 0xa5, A: 0xff},
	color.RGBA{R: 0x80, B: 0x80, A: 0xff},
	color.RGBA{G: 0xff, B: 0xff, A: 0xff},
	color.RGBA{R: 0xff, B: 0xff, A: 0xff},
	color.RGBA{R: 0xa5, G: 0x2a, B: 0x2a, A: 0xff},
	color.RGBA{R: 0xff, G: 0xc0, B: 0xcb, A: 0xff},
	color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
}

var medianColor = color.RGBA{R: 0xff, G: 0xa5, A: 0xff}
