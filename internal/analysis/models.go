package analysis

// Metric names a filterable quantity. Voltage is only used for the I-V
// window filter, never for the performance table.
type Metric string

const (
	MetricJsc        Metric = "Jsc"
	MetricVoc        Metric = "Voc"
	MetricFillFactor Metric = "Fill Factor"
	MetricEfficiency Metric = "Efficiency"
	MetricVoltage    Metric = "Voltage"
)

// PerformanceMetrics lists the four metrics extracted from the performance
// table, in the fixed row order the instrument writes them.
var PerformanceMetrics = []Metric{MetricJsc, MetricVoc, MetricFillFactor, MetricEfficiency}

// MetricSeries holds one metric's per-pixel values, split by sweep direction.
type MetricSeries struct {
	Forward []float64
	Reverse []float64
}

// MetricSet is the extracted performance data of one file or group.
type MetricSet struct {
	Jsc        MetricSeries
	Voc        MetricSeries
	FillFactor MetricSeries
	Efficiency MetricSeries
	NumPixels  int
}

// Series returns the series for the given metric.
func (ms *MetricSet) Series(m Metric) MetricSeries {
	switch m {
	case MetricJsc:
		return ms.Jsc
	case MetricVoc:
		return ms.Voc
	case MetricFillFactor:
		return ms.FillFactor
	case MetricEfficiency:
		return ms.Efficiency
	}
	return MetricSeries{}
}

// IVCurve is one pixel's voltage sweep, ready for plotting.
type IVCurve struct {
	Label   string
	Voltage []float64
	Forward []float64
	Reverse []float64 // nil when the file carries a single unpaired trace
}
