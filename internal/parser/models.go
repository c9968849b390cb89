package parser

import "math"

// Performance table row order as written by the SuSi instrument software.
const (
	RowJsc        = 0
	RowVoc        = 1
	RowFillFactor = 2
	RowEfficiency = 3

	// NumMetricRows is the minimum number of rows a performance table must
	// carry to be usable.
	NumMetricRows = 4
)

// Table is a rectangular numeric block with named columns. Missing or
// unparsable cells are NaN; row and column counts never change after
// construction, only values do.
type Table struct {
	Columns []string
	Rows    [][]float64
}

func NewTable(columns []string, numRows int) *Table {
	t := &Table{Columns: columns, Rows: make([][]float64, numRows)}
	for r := range t.Rows {
		t.Rows[r] = make([]float64, len(columns))
		for c := range t.Rows[r] {
			t.Rows[r][c] = math.NaN()
		}
	}
	return t
}

func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) NumCols() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// Row returns a copy of row r.
func (t *Table) Row(r int) []float64 {
	out := make([]float64, t.NumCols())
	copy(out, t.Rows[r])
	return out
}

// Column returns a copy of column c.
func (t *Table) Column(c int) []float64 {
	out := make([]float64, t.NumRows())
	for r := range t.Rows {
		out[r] = t.Rows[r][c]
	}
	return out
}

// MeasurementFile is one parsed SuSi data file.
type MeasurementFile struct {
	Name        string // base filename without extension, or a group label
	Params      string // raw parameter block up to the compliance line
	ActiveArea  string // value of the "Active Area" parameter, if present
	Performance *Table // rows = metric, columns = pixel x {forward, reverse}
	IV          *Table // first column voltage, rest paired currents; nil if absent
	ParseErrors []string
}

// NumPixels derives the pixel count from the performance table width. A
// single-column table counts as one pixel (forward and reverse duplicated).
func (m *MeasurementFile) NumPixels() int {
	n := m.Performance.NumCols()
	if n == 1 {
		return 1
	}
	return n / 2
}
