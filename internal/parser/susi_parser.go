package parser

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"
)

const (
	complianceMarker = "compliance"
	ivMarker         = "Voltage"
	activeAreaMarker = "active area"
)

// ParseSuSiFile reads a tab-delimited SuSi measurement file and splits it into
// the parameter block, the performance table and the optional I-V table.
//
// Layout convention (the instrument software drifted by one line across
// revisions; this parser fixes one convention and sticks to it):
//
//	<parameter lines ... up to and including the compliance line>
//	<one separator line>
//	<performance column header row>
//	<performance data rows>
//	...
//	Voltage <marker line>
//	<one unit line>
//	<I-V column header row>
//	<I-V data rows>
func ParseSuSiFile(path string) (*MeasurementFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data file: %w", err)
	}
	lines := splitLines(string(decoded))

	m := &MeasurementFile{
		Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}

	// Parameter block: everything up to and including the compliance line.
	paramEnd := -1
	var params []string
	for i, line := range lines {
		params = append(params, strings.TrimSpace(line))
		if strings.Contains(strings.ToLower(line), complianceMarker) {
			paramEnd = i
			break
		}
	}
	if paramEnd < 0 {
		return nil, fmt.Errorf("no compliance marker found in %s", path)
	}
	m.Params = strings.Join(params, "\n")
	m.ActiveArea = extractActiveArea(lines)

	// Performance block: one separator line after the parameters, then the
	// header row, then data rows until a blank line or the I-V marker.
	headerIdx := paramEnd + 2
	if headerIdx >= len(lines) {
		return nil, fmt.Errorf("performance table missing in %s", path)
	}
	perf, warns, err := parseBlock(lines, headerIdx)
	if err != nil {
		return nil, fmt.Errorf("performance table in %s: %w", path, err)
	}
	m.ParseErrors = append(m.ParseErrors, warns...)

	perf = dropLabelColumn(perf)
	perf = dropEmptyColumns(perf)
	perf = forceEvenColumns(perf, &m.ParseErrors)
	if perf.NumCols() == 0 {
		return nil, fmt.Errorf("performance table in %s has no numeric columns", path)
	}
	m.Performance = perf

	// Optional I-V block.
	ivStart := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), ivMarker) {
			ivStart = i
			break
		}
	}
	if ivStart >= 0 {
		iv, ivWarns, ivErr := parseBlock(lines, ivStart+2)
		if ivErr != nil {
			m.ParseErrors = append(m.ParseErrors, fmt.Sprintf("I-V table unreadable: %v", ivErr))
		} else {
			m.ParseErrors = append(m.ParseErrors, ivWarns...)
			m.IV = shapeIVTable(iv, &m.ParseErrors)
		}
	}

	return m, nil
}

// ParseSuSiFiles loads several files, skipping any that fail to parse. The
// returned messages describe each skipped file.
func ParseSuSiFiles(paths []string) ([]*MeasurementFile, []string) {
	var files []*MeasurementFile
	var skipped []string
	for _, p := range paths {
		m, err := ParseSuSiFile(p)
		if err != nil {
			log.Warn().Str("file", p).Err(err).Msg("skipping file")
			skipped = append(skipped, fmt.Sprintf("%s: %v", p, err))
			continue
		}
		files = append(files, m)
	}
	return files, skipped
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

func extractActiveArea(lines []string) string {
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), activeAreaMarker) {
			if _, val, ok := strings.Cut(line, ":"); ok {
				return strings.TrimSpace(val)
			}
			return ""
		}
	}
	return ""
}

// parseBlock reads a header row at lines[headerIdx] and the numeric rows that
// follow it, stopping at a blank line, the I-V marker or EOF. Cells that do
// not parse as numbers become NaN. Rows without a single numeric cell are
// dropped; short rows are padded with NaN.
func parseBlock(lines []string, headerIdx int) (*Table, []string, error) {
	if headerIdx >= len(lines) {
		return nil, nil, fmt.Errorf("header row out of range")
	}
	header := strings.Split(strings.TrimRight(lines[headerIdx], "\r\n"), "\t")
	if len(header) == 0 || (len(header) == 1 && strings.TrimSpace(header[0]) == "") {
		return nil, nil, fmt.Errorf("empty header row")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var warns []string
	var rows [][]float64
	for i := headerIdx + 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, ivMarker) {
			break
		}
		cells := strings.Split(strings.TrimRight(lines[i], "\r\n"), "\t")
		row := make([]float64, len(header))
		numeric := 0
		for c := range row {
			row[c] = math.NaN()
			if c < len(cells) {
				if v, err := strconv.ParseFloat(strings.TrimSpace(cells[c]), 64); err == nil {
					row[c] = v
					numeric++
				}
			}
		}
		if numeric == 0 {
			warns = append(warns, fmt.Sprintf("line %d has no numeric cells, dropped", i+1))
			continue
		}
		if len(cells) < len(header) {
			warns = append(warns, fmt.Sprintf("line %d is short (%d of %d cells), padded with NaN", i+1, len(cells), len(header)))
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, warns, fmt.Errorf("no numeric data rows")
	}
	return &Table{Columns: header, Rows: rows}, warns, nil
}

// dropLabelColumn removes the leading row-label column the instrument writes
// before the per-pixel values.
func dropLabelColumn(t *Table) *Table {
	if t.NumCols() <= 1 {
		return t
	}
	out := &Table{Columns: t.Columns[1:]}
	for _, row := range t.Rows {
		out.Rows = append(out.Rows, row[1:])
	}
	return out
}

// dropEmptyColumns removes columns that hold no numeric value at all.
func dropEmptyColumns(t *Table) *Table {
	keep := make([]int, 0, t.NumCols())
	for c := 0; c < t.NumCols(); c++ {
		for r := 0; r < t.NumRows(); r++ {
			if !math.IsNaN(t.Rows[r][c]) {
				keep = append(keep, c)
				break
			}
		}
	}
	if len(keep) == t.NumCols() {
		return t
	}
	out := &Table{}
	for _, c := range keep {
		out.Columns = append(out.Columns, t.Columns[c])
	}
	for _, row := range t.Rows {
		newRow := make([]float64, 0, len(keep))
		for _, c := range keep {
			newRow = append(newRow, row[c])
		}
		out.Rows = append(out.Rows, newRow)
	}
	return out
}

// forceEvenColumns drops a trailing column when the count is odd, so forward
// and reverse values always pair up. A single remaining column is kept: that
// is the single-pixel case and is duplicated downstream instead.
func forceEvenColumns(t *Table, warns *[]string) *Table {
	n := t.NumCols()
	if n <= 1 || n%2 == 0 {
		return t
	}
	*warns = append(*warns, fmt.Sprintf("odd column count %d, dropped trailing column %q", n, t.Columns[n-1]))
	out := &Table{Columns: t.Columns[:n-1]}
	for _, row := range t.Rows {
		out.Rows = append(out.Rows, row[:n-1])
	}
	return out
}

// shapeIVTable enforces the I-V layout: first column voltage, remaining
// current columns forced even. Returns nil when there is nothing to plot.
func shapeIVTable(t *Table, warns *[]string) *Table {
	if t.NumCols() < 2 {
		*warns = append(*warns, "I-V table has no current columns, ignored")
		return nil
	}
	currents := t.NumCols() - 1
	if currents > 1 && currents%2 != 0 {
		n := t.NumCols()
		*warns = append(*warns, fmt.Sprintf("odd I-V current column count %d, dropped trailing column %q", currents, t.Columns[n-1]))
		out := &Table{Columns: t.Columns[:n-1]}
		for _, row := range t.Rows {
			out.Rows = append(out.Rows, row[:n-1])
		}
		return out
	}
	return t
}
