package analysis

import (
	"fmt"
	"sort"

	"github.com/user/susi_analyzer_go/internal/parser"
)

// GroupAssignment renames one loaded file and positions it for combining.
// Files sharing a label merge into one entry, ordered by Order.
type GroupAssignment struct {
	Label string
	Order int
}

// Group is a label with the ordered indices of its member files.
type Group struct {
	Label   string
	Indices []int
}

// BuildGroups validates assignments against the loaded files and returns the
// groups in explicit order. Ordering comes from the assignments, not from the
// order files were discovered in.
func BuildGroups(numFiles int, assigns []GroupAssignment) ([]Group, error) {
	if numFiles == 0 {
		return nil, fmt.Errorf("no files loaded")
	}
	if len(assigns) != numFiles {
		return nil, fmt.Errorf("have %d assignments for %d files", len(assigns), numFiles)
	}
	type item struct {
		order, idx int
		label      string
	}
	items := make([]item, 0, len(assigns))
	for i, a := range assigns {
		if a.Label == "" {
			return nil, fmt.Errorf("file %d has an empty group label", i+1)
		}
		items = append(items, item{order: a.Order, idx: i, label: a.Label})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].order < items[j].order })

	var groups []Group
	byLabel := make(map[string]int)
	for _, it := range items {
		if gi, ok := byLabel[it.label]; ok {
			groups[gi].Indices = append(groups[gi].Indices, it.idx)
			continue
		}
		byLabel[it.label] = len(groups)
		groups = append(groups, Group{Label: it.label, Indices: []int{it.idx}})
	}
	return groups, nil
}

// CombineGroups merges each group's member files into one MeasurementFile by
// concatenating performance and I-V columns in group order. No averaging is
// done; every member pixel stays visible in the combined tables.
func CombineGroups(files []*parser.MeasurementFile, groups []Group) ([]*parser.MeasurementFile, error) {
	var out []*parser.MeasurementFile
	for _, g := range groups {
		members := make([]*parser.MeasurementFile, 0, len(g.Indices))
		for _, idx := range g.Indices {
			if idx < 0 || idx >= len(files) {
				return nil, fmt.Errorf("group %q references file index %d out of range", g.Label, idx)
			}
			members = append(members, files[idx])
		}
		combined, err := combineFiles(g.Label, members)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", g.Label, err)
		}
		out = append(out, combined)
	}
	return out, nil
}

func combineFiles(label string, members []*parser.MeasurementFile) (*parser.MeasurementFile, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("empty group")
	}
	if len(members) == 1 {
		clone := *members[0]
		clone.Name = label
		return &clone, nil
	}

	perfs := make([]*parser.Table, 0, len(members))
	var ivs []*parser.Table
	for _, m := range members {
		perfs = append(perfs, m.Performance)
		if m.IV != nil {
			ivs = append(ivs, m.IV)
		}
	}

	combined := &parser.MeasurementFile{
		Name:        label,
		Params:      members[0].Params,
		ActiveArea:  members[0].ActiveArea,
		Performance: concatColumns(perfs),
	}
	if len(ivs) > 0 {
		combined.IV = concatIV(ivs)
	}
	return combined, nil
}

// concatColumns stacks tables side by side. Row counts may differ between
// members; shorter tables pad with NaN.
func concatColumns(tables []*parser.Table) *parser.Table {
	maxRows := 0
	for _, t := range tables {
		if t.NumRows() > maxRows {
			maxRows = t.NumRows()
		}
	}
	var columns []string
	for _, t := range tables {
		columns = append(columns, t.Columns...)
	}
	out := parser.NewTable(columns, maxRows)
	offset := 0
	for _, t := range tables {
		for r := 0; r < t.NumRows(); r++ {
			for c := 0; c < t.NumCols(); c++ {
				out.Rows[r][offset+c] = t.Rows[r][c]
			}
		}
		offset += t.NumCols()
	}
	return out
}

// concatIV keeps the first member's voltage axis and appends every member's
// current columns. A combined table left with a single current column is
// duplicated so downstream pairing still holds.
func concatIV(tables []*parser.Table) *parser.Table {
	maxRows := 0
	for _, t := range tables {
		if t.NumRows() > maxRows {
			maxRows = t.NumRows()
		}
	}
	columns := []string{tables[0].Columns[0]}
	for _, t := range tables {
		columns = append(columns, t.Columns[1:]...)
	}
	out := parser.NewTable(columns, maxRows)
	for r := 0; r < tables[0].NumRows(); r++ {
		out.Rows[r][0] = tables[0].Rows[r][0]
	}
	offset := 1
	for _, t := range tables {
		for r := 0; r < t.NumRows(); r++ {
			for c := 1; c < t.NumCols(); c++ {
				out.Rows[r][offset+c-1] = t.Rows[r][c]
			}
		}
		offset += t.NumCols() - 1
	}
	if out.NumCols() == 2 {
		dup := parser.NewTable(append(out.Columns, out.Columns[1]), out.NumRows())
		for r := range out.Rows {
			dup.Rows[r][0] = out.Rows[r][0]
			dup.Rows[r][1] = out.Rows[r][1]
			dup.Rows[r][2] = out.Rows[r][1]
		}
		return dup
	}
	return out
}
