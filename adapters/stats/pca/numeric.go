package pca

import (
	"math"
	"strconv"
	"strings"

	"csvstats/domain/dataset"
)

// NumericColumn is a table column whose present values all parse as finite
// numbers. Missing marks cells that were null in the table.
type NumericColumn struct {
	Name    string
	Index   int
	Values  []float64
	Missing []bool
}

// PresentValues returns the non-missing values
func (c NumericColumn) PresentValues() []float64 {
	out := make([]float64, 0, len(c.Values))
	for i, v := range c.Values {
		if !c.Missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// ParseNumber parses a decimal number as found in CSV cells. Infinite
// values, hexadecimal notation and digit separators are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// SelectNumeric returns the numeric columns of t in table order. A column
// qualifies when every present value parses as a number and at least one
// value is present.
func SelectNumeric(t *dataset.Table) []NumericColumn {
	var cols []NumericColumn
	for j, name := range t.Columns {
		col := NumericColumn{
			Name:    name,
			Index:   j,
			Values:  make([]float64, t.NumRows()),
			Missing: make([]bool, t.NumRows()),
		}
		present := 0
		numeric := true
		for i, row := range t.Rows {
			cell := row[j]
			if cell.IsNull() {
				col.Missing[i] = true
				continue
			}
			v, ok := ParseNumber(cell.Value)
			if !ok {
				numeric = false
				break
			}
			col.Values[i] = v
			present++
		}
		if numeric && present > 0 {
			cols = append(cols, col)
		}
	}
	return cols
}
