// Package dedup finds repeated rows and repeated column values in a table.
package dedup

import (
	"strconv"
	"strings"

	"csvstats/domain/dataset"
)

// Report summarizes duplicates in a table
type Report struct {
	Columns []string
	// TotalRows counts data rows, header excluded.
	TotalRows int
	// DuplicateIndices are 0-based row positions repeating an earlier row.
	DuplicateIndices []int
	// DuplicatesPerColumn is TotalRows minus the number of distinct values
	// in the column.
	DuplicatesPerColumn map[string]int
	// UniqueRows are the first occurrences, in original order.
	UniqueRows []dataset.Record
}

// DuplicateCount returns the number of duplicate rows
func (r *Report) DuplicateCount() int {
	return len(r.DuplicateIndices)
}

// UniqueCount returns the number of unique rows
func (r *Report) UniqueCount() int {
	return len(r.UniqueRows)
}

// Detector compares rows by their stringified cells. Nulls stringify to
// dataset.NullString, so a literal "None" cell equals a null one, and "1"
// differs from "1.0".
type Detector struct{}

// NewDetector creates a duplicate detector
func NewDetector() *Detector {
	return &Detector{}
}

// Detect partitions the rows of t into first occurrences and duplicates
// and counts repeated values per column.
func (d *Detector) Detect(t *dataset.Table) *Report {
	report := &Report{
		Columns:             append([]string{}, t.Columns...),
		TotalRows:           t.NumRows(),
		DuplicateIndices:    []int{},
		DuplicatesPerColumn: make(map[string]int, t.NumCols()),
		UniqueRows:          []dataset.Record{},
	}

	seen := make(map[string]struct{}, t.NumRows())
	for i, row := range t.Rows {
		key := rowIdentity(t.Columns, row)
		if _, dup := seen[key]; dup {
			report.DuplicateIndices = append(report.DuplicateIndices, i)
			continue
		}
		seen[key] = struct{}{}
		report.UniqueRows = append(report.UniqueRows, t.Record(i))
	}

	for j, name := range t.Columns {
		distinct := make(map[string]struct{})
		for _, row := range t.Rows {
			distinct[row[j].String()] = struct{}{}
		}
		report.DuplicatesPerColumn[name] = t.NumRows() - len(distinct)
	}

	return report
}

// rowIdentity encodes the (column, value) pairs of a row. Each part is
// length-prefixed so distinct tuples never share an encoding.
func rowIdentity(columns []string, row dataset.Row) string {
	var b strings.Builder
	for j, col := range columns {
		writePart(&b, col)
		writePart(&b, row[j].String())
	}
	return b.String()
}

func writePart(b *strings.Builder, s string) {
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}
