package dataset

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// NullString is how a null cell stringifies when values are compared.
const NullString = "None"

// Cell is a nullable CSV value
type Cell struct {
	Value string
	Valid bool
}

// Str wraps a present value
func Str(s string) Cell {
	return Cell{Value: s, Valid: true}
}

// Null returns a missing value
func Null() Cell {
	return Cell{}
}

// IsNull reports whether the cell is missing
func (c Cell) IsNull() bool {
	return !c.Valid
}

// String stringifies the cell; null becomes NullString
func (c Cell) String() string {
	if !c.Valid {
		return NullString
	}
	return c.Value
}

// MarshalJSON encodes null cells as JSON null
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// Row holds one cell per table column, in column order
type Row []Cell

// Table is an ordered set of named columns and rows
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable creates an empty table with the given columns
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// NumRows returns the number of data rows
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// NumCols returns the number of columns
func (t *Table) NumCols() int {
	return len(t.Columns)
}

// IsEmpty reports whether the table has no data rows or no columns
func (t *Table) IsEmpty() bool {
	return len(t.Rows) == 0 || len(t.Columns) == 0
}

// AppendRow adds a row, padding short rows with nulls
func (t *Table) AppendRow(cells []Cell) error {
	if len(cells) > len(t.Columns) {
		return fmt.Errorf("row %d has %d fields, expected %d", len(t.Rows), len(cells), len(t.Columns))
	}
	row := make(Row, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
	return nil
}

// ColumnIndex returns the position of a column or -1
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// AddFloatColumn appends a column of numbers to the table
func (t *Table) AddFloatColumn(name string, values []float64) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), len(t.Rows))
	}
	if t.ColumnIndex(name) >= 0 {
		return fmt.Errorf("column %q already exists", name)
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], Str(FormatFloat(values[i])))
	}
	return nil
}

// FormatFloat renders a float the way written CSVs carry it
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Record returns row i as an ordered column → value object
func (t *Table) Record(i int) Record {
	return Record{columns: t.Columns, cells: t.Rows[i]}
}
