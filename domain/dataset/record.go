package dataset

import (
	"bytes"
	"encoding/json"
)

// Record is one row keyed by column name. It marshals to a JSON object whose
// keys follow the table's column order.
type Record struct {
	columns []string
	cells   Row
}

// Get returns the cell for a column
func (r Record) Get(column string) (Cell, bool) {
	for i, c := range r.columns {
		if c == column {
			return r.cells[i], true
		}
	}
	return Cell{}, false
}

// Len returns the number of fields
func (r Record) Len() int {
	return len(r.columns)
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := r.cells[i].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
