package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"

	"csvstats/domain/dataset"
)

// Writer serializes tables as CSV with a header row. Null cells are written
// as empty fields. It implements ports.TableWriter.
type Writer struct{}

// NewWriter creates a CSV writer
func NewWriter() *Writer {
	return &Writer{}
}

// Write encodes t to w
func (Writer) Write(w io.Writer, t *dataset.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, t.NumCols())
	for i, row := range t.Rows {
		for j := range record {
			record[j] = ""
			if j < len(row) && row[j].Valid {
				record[j] = row[j].Value
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
