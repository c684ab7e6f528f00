package excel

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"csvstats/domain/dataset"
)

// WorkbookConfig controls workbook export
type WorkbookConfig struct {
	SheetName string
	// NumericCells stores cells that parse as finite numbers as numbers
	// rather than text.
	NumericCells bool
}

// DefaultWorkbookConfig writes to Sheet1 with numeric cells
func DefaultWorkbookConfig() WorkbookConfig {
	return WorkbookConfig{SheetName: "Sheet1", NumericCells: true}
}

// WorkbookWriter exports tables as XLSX workbooks. It implements
// ports.TableWriter.
type WorkbookWriter struct {
	config WorkbookConfig
}

// NewWorkbookWriter creates a workbook writer
func NewWorkbookWriter(config WorkbookConfig) *WorkbookWriter {
	if config.SheetName == "" {
		config.SheetName = DefaultWorkbookConfig().SheetName
	}
	return &WorkbookWriter{config: config}
}

// Write encodes t as a single-sheet workbook
func (w *WorkbookWriter) Write(out io.Writer, t *dataset.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := w.config.SheetName
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for r, row := range t.Rows {
		values := make([]interface{}, len(row))
		for i, cell := range row {
			values[i] = w.cellValue(cell)
		}
		axis, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (w *WorkbookWriter) cellValue(cell dataset.Cell) interface{} {
	if cell.IsNull() {
		return nil
	}
	if w.config.NumericCells {
		if v, err := strconv.ParseFloat(cell.Value, 64); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
			return v
		}
	}
	return cell.Value
}
