package csvfile

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"csvstats/domain/dataset"
	"csvstats/internal"
)

// MissingPolicy decides which raw cells become null
type MissingPolicy int

const (
	// PandasNA treats empty cells and the pandas default NA tokens as missing.
	PandasNA MissingPolicy = iota
	// BlankNull treats empty and whitespace-only cells as null.
	BlankNull
)

// pandasNATokens are the strings pandas.read_csv reads as NaN by default.
var pandasNATokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReaderConfig controls CSV parsing
type ReaderConfig struct {
	Missing MissingPolicy
}

// Reader parses CSV uploads into tables. It implements ports.TableReader.
type Reader struct {
	config ReaderConfig
	logger *internal.Logger
}

// NewReader creates a CSV reader
func NewReader(config ReaderConfig, logger *internal.Logger) *Reader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Reader{config: config, logger: logger.With("CSVReader")}
}

// Read parses src. The first record is the header; a source without any
// record yields a table with no columns.
func (r *Reader) Read(src io.Reader) (*dataset.Table, error) {
	br := bufio.NewReader(src)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return dataset.NewTable(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	table := dataset.NewTable(uniqueHeaders(header))
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		// Short rows are padded with nulls; wide rows have no column to
		// hold the extra fields.
		if len(record) > table.NumCols() {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("expected %d fields in line %d, saw %d",
				table.NumCols(), line, len(record))
		}

		cells := make([]dataset.Cell, len(record))
		for i, raw := range record {
			cells[i] = r.cell(raw)
		}
		if err := table.AppendRow(cells); err != nil {
			return nil, err
		}
	}

	r.logger.Debug("parsed %d rows x %d columns", table.NumRows(), table.NumCols())
	return table, nil
}

func (r *Reader) cell(raw string) dataset.Cell {
	switch r.config.Missing {
	case BlankNull:
		if strings.TrimSpace(raw) == "" {
			return dataset.Null()
		}
	default:
		if _, ok := pandasNATokens[raw]; ok {
			return dataset.Null()
		}
	}
	return dataset.Str(raw)
}

// uniqueHeaders names blank headers "Unnamed: i" and suffixes repeated
// names with ".1", ".2", ... so every column is addressable.
func uniqueHeaders(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		if _, dup := seen[name]; dup {
			for k := seen[h] + 1; ; k++ {
				candidate := h + "." + strconv.Itoa(k)
				if _, taken := seen[candidate]; !taken {
					seen[h] = k
					name = candidate
					break
				}
			}
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}
