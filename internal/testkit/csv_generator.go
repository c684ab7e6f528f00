// Package testkit generates deterministic CSV fixtures for tests.
package testkit

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math/rand"
	"strconv"
)

// CSVGeneratorConfig configures the synthetic CSV generator
type CSVGeneratorConfig struct {
	Rows           int     `json:"rows"`
	NumericColumns int     `json:"numeric_columns"`
	TextColumns    int     `json:"text_columns"`
	MissingRate    float64 `json:"missing_rate"`   // share of numeric cells left empty
	DuplicateRate  float64 `json:"duplicate_rate"` // share of rows copied from an earlier row
	Seed           int64   `json:"seed"`
}

// DefaultCSVConfig returns a small mixed-type table
func DefaultCSVConfig() CSVGeneratorConfig {
	return CSVGeneratorConfig{
		Rows:           25,
		NumericColumns: 3,
		TextColumns:    1,
		MissingRate:    0.05,
		DuplicateRate:  0.1,
		Seed:           42,
	}
}

// CSVGenerator produces CSV documents whose numeric columns share a latent
// factor, so principal components have structure to find.
type CSVGenerator struct {
	config CSVGeneratorConfig
	rng    *rand.Rand
}

// NewCSVGenerator creates a new generator
func NewCSVGenerator(config CSVGeneratorConfig) *CSVGenerator {
	return &CSVGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Header returns the column names: num_1..num_N then text_1..text_M
func (g *CSVGenerator) Header() []string {
	header := make([]string, 0, g.config.NumericColumns+g.config.TextColumns)
	for i := 1; i <= g.config.NumericColumns; i++ {
		header = append(header, fmt.Sprintf("num_%d", i))
	}
	for i := 1; i <= g.config.TextColumns; i++ {
		header = append(header, fmt.Sprintf("text_%d", i))
	}
	return header
}

// Records generates the data rows, header excluded
func (g *CSVGenerator) Records() [][]string {
	records := make([][]string, 0, g.config.Rows)
	for r := 0; r < g.config.Rows; r++ {
		if r > 0 && g.rng.Float64() < g.config.DuplicateRate {
			src := records[g.rng.Intn(len(records))]
			records = append(records, append([]string(nil), src...))
			continue
		}
		records = append(records, g.record(r))
	}
	return records
}

func (g *CSVGenerator) record(r int) []string {
	latent := g.rng.NormFloat64()
	rec := make([]string, 0, g.config.NumericColumns+g.config.TextColumns)
	for c := 0; c < g.config.NumericColumns; c++ {
		// The first row is always complete so no column is all-missing.
		if r > 0 && g.rng.Float64() < g.config.MissingRate {
			rec = append(rec, "")
			continue
		}
		v := float64(c+1)*latent + g.rng.NormFloat64()*0.3 + float64(10*c)
		rec = append(rec, strconv.FormatFloat(v, 'f', 3, 64))
	}
	for c := 0; c < g.config.TextColumns; c++ {
		rec = append(rec, fmt.Sprintf("label_%d_%d", c+1, g.rng.Intn(5)))
	}
	return rec
}

// Generate returns a complete CSV document
func (g *CSVGenerator) Generate() []byte {
	return Encode(g.Header(), g.Records())
}

// Encode writes header and records as CSV
func Encode(header []string, records [][]string) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(header)
	w.WriteAll(records)
	return buf.Bytes()
}

// NumericCSV returns rows x cols fully populated numeric data
func NumericCSV(rows, cols int, seed int64) []byte {
	return NewCSVGenerator(CSVGeneratorConfig{
		Rows:           rows,
		NumericColumns: cols,
		Seed:           seed,
	}).Generate()
}
