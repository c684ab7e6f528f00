package ports

import (
	"io"

	"csvstats/domain/dataset"
)

// TableReader parses an uploaded file into a table
type TableReader interface {
	Read(r io.Reader) (*dataset.Table, error)
}

// TableWriter serializes a table
type TableWriter interface {
	Write(w io.Writer, t *dataset.Table) error
}
