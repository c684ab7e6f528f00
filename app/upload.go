package app

import (
	"io"
	"strings"

	"csvstats/domain/core"
	"csvstats/internal/errors"
)

// CSVSuffix is the only accepted upload extension. The comparison is
// case-sensitive.
const CSVSuffix = ".csv"

// Upload is one file received by a service
type Upload struct {
	RequestID core.RequestID
	Filename  string
	Body      io.Reader
}

// ValidateFilename rejects uploads whose name does not end in .csv
func ValidateFilename(name string) error {
	if !strings.HasSuffix(name, CSVSuffix) {
		return errors.InvalidInput("Only CSV files are allowed")
	}
	return nil
}
