package pca

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// zeroScaleTolerance is the standard deviation below which a column is
// treated as constant and left unscaled.
const zeroScaleTolerance = 10 * 2.220446049250313e-16

// ImputeMean replaces missing values of each column with the mean of its
// present values, in place.
func ImputeMean(cols []NumericColumn) error {
	for c := range cols {
		mean, err := stats.Mean(cols[c].PresentValues())
		if err != nil {
			return fmt.Errorf("column %q: %w", cols[c].Name, err)
		}
		for i, missing := range cols[c].Missing {
			if missing {
				cols[c].Values[i] = mean
			}
		}
	}
	return nil
}

// Standardize rescales each column to zero mean and unit population
// variance, in place. Constant columns become all zeros.
func Standardize(cols []NumericColumn) error {
	for c := range cols {
		values := cols[c].Values
		mean, err := stats.Mean(values)
		if err != nil {
			return fmt.Errorf("column %q: %w", cols[c].Name, err)
		}
		std, err := stats.StandardDeviationPopulation(values)
		if err != nil {
			return fmt.Errorf("column %q: %w", cols[c].Name, err)
		}
		if std < zeroScaleTolerance {
			std = 1
		}
		for i, v := range values {
			values[i] = (v - mean) / std
		}
	}
	return nil
}
