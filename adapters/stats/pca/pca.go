// Package pca reduces the numeric columns of a table to its leading
// principal components.
//
// The pipeline is: select numeric columns, impute missing cells with the
// column mean, standardize to zero mean and unit population variance, then
// project onto the leading components of the standardized matrix.
package pca

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"csvstats/domain/dataset"
)

var (
	// ErrEmptyTable is returned for a table without rows or columns.
	ErrEmptyTable = errors.New("CSV is empty")
	// ErrTooFewNumericColumns is returned when fewer numeric columns than
	// components exist.
	ErrTooFewNumericColumns = errors.New("Need at least 2 numeric columns for PCA")
)

// Config controls the reduction
type Config struct {
	Components int
	// ColumnPrefix names the appended score columns: PCA_1, PCA_2, ...
	ColumnPrefix string
}

// DefaultConfig reduces to two components named PCA_1 and PCA_2
func DefaultConfig() Config {
	return Config{Components: 2, ColumnPrefix: "PCA_"}
}

// Result holds the projection of every row
type Result struct {
	NumericColumns []string
	// Scores is rows x Components.
	Scores *mat.Dense
	// ExplainedVarianceRatio has one entry per component, each in [0,1].
	ExplainedVarianceRatio []float64
}

// ColumnNames returns the names of the score columns
func (c Config) ColumnNames() []string {
	names := make([]string, c.Components)
	for i := range names {
		names[i] = fmt.Sprintf("%s%d", c.ColumnPrefix, i+1)
	}
	return names
}

// Reducer runs principal component analysis over table columns
type Reducer struct {
	config Config
}

// NewReducer creates a reducer
func NewReducer(config Config) *Reducer {
	if config.Components <= 0 {
		config.Components = DefaultConfig().Components
	}
	if config.ColumnPrefix == "" {
		config.ColumnPrefix = DefaultConfig().ColumnPrefix
	}
	return &Reducer{config: config}
}

// Config returns the reducer configuration
func (r *Reducer) Config() Config {
	return r.config
}

// Reduce computes component scores for every row of t
func (r *Reducer) Reduce(t *dataset.Table) (*Result, error) {
	if t.IsEmpty() {
		return nil, ErrEmptyTable
	}

	cols := SelectNumeric(t)
	if len(cols) < r.config.Components {
		return nil, ErrTooFewNumericColumns
	}

	if err := ImputeMean(cols); err != nil {
		return nil, fmt.Errorf("imputation failed: %w", err)
	}
	if err := Standardize(cols); err != nil {
		return nil, fmt.Errorf("scaling failed: %w", err)
	}

	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}

	x := toMatrix(cols)
	scores, ratios, err := r.project(x)
	if err != nil {
		return nil, err
	}

	return &Result{
		NumericColumns:         names,
		Scores:                 scores,
		ExplainedVarianceRatio: ratios,
	}, nil
}

// Augment appends the score columns of res to t
func (r *Reducer) Augment(t *dataset.Table, res *Result) error {
	for k, name := range r.config.ColumnNames() {
		if err := t.AddFloatColumn(name, mat.Col(nil, k, res.Scores)); err != nil {
			return err
		}
	}
	return nil
}

func toMatrix(cols []NumericColumn) *mat.Dense {
	n := len(cols[0].Values)
	x := mat.NewDense(n, len(cols), nil)
	for j, c := range cols {
		x.SetCol(j, c.Values)
	}
	return x
}

// project returns the scores of x on the leading components together with
// the fraction of total variance each one explains. x must be centred.
func (r *Reducer) project(x *mat.Dense) (*mat.Dense, []float64, error) {
	n, d := x.Dims()
	k := r.config.Components
	scores := mat.NewDense(n, k, nil)
	ratios := make([]float64, k)

	// A single observation has no variance to decompose.
	if n < 2 || mat.Norm(x, 2) == 0 {
		return scores, ratios, nil
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return nil, nil, errors.New("principal component decomposition failed")
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	total := 0.0
	for _, v := range vars {
		total += v
	}
	if total <= 0 || math.IsNaN(total) {
		return scores, ratios, nil
	}

	available := min(k, len(vars))
	alignSigns(&vecs, available)

	w := vecs.Slice(0, d, 0, available)
	var projected mat.Dense
	projected.Mul(x, w)
	for j := 0; j < available; j++ {
		scores.SetCol(j, mat.Col(nil, j, &projected))
		ratios[j] = clamp01(vars[j] / total)
	}

	if sum := sumOf(ratios); sum > 1 {
		for j := range ratios {
			ratios[j] /= sum
		}
	}

	return scores, ratios, nil
}

// alignSigns flips component columns so that the loading with the largest
// magnitude is positive, making scores deterministic across runs.
func alignSigns(vecs *mat.Dense, k int) {
	d, _ := vecs.Dims()
	for j := 0; j < k; j++ {
		maxAbs, sign := 0.0, 1.0
		for i := 0; i < d; i++ {
			v := vecs.At(i, j)
			if math.Abs(v) > maxAbs {
				maxAbs = math.Abs(v)
				sign = math.Copysign(1, v)
			}
		}
		if sign < 0 {
			for i := 0; i < d; i++ {
				vecs.Set(i, j, -vecs.At(i, j))
			}
		}
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func sumOf(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum
}
