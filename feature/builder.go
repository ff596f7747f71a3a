// Package feature turns raw records into the numeric matrix used for
// clustering. Sensitive columns never enter the feature space.
package feature

import (
	"errors"
	"math"
	"sort"

	"github.com/aequitas/anonymizer/dataset"
)

// ErrNoUsableColumns is returned when, after dropping sensitive columns,
// nothing remains to cluster on.
var ErrNoUsableColumns = errors.New("no usable columns for clustering")

// UnknownCategory is the sentinel substituted for missing categorical values
// before one-hot encoding.
const UnknownCategory = "UNKNOWN"

// Matrix is a dense row-major feature matrix: Rows vectors of Dim values.
//
// Columns names the feature columns in encoding order: numeric columns
// first (sorted by name), then one-hot indicators sorted by (column, value).
// The ordering is stable: identical input yields an identical column set.
type Matrix struct {
	Data    []float64
	Rows    int
	Dim     int
	Columns []string
}

// Row returns the i-th feature vector as a sub-slice of Data.
func (m *Matrix) Row(i int) []float64 {
	return m.Data[i*m.Dim : (i+1)*m.Dim]
}

// Build constructs the z-score normalized feature matrix from the dataset.
//
// Numeric columns contribute one feature each, with missing values replaced
// by zero before scaling. That substitution biases sparse columns toward
// zero; clustering quality degrades with high missingness.
// Categorical columns contribute one binary indicator per distinct observed
// value, with missing values mapped to the UnknownCategory sentinel first.
func Build(ds *dataset.Dataset) (*Matrix, error) {
	numericCols := ds.Schema.NumericColumns()
	categoricalCols := ds.Schema.CategoricalColumns()
	if len(numericCols)+len(categoricalCols) == 0 {
		return nil, ErrNoUsableColumns
	}

	columns := make([]string, 0, len(numericCols))
	columns = append(columns, numericCols...)

	// One indicator column per distinct observed value, per categorical
	// column, in sorted order for a reproducible encoding.
	type oneHot struct {
		column string
		value  string
	}
	var indicators []oneHot
	for _, col := range categoricalCols {
		values := make(map[string]bool)
		for _, rec := range ds.Records {
			values[categoricalValue(rec, col)] = true
		}
		sorted := make([]string, 0, len(values))
		for v := range values {
			sorted = append(sorted, v)
		}
		sort.Strings(sorted)
		for _, v := range sorted {
			indicators = append(indicators, oneHot{column: col, value: v})
			columns = append(columns, col+"="+v)
		}
	}

	rows := ds.Len()
	dim := len(columns)
	data := make([]float64, rows*dim)

	for i, rec := range ds.Records {
		row := data[i*dim : (i+1)*dim]
		for j, col := range numericCols {
			if v := rec[col]; !v.IsNull() {
				row[j] = v.F64
			}
		}
		for j, ind := range indicators {
			if categoricalValue(rec, ind.column) == ind.value {
				row[len(numericCols)+j] = 1
			}
		}
	}

	m := &Matrix{
		Data:    data,
		Rows:    rows,
		Dim:     dim,
		Columns: columns,
	}
	m.normalize()
	return m, nil
}

func categoricalValue(rec dataset.Record, col string) string {
	v := rec[col]
	if v.IsNull() {
		return UnknownCategory
	}
	return v.String()
}

// normalize applies per-column z-score normalization over the whole matrix
// using the population standard deviation. Constant columns collapse to zero.
func (m *Matrix) normalize() {
	if m.Rows == 0 {
		return
	}
	for j := 0; j < m.Dim; j++ {
		var sum float64
		for i := 0; i < m.Rows; i++ {
			sum += m.Data[i*m.Dim+j]
		}
		mean := sum / float64(m.Rows)

		var sq float64
		for i := 0; i < m.Rows; i++ {
			d := m.Data[i*m.Dim+j] - mean
			sq += d * d
		}
		std := math.Sqrt(sq / float64(m.Rows))

		for i := 0; i < m.Rows; i++ {
			idx := i*m.Dim + j
			if std > 0 {
				m.Data[idx] = (m.Data[idx] - mean) / std
			} else {
				m.Data[idx] = 0
			}
		}
	}
}
