// Package aggregate computes the per-cluster summaries released to callers:
// group sizes, numeric means and categorical modes. It works on the original
// records, never on the feature encoding, and it never touches sensitive
// columns.
package aggregate

import (
	"fmt"

	"github.com/aequitas/anonymizer/dataset"
)

// Summary describes one cluster at the aggregate level.
type Summary struct {
	// Size is the number of records assigned to the cluster.
	Size int
	// NumericMeans maps each non-sensitive numeric column to its mean over
	// non-missing values. A column with no values in the cluster is absent.
	NumericMeans map[string]float64
	// CategoricalModes maps each non-sensitive categorical column to its
	// most frequent non-missing value; ties break to the lexicographically
	// smallest value. A column with no values in the cluster is absent.
	CategoricalModes map[string]string
}

// Build groups records by cluster id and summarizes each group.
// Summaries are indexed by cluster id; assignments must be dense in [0, k).
func Build(ds *dataset.Dataset, assignments []int, k int) ([]Summary, error) {
	if len(assignments) != ds.Len() {
		return nil, fmt.Errorf("assignment count %d does not match record count %d", len(assignments), ds.Len())
	}

	numericCols := ds.Schema.NumericColumns()
	categoricalCols := ds.Schema.CategoricalColumns()

	type numericAcc struct {
		sum   float64
		count int
	}
	sizes := make([]int, k)
	numeric := make([]map[string]*numericAcc, k)
	categorical := make([]map[string]map[string]int, k)
	for c := 0; c < k; c++ {
		numeric[c] = make(map[string]*numericAcc, len(numericCols))
		categorical[c] = make(map[string]map[string]int, len(categoricalCols))
	}

	for i, rec := range ds.Records {
		c := assignments[i]
		if c < 0 || c >= k {
			return nil, fmt.Errorf("record %d assigned to cluster %d, want [0, %d)", i, c, k)
		}
		sizes[c]++

		for _, col := range numericCols {
			v := rec[col]
			if v.IsNull() {
				continue
			}
			acc := numeric[c][col]
			if acc == nil {
				acc = &numericAcc{}
				numeric[c][col] = acc
			}
			acc.sum += v.F64
			acc.count++
		}

		for _, col := range categoricalCols {
			v := rec[col]
			if v.IsNull() {
				continue
			}
			counts := categorical[c][col]
			if counts == nil {
				counts = make(map[string]int)
				categorical[c][col] = counts
			}
			counts[v.String()]++
		}
	}

	summaries := make([]Summary, k)
	for c := 0; c < k; c++ {
		s := Summary{
			Size:             sizes[c],
			NumericMeans:     make(map[string]float64, len(numeric[c])),
			CategoricalModes: make(map[string]string, len(categorical[c])),
		}
		for col, acc := range numeric[c] {
			s.NumericMeans[col] = acc.sum / float64(acc.count)
		}
		for col, counts := range categorical[c] {
			s.CategoricalModes[col] = mode(counts)
		}
		summaries[c] = s
	}
	return summaries, nil
}

// mode returns the most frequent value; ties break to the lexicographically
// smallest value so the result does not depend on map iteration order.
func mode(counts map[string]int) string {
	var best string
	bestCount := -1
	for value, count := range counts {
		if count > bestCount || (count == bestCount && value < best) {
			best = value
			bestCount = count
		}
	}
	return best
}
