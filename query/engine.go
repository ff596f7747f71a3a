// Package query answers conjunctive exact-match counting queries against the
// raw records of one snapshot.
//
// The engine is an inverted index: for every column, each distinct value maps
// to a Roaring bitmap of the rows holding it. A multi-attribute query is the
// intersection of the matching bitmaps, which short-circuits to zero as soon
// as any applied filter empties the intersection. Matching is case-insensitive
// on the canonical string representation of values.
package query

import (
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/aequitas/anonymizer/dataset"
)

// Engine is an immutable per-snapshot query index.
type Engine struct {
	index map[string]map[string]*roaring.Bitmap
	rows  int
}

// NewEngine indexes every column of the dataset, sensitive ones included:
// role exclusion applies to features and aggregates, not to exact-match
// filters. Missing cells are not indexed and therefore never match.
func NewEngine(ds *dataset.Dataset) *Engine {
	index := make(map[string]map[string]*roaring.Bitmap, len(ds.Columns))
	for _, col := range ds.Columns {
		index[col] = make(map[string]*roaring.Bitmap)
	}

	for i, rec := range ds.Records {
		for _, col := range ds.Columns {
			v := rec[col]
			if v.IsNull() {
				continue
			}
			key := normalize(v.String())
			bm := index[col][key]
			if bm == nil {
				bm = roaring.New()
				index[col][key] = bm
			}
			bm.Add(uint32(i))
		}
	}

	return &Engine{
		index: index,
		rows:  ds.Len(),
	}
}

// HasColumn reports whether the engine indexes the named column.
func (e *Engine) HasColumn(name string) bool {
	_, ok := e.index[normalize(name)]
	return ok
}

// Count returns the number of records matching every applied filter.
//
// Filters with empty values or unknown column names are ignored rather than
// rejected. With no applied filters the count is the full record count; the
// privacy gate's result-size cap handles that breadth downstream.
func (e *Engine) Count(filters map[string]string) int {
	// Sorted iteration keeps evaluation order deterministic.
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var acc *roaring.Bitmap
	for _, k := range keys {
		value := normalize(filters[k])
		if value == "" {
			continue
		}
		column, ok := e.index[normalize(k)]
		if !ok {
			continue
		}

		bm := column[value]
		if bm == nil {
			return 0
		}
		if acc == nil {
			acc = bm.Clone()
		} else {
			acc.And(bm)
		}
		if acc.IsEmpty() {
			return 0
		}
	}

	if acc == nil {
		return e.rows
	}
	return int(acc.GetCardinality())
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
