package anonymizer

import (
	"time"

	"github.com/aequitas/anonymizer/aggregate"
	"github.com/aequitas/anonymizer/dataset"
	"github.com/aequitas/anonymizer/query"
)

// Snapshot is the complete, immutable result of one fit cycle: records,
// column roles, cluster assignments, summaries and the query index. Queries
// always read one snapshot; a new fit builds a new Snapshot out-of-place and
// replaces the installed one atomically. No field is ever mutated after
// construction.
type Snapshot struct {
	Data        *dataset.Dataset
	Assignments []int
	NumClusters int
	Summaries   []aggregate.Summary
	FittedAt    time.Time

	engine *query.Engine
}

// NumRecords returns the record count of the snapshot.
func (s *Snapshot) NumRecords() int {
	return s.Data.Len()
}
