package anonymizer

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aequitas/anonymizer/aggregate"
	"github.com/aequitas/anonymizer/cluster"
	"github.com/aequitas/anonymizer/dataset"
	"github.com/aequitas/anonymizer/feature"
	"github.com/aequitas/anonymizer/privacy"
	"github.com/aequitas/anonymizer/query"
)

// Anonymizer owns the fit pipeline and serves privacy-gated queries against
// the currently installed snapshot.
//
// Fit is a single-writer operation: concurrent fits serialize on a mutex and
// each builds its snapshot out-of-place before one atomic install. Queries
// are lock-free reads and may run concurrently with a fit in progress.
type Anonymizer struct {
	src         dataset.Source
	k           int
	maxResults  int
	sensitive   []string
	clusterOpts cluster.Options
	logger      *Logger
	metrics     MetricsCollector

	fitMu   sync.Mutex
	current atomic.Pointer[Snapshot]
}

// New creates an Anonymizer reading its raw dataset from src.
func New(src dataset.Source, optFns ...Option) *Anonymizer {
	o := applyOptions(optFns)
	return &Anonymizer{
		src:         src,
		k:           o.k,
		maxResults:  o.maxResults,
		sensitive:   o.sensitive,
		clusterOpts: o.clusterOpts,
		logger:      o.logger,
		metrics:     o.metrics,
	}
}

// FitResult reports the outcome of one fit cycle.
type FitResult struct {
	NumRecords  int `json:"num_records"`
	NumClusters int `json:"num_clusters"`
	KAnonymity  int `json:"k_anonymity"`
	MaxResults  int `json:"max_results"`
}

// Fit reloads the dataset and re-runs the whole pipeline from scratch:
// load, feature construction, clustering, aggregation. On success the new
// snapshot replaces the previous one atomically. On failure the previous
// snapshot, if any, keeps serving untouched.
//
// requestedClusters of at least 2 overrides the adaptive cluster-count
// policy; anything lower selects it.
func (a *Anonymizer) Fit(ctx context.Context, requestedClusters int) (*FitResult, error) {
	a.fitMu.Lock()
	defer a.fitMu.Unlock()

	start := time.Now()
	records, clusters := 0, 0
	var err error
	defer func() {
		a.metrics.RecordFit(time.Since(start), err)
		a.logger.LogFit(ctx, records, clusters, time.Since(start), err)
	}()

	rc, openErr := a.src.Open(ctx)
	if openErr != nil {
		err = &DataSourceError{cause: openErr}
		return nil, err
	}
	defer rc.Close()

	ds, loadErr := dataset.Load(rc, a.sensitive)
	if loadErr != nil {
		err = &DataSourceError{cause: loadErr}
		return nil, err
	}
	records = ds.Len()

	matrix, buildErr := feature.Build(ds)
	if buildErr != nil {
		err = &FeatureError{cause: buildErr}
		return nil, err
	}

	k := cluster.ChooseK(ds.Len(), requestedClusters)
	trained, trainErr := cluster.Train(ctx, matrix.Data, matrix.Dim, k, a.clusterOpts)
	if trainErr != nil {
		err = trainErr
		return nil, err
	}
	clusters = trained.K

	summaries, aggErr := aggregate.Build(ds, trained.Assignments, trained.K)
	if aggErr != nil {
		err = aggErr
		return nil, err
	}

	snap := &Snapshot{
		Data:        ds,
		Assignments: trained.Assignments,
		NumClusters: trained.K,
		Summaries:   summaries,
		FittedAt:    time.Now(),
		engine:      query.NewEngine(ds),
	}
	a.current.Store(snap)

	return &FitResult{
		NumRecords:  ds.Len(),
		NumClusters: trained.K,
		KAnonymity:  a.k,
		MaxResults:  a.maxResults,
	}, nil
}

// Ready reports whether a snapshot is installed.
func (a *Anonymizer) Ready() bool {
	return a.current.Load() != nil
}

// Snapshot returns the currently installed snapshot, or nil before the
// first successful fit.
func (a *Anonymizer) Snapshot() *Snapshot {
	return a.current.Load()
}

func (a *Anonymizer) snapshot() (*Snapshot, error) {
	snap := a.current.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	return snap, nil
}

// NameStats is the gated answer to a single-name counting query.
type NameStats struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Anonymized bool   `json:"anonymized"`
	Message    string `json:"message"`
}

// NameStats counts records whose name matches (case-insensitive) and routes
// the count through the privacy gate.
func (a *Anonymizer) NameStats(ctx context.Context, name string) (*NameStats, error) {
	snap, err := a.snapshot()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	count := snap.engine.Count(map[string]string{"name": name})
	decision := privacy.Decide(count, a.k, a.maxResults)
	a.metrics.RecordQuery(time.Since(start), decision.Outcome)
	a.logger.LogQuery(ctx, "name", decision)

	return &NameStats{
		Name:       name,
		Count:      decision.ReportedCount(),
		Anonymized: true,
		Message:    nameMessage(decision, name),
	}, nil
}

// QueryStats is the gated answer to a multi-attribute counting query.
type QueryStats struct {
	Filters    map[string]string `json:"filters"`
	Count      int               `json:"count"`
	Anonymized bool              `json:"anonymized"`
	Message    string            `json:"message"`
}

// Stats counts records matching every applied filter (conjunctive,
// case-insensitive exact match) and routes the count through the privacy
// gate. Filters with empty values or unknown columns are ignored.
func (a *Anonymizer) Stats(ctx context.Context, filters map[string]string) (*QueryStats, error) {
	snap, err := a.snapshot()
	if err != nil {
		return nil, err
	}

	applied := make(map[string]string, len(filters))
	for k, v := range filters {
		if v != "" {
			applied[k] = v
		}
	}

	start := time.Now()
	count := snap.engine.Count(applied)
	decision := privacy.Decide(count, a.k, a.maxResults)
	a.metrics.RecordQuery(time.Since(start), decision.Outcome)
	a.logger.LogQuery(ctx, "multi", decision)

	return &QueryStats{
		Filters:    applied,
		Count:      decision.ReportedCount(),
		Anonymized: true,
		Message:    filterMessage(decision),
	}, nil
}

// ClusterInfo is one row of the cluster listing.
type ClusterInfo struct {
	ClusterID int `json:"cluster_id"`
	Size      int `json:"size"`
}

// Clusters lists cluster ids and sizes, ordered by id. Clusters below the K
// threshold are silently omitted; the listing never acknowledges them.
func (a *Anonymizer) Clusters(ctx context.Context) ([]ClusterInfo, error) {
	snap, err := a.snapshot()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	infos := make([]ClusterInfo, 0, len(snap.Summaries))
	for id, s := range snap.Summaries {
		if s.Size < a.k {
			continue
		}
		infos = append(infos, ClusterInfo{ClusterID: id, Size: s.Size})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ClusterID < infos[j].ClusterID })

	a.metrics.RecordClusterRead(time.Since(start), nil)
	a.logger.LogClusterRead(ctx, "list", nil)
	return infos, nil
}

// ClusterDetail is the aggregate view of one cluster.
type ClusterDetail struct {
	ClusterID        int                `json:"cluster_id"`
	Size             int                `json:"size"`
	NumericMeans     map[string]float64 `json:"numeric_means"`
	CategoricalModes map[string]string  `json:"categorical_modes"`
}

// Cluster returns the aggregate detail for one cluster id.
//
// An unknown id yields ErrClusterNotFound; a known id below the K threshold
// yields ErrClusterSuppressed. The asymmetry with Clusters is intentional:
// a caller who already holds an id learns the cluster exists, so the detail
// path refuses explicitly instead of pretending absence.
func (a *Anonymizer) Cluster(ctx context.Context, id int) (*ClusterDetail, error) {
	snap, err := a.snapshot()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if id < 0 || id >= snap.NumClusters {
		err := fmt.Errorf("%w: id %d", ErrClusterNotFound, id)
		a.metrics.RecordClusterRead(time.Since(start), err)
		a.logger.LogClusterRead(ctx, "detail", err)
		return nil, err
	}

	summary := snap.Summaries[id]
	if summary.Size < a.k {
		err := fmt.Errorf("%w: id %d", ErrClusterSuppressed, id)
		a.metrics.RecordClusterRead(time.Since(start), err)
		a.logger.LogClusterRead(ctx, "detail", err)
		return nil, err
	}

	detail := &ClusterDetail{
		ClusterID:        id,
		Size:             summary.Size,
		NumericMeans:     make(map[string]float64, len(summary.NumericMeans)),
		CategoricalModes: make(map[string]string, len(summary.CategoricalModes)),
	}
	// Copies keep the snapshot immutable even against careless callers.
	for col, mean := range summary.NumericMeans {
		detail.NumericMeans[col] = mean
	}
	for col, mode := range summary.CategoricalModes {
		detail.CategoricalModes[col] = mode
	}

	a.metrics.RecordClusterRead(time.Since(start), nil)
	a.logger.LogClusterRead(ctx, "detail", nil)
	return detail, nil
}

func nameMessage(d privacy.Decision, name string) string {
	switch d.Outcome {
	case privacy.OutcomeEmpty:
		return fmt.Sprintf("No records found for name %q.", name)
	case privacy.OutcomeSuppressedKAnonymity:
		return "Records matching this name exist, but cannot be disclosed for privacy reasons (k-anonymity)."
	case privacy.OutcomeSuppressedMaxResults:
		return "The query matches too many records to disclose; narrow it down."
	default:
		return fmt.Sprintf("There are %d people named %q.", d.Count, name)
	}
}

func filterMessage(d privacy.Decision) string {
	switch d.Outcome {
	case privacy.OutcomeEmpty:
		return "No records match the given filters."
	case privacy.OutcomeSuppressedKAnonymity:
		return "Matching records exist, but cannot be disclosed for privacy reasons (k-anonymity)."
	case privacy.OutcomeSuppressedMaxResults:
		return "The query matches too many records to disclose; narrow it down."
	default:
		return fmt.Sprintf("There are %d records matching the given filters.", d.Count)
	}
}
