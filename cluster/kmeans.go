package cluster

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultSeed drives centroid initialization for reproducible fits.
	DefaultSeed = 42
	// DefaultRestarts is the number of independent k-means runs; the
	// lowest-inertia run wins.
	DefaultRestarts = 10
	// DefaultMaxIterations bounds Lloyd iterations per restart.
	DefaultMaxIterations = 100
)

// Options tune the training run.
type Options struct {
	Seed          int64
	Restarts      int
	MaxIterations int
}

func (o Options) withDefaults() Options {
	if o.Restarts <= 0 {
		o.Restarts = DefaultRestarts
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	return o
}

// Result is the chosen partition.
//
// Assignments maps every row to a cluster id; ids are dense, exactly
// {0, …, K-1} with no gaps and no empty clusters.
type Result struct {
	Assignments []int
	K           int
	Inertia     float64
}

// Train runs Lloyd's algorithm over a row-major matrix of n = len(data)/dim
// vectors and returns the best partition across restarts.
//
// Restart r seeds its own RNG with Seed+r, so results do not depend on
// scheduling even though restarts run in parallel. Restarts whose final
// partition contains an empty cluster are only chosen when every restart
// produced one; in that case labels are compacted to keep ids dense.
func Train(ctx context.Context, data []float64, dim, k int, opts Options) (*Result, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid dimension: %d", dim)
	}
	if len(data)%dim != 0 {
		return nil, fmt.Errorf("matrix length %d is not a multiple of dimension %d", len(data), dim)
	}
	n := len(data) / dim
	if n == 0 {
		return nil, fmt.Errorf("no vectors to cluster")
	}
	if k < 1 {
		return nil, fmt.Errorf("invalid cluster count: %d", k)
	}
	if k > n {
		k = n
	}

	opts = opts.withDefaults()

	restarts := make([]*restartResult, opts.Restarts)
	g, ctx := errgroup.WithContext(ctx)
	for r := 0; r < opts.Restarts; r++ {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(opts.Seed + int64(r)))
			res, err := runLloyd(ctx, data, dim, n, k, opts.MaxIterations, rng)
			if err != nil {
				return err
			}
			restarts[r] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := restarts[0]
	for _, cand := range restarts[1:] {
		if better(cand, best) {
			best = cand
		}
	}

	assignments, effectiveK := compactLabels(best.assignments, k)
	return &Result{
		Assignments: assignments,
		K:           effectiveK,
		Inertia:     best.inertia,
	}, nil
}

type restartResult struct {
	assignments []int
	inertia     float64
	hasEmpty    bool
}

// better prefers partitions without empty clusters, then lower inertia.
// Earlier restarts win ties, which Train guarantees by iteration order.
func better(cand, best *restartResult) bool {
	if cand.hasEmpty != best.hasEmpty {
		return best.hasEmpty
	}
	return cand.inertia < best.inertia
}

func runLloyd(ctx context.Context, data []float64, dim, n, k, maxIter int, rng *rand.Rand) (*restartResult, error) {
	centroids := make([]float64, k*dim)

	// Initialize centroids from distinct random data points.
	perm := rng.Perm(n)
	for i := 0; i < k; i++ {
		copy(centroids[i*dim:(i+1)*dim], data[perm[i]*dim:(perm[i]+1)*dim])
	}

	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1
	}
	counts := make([]int, k)
	sums := make([]float64, k*dim)

	for iter := 0; iter < maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		changed := false
		for i := 0; i < n; i++ {
			vec := data[i*dim : (i+1)*dim]
			best := nearestCentroid(vec, centroids, dim, k)
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		for i := range sums {
			sums[i] = 0
		}
		for i := range counts {
			counts[i] = 0
		}
		for i := 0; i < n; i++ {
			c := assignments[i]
			vec := data[i*dim : (i+1)*dim]
			for d := 0; d < dim; d++ {
				sums[c*dim+d] += vec[d]
			}
			counts[c]++
		}

		for j := 0; j < k; j++ {
			if counts[j] > 0 {
				scale := 1 / float64(counts[j])
				for d := 0; d < dim; d++ {
					centroids[j*dim+d] = sums[j*dim+d] * scale
				}
			} else {
				// Reseed an empty cluster with a random point.
				idx := rng.Intn(n)
				copy(centroids[j*dim:(j+1)*dim], data[idx*dim:(idx+1)*dim])
			}
		}
	}

	// Final assignment pass against the final centroids, plus inertia.
	var inertia float64
	for i := range counts {
		counts[i] = 0
	}
	for i := 0; i < n; i++ {
		vec := data[i*dim : (i+1)*dim]
		best := nearestCentroid(vec, centroids, dim, k)
		assignments[i] = best
		counts[best]++
		inertia += squaredL2(vec, centroids[best*dim:(best+1)*dim])
	}

	hasEmpty := false
	for _, c := range counts {
		if c == 0 {
			hasEmpty = true
			break
		}
	}

	return &restartResult{
		assignments: assignments,
		inertia:     inertia,
		hasEmpty:    hasEmpty,
	}, nil
}

func nearestCentroid(vec, centroids []float64, dim, k int) int {
	best := 0
	minDist := math.MaxFloat64
	for j := 0; j < k; j++ {
		d := squaredL2(vec, centroids[j*dim:(j+1)*dim])
		if d < minDist {
			minDist = d
			best = j
		}
	}
	return best
}

// squaredL2 calculates the squared Euclidean distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func squaredL2(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// compactLabels renumbers assignments so used cluster ids are exactly
// {0, …, k'-1}, preserving the order of first-use by original id.
func compactLabels(assignments []int, k int) ([]int, int) {
	used := make([]bool, k)
	for _, a := range assignments {
		used[a] = true
	}

	remap := make([]int, k)
	next := 0
	for id := 0; id < k; id++ {
		if used[id] {
			remap[id] = next
			next++
		}
	}
	if next == k {
		return assignments, k
	}

	out := make([]int, len(assignments))
	for i, a := range assignments {
		out[i] = remap[a]
	}
	return out, next
}
