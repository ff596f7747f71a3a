package anonymizer

import (
	"log/slog"

	"github.com/aequitas/anonymizer/cluster"
)

// Defaults for the privacy policy and the sensitive-column set.
const (
	DefaultKAnonymity = 10
	DefaultMaxResults = 4000
)

// DefaultSensitiveColumns are the identifying attributes excluded from
// feature construction and aggregation. The full name is sensitive as a
// feature but still addressable by exact-match query filters.
var DefaultSensitiveColumns = []string{"name", "national_id", "phone", "address"}

type options struct {
	k           int
	maxResults  int
	sensitive   []string
	clusterOpts cluster.Options
	logger      *Logger
	metrics     MetricsCollector
}

// Option configures Anonymizer construction.
type Option func(*options)

// WithKAnonymity sets the minimum group size K for any disclosure.
// Values below 1 fall back to the default.
func WithKAnonymity(k int) Option {
	return func(o *options) {
		if k >= 1 {
			o.k = k
		}
	}
}

// WithMaxResults sets the maximum disclosable result size.
// Zero or below disables the cap.
func WithMaxResults(max int) Option {
	return func(o *options) {
		o.maxResults = max
	}
}

// WithSensitiveColumns replaces the default sensitive-column set.
func WithSensitiveColumns(columns ...string) Option {
	return func(o *options) {
		o.sensitive = columns
	}
}

// WithSeed sets the clustering RNG seed. Fits with the same seed and the
// same source produce the same partition.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.clusterOpts.Seed = seed
	}
}

// WithRestarts sets the number of independent k-means restarts per fit.
func WithRestarts(restarts int) Option {
	return func(o *options) {
		o.clusterOpts.Restarts = restarts
	}
}

// WithMaxIterations bounds Lloyd iterations per restart.
func WithMaxIterations(maxIter int) Option {
	return func(o *options) {
		o.clusterOpts.MaxIterations = maxIter
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		k:          DefaultKAnonymity,
		maxResults: DefaultMaxResults,
		sensitive:  DefaultSensitiveColumns,
		clusterOpts: cluster.Options{
			Seed:          cluster.DefaultSeed,
			Restarts:      cluster.DefaultRestarts,
			MaxIterations: cluster.DefaultMaxIterations,
		},
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
