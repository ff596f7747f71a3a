package anonymizer

import (
	"sync/atomic"
	"time"

	"github.com/aequitas/anonymizer/privacy"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordFit is called after each fit cycle.
	// duration is the total time taken, err is nil if successful.
	RecordFit(duration time.Duration, err error)

	// RecordQuery is called after each count-producing query with the
	// privacy gate outcome.
	RecordQuery(duration time.Duration, outcome privacy.Outcome)

	// RecordClusterRead is called after each cluster listing or detail
	// lookup. err is nil if the read was served.
	RecordClusterRead(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFit(time.Duration, error)             {}
func (NoopMetricsCollector) RecordQuery(time.Duration, privacy.Outcome) {}
func (NoopMetricsCollector) RecordClusterRead(time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FitCount            atomic.Int64
	FitErrors           atomic.Int64
	FitTotalNanos       atomic.Int64
	QueryCount          atomic.Int64
	QueryEmpty          atomic.Int64
	QueryDisclosed      atomic.Int64
	QuerySuppressedK    atomic.Int64
	QuerySuppressedMax  atomic.Int64
	ClusterReadCount    atomic.Int64
	ClusterReadRefusals atomic.Int64
}

// RecordFit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFit(duration time.Duration, err error) {
	b.FitCount.Add(1)
	b.FitTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FitErrors.Add(1)
	}
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(_ time.Duration, outcome privacy.Outcome) {
	b.QueryCount.Add(1)
	switch outcome {
	case privacy.OutcomeEmpty:
		b.QueryEmpty.Add(1)
	case privacy.OutcomeDisclose:
		b.QueryDisclosed.Add(1)
	case privacy.OutcomeSuppressedKAnonymity:
		b.QuerySuppressedK.Add(1)
	case privacy.OutcomeSuppressedMaxResults:
		b.QuerySuppressedMax.Add(1)
	}
}

// RecordClusterRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClusterRead(_ time.Duration, err error) {
	b.ClusterReadCount.Add(1)
	if err != nil {
		b.ClusterReadRefusals.Add(1)
	}
}
