// Package metrics exposes the pipeline's operational counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aequitas/anonymizer/privacy"
)

// Collector implements anonymizer.MetricsCollector on top of Prometheus.
type Collector struct {
	fitTotal         *prometheus.CounterVec
	fitDuration      prometheus.Histogram
	queryTotal       *prometheus.CounterVec
	clusterReadTotal *prometheus.CounterVec
}

// New creates and registers all collectors on reg.
// Use prometheus.DefaultRegisterer outside of tests.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		fitTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "anonymizer_fit_total",
			Help: "Fit cycles by status.",
		}, []string{"status"}),
		fitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "anonymizer_fit_duration_seconds",
			Help:    "Wall time of fit cycles.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		queryTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "anonymizer_query_total",
			Help: "Counting queries by privacy gate outcome.",
		}, []string{"outcome"}),
		clusterReadTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "anonymizer_cluster_read_total",
			Help: "Cluster listing/detail reads by status.",
		}, []string{"status"}),
	}
}

// RecordFit implements anonymizer.MetricsCollector.
func (c *Collector) RecordFit(duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.fitTotal.WithLabelValues(status).Inc()
	c.fitDuration.Observe(duration.Seconds())
}

// RecordQuery implements anonymizer.MetricsCollector.
func (c *Collector) RecordQuery(_ time.Duration, outcome privacy.Outcome) {
	c.queryTotal.WithLabelValues(outcome.String()).Inc()
}

// RecordClusterRead implements anonymizer.MetricsCollector.
func (c *Collector) RecordClusterRead(_ time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "refused"
	}
	c.clusterReadTotal.WithLabelValues(status).Inc()
}
