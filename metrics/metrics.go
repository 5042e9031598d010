// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus collectors for centrality runs and the
// analytics state slot. Every Recorder owns a private registry, so several
// recorders (one per test, say) never collide. A nil *Recorder is a valid
// no-op.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

const namespace = "meshlytics"

// Computation outcomes used as the "status" label.
const (
	StatusOK        = "ok"
	StatusError     = "error"
	StatusDiscarded = "discarded"
)

// Recorder holds the collectors and their registry.
type Recorder struct {
	registry *prometheus.Registry

	computations *prometheus.CounterVec
	failures     *prometheus.CounterVec
	duration     prometheus.Histogram
	stateNodes   prometheus.Gauge
	statePresent prometheus.Gauge
	stateClears  prometheus.Counter
}

// New creates a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		computations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "centrality",
				Name:      "computations_total",
				Help:      "Centrality computations by outcome (ok, error, discarded)",
			},
			[]string{"status"},
		),

		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "centrality",
				Name:      "failures_total",
				Help:      "Failed centrality computations by error kind",
			},
			[]string{"kind"},
		),

		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "centrality",
				Name:      "duration_seconds",
				Help:      "Wall time of a centrality computation in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
		),

		stateNodes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "state",
				Name:      "nodes",
				Help:      "Node count of the installed analytics result (0 when empty)",
			},
		),

		statePresent: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "state",
				Name:      "present",
				Help:      "Whether an analytics result is installed (0=empty, 1=present)",
			},
		),

		stateClears: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "state",
				Name:      "clears_total",
				Help:      "Number of times an installed analytics result was cleared",
			},
		),
	}

	r.registry.MustRegister(
		r.computations,
		r.failures,
		r.duration,
		r.stateNodes,
		r.statePresent,
		r.stateClears,
	)

	return r
}

// ObserveComputation records one finished run. kind is the error kind and
// is only used when status is StatusError.
func (r *Recorder) ObserveComputation(status, kind string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.computations.WithLabelValues(status).Inc()
	r.duration.Observe(elapsed.Seconds())
	if status == StatusError {
		r.failures.WithLabelValues(kind).Inc()
	}
}

// ObserveInstall records a newly installed result of n nodes.
func (r *Recorder) ObserveInstall(n int) {
	if r == nil {
		return
	}
	r.stateNodes.Set(float64(n))
	r.statePresent.Set(1)
}

// ObserveClear records a clear. removed reports whether a value was held.
func (r *Recorder) ObserveClear(removed bool) {
	if r == nil {
		return
	}
	r.stateNodes.Set(0)
	r.statePresent.Set(0)
	if removed {
		r.stateClears.Inc()
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}

	return r.registry
}

// Gather collects the current metric families.
func (r *Recorder) Gather() ([]*dto.MetricFamily, error) {
	if r == nil {
		return nil, nil
	}

	return r.registry.Gather()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}

	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// WriteText writes every metric family to w in the plain text format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gather: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err = enc.Encode(mf); err != nil {
			return fmt.Errorf("metrics: encode %s: %w", mf.GetName(), err)
		}
	}

	return nil
}
