// Package prompush pushes cleaning metrics to a Prometheus Pushgateway.
//
// A cleaning run is a short batch job with nothing to scrape, so the
// collectors live in a private registry and Flush pushes them under the job's
// grouping key. The job is therefore not a collector label.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"cleaner/internal/metrics"
)

// stageBuckets span 100µs to about 6.5s; stages over in-memory tables are fast.
var stageBuckets = prometheus.ExponentialBuckets(0.0001, 4, 9)

// counterSpec describes one counter the pipeline emits.
type counterSpec struct {
	help   string
	labels []string
}

var counterSpecs = map[string]counterSpec{
	metrics.StageTotal: {
		help:   "Cleaning stage executions by stage and status.",
		labels: []string{"stage", "status"},
	},
	metrics.RowsTotal: {
		help:   "Rows by kind: input, output, dropped_empty, duplicates_removed.",
		labels: []string{"kind"},
	},
	metrics.ValuesTotal: {
		help:   "Values or columns touched per stage by kind: replaced, converted_columns, filled_columns.",
		labels: []string{"stage", "kind"},
	},
}

// Backend collects metrics for one job and pushes them on Flush.
type Backend struct {
	gatewayURL string
	jobName    string
	reg        *prometheus.Registry

	counters      map[string]*prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// NewBackend registers the cleaning collectors for jobName. An empty job name
// means "cleaner".
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "cleaner"
	}

	b := &Backend{
		gatewayURL: gatewayURL,
		jobName:    jobName,
		reg:        prometheus.NewRegistry(),
		counters:   make(map[string]*prometheus.CounterVec, len(counterSpecs)),
	}
	for name, spec := range counterSpecs {
		cv := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: spec.help}, spec.labels)
		if err := b.reg.Register(cv); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", name, err)
		}
		b.counters[name] = cv
	}
	b.stageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    metrics.StageDuration,
		Help:    "Cleaning stage latency in seconds by stage and status.",
		Buckets: stageBuckets,
	}, []string{"stage", "status"})
	if err := b.reg.Register(b.stageDuration); err != nil {
		return nil, fmt.Errorf("prompush: register %s: %w", metrics.StageDuration, err)
	}
	return b, nil
}

// IncCounter adds delta to a known counter. Unknown names are dropped.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	cv, ok := b.counters[name]
	if !ok {
		return
	}
	cv.With(pick(labels, counterSpecs[name].labels)).Add(delta)
}

// ObserveHistogram records stage latency. Other names are dropped.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.StageDuration || b.stageDuration == nil {
		return
	}
	b.stageDuration.WithLabelValues(labels["stage"], labels["status"]).Observe(value)
}

// Flush replaces the job's group on the Pushgateway with the current values.
func (b *Backend) Flush() error {
	if b.reg == nil {
		return nil
	}
	if err := push.New(b.gatewayURL, b.jobName).Gatherer(b.reg).Push(); err != nil {
		return fmt.Errorf("prompush: push to %s: %w", b.gatewayURL, err)
	}
	return nil
}

// pick keeps only the named labels, filling absent ones with "".
func pick(labels metrics.Labels, names []string) prometheus.Labels {
	out := make(prometheus.Labels, len(names))
	for _, n := range names {
		out[n] = labels[n]
	}
	return out
}
