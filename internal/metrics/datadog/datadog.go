// Package datadog sends cleaning metrics to a DogStatsD agent.
//
// Row and value counts become Datadog counts. Stage latency becomes a
// distribution so percentiles are computed across every host running the
// job. Labels turn into sorted "key:value" tags.
package datadog

import (
	"fmt"
	"sort"

	"github.com/DataDog/datadog-go/v5/statsd"

	"cleaner/internal/metrics"
)

// Config selects the agent and the tags shared by every metric.
type Config struct {
	// Addr is the agent address: "host:port" for UDP or "unix:///path" for a socket.
	Addr string

	// Namespace prefixes every metric name, e.g. "cleaner.".
	Namespace string

	// GlobalTags are added to every metric, e.g. "job:customers".
	GlobalTags []string

	// SampleRate applies to counts; zero means 1 (send everything).
	SampleRate float64

	// NoTelemetry turns off the client's own datadog.dogstatsd.client.* metrics.
	NoTelemetry bool
}

// sender is the part of *statsd.Client the backend uses.
type sender interface {
	Count(name string, value int64, tags []string, rate float64) error
	Distribution(name string, value float64, tags []string, rate float64) error
	Histogram(name string, value float64, tags []string, rate float64) error
	Flush() error
	Close() error
}

// Backend implements metrics.Backend over DogStatsD.
type Backend struct {
	client sender
	rate   float64
}

// NewBackend dials the agent described by cfg. Addr is required.
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("datadog: Addr is required")
	}

	var opts []statsd.Option
	if cfg.Namespace != "" {
		opts = append(opts, statsd.WithNamespace(cfg.Namespace))
	}
	if len(cfg.GlobalTags) > 0 {
		opts = append(opts, statsd.WithTags(cfg.GlobalTags))
	}
	if cfg.NoTelemetry {
		opts = append(opts, statsd.WithoutTelemetry())
	}

	c, err := statsd.New(cfg.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("datadog: create client: %w", err)
	}
	return newBackend(c, cfg.SampleRate), nil
}

func newBackend(c sender, rate float64) *Backend {
	if rate <= 0 || rate > 1 {
		rate = 1
	}
	return &Backend{client: c, rate: rate}
}

// IncCounter sends a count. DogStatsD counts are integers; fractions are
// dropped.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	if b.client == nil {
		return
	}
	_ = b.client.Count(name, int64(delta), labelsToTags(labels), b.rate)
}

// ObserveHistogram sends stage latency as a distribution and anything else as
// an agent-side histogram.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if b.client == nil {
		return
	}
	tags := labelsToTags(labels)
	if name == metrics.StageDuration {
		_ = b.client.Distribution(name, value, tags, 1)
		return
	}
	_ = b.client.Histogram(name, value, tags, 1)
}

// Flush sends buffered metrics to the agent. The client stays usable.
func (b *Backend) Flush() error {
	if b.client == nil {
		return nil
	}
	return b.client.Flush()
}

// Close flushes and releases the connection to the agent.
func (b *Backend) Close() error {
	if b.client == nil {
		return nil
	}
	return b.client.Close()
}

// labelsToTags turns labels into sorted "key:value" tags, skipping empty values.
func labelsToTags(lbls metrics.Labels) []string {
	if len(lbls) == 0 {
		return nil
	}
	out := make([]string, 0, len(lbls))
	for k, v := range lbls {
		if v == "" {
			continue
		}
		out = append(out, k+":"+v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}
