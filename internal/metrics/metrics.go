// Package metrics records what a cleaning run did: stage executions and
// latency, rows in and out, and values touched per stage.
//
// Callers record through package functions; the process installs one Backend
// (prompush or datadog) at startup. Until then every call goes to a backend
// that drops everything.
package metrics

import "time"

// Metric names shared by every backend.
const (
	StageTotal    = "clean_stage_total"
	StageDuration = "clean_stage_duration_seconds"
	RowsTotal     = "clean_rows_total"
	ValuesTotal   = "clean_values_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend receives every metric the pipeline emits.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush delivers anything buffered. Called once the run is over.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs b for all later calls. A nil b is ignored.
func SetBackend(b Backend) {
	if b != nil {
		backend = b
	}
}

// Reset reinstalls the no-op backend.
func Reset() {
	backend = nopBackend{}
}

// Flush flushes the installed backend.
func Flush() error {
	return backend.Flush()
}

func status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// RecordStage counts one run of stage and observes how long it took.
func RecordStage(job, stage string, err error, d time.Duration) {
	l := Labels{"job": job, "stage": stage, "status": status(err)}
	backend.IncCounter(StageTotal, 1, l)
	backend.ObserveHistogram(StageDuration, d.Seconds(), l)
}

// RecordRow adds delta rows of the given kind: input, output, dropped_empty
// or duplicates_removed. Non-positive deltas are not sent.
func RecordRow(job, kind string, delta int64) {
	if delta > 0 {
		backend.IncCounter(RowsTotal, float64(delta), Labels{"job": job, "kind": kind})
	}
}

// RecordValues adds delta to a per-stage count such as replaced values or
// filled columns. Non-positive deltas are not sent.
func RecordValues(job, stage, kind string, delta int64) {
	if delta > 0 {
		backend.IncCounter(ValuesTotal, float64(delta), Labels{"job": job, "stage": stage, "kind": kind})
	}
}
