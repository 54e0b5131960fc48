// Package pipeline assembles cleaning stages from configuration and runs them
// over a table, logging each stage report and exporting metrics.
package pipeline

import (
	"fmt"
	"time"

	charmlog "github.com/charmbracelet/log"

	"cleaner/internal/config"
	"cleaner/internal/logger"
	"cleaner/internal/metrics"
	"cleaner/internal/transformer"
	"cleaner/internal/transformer/builtin"
	"cleaner/pkg/records"
)

// Build maps each configured transform to its builtin stage.
func Build(p config.Pipeline) (transformer.Chain, error) {
	c := transformer.Chain{}
	for i, t := range p.Transform {
		switch t.Kind {
		case "columns":
			c = append(c, builtin.Columns{
				Rename:      t.Options.StringMap("rename"),
				FoldAccents: t.Options.Bool("fold_accents", false),
			})
		case "standardize":
			c = append(c, builtin.Standardize{
				Mappings: t.Options.NestedStringMap("mappings"),
				Strip:    t.Options.StringSliceMap("strip"),
			})
		case "format":
			comp := map[string]builtin.Composite{}
			rules := t.Options.Object("composite")
			for col := range rules {
				r := rules.Object(col)
				comp[col] = builtin.Composite{
					Separator: r.String("separator", "/"),
					Field:     r.Int("field", 1),
				}
			}
			c = append(c, builtin.Format{
				Types:     t.Options.StringMap("types"),
				Composite: comp,
			})
		case "nulls":
			c = append(c, builtin.Nulls{})
		case "dedup":
			c = append(c, builtin.DeDup{
				Keys:   t.Options.StringSlice("keys"),
				Policy: t.Options.String("policy", "keep-first"),
			})
		case "normalize":
			c = append(c, builtin.Normalize{})
		case "require":
			c = append(c, builtin.Require{
				Columns: t.Options.StringSlice("columns"),
			})
		default:
			return nil, fmt.Errorf("transform[%d]: unsupported transform.kind=%q", i, t.Kind)
		}
	}
	return c, nil
}

// Result is the outcome of a successful run.
type Result struct {
	Table   *records.Table
	Reports []transformer.Report
}

// Runner executes a chain for one job.
type Runner struct {
	Job    string
	Chain  transformer.Chain
	Logger *charmlog.Logger
}

// NewRunner builds the chain for p and returns a runner for it.
func NewRunner(p config.Pipeline, l *charmlog.Logger) (*Runner, error) {
	c, err := Build(p)
	if err != nil {
		return nil, err
	}
	return &Runner{Job: p.Job, Chain: c, Logger: l}, nil
}

// Run cleans a deep copy of in; the caller's table is never modified. On
// error no table is returned.
func (r *Runner) Run(in *records.Table) (Result, error) {
	lg := r.Logger
	if lg == nil {
		lg = logger.Discard()
	}
	lg = lg.With("job", r.Job)

	start := time.Now()
	cur := in.Clone()
	metrics.RecordRow(r.Job, "input", int64(cur.Len()))
	lg.Info("cleaning started", "rows", cur.Len(), "columns", len(cur.Columns), "stages", len(r.Chain))

	reports := make([]transformer.Report, 0, len(r.Chain))
	for _, st := range r.Chain {
		t0 := time.Now()
		next, rep, err := st.Apply(cur)
		metrics.RecordStage(r.Job, st.Name(), err, time.Since(t0))
		if err != nil {
			lg.Error("stage failed", "stage", st.Name(), "err", err)
			return Result{Reports: reports}, fmt.Errorf("%s: %w", st.Name(), err)
		}
		logReport(lg, rep)
		recordReport(r.Job, rep)
		reports = append(reports, rep)
		cur = next
	}

	metrics.RecordRow(r.Job, "output", int64(cur.Len()))
	lg.Info("cleaning finished", "rows", cur.Len(), "elapsed", time.Since(start).Truncate(time.Microsecond))
	return Result{Table: cur, Reports: reports}, nil
}

// Clean runs the default customer pipeline over a copy of t.
func Clean(t *records.Table) (*records.Table, []transformer.Report, error) {
	r, err := NewRunner(config.Default(), nil)
	if err != nil {
		return nil, nil, err
	}
	res, err := r.Run(t)
	if err != nil {
		return nil, res.Reports, err
	}
	return res.Table, res.Reports, nil
}

func logReport(lg *charmlog.Logger, rep transformer.Report) {
	kv := []any{"stage", rep.Stage, "rows_in", rep.RowsIn, "rows_out", rep.RowsOut}
	if len(rep.Renamed) > 0 {
		kv = append(kv, "renamed", rep.Renamed)
	}
	if n := sum(rep.Replaced); n > 0 {
		kv = append(kv, "replaced", n)
	}
	if len(rep.Converted) > 0 {
		kv = append(kv, "converted", rep.Converted)
	}
	if len(rep.Composite) > 0 {
		kv = append(kv, "composite", rep.Composite)
	}
	if n := sum(rep.MissingBefore); n > 0 {
		kv = append(kv, "missing_before", n, "missing_after", sum(rep.MissingAfter))
	}
	if rep.DroppedEmpty > 0 {
		kv = append(kv, "dropped_empty", rep.DroppedEmpty)
	}
	if rep.DuplicatesBefore > 0 {
		kv = append(kv, "duplicates_before", rep.DuplicatesBefore, "duplicates_after", rep.DuplicatesAfter)
	}
	lg.Info("stage done", kv...)
	for col, v := range rep.Filled {
		lg.Debug("filled missing values", "stage", rep.Stage, "column", col, "value", v)
	}
}

func recordReport(job string, rep transformer.Report) {
	metrics.RecordValues(job, rep.Stage, "replaced", int64(sum(rep.Replaced)))
	metrics.RecordValues(job, rep.Stage, "converted_columns", int64(len(rep.Converted)))
	metrics.RecordValues(job, rep.Stage, "filled_columns", int64(len(rep.Filled)))
	metrics.RecordRow(job, "dropped_empty", int64(rep.DroppedEmpty))
	metrics.RecordRow(job, "duplicates_removed", int64(rep.DuplicatesBefore-rep.DuplicatesAfter))
}

func sum(m map[string]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}
