package builtin

import (
	"fmt"

	"cleaner/internal/transformer"
	"cleaner/pkg/records"
)

// Require fails the run when any of Columns is absent from the table. Place
// it after columns so the names are already normalized.
type Require struct {
	Columns []string
}

func (r Require) Name() string { return "require" }

// Apply returns the table unchanged when every required column is present.
func (r Require) Apply(in *records.Table) (*records.Table, transformer.Report, error) {
	rep := transformer.Report{Stage: r.Name(), RowsIn: in.Len(), RowsOut: in.Len()}
	for _, c := range r.Columns {
		if !in.HasColumn(c) {
			return nil, rep, fmt.Errorf("%q: %w", c, ErrMissingColumn)
		}
	}
	return in, rep, nil
}
