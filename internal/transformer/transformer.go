// Package transformer defines the stage contract for the cleaning pipeline
// and the Chain that runs stages in order.
//
// Every stage consumes one table and returns one table together with a
// Report. Reports replace printed diagnostics: the caller decides whether to
// log them, export them as metrics, or ignore them.
package transformer

import (
	"fmt"

	"cleaner/pkg/records"
)

// Transformer is one cleaning stage.
type Transformer interface {
	Name() string
	Apply(t *records.Table) (*records.Table, Report, error)
}

// Report is the structured diagnostic output of a single stage. Sections that
// do not apply to a stage are left at their zero value.
type Report struct {
	Stage   string
	RowsIn  int
	RowsOut int

	// Renamed maps original column names to their new names (changed ones only).
	Renamed map[string]string

	// Replaced counts substituted values per column.
	Replaced map[string]int

	// Converted lists the columns whose values were re-typed; Composite the
	// subset that was parsed from a separator-delimited form.
	Converted []string
	Composite []string

	// MissingBefore counts missing values per column on entry. MissingAfter
	// lists only the columns that still hold missing values on exit.
	MissingBefore map[string]int
	MissingAfter  map[string]int
	DroppedEmpty  int
	Filled        map[string]any

	DuplicatesBefore int
	DuplicatesAfter  int
}

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs each transformer on the output of the previous one. It stops at
// the first error, returning the reports collected so far.
func (c Chain) Apply(in *records.Table) (*records.Table, []Report, error) {
	out := in
	reports := make([]Report, 0, len(c))
	for _, t := range c {
		next, rep, err := t.Apply(out)
		if err != nil {
			return nil, reports, fmt.Errorf("%s: %w", t.Name(), err)
		}
		reports = append(reports, rep)
		out = next
	}
	return out, reports, nil
}
