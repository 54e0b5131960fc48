// Package records defines the in-memory table that flows through the
// cleaning stages.
//
// A Table is an ordered list of column names plus a slice of Records, each
// Record mapping column name to value. Index carries the row labels: they
// survive row drops unchanged and are only renumbered when a stage asks for
// it (the duplicate handler does).
package records

import (
	"math"

	"github.com/shopspring/decimal"
)

// Record is a single row keyed by column name.
type Record map[string]any

// Table is an ordered set of records sharing a column list.
type Table struct {
	Columns []string
	Rows    []Record
	Index   []int
}

// Kind is the coarse type of a column, derived from its present values.
type Kind int

const (
	// KindEmpty means the column has no present values.
	KindEmpty Kind = iota
	// KindNumeric means every present value is int64, float64 or decimal.
	KindNumeric
	// KindText means every present value is a string.
	KindText
	// KindMixed is anything else (bools, dates, numbers mixed with text).
	KindMixed
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	default:
		return "mixed"
	}
}

// NewTable builds a table with a contiguous 0..n-1 index.
func NewTable(columns []string, rows []Record) *Table {
	t := &Table{
		Columns: append([]string(nil), columns...),
		Rows:    rows,
	}
	t.Reindex()
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// EnsureIndex rebuilds the row labels when they do not line up with Rows,
// e.g. for a Table built as a literal.
func (t *Table) EnsureIndex() {
	if len(t.Index) != len(t.Rows) {
		t.Reindex()
	}
}

// Reindex renumbers the row labels from zero.
func (t *Table) Reindex() {
	t.Index = make([]int, len(t.Rows))
	for i := range t.Index {
		t.Index[i] = i
	}
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the values of one column in row order. Absent keys read as nil.
func (t *Table) Column(name string) []any {
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[name]
	}
	return out
}

// Clone returns a copy whose rows can be mutated without touching t.
// Values themselves are immutable types and are shared.
func (t *Table) Clone() *Table {
	c := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Record, len(t.Rows)),
		Index:   append([]int(nil), t.Index...),
	}
	for i, r := range t.Rows {
		cp := make(Record, len(r))
		for k, v := range r {
			cp[k] = v
		}
		c.Rows[i] = cp
	}
	c.EnsureIndex()
	return c
}

// ColumnKind classifies a column by the Go types of its present values.
func (t *Table) ColumnKind(name string) Kind {
	kind := KindEmpty
	for _, r := range t.Rows {
		v := r[name]
		if IsMissing(v) {
			continue
		}
		var k Kind
		switch v.(type) {
		case int64, float64, decimal.Decimal:
			k = KindNumeric
		case string:
			k = KindText
		default:
			return KindMixed
		}
		if kind == KindEmpty {
			kind = k
		} else if kind != k {
			return KindMixed
		}
	}
	return kind
}

// IsMissing reports whether v counts as a missing value: nil or a float NaN.
func IsMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	}
	return false
}
