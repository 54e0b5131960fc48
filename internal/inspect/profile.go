// Package inspect inventories the columns of a table: how many values are
// present or missing, the coarse column kind, the number of distinct values
// and the most frequent ones. It is used to look at data before and after
// cleaning and never changes the table.
package inspect

import (
	"fmt"
	"sort"

	"cleaner/pkg/records"
)

// ValueCount is one value and how often it occurs.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ColumnProfile aggregates statistics for one column.
type ColumnProfile struct {
	Name     string       `json:"name"`
	Kind     string       `json:"kind"`
	Present  int          `json:"present"`
	Missing  int          `json:"missing"`
	Distinct int          `json:"distinct"`
	Top      []ValueCount `json:"top,omitempty"`
}

// Report is the profile of a whole table, columns in table order.
type Report struct {
	Rows    int             `json:"rows"`
	Columns []ColumnProfile `json:"columns"`
}

// Profile scans t and keeps up to topN most frequent values per column. Ties
// are ordered by value.
func Profile(t *records.Table, topN int) Report {
	rep := Report{Rows: t.Len(), Columns: make([]ColumnProfile, 0, len(t.Columns))}
	for _, col := range t.Columns {
		cp := ColumnProfile{Name: col, Kind: t.ColumnKind(col).String()}
		counts := map[string]int{}
		for _, r := range t.Rows {
			v := r[col]
			if records.IsMissing(v) {
				cp.Missing++
				continue
			}
			cp.Present++
			counts[valueKey(v)]++
		}
		cp.Distinct = len(counts)
		cp.Top = top(counts, topN)
		rep.Columns = append(rep.Columns, cp)
	}
	return rep
}

// Column returns the profile for name.
func (r Report) Column(name string) (ColumnProfile, bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnProfile{}, false
}

// valueKey renders v for counting. Values of different Go types stay apart
// only when their printed forms differ.
func valueKey(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func top(counts map[string]int, n int) []ValueCount {
	if n <= 0 || len(counts) == 0 {
		return nil
	}
	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
