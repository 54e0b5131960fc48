package builtin

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"cleaner/internal/transformer"
	"cleaner/pkg/records"
)

// Columns normalizes column names: lowercase, spaces to underscores, then the
// Rename table is applied to the normalized names. Two columns that end up
// with the same name fail with ErrDuplicateColumn.
type Columns struct {
	// Rename maps a normalized name to its final name, e.g. {"st": "state"}.
	Rename map[string]string

	// FoldAccents strips diacritics ("Účet" -> "ucet") before lowercasing.
	FoldAccents bool
}

func (Columns) Name() string { return "columns" }

// Apply renames the table's columns and rewrites every record's keys to match.
func (c Columns) Apply(in *records.Table) (*records.Table, transformer.Report, error) {
	rep := transformer.Report{Stage: c.Name(), RowsIn: in.Len(), Renamed: map[string]string{}}

	names := make([]string, len(in.Columns))
	seen := make(map[string]string, len(in.Columns))
	for i, col := range in.Columns {
		name := c.normalize(col)
		if prev, ok := seen[name]; ok {
			return nil, rep, fmt.Errorf("%q and %q both become %q: %w", prev, col, name, ErrDuplicateColumn)
		}
		seen[name] = col
		names[i] = name
		if name != col {
			rep.Renamed[col] = name
		}
	}

	if len(rep.Renamed) > 0 {
		for i, r := range in.Rows {
			nr := make(records.Record, len(r))
			for k, v := range r {
				if to, ok := rep.Renamed[k]; ok {
					nr[to] = v
				} else {
					nr[k] = v
				}
			}
			in.Rows[i] = nr
		}
	}
	in.Columns = names
	rep.RowsOut = in.Len()
	return in, rep, nil
}

func (c Columns) normalize(col string) string {
	s := col
	if c.FoldAccents {
		s = foldAccents(s)
	}
	s = strings.ReplaceAll(strings.ToLower(s), " ", "_")
	if to, ok := c.Rename[s]; ok {
		return to
	}
	return s
}

// foldAccents decomposes s, removes nonspacing marks and recomposes it.
func foldAccents(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
