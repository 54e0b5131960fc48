package builtin

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"cleaner/internal/transformer"
	"cleaner/pkg/records"
)

// Standardize remaps known label variants to canonical labels and strips
// unwanted characters from selected columns.
//
// Mappings are exact and case-sensitive and only apply to string values;
// anything not listed passes through unchanged. Every column referenced by
// Mappings or Strip must exist.
type Standardize struct {
	// Mappings is column -> (variant -> canonical).
	Mappings map[string]map[string]string

	// Strip is column -> substrings removed from the value's string form.
	// Present values in these columns always come out as strings.
	Strip map[string][]string
}

func (Standardize) Name() string { return "standardize" }

func (s Standardize) Apply(in *records.Table) (*records.Table, transformer.Report, error) {
	rep := transformer.Report{Stage: s.Name(), RowsIn: in.Len(), Replaced: map[string]int{}}

	for _, col := range s.columns() {
		if !in.HasColumn(col) {
			return nil, rep, fmt.Errorf("%q: %w", col, ErrMissingColumn)
		}
	}

	for col, mapping := range s.Mappings {
		if len(mapping) == 0 {
			continue
		}
		n := 0
		for _, r := range in.Rows {
			v, ok := r[col].(string)
			if !ok {
				continue
			}
			if to, ok := mapping[v]; ok {
				r[col] = to
				n++
			}
		}
		rep.Replaced[col] += n
	}

	for col, cut := range s.Strip {
		n := 0
		for _, r := range in.Rows {
			v := r[col]
			if records.IsMissing(v) {
				continue
			}
			str := stringOf(v)
			out := str
			for _, c := range cut {
				if c != "" {
					out = strings.ReplaceAll(out, c, "")
				}
			}
			if out != str {
				n++
			}
			r[col] = out
		}
		rep.Replaced[col] += n
	}

	rep.RowsOut = in.Len()
	return in, rep, nil
}

// columns returns every referenced column in a stable order.
func (s Standardize) columns() []string {
	set := map[string]struct{}{}
	for c := range s.Mappings {
		set[c] = struct{}{}
	}
	for c := range s.Strip {
		set[c] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// stringOf renders a present value the way a person would write it.
func stringOf(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case decimal.Decimal:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
