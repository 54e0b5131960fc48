package builtin

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"cleaner/internal/transformer"
	"cleaner/pkg/records"
)

// Target types understood by Format.
const (
	TypeDecimal = "decimal"
	TypeInt     = "int"
)

// Composite describes a column whose values may be encoded as
// separator-delimited fields, e.g. "1/2/00" where field 1 holds the count.
type Composite struct {
	Separator string
	Field     int
}

// Format coerces columns to typed values.
//
// Decimal columns become decimal.Decimal and int columns become int64.
// Missing values stay missing. A value that cannot be parsed is an error.
//
// A column with a Composite rule is checked first: if any present value
// contains the separator, every value in the column is split and the
// configured field parsed as an int. Values with too few fields become
// missing. If no value contains the separator the column is parsed as is.
type Format struct {
	// Types maps column -> "decimal" | "int".
	Types map[string]string

	// Composite maps column -> split rule; such columns are parsed as int.
	Composite map[string]Composite
}

func (Format) Name() string { return "format" }

func (f Format) Apply(in *records.Table) (*records.Table, transformer.Report, error) {
	in.EnsureIndex()
	rep := transformer.Report{Stage: f.Name(), RowsIn: in.Len()}

	cols := make([]string, 0, len(f.Types)+len(f.Composite))
	for c := range f.Types {
		cols = append(cols, c)
	}
	for c := range f.Composite {
		if _, ok := f.Types[c]; !ok {
			cols = append(cols, c)
		}
	}
	sort.Strings(cols)

	for _, col := range cols {
		if !in.HasColumn(col) {
			return nil, rep, fmt.Errorf("%q: %w", col, ErrMissingColumn)
		}
	}

	for _, col := range cols {
		typ := strings.ToLower(strings.TrimSpace(f.Types[col]))
		rule, hasRule := f.Composite[col]

		if hasRule && isComposite(in, col, rule.Separator) {
			if err := splitColumn(in, col, rule); err != nil {
				return nil, rep, err
			}
			rep.Composite = append(rep.Composite, col)
			rep.Converted = append(rep.Converted, col)
			continue
		}
		if hasRule && typ == "" {
			typ = TypeInt
		}

		var conv func(any) (any, error)
		switch typ {
		case TypeDecimal:
			conv = toDecimal
		case TypeInt:
			conv = toInt
		default:
			return nil, rep, fmt.Errorf("%q: unsupported type %q", col, typ)
		}
		for i, r := range in.Rows {
			v := r[col]
			if records.IsMissing(v) {
				r[col] = nil
				continue
			}
			out, err := conv(v)
			if err != nil {
				return nil, rep, fmt.Errorf("%q row %d: %w", col, in.Index[i], err)
			}
			r[col] = out
		}
		rep.Converted = append(rep.Converted, col)
	}

	rep.RowsOut = in.Len()
	return in, rep, nil
}

// isComposite reports whether any present value of col contains sep.
func isComposite(t *records.Table, col, sep string) bool {
	if sep == "" {
		return false
	}
	for _, r := range t.Rows {
		v := r[col]
		if records.IsMissing(v) {
			continue
		}
		if strings.Contains(stringOf(v), sep) {
			return true
		}
	}
	return false
}

func splitColumn(t *records.Table, col string, rule Composite) error {
	for i, r := range t.Rows {
		v := r[col]
		if records.IsMissing(v) {
			r[col] = nil
			continue
		}
		parts := strings.Split(stringOf(v), rule.Separator)
		if rule.Field < 0 || rule.Field >= len(parts) {
			r[col] = nil
			continue
		}
		n, err := toInt(parts[rule.Field])
		if err != nil {
			return fmt.Errorf("%q row %d: %w", col, t.Index[i], err)
		}
		r[col] = n
	}
	return nil
}

func toDecimal(v any) (any, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case int64:
		return decimal.NewFromInt(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case float64:
		if math.IsInf(x, 0) {
			return nil, fmt.Errorf("%v: %w", x, ErrNotNumeric)
		}
		return decimal.NewFromFloat(x), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return nil, fmt.Errorf("%q: %w", x, ErrNotNumeric)
		}
		return d, nil
	}
	return nil, fmt.Errorf("%v (%T): %w", v, v, ErrNotNumeric)
}

// toInt accepts integers, integral floats/decimals and their string forms.
func toInt(v any) (any, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%v: %w", x, ErrNotNumeric)
		}
		return int64(x), nil
	case decimal.Decimal:
		if !x.IsInteger() {
			return nil, fmt.Errorf("%s: %w", x, ErrNotNumeric)
		}
		return x.IntPart(), nil
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		if d, err := decimal.NewFromString(s); err == nil && d.IsInteger() {
			return d.IntPart(), nil
		}
		return nil, fmt.Errorf("%q: %w", x, ErrNotNumeric)
	}
	return nil, fmt.Errorf("%v (%T): %w", v, v, ErrNotNumeric)
}
