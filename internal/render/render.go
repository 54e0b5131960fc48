// Package render formats cleaned tables and stage reports for people. Display
// precision is an explicit option passed by the caller; nothing here changes
// the stored values.
package render

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"cleaner/internal/inspect"
	"cleaner/internal/transformer"
	"cleaner/pkg/records"
)

// Missing is shown for nil and NaN cells.
const Missing = "NaN"

// Options controls presentation.
type Options struct {
	// FloatDigits is the number of fractional digits for floats and decimals.
	FloatDigits int
	// ShowIndex prepends the row labels as an unnamed column.
	ShowIndex bool
	// MaxRows limits the rendered rows; zero renders all of them.
	MaxRows int
}

// DefaultOptions shows one fractional digit and the row index.
func DefaultOptions() Options {
	return Options{FloatDigits: 1, ShowIndex: true}
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Value formats a single cell. Integers are printed as-is; floats and
// decimals use opts.FloatDigits fixed digits.
func Value(v any, opts Options) string {
	digits := opts.FloatDigits
	if digits < 0 {
		digits = 0
	}
	if records.IsMissing(v) {
		return Missing
	}
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		if math.IsInf(x, 0) {
			if x > 0 {
				return "inf"
			}
			return "-inf"
		}
		return strconv.FormatFloat(x, 'f', digits, 64)
	case decimal.Decimal:
		return x.StringFixed(int32(digits))
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// Table renders t as a bordered text table.
func Table(t *records.Table, opts Options) string {
	headers := t.Columns
	if opts.ShowIndex {
		headers = append([]string{""}, t.Columns...)
	}

	n := t.Len()
	if opts.MaxRows > 0 && opts.MaxRows < n {
		n = opts.MaxRows
	}
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row := make([]string, 0, len(headers))
		if opts.ShowIndex {
			row = append(row, strconv.Itoa(rowLabel(t, i)))
		}
		for _, c := range t.Columns {
			row = append(row, Value(t.Rows[i][c], opts))
		}
		rows = append(rows, row)
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	out := tbl.String()
	if n < t.Len() {
		out += fmt.Sprintf("\n... %d more rows", t.Len()-n)
	}
	return out
}

// rowLabel is the index label of row i, or i itself when the table carries
// no usable index.
func rowLabel(t *records.Table, i int) int {
	if len(t.Index) == len(t.Rows) {
		return t.Index[i]
	}
	return i
}

// Reports renders one line of counts per stage followed by the details that
// stage produced.
func Reports(reports []transformer.Report, opts Options) string {
	var b strings.Builder
	for _, r := range reports {
		fmt.Fprintf(&b, "%s: rows %d -> %d\n", r.Stage, r.RowsIn, r.RowsOut)
		for _, k := range sortedKeys(r.Renamed) {
			fmt.Fprintf(&b, "  renamed %s -> %s\n", k, r.Renamed[k])
		}
		for _, k := range sortedKeys(r.Replaced) {
			fmt.Fprintf(&b, "  replaced %d in %s\n", r.Replaced[k], k)
		}
		if len(r.Converted) > 0 {
			fmt.Fprintf(&b, "  converted %s\n", strings.Join(r.Converted, ", "))
		}
		if len(r.Composite) > 0 {
			fmt.Fprintf(&b, "  composite %s\n", strings.Join(r.Composite, ", "))
		}
		for _, k := range sortedKeys(r.MissingBefore) {
			fmt.Fprintf(&b, "  missing %s: %d -> %d\n", k, r.MissingBefore[k], r.MissingAfter[k])
		}
		if r.DroppedEmpty > 0 {
			fmt.Fprintf(&b, "  dropped %d empty rows\n", r.DroppedEmpty)
		}
		for _, k := range sortedKeys(r.Filled) {
			fmt.Fprintf(&b, "  filled %s with %s\n", k, Value(r.Filled[k], opts))
		}
		if r.Stage == "dedup" {
			fmt.Fprintf(&b, "  duplicates %d -> %d\n", r.DuplicatesBefore, r.DuplicatesAfter)
		}
	}
	return b.String()
}

// Profile renders a column profile as a table, one row per column.
func Profile(rep inspect.Report) string {
	rows := make([][]string, 0, len(rep.Columns))
	for _, c := range rep.Columns {
		tops := make([]string, 0, len(c.Top))
		for _, vc := range c.Top {
			tops = append(tops, fmt.Sprintf("%s (%d)", vc.Value, vc.Count))
		}
		rows = append(rows, []string{
			c.Name,
			c.Kind,
			strconv.Itoa(c.Present),
			strconv.Itoa(c.Missing),
			strconv.Itoa(c.Distinct),
			strings.Join(tops, ", "),
		})
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("column", "kind", "present", "missing", "distinct", "top").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return fmt.Sprintf("%d rows\n%s", rep.Rows, tbl.String())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
