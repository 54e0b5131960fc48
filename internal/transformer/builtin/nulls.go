package builtin

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"cleaner/internal/transformer"
	"cleaner/pkg/records"
)

// Nulls removes fully empty rows and imputes the remaining missing values:
// numeric columns with the median of their present values, every other column
// with its most frequent value.
type Nulls struct{}

func (Nulls) Name() string { return "nulls" }

func (n Nulls) Apply(in *records.Table) (*records.Table, transformer.Report, error) {
	in.EnsureIndex()
	rep := transformer.Report{
		Stage:         n.Name(),
		RowsIn:        in.Len(),
		MissingBefore: countMissing(in),
		Filled:        map[string]any{},
	}

	rows := in.Rows[:0]
	index := in.Index[:0]
	for i, r := range in.Rows {
		if allMissing(r, in.Columns) {
			rep.DroppedEmpty++
			continue
		}
		rows = append(rows, r)
		index = append(index, in.Index[i])
	}
	in.Rows, in.Index = rows, index

	for _, col := range in.Columns {
		missing := 0
		for _, r := range in.Rows {
			if records.IsMissing(r[col]) {
				missing++
			}
		}
		if missing == 0 {
			continue
		}

		var (
			fill any
			err  error
		)
		switch in.ColumnKind(col) {
		case records.KindNumeric:
			fill, err = median(in.Column(col))
		case records.KindEmpty:
			err = ErrNoFillValue
		default:
			fill, err = mode(in.Column(col))
		}
		if err != nil {
			return nil, rep, fmt.Errorf("%q: %w", col, err)
		}
		for _, r := range in.Rows {
			if records.IsMissing(r[col]) {
				r[col] = fill
			}
		}
		rep.Filled[col] = fill
	}

	rep.MissingAfter = map[string]int{}
	for col, c := range countMissing(in) {
		if c > 0 {
			rep.MissingAfter[col] = c
		}
	}
	rep.RowsOut = in.Len()
	return in, rep, nil
}

func countMissing(t *records.Table) map[string]int {
	out := make(map[string]int, len(t.Columns))
	for _, col := range t.Columns {
		out[col] = 0
	}
	for _, r := range t.Rows {
		for _, col := range t.Columns {
			if records.IsMissing(r[col]) {
				out[col]++
			}
		}
	}
	return out
}

func allMissing(r records.Record, cols []string) bool {
	for _, c := range cols {
		if !records.IsMissing(r[c]) {
			return false
		}
	}
	return true
}

// median computes the median of the present values using decimal arithmetic.
// The result takes the column's representation: int64 columns get the median
// rounded half away from zero, columns holding any decimal.Decimal a decimal,
// and the rest (float64, or int64 mixed with float64) a float64.
func median(vals []any) (any, error) {
	var (
		nums       []decimal.Decimal
		allInt     = true
		anyDecimal bool
	)
	for _, v := range vals {
		if records.IsMissing(v) {
			continue
		}
		switch x := v.(type) {
		case int64:
			nums = append(nums, decimal.NewFromInt(x))
		case float64:
			nums = append(nums, decimal.NewFromFloat(x))
			allInt = false
		case decimal.Decimal:
			nums = append(nums, x)
			allInt, anyDecimal = false, true
		}
	}
	if len(nums) == 0 {
		return nil, ErrNoFillValue
	}

	sort.Slice(nums, func(i, j int) bool { return nums[i].LessThan(nums[j]) })
	mid := len(nums) / 2
	m := nums[mid]
	if len(nums)%2 == 0 {
		m = nums[mid-1].Add(nums[mid]).Div(decimal.NewFromInt(2))
	}

	switch {
	case allInt:
		return m.Round(0).IntPart(), nil
	case anyDecimal:
		return m, nil
	}
	f, _ := m.Float64()
	if math.IsNaN(f) {
		return nil, ErrNoFillValue
	}
	return f, nil
}

// mode returns the most frequent present value, keeping its Go type. Values
// are compared by their type-tagged key, so "3" and int64(3) are counted
// apart. Ties go to the smallest printed form, then the smallest key.
func mode(vals []any) (any, error) {
	type entry struct {
		val   any
		text  string
		count int
	}
	var (
		byKey = map[string]*entry{}
		buf   []byte
	)
	for _, v := range vals {
		if records.IsMissing(v) {
			continue
		}
		buf = appendValueKey(buf[:0], v)
		e, ok := byKey[string(buf)]
		if !ok {
			e = &entry{val: v, text: stringOf(v)}
			byKey[string(buf)] = e
		}
		e.count++
	}
	if len(byKey) == 0 {
		return nil, ErrNoFillValue
	}

	var (
		best    *entry
		bestKey string
	)
	for k, e := range byKey {
		switch {
		case best == nil, e.count > best.count:
		case e.count == best.count && (e.text < best.text || (e.text == best.text && k < bestKey)):
		default:
			continue
		}
		best, bestKey = e, k
	}
	return best.val, nil
}
