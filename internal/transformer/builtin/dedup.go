package builtin

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zeebo/xxh3"

	"cleaner/internal/bitmap"
	"cleaner/internal/transformer"
	"cleaner/pkg/records"
)

// DeDup removes duplicate records from a table. Two records are duplicates
// when every key column holds the same value; with no Keys configured every
// column is part of the key. The survivor is chosen by Policy:
//
//   - "keep-first"   : keep the earliest occurrence (default)
//   - "keep-last"    : keep the latest occurrence
//   - "most-complete": keep the record with the most present values;
//     ties break by keep-first
//
// Rows are bucketed by an xxh3 hash of a type-tagged encoding of their key
// values and the encodings are compared before two rows are treated as equal,
// so a hash collision never merges distinct rows. Missing values compare
// equal to each other. The output is renumbered 0..n-1.
type DeDup struct {
	// Keys are the columns compared; empty means all columns.
	Keys []string

	// Policy is "keep-first", "keep-last" or "most-complete".
	Policy string
}

func (DeDup) Name() string { return "dedup" }

type dupGroup struct {
	key    []byte
	winner int // row position in the input; -1 until chosen
	score  int
}

func (d DeDup) Apply(in *records.Table) (*records.Table, transformer.Report, error) {
	in.EnsureIndex()
	rep := transformer.Report{Stage: d.Name(), RowsIn: in.Len()}

	keys := d.Keys
	if len(keys) == 0 {
		keys = in.Columns
	}
	for _, k := range keys {
		if !in.HasColumn(k) {
			return nil, rep, fmt.Errorf("%q: %w", k, ErrMissingColumn)
		}
	}

	policy := strings.ToLower(strings.TrimSpace(d.Policy))
	switch policy {
	case "":
		policy = "keep-first"
	case "keep-first", "keep-last", "most-complete":
	default:
		return nil, rep, fmt.Errorf("unknown policy %q", d.Policy)
	}

	groups, byRow := groupRows(in.Rows, keys)
	rep.DuplicatesBefore = in.Len() - len(groups)

	for i, gi := range byRow {
		g := &groups[gi]
		switch policy {
		case "keep-first":
			if g.winner < 0 {
				g.winner = i
			}
		case "keep-last":
			g.winner = i
		case "most-complete":
			if s := presentCount(in.Rows[i], in.Columns); g.winner < 0 || s > g.score {
				g.winner, g.score = i, s
			}
		}
	}

	keep := bitmap.New(in.Len())
	for _, g := range groups {
		keep.Add(g.winner)
	}

	out := make([]records.Record, 0, keep.Count())
	for i, r := range in.Rows {
		if keep.Has(i) {
			out = append(out, r)
		}
	}
	in.Rows = out
	in.Reindex()

	after, _ := groupRows(in.Rows, keys)
	rep.DuplicatesAfter = in.Len() - len(after)
	rep.RowsOut = in.Len()
	return in, rep, nil
}

// groupRows returns one group per distinct key, in order of first appearance,
// and the group index of every row.
func groupRows(rows []records.Record, keys []string) ([]dupGroup, []int) {
	var (
		groups  []dupGroup
		byRow   = make([]int, len(rows))
		buckets = make(map[uint64][]int, len(rows))
		buf     []byte
	)
	for i, r := range rows {
		buf = encodeKey(buf[:0], r, keys)
		h := xxh3.Hash(buf)
		gi := findGroup(groups, buckets[h], buf)
		if gi < 0 {
			gi = len(groups)
			buckets[h] = append(buckets[h], gi)
			groups = append(groups, dupGroup{key: append([]byte(nil), buf...), winner: -1})
		}
		byRow[i] = gi
	}
	return groups, byRow
}

func findGroup(groups []dupGroup, candidates []int, key []byte) int {
	for _, gi := range candidates {
		if bytes.Equal(groups[gi].key, key) {
			return gi
		}
	}
	return -1
}

// encodeKey appends a type-tagged encoding of r's key values to buf.
func encodeKey(buf []byte, r records.Record, keys []string) []byte {
	for _, k := range keys {
		buf = appendValueKey(buf, r[k])
		buf = append(buf, 0x1f)
	}
	return buf
}

// appendValueKey appends the encoding of one value. Numbers of different Go
// types encode differently, matching a strict equality check; missing values
// (nil, NaN) all encode the same.
func appendValueKey(buf []byte, v any) []byte {
	if records.IsMissing(v) {
		return append(buf, 0x00)
	}
	switch x := v.(type) {
	case string:
		buf = append(buf, 's')
		buf = strconv.AppendInt(buf, int64(len(x)), 10)
		buf = append(buf, ':')
		buf = append(buf, x...)
	case int64:
		buf = append(buf, 'i')
		buf = strconv.AppendInt(buf, x, 10)
	case int:
		buf = append(buf, 'i')
		buf = strconv.AppendInt(buf, int64(x), 10)
	case float64:
		if x == 0 {
			x = 0 // fold -0
		}
		buf = append(buf, 'f')
		buf = strconv.AppendUint(buf, math.Float64bits(x), 16)
	case decimal.Decimal:
		buf = append(buf, 'd')
		buf = append(buf, x.String()...)
	case bool:
		buf = append(buf, 'b')
		buf = strconv.AppendBool(buf, x)
	default:
		str := fmt.Sprintf("%T:%v", x, x)
		buf = append(buf, 'x')
		buf = strconv.AppendInt(buf, int64(len(str)), 10)
		buf = append(buf, ':')
		buf = append(buf, str...)
	}
	return buf
}

func presentCount(r records.Record, cols []string) int {
	n := 0
	for _, c := range cols {
		v := r[c]
		if records.IsMissing(v) {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		n++
	}
	return n
}
