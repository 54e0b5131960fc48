package builtin

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"cleaner/pkg/records"
)

func mk(customer string, state string, clv string) records.Record {
	return records.Record{
		"customer":                customer,
		"state":                   state,
		"customer_lifetime_value": decimal.RequireFromString(clv),
	}
}

var dedupColumns = []string{"customer", "state", "customer_lifetime_value"}

/*
TestDeDupApply_ExactRows verifies that only rows identical in every column
collapse, the first occurrence wins, and the index is renumbered.
*/
func TestDeDupApply_ExactRows(t *testing.T) {
	in := records.NewTable(dedupColumns, []records.Record{
		mk("A", "Arizona", "10"),
		mk("B", "Arizona", "10"),
		mk("A", "Arizona", "10.0"), // same decimal value
		mk("A", "Nevada", "10"),
		mk("B", "Arizona", "10"),
	})
	in.Index = []int{3, 5, 8, 9, 12}

	out, rep, err := DeDup{}.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := []records.Record{
		mk("A", "Arizona", "10"),
		mk("B", "Arizona", "10"),
		mk("A", "Nevada", "10"),
	}
	if !reflect.DeepEqual(out.Rows, want) {
		t.Fatalf("rows mismatch:\n got: %#v\nwant: %#v", out.Rows, want)
	}
	if !reflect.DeepEqual(out.Index, []int{0, 1, 2}) {
		t.Fatalf("index=%v want contiguous", out.Index)
	}
	if rep.DuplicatesBefore != 2 || rep.DuplicatesAfter != 0 {
		t.Fatalf("before=%d after=%d", rep.DuplicatesBefore, rep.DuplicatesAfter)
	}
}

func TestDeDupApply_MissingValuesCompareEqual(t *testing.T) {
	in := records.NewTable([]string{"a", "b"}, []records.Record{
		{"a": "x", "b": nil},
		{"a": "x"},
		{"a": "x", "b": ""},
	})
	out, rep, err := DeDup{}.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.Len() != 2 || rep.DuplicatesBefore != 1 {
		t.Fatalf("len=%d before=%d", out.Len(), rep.DuplicatesBefore)
	}
}

func TestDeDupApply_TypesDistinguished(t *testing.T) {
	in := records.NewTable([]string{"a"}, []records.Record{
		{"a": "1"},
		{"a": int64(1)},
		{"a": 1.0},
		{"a": "1"},
	})
	out, _, err := DeDup{}.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.Len() != 3 {
		t.Fatalf("len=%d want 3: %#v", out.Len(), out.Rows)
	}
}

func TestDeDupApply_KeysAndPolicies(t *testing.T) {
	rows := func() []records.Record {
		return []records.Record{
			{"pcv": int64(1), "reason": nil},
			{"pcv": int64(1), "reason": "B"},
			{"pcv": int64(2), "reason": "C"},
			{"pcv": int64(1), "reason": nil},
		}
	}
	tests := []struct {
		policy string
		want   []records.Record
	}{
		{"keep-first", []records.Record{{"pcv": int64(1), "reason": nil}, {"pcv": int64(2), "reason": "C"}}},
		{"keep-last", []records.Record{{"pcv": int64(2), "reason": "C"}, {"pcv": int64(1), "reason": nil}}},
		{"most-complete", []records.Record{{"pcv": int64(1), "reason": "B"}, {"pcv": int64(2), "reason": "C"}}},
	}
	for _, tc := range tests {
		t.Run(tc.policy, func(t *testing.T) {
			in := records.NewTable([]string{"pcv", "reason"}, rows())
			out, _, err := DeDup{Keys: []string{"pcv"}, Policy: tc.policy}.Apply(in)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if !reflect.DeepEqual(out.Rows, tc.want) {
				t.Fatalf("%s: got %#v want %#v", tc.policy, out.Rows, tc.want)
			}
		})
	}
}

func TestDeDupApply_BadConfig(t *testing.T) {
	in := records.NewTable([]string{"a"}, []records.Record{{"a": "x"}})
	if _, _, err := (DeDup{Keys: []string{"nope"}}).Apply(in); err == nil {
		t.Fatalf("expected error for unknown key column")
	}
	if _, _, err := (DeDup{Policy: "random"}).Apply(in); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestEncodeKey_NoSeparatorAmbiguity(t *testing.T) {
	keys := []string{"a", "b"}
	x := encodeKey(nil, records.Record{"a": "p\x1fs1:q", "b": nil}, keys)
	y := encodeKey(nil, records.Record{"a": "p", "b": "q"}, keys)
	if string(x) == string(y) {
		t.Fatalf("distinct rows share an encoding: %q", x)
	}
}
