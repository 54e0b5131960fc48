package inspect

import (
	"math"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"cleaner/pkg/records"
)

/*
TestProfile covers present/missing counts (nil and NaN), distinct values, the
kind of each column and top-value ordering with ties broken by value.
*/
func TestProfile(t *testing.T) {
	tb := records.NewTable([]string{"state", "clv", "flag"}, []records.Record{
		{"state": "Arizona", "clv": decimal.RequireFromString("10"), "flag": true},
		{"state": "Oregon", "clv": nil, "flag": "x"},
		{"state": "Arizona", "clv": decimal.RequireFromString("20"), "flag": nil},
		{"state": "Nevada", "clv": nil},
		{"state": nil, "clv": math.NaN()},
	})

	rep := Profile(tb, 2)
	if rep.Rows != 5 || len(rep.Columns) != 3 {
		t.Fatalf("rows=%d columns=%d", rep.Rows, len(rep.Columns))
	}

	st, ok := rep.Column("state")
	if !ok {
		t.Fatalf("state column missing from report")
	}
	want := ColumnProfile{
		Name: "state", Kind: "text", Present: 4, Missing: 1, Distinct: 3,
		Top: []ValueCount{{Value: "Arizona", Count: 2}, {Value: "Nevada", Count: 1}},
	}
	if !reflect.DeepEqual(st, want) {
		t.Fatalf("state profile:\n got %+v\nwant %+v", st, want)
	}

	clv, _ := rep.Column("clv")
	if clv.Kind != "numeric" || clv.Present != 2 || clv.Missing != 3 || clv.Distinct != 2 {
		t.Fatalf("clv profile = %+v", clv)
	}

	flag, _ := rep.Column("flag")
	if flag.Kind != "mixed" || flag.Missing != 2 {
		t.Fatalf("flag profile = %+v", flag)
	}

	if _, ok := rep.Column("nope"); ok {
		t.Fatalf("unknown column reported as present")
	}
}

func TestProfile_NoTopValues(t *testing.T) {
	tb := records.NewTable([]string{"a"}, []records.Record{{"a": "x"}})
	rep := Profile(tb, 0)
	if rep.Columns[0].Top != nil {
		t.Fatalf("topN=0 must not list values: %+v", rep.Columns[0].Top)
	}
}
