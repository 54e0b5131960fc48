package transformer

import (
	"errors"
	"reflect"
	"testing"

	"cleaner/pkg/records"
)

/*
addColumnTransformer sets key -> val on every record and appends the column.
Used to verify mutation flows through Chain.
*/
type addColumnTransformer struct {
	key string
	val any
}

func (t addColumnTransformer) Name() string { return "add_" + t.key }

func (t addColumnTransformer) Apply(in *records.Table) (*records.Table, Report, error) {
	for _, r := range in.Rows {
		r[t.key] = t.val
	}
	in.Columns = append(in.Columns, t.key)
	return in, Report{Stage: t.Name(), RowsIn: in.Len(), RowsOut: in.Len()}, nil
}

/*
dropFirstTransformer removes the first row; used to check that each stage sees
the previous stage's output rather than the chain input.
*/
type dropFirstTransformer struct{}

func (dropFirstTransformer) Name() string { return "drop_first" }

func (dropFirstTransformer) Apply(in *records.Table) (*records.Table, Report, error) {
	rep := Report{Stage: "drop_first", RowsIn: in.Len()}
	if in.Len() > 0 {
		in.Rows = in.Rows[1:]
		in.Index = in.Index[1:]
	}
	rep.RowsOut = in.Len()
	return in, rep, nil
}

var errBoom = errors.New("boom")

type failingTransformer struct{ calls *int }

func (failingTransformer) Name() string { return "failing" }

func (f failingTransformer) Apply(in *records.Table) (*records.Table, Report, error) {
	*f.calls++
	return nil, Report{}, errBoom
}

/*
TestChainApply_Composition_Order verifies that Chain.Apply passes the output of
each transformer to the next, in declared order, and collects one report per
stage.
*/
func TestChainApply_Composition_Order(t *testing.T) {
	in := records.NewTable([]string{"id"}, []records.Record{{"id": 1}, {"id": 2}})
	c := Chain{
		addColumnTransformer{key: "a", val: "first"},
		dropFirstTransformer{},
		addColumnTransformer{key: "b", val: "second"},
	}
	out, reps, err := c.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := []records.Record{{"id": 2, "a": "first", "b": "second"}}
	if !reflect.DeepEqual(out.Rows, want) {
		t.Fatalf("rows mismatch:\n got: %#v\nwant: %#v", out.Rows, want)
	}
	if !reflect.DeepEqual(out.Columns, []string{"id", "a", "b"}) {
		t.Fatalf("columns=%v", out.Columns)
	}

	var stages []string
	for _, r := range reps {
		stages = append(stages, r.Stage)
	}
	if !reflect.DeepEqual(stages, []string{"add_a", "drop_first", "add_b"}) {
		t.Fatalf("stages=%v", stages)
	}
	if reps[1].RowsIn != 2 || reps[1].RowsOut != 1 {
		t.Fatalf("drop_first report=%+v", reps[1])
	}
}

/*
TestChainApply_StopsOnError verifies that a failing stage aborts the chain,
wraps the error with the stage name, and keeps the earlier reports.
*/
func TestChainApply_StopsOnError(t *testing.T) {
	calls := 0
	c := Chain{
		addColumnTransformer{key: "a", val: 1},
		failingTransformer{calls: &calls},
		addColumnTransformer{key: "never", val: 1},
	}
	in := records.NewTable([]string{"id"}, []records.Record{{"id": 1}})
	out, reps, err := c.Apply(in)
	if !errors.Is(err, errBoom) {
		t.Fatalf("err=%v want errBoom", err)
	}
	if got := err.Error(); got != "failing: boom" {
		t.Fatalf("err text=%q", got)
	}
	if out != nil {
		t.Fatalf("out should be nil on error")
	}
	if len(reps) != 1 || calls != 1 {
		t.Fatalf("reps=%d calls=%d", len(reps), calls)
	}
	if _, ok := in.Rows[0]["never"]; ok {
		t.Fatalf("stage after failure ran")
	}
}

func TestChainApply_Empty(t *testing.T) {
	in := records.NewTable([]string{"id"}, []records.Record{{"id": 1}})
	out, reps, err := Chain{}.Apply(in)
	if err != nil || out != in || len(reps) != 0 {
		t.Fatalf("empty chain: out=%p in=%p reps=%d err=%v", out, in, len(reps), err)
	}
}
