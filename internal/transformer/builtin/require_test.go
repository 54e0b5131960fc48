package builtin

import (
	"errors"
	"testing"

	"cleaner/pkg/records"
)

func TestRequireApply(t *testing.T) {
	in := records.NewTable([]string{"state", "gender"}, []records.Record{{"state": "Arizona", "gender": "F"}})

	out, rep, err := Require{Columns: []string{"state", "gender"}}.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out != in || rep.RowsIn != 1 || rep.RowsOut != 1 {
		t.Fatalf("present columns must pass through: rep=%+v", rep)
	}

	_, _, err = Require{Columns: []string{"state", "customer_lifetime_value"}}.Apply(in)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("err=%v want ErrMissingColumn", err)
	}
}
