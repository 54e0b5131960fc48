package builtin

import (
	"strings"

	"cleaner/internal/transformer"
	"cleaner/pkg/records"
)

// nbspReplacer maps non-breaking spaces, including the mis-decoded Latin-1
// form "Â " seen in exported spreadsheets, to plain spaces.
var nbspReplacer = strings.NewReplacer("\u00c2\u00a0", " ", "\u00a0", " ")

// Normalize trims surrounding whitespace from string values.
type Normalize struct{}

func (Normalize) Name() string { return "normalize" }

func (n Normalize) Apply(in *records.Table) (*records.Table, transformer.Report, error) {
	rep := transformer.Report{Stage: n.Name(), RowsIn: in.Len(), Replaced: map[string]int{}}
	for _, r := range in.Rows {
		for k, v := range r {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if t := strings.TrimSpace(nbspReplacer.Replace(s)); t != s {
				r[k] = t
				rep.Replaced[k]++
			}
		}
	}
	rep.RowsOut = in.Len()
	return in, rep, nil
}
