package config

import (
	"strings"
	"testing"
)

// hasIssue reports whether issues contains an Issue with the given severity,
// path, and a Message containing msgSubstr.
func hasIssue(t *testing.T, issues []Issue, sev IssueSeverity, path, msgSubstr string) bool {
	t.Helper()
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path && strings.Contains(iss.Message, msgSubstr) {
			return true
		}
	}
	return false
}

/*
TestValidatePipeline_MissingJob verifies that a missing or empty Job field
produces a SeverityError with path "job".
*/
func TestValidatePipeline_MissingJob(t *testing.T) {
	p := Default()
	p.Job = "  "

	issues := ValidatePipeline(p)

	if !hasIssue(t, issues, SeverityError, "job", "job must not be empty") {
		t.Fatalf("expected SeverityError for job; got issues: %+v", issues)
	}
	if !HasErrors(issues) {
		t.Fatalf("HasErrors = false, want true")
	}
}

func TestValidatePipeline_NoTransforms(t *testing.T) {
	issues := ValidatePipeline(Pipeline{Job: "j", Display: Display{FloatDigits: 1}})
	if !hasIssue(t, issues, SeverityWarning, "transform", "no transforms") {
		t.Fatalf("expected warning for empty transform list; got %+v", issues)
	}
	if HasErrors(issues) {
		t.Fatalf("warnings alone must not count as errors: %+v", issues)
	}
}

/*
TestValidatePipeline_TransformIssues covers per-kind option checks. Each case
builds a one-stage pipeline and expects one specific finding.
*/
func TestValidatePipeline_TransformIssues(t *testing.T) {
	tests := []struct {
		name string
		tr   Transform
		sev  IssueSeverity
		path string
		msg  string
	}{
		{
			name: "empty kind",
			tr:   Transform{Kind: ""},
			sev:  SeverityError,
			path: "transform[0].kind",
			msg:  "must not be empty",
		},
		{
			name: "unknown kind",
			tr:   Transform{Kind: "coerce"},
			sev:  SeverityError,
			path: "transform[0].kind",
			msg:  `unknown transform kind "coerce"`,
		},
		{
			name: "empty rename target",
			tr:   Transform{Kind: "columns", Options: Options{"rename": map[string]any{"st": ""}}},
			sev:  SeverityError,
			path: "transform[0].options.rename.st",
			msg:  "must not be empty",
		},
		{
			name: "standardize without rules",
			tr:   Transform{Kind: "standardize", Options: Options{}},
			sev:  SeverityWarning,
			path: "transform[0].options",
			msg:  "no mappings",
		},
		{
			name: "standardize empty mapping",
			tr:   Transform{Kind: "standardize", Options: Options{"mappings": map[string]any{"gender": map[string]any{}}}},
			sev:  SeverityWarning,
			path: "transform[0].options.mappings.gender",
			msg:  "mapping is empty",
		},
		{
			name: "standardize empty strip",
			tr:   Transform{Kind: "standardize", Options: Options{"strip": map[string]any{"clv": []any{""}}}},
			sev:  SeverityError,
			path: "transform[0].options.strip.clv",
			msg:  "must not be empty",
		},
		{
			name: "format unknown type",
			tr:   Transform{Kind: "format", Options: Options{"types": map[string]any{"clv": "money"}}},
			sev:  SeverityError,
			path: "transform[0].options.types.clv",
			msg:  `unsupported type "money"`,
		},
		{
			name: "format composite without separator",
			tr: Transform{Kind: "format", Options: Options{
				"composite": map[string]any{"c": map[string]any{"field": float64(1)}},
			}},
			sev:  SeverityError,
			path: "transform[0].options.composite.c.separator",
			msg:  "must not be empty",
		},
		{
			name: "format composite negative field",
			tr: Transform{Kind: "format", Options: Options{
				"composite": map[string]any{"c": map[string]any{"separator": "/", "field": float64(-1)}},
			}},
			sev:  SeverityError,
			path: "transform[0].options.composite.c.field",
			msg:  "must not be negative",
		},
		{
			name: "format composite on decimal column",
			tr: Transform{Kind: "format", Options: Options{
				"types":     map[string]any{"c": "decimal"},
				"composite": map[string]any{"c": map[string]any{"separator": "/", "field": float64(1)}},
			}},
			sev:  SeverityError,
			path: "transform[0].options.composite.c",
			msg:  "parsed as int",
		},
		{
			name: "format without rules",
			tr:   Transform{Kind: "format"},
			sev:  SeverityWarning,
			path: "transform[0].options",
			msg:  "no types",
		},
		{
			name: "require without columns",
			tr:   Transform{Kind: "require"},
			sev:  SeverityWarning,
			path: "transform[0].options.columns",
			msg:  "lists no columns",
		},
		{
			name: "dedup unknown policy",
			tr:   Transform{Kind: "dedup", Options: Options{"policy": "random"}},
			sev:  SeverityError,
			path: "transform[0].options.policy",
			msg:  `unknown policy "random"`,
		},
		{
			name: "dedup policy without keys",
			tr:   Transform{Kind: "dedup", Options: Options{"policy": "keep-last"}},
			sev:  SeverityWarning,
			path: "transform[0].options.policy",
			msg:  "only differs",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Pipeline{Job: "j", Transform: []Transform{tc.tr}, Display: Display{FloatDigits: 1}}
			issues := ValidatePipeline(p)
			if !hasIssue(t, issues, tc.sev, tc.path, tc.msg) {
				t.Fatalf("expected %s at %s containing %q; got %+v", tc.sev, tc.path, tc.msg, issues)
			}
		})
	}
}

func TestValidatePipeline_ColumnsNotFirst(t *testing.T) {
	p := Pipeline{
		Job: "j",
		Transform: []Transform{
			{Kind: "nulls"},
			{Kind: "columns"},
		},
		Display: Display{FloatDigits: 1},
	}
	issues := ValidatePipeline(p)
	if !hasIssue(t, issues, SeverityWarning, "transform[1].kind", "raw column names") {
		t.Fatalf("expected ordering warning; got %+v", issues)
	}
}

func TestValidatePipeline_NegativeFloatDigits(t *testing.T) {
	p := Default()
	p.Display.FloatDigits = -1
	if !hasIssue(t, ValidatePipeline(p), SeverityError, "display.float_digits", "must not be negative") {
		t.Fatalf("expected error for negative float_digits")
	}
}

func TestIssue_Error(t *testing.T) {
	iss := Issue{Severity: SeverityError, Path: "job", Message: "job must not be empty"}
	if got, want := iss.Error(), "error at job: job must not be empty"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
