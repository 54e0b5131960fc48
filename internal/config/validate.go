package config

import (
	"fmt"
	"sort"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "job",
// "transform[2].options.types.customer_lifetime_value"). Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Known stage kinds and option values.
var (
	knownKinds = map[string]struct{}{
		"columns":     {},
		"standardize": {},
		"format":      {},
		"nulls":       {},
		"dedup":       {},
		"normalize":   {},
		"require":     {},
	}
	knownTypes    = map[string]struct{}{"decimal": {}, "int": {}}
	knownPolicies = map[string]struct{}{"": {}, "keep-first": {}, "keep-last": {}, "most-complete": {}}
)

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Callers decide whether warnings are fatal.
//
//	issues := config.ValidatePipeline(p)
//	for _, iss := range issues {
//	    fmt.Printf("%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
//	}
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateTransforms(p.Transform)...)
	issues = append(issues, validateDisplay(p.Display)...)

	return issues
}

// validateTransforms checks each transform kind and its options.
func validateTransforms(ts []Transform) []Issue {
	var issues []Issue

	if len(ts) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "transform",
			Message:  "no transforms configured; the table passes through unchanged",
		})
		return issues
	}

	for i, t := range ts {
		path := fmt.Sprintf("transform[%d].kind", i)
		if strings.TrimSpace(t.Kind) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  "transform kind must not be empty",
			})
			continue
		}
		if _, ok := knownKinds[t.Kind]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  fmt.Sprintf("unknown transform kind %q", t.Kind),
			})
			continue
		}

		opts := fmt.Sprintf("transform[%d].options", i)
		switch t.Kind {
		case "columns":
			if i > 0 {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     path,
					Message:  "columns runs after other stages; their options must use raw column names",
				})
			}
			for _, k := range sortedKeys(t.Options.StringMap("rename")) {
				if strings.TrimSpace(t.Options.StringMap("rename")[k]) == "" {
					issues = append(issues, Issue{
						Severity: SeverityError,
						Path:     opts + ".rename." + k,
						Message:  "rename target must not be empty",
					})
				}
			}

		case "standardize":
			mappings := t.Options.NestedStringMap("mappings")
			strip := t.Options.StringSliceMap("strip")
			if len(mappings) == 0 && len(strip) == 0 {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     opts,
					Message:  "standardize has no mappings and no strip rules; it will not change anything",
				})
			}
			for _, col := range sortedKeys(mappings) {
				if len(mappings[col]) == 0 {
					issues = append(issues, Issue{
						Severity: SeverityWarning,
						Path:     opts + ".mappings." + col,
						Message:  "mapping is empty",
					})
				}
			}
			for _, col := range sortedKeys(strip) {
				for _, s := range strip[col] {
					if s == "" {
						issues = append(issues, Issue{
							Severity: SeverityError,
							Path:     opts + ".strip." + col,
							Message:  "strip substring must not be empty",
						})
					}
				}
			}

		case "format":
			types := t.Options.StringMap("types")
			for _, col := range sortedKeys(types) {
				if _, ok := knownTypes[types[col]]; !ok {
					issues = append(issues, Issue{
						Severity: SeverityError,
						Path:     opts + ".types." + col,
						Message:  fmt.Sprintf("unsupported type %q; want decimal or int", types[col]),
					})
				}
			}
			comp := t.Options.Object("composite")
			for _, col := range sortedKeys(comp) {
				rule := comp.Object(col)
				cp := opts + ".composite." + col
				if rule.String("separator", "") == "" {
					issues = append(issues, Issue{
						Severity: SeverityError,
						Path:     cp + ".separator",
						Message:  "composite separator must not be empty",
					})
				}
				if rule.Int("field", 0) < 0 {
					issues = append(issues, Issue{
						Severity: SeverityError,
						Path:     cp + ".field",
						Message:  "composite field must not be negative",
					})
				}
				if typ, ok := types[col]; ok && typ != "int" {
					issues = append(issues, Issue{
						Severity: SeverityError,
						Path:     cp,
						Message:  fmt.Sprintf("composite columns are parsed as int, but types.%s is %q", col, typ),
					})
				}
			}
			if len(types) == 0 && len(comp) == 0 {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     opts,
					Message:  "format has no types and no composite rules; it will not change anything",
				})
			}

		case "require":
			if len(t.Options.StringSlice("columns")) == 0 {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     opts + ".columns",
					Message:  "require lists no columns; it will not check anything",
				})
			}

		case "dedup":
			policy := t.Options.String("policy", "")
			if _, ok := knownPolicies[policy]; !ok {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     opts + ".policy",
					Message:  fmt.Sprintf("unknown policy %q; want keep-first, keep-last or most-complete", policy),
				})
			}
			if policy != "" && policy != "keep-first" && len(t.Options.StringSlice("keys")) == 0 {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     opts + ".policy",
					Message:  fmt.Sprintf("policy %q only differs from keep-first when keys are set", policy),
				})
			}
		}
	}

	return issues
}

// validateDisplay checks rendering options.
func validateDisplay(d Display) []Issue {
	if d.FloatDigits < 0 {
		return []Issue{{
			Severity: SeverityError,
			Path:     "display.float_digits",
			Message:  "float_digits must not be negative",
		}}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
