// Package config defines the configuration model for the cleaning pipeline.
// Pipelines are plain data: an ordered list of transform steps, each with a
// kind and a free-form options bag, plus display settings used by callers
// that render results.
//
// Example (trimmed):
//
//	{
//	  "job": "customers",
//	  "transform": [
//	    { "kind": "columns",     "options": { "rename": { "st": "state" } } },
//	    { "kind": "standardize", "options": { "mappings": { "gender": { "Femal": "F" } } } },
//	    { "kind": "format",      "options": { "types": { "customer_lifetime_value": "decimal" } } },
//	    { "kind": "nulls" },
//	    { "kind": "dedup",       "options": { "policy": "keep-first" } }
//	  ],
//	  "display": { "float_digits": 1 }
//	}
//
// The same document may be written in YAML.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Job names the run in logs and metrics.
	Job string `json:"job"`

	// Transform lists the ordered cleaning stages applied to the table.
	Transform []Transform `json:"transform"`

	// Display controls presentation of cleaned values. Stages never read it.
	Display Display `json:"display"`
}

// Transform defines a single cleaning stage.
type Transform struct {
	// Kind selects the stage implementation ("columns", "standardize",
	// "format", "nulls", "dedup", "normalize", "require").
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the selected stage.
	Options Options `json:"options"`
}

// Display holds caller-controlled rendering options.
type Display struct {
	// FloatDigits is the number of fractional digits shown for non-integer
	// numbers.
	FloatDigits int `json:"float_digits"`
}

// DefaultFloatDigits is applied when a pipeline file omits display settings.
const DefaultFloatDigits = 1

// Load reads a pipeline file. Files ending in .yaml or .yml are parsed as
// YAML, everything else as JSON. Display.FloatDigits keeps its default when
// the file does not set it.
func Load(path string) (Pipeline, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(b)
	default:
		return DecodeJSON(b)
	}
}

// DecodeJSON parses a JSON pipeline document.
func DecodeJSON(b []byte) (Pipeline, error) {
	p := Pipeline{Display: Display{FloatDigits: DefaultFloatDigits}}
	if err := json.Unmarshal(b, &p); err != nil {
		return Pipeline{}, fmt.Errorf("decode config: %w", err)
	}
	return p, nil
}

// DecodeYAML parses a YAML pipeline document. It is converted to JSON first so
// that Options values have the same shapes regardless of the file format.
func DecodeYAML(b []byte) (Pipeline, error) {
	js, err := yaml.YAMLToJSON(b)
	if err != nil {
		return Pipeline{}, fmt.Errorf("decode config: %w", err)
	}
	return DecodeJSON(js)
}

// Default returns the pipeline for the customer insurance dataset: canonical
// column names, the known label variants, decimal lifetime value, composite
// complaint counts, median/mode imputation and exact-row deduplication.
func Default() Pipeline {
	return Pipeline{
		Job: "customers",
		Transform: []Transform{
			{Kind: "columns", Options: Options{
				"rename": map[string]any{"st": "state"},
			}},
			{Kind: "standardize", Options: Options{
				"mappings": map[string]any{
					"gender": map[string]any{"Femal": "F", "Male": "M", "female": "F"},
					"state": map[string]any{
						"Cali": "California",
						"AZ":   "Arizona",
						"WA":   "Washington",
					},
					"education": map[string]any{"Bachelors": "Bachelor"},
					"vehicle_class": map[string]any{
						"Sports Car": "Luxury",
						"Luxury SUV": "Luxury",
						"Luxury Car": "Luxury",
					},
				},
				"strip": map[string]any{"customer_lifetime_value": []any{"%"}},
			}},
			{Kind: "format", Options: Options{
				"types": map[string]any{
					"customer_lifetime_value":   "decimal",
					"number_of_open_complaints": "int",
				},
				"composite": map[string]any{
					"number_of_open_complaints": map[string]any{"separator": "/", "field": float64(1)},
				},
			}},
			{Kind: "nulls", Options: Options{}},
			{Kind: "dedup", Options: Options{"policy": "keep-first"}},
		},
		Display: Display{FloatDigits: DefaultFloatDigits},
	}
}

// Options is a small helper to fetch typed values from decoded JSON maps. It
// performs only minimal type coercion and returns provided defaults when a key
// is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers are decoded as
// float64 by encoding/json, so this method accepts float64 and casts to int.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		case int64:
			return int(n)
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored. Returns an empty map
// when the key is missing or the value is not an object.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		res = toStringMap(v)
	}
	return res
}

// NestedStringMap returns a two-level map such as {"gender": {"Femal": "F"}}.
// Entries whose value is not an object are skipped.
func (o Options) NestedStringMap(key string) map[string]map[string]string {
	res := map[string]map[string]string{}
	m, ok := o[key].(map[string]any)
	if !ok {
		return res
	}
	for k, v := range m {
		if _, ok := v.(map[string]any); !ok {
			continue
		}
		res[k] = toStringMap(v)
	}
	return res
}

// StringSliceMap returns a map of string lists such as {"clv": ["%"]}. A bare
// string value is treated as a one-element list.
func (o Options) StringSliceMap(key string) map[string][]string {
	res := map[string][]string{}
	m, ok := o[key].(map[string]any)
	if !ok {
		return res
	}
	for k, v := range m {
		switch vv := v.(type) {
		case string:
			res[k] = []string{vv}
		case []any, []string:
			res[k] = Options{"v": vv}.StringSlice("v")
		}
	}
	return res
}

// StringSlice returns a []string for key when the value is an array of strings
// (or an array of interface values containing strings). Returns nil when the
// key is missing or the value is not an array.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// Object returns the nested object at key as Options, or an empty Options.
func (o Options) Object(key string) Options {
	if m, ok := o[key].(map[string]any); ok {
		return Options(m)
	}
	return Options{}
}

// Any returns the raw value for key (which may itself be a nested
// map[string]any, []any, or primitive).
func (o Options) Any(key string) any {
	if v, ok := o[key]; ok {
		return v
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null "options"
// object in JSON decodes to a non-nil, empty Options map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}

func toStringMap(v any) map[string]string {
	res := map[string]string{}
	switch m := v.(type) {
	case map[string]any:
		for k, vv := range m {
			if s, ok := vv.(string); ok {
				res[k] = s
			}
		}
	case map[string]string:
		for k, s := range m {
			res[k] = s
		}
	}
	return res
}
