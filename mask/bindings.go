package mask

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseBinding parses a name=value pair as given on the command line.
//
// The value is sniffed in order: int64, float64, bool, then string. A value
// that should stay a string despite looking numeric can be quoted in the
// shell and re-quoted here (e.g. -b 'zip="01234"').
func ParseBinding(s string) (string, interface{}, error) {
	name, raw, ok := strings.Cut(s, "=")
	if !ok {
		return "", nil, fmt.Errorf("binding %q must have the form name=value", s)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, fmt.Errorf("binding %q has an empty name", s)
	}
	return name, sniffValue(raw), nil
}

// sniffValue converts a raw binding value to the most specific type it parses as.
func sniffValue(raw string) interface{} {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return raw[1 : len(raw)-1]
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseBool(raw); err == nil {
		return v
	}
	return raw
}

// LoadBindingsFile reads bindings from a YAML file containing a single
// mapping of names to scalar values.
//
// Example file:
//
//	min_carat: 1.0
//	cut: Ideal
//	var: carat
func LoadBindingsFile(path string) (Bindings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bindings file: %w", err)
	}

	var m map[string]interface{}
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse bindings file %s: %w", path, err)
	}

	b := make(Bindings, len(m))
	for name, v := range m {
		switch v.(type) {
		case map[string]interface{}, []interface{}:
			return nil, fmt.Errorf("binding %q in %s: nested values are not supported", name, path)
		}
		b[name] = normalizeYAMLValue(v)
	}
	return b, nil
}

// normalizeYAMLValue widens YAML scalar types to the types the comparison
// kernel works with (int64 rather than int).
func normalizeYAMLValue(v interface{}) interface{} {
	if i, ok := v.(int); ok {
		return int64(i)
	}
	return v
}

// Merge combines binding sets; later sets override earlier ones on name
// collisions. The result is a fresh map.
func Merge(sets ...Bindings) Bindings {
	merged := make(Bindings)
	for _, set := range sets {
		for name, v := range set {
			merged[name] = v
		}
	}
	return merged
}
