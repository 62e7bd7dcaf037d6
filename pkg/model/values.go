package model

import (
	"fmt"
	"sort"
	"strings"
)

// Values is the transient value record of one form session keyed by field
// name. Scalars are stored as string or bool; multi-select fields as []string.
type Values map[string]any

// DefaultValues returns the empty defaults for every field in the form.
func DefaultValues(form FormModel) Values {
	out := make(Values, len(form.Fields))
	for _, field := range form.Fields {
		out[field.Name] = field.Zero()
	}
	return out
}

// String returns the named value as a string. Missing values and non-string
// values yield "" (booleans and sets are formatted).
func (v Values) String(name string) string {
	switch typed := v[name].(type) {
	case nil:
		return ""
	case string:
		return typed
	case []string:
		return strings.Join(typed, ",")
	default:
		return fmt.Sprint(typed)
	}
}

// Bool returns the named value as a boolean flag.
func (v Values) Bool(name string) bool {
	flag, _ := v[name].(bool)
	return flag
}

// Strings returns a copy of the named set value.
func (v Values) Strings(name string) []string {
	switch typed := v[name].(type) {
	case []string:
		return append([]string{}, typed...)
	case string:
		if typed == "" {
			return []string{}
		}
		return []string{typed}
	default:
		return []string{}
	}
}

// Has reports whether the set value contains option.
func (v Values) Has(name, option string) bool {
	for _, item := range v.Strings(name) {
		if item == option {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so snapshots handed to sinks cannot alias the
// live session record.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for key, value := range v {
		if set, ok := value.([]string); ok {
			out[key] = append([]string{}, set...)
			continue
		}
		out[key] = value
	}
	return out
}

// Keys returns the field names sorted for deterministic iteration.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for key := range v {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// IsEmpty reports whether a value counts as "not filled in": empty or
// whitespace-only strings, false flags and empty sets.
func IsEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case bool:
		return !typed
	case []string:
		return len(typed) == 0
	default:
		return false
	}
}
