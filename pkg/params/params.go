// Package params models the nested parameter mappings consumed by the GOV.UK
// component templates and provides the deep merge used to layer caller
// overrides on top of the values derived from a form field.
package params

import "sort"

// Params is a renderer-ready parameter mapping. Values are strings, booleans,
// nested Params/map[string]any, or lists of those.
type Params map[string]any

// Text builds the {"text": value} shape used by label, hint, legend and error
// message parameters.
func Text(value string) Params {
	return Params{"text": value}
}

// Map returns the nested mapping stored under key, or nil when the key is
// missing or holds something else.
func (p Params) Map(key string) Params {
	if p == nil {
		return nil
	}
	return AsParams(p[key])
}

// String returns the string stored under key.
func (p Params) String(key string) string {
	if p == nil {
		return ""
	}
	value, _ := p[key].(string)
	return value
}

// SetDefault stores value under key unless the key already exists. It returns
// the value held after the call.
func (p Params) SetDefault(key string, value any) any {
	if existing, ok := p[key]; ok {
		return existing
	}
	p[key] = value
	return value
}

// Keys returns the mapping keys in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// AsParams converts the supported mapping representations into Params.
func AsParams(value any) Params {
	switch v := value.(type) {
	case Params:
		return v
	case map[string]any:
		return Params(v)
	case map[string]string:
		out := make(Params, len(v))
		for key, item := range v {
			out[key] = item
		}
		return out
	default:
		return nil
	}
}

// AsList converts the supported list representations into a []any view. The
// second return value reports whether value was a list at all.
func AsList(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []Params:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out, true
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out, true
	default:
		return nil, false
	}
}

// Clone returns a deep copy of p. Nested mappings become Params and nested
// lists become []any so the copy never aliases caller-owned containers.
func Clone(p Params) Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for key, value := range p {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	if mapped := AsParams(value); mapped != nil {
		return Clone(mapped)
	}
	if list, ok := AsList(value); ok {
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = cloneValue(item)
		}
		return out
	}
	return value
}
