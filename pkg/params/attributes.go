package params

// NormalizeAttributes returns a copy of attrs ready for HTML output. Boolean
// true becomes the attribute's own name (required="required"), boolean false
// and nil values are dropped.
func NormalizeAttributes(attrs Params) Params {
	out := make(Params, len(attrs))
	for key, value := range attrs {
		switch v := value.(type) {
		case nil:
			continue
		case bool:
			if v {
				out[key] = key
			}
		default:
			out[key] = cloneValue(value)
		}
	}
	return out
}
