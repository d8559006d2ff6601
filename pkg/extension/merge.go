package extension

// DeepMerge returns a copy of target with values from source laid over it.
//
// Only keys already present in target are merged. A nil source value
// leaves the target value alone. A slice in target is replaced only by a
// slice from source. Nested maps are merged recursively; anything else is
// replaced. A nil target yields a copy of source. Neither argument is
// modified.
func DeepMerge(target, source map[string]any) map[string]any {
	if target == nil {
		return cloneMap(source)
	}

	out := cloneMap(target)
	for key, src := range source {
		dst, ok := target[key]
		if !ok || src == nil {
			continue
		}
		switch d := dst.(type) {
		case []any:
			if s, ok := src.([]any); ok {
				out[key] = append([]any(nil), s...)
			}
		case map[string]any:
			if s, ok := src.(map[string]any); ok {
				out[key] = DeepMerge(d, s)
			} else {
				out[key] = src
			}
		default:
			out[key] = src
		}
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
