package charttheme

// copyValue duplicates the map and slice structure of v. Leaf values
// (strings, numbers, funcs, pointers) are shared.
func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case Options:
		return Options(copyMap(t))
	case Dataset:
		return Dataset(copyMap(t))
	case Data:
		return Data(copyMap(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, e := range t {
			out[i] = copyMap(e)
		}
		return out
	case []Dataset:
		out := make([]Dataset, len(t))
		for i, e := range t {
			out[i] = Dataset(copyMap(e))
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case []float64:
		return append([]float64(nil), t...)
	case []int:
		return append([]int(nil), t...)
	default:
		return v
	}
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

// asMap views v as a string-keyed map when it is one. The returned map shares
// storage with v.
func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, t != nil
	case Options:
		return map[string]any(t), t != nil
	case Dataset:
		return map[string]any(t), t != nil
	case Data:
		return map[string]any(t), t != nil
	}
	return nil, false
}

// isSet follows the truthiness the chart runtime applies to color fields.
func isSet(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0 && t == t
	}
	return true
}
