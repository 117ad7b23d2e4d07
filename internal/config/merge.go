package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var ErrTypeMismatch = errors.New("incompatible types")

// Merge deep merges overlay into a copy of base. Maps merge key by key,
// lists append, scalars replace. When the two sides disagree on map versus
// list the base value is kept for that path and an error is reported; the
// rest of the document still merges.
func Merge(base, overlay map[string]any) (map[string]any, error) {
	out := cloneMap(base)
	var errs []error
	mergeMap(out, overlay, "", &errs)
	return out, errors.Join(errs...)
}

func mergeMap(dst, src map[string]any, path string, errs *[]error) {
	for _, key := range slices.Sorted(maps.Keys(src)) {
		value := src[key]
		at := path + "." + key
		cur, ok := dst[key]
		if !ok {
			dst[key] = cloneValue(value)
			continue
		}
		switch c := cur.(type) {
		case map[string]any:
			v, ok := value.(map[string]any)
			if !ok {
				*errs = append(*errs, mismatch(at, cur, value))
				continue
			}
			mergeMap(c, v, at, errs)
		case []any:
			v, ok := value.([]any)
			if !ok {
				*errs = append(*errs, mismatch(at, cur, value))
				continue
			}
			dst[key] = append(c, cloneValue(v).([]any)...)
		default:
			dst[key] = cloneValue(value)
		}
	}
}

func mismatch(path string, have, got any) error {
	return fmt.Errorf("%w %T and %T at %s", ErrTypeMismatch, have, got, path)
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
