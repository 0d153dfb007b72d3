// Package layering merges ordered snapshots where stronger layers override
// weaker ones.
package layering

import "reflect"

// MergeOrdered merges ordered layers given strongest first. Every key takes the
// value of the strongest layer that defines it and the position where it first
// appears when walking from the weakest layer up, the way object spread
// composes defaults, context and explicit props. Duplicate keys inside one
// layer keep the last element. Elements are deep copied with Clone.
func MergeOrdered[E any](key func(E) string, layers ...[]E) []E {
	if len(layers) == 0 {
		return nil
	}

	var (
		index = map[string]int{}
		out   []E
	)
	for i := len(layers) - 1; i >= 0; i-- {
		for _, elem := range layers[i] {
			k := key(elem)
			if pos, ok := index[k]; ok {
				out[pos] = Clone(elem)
				continue
			}
			index[k] = len(out)
			out = append(out, Clone(elem))
		}
	}
	return out
}

// Winner reports the index of the strongest layer defining k, or -1.
func Winner[E any](key func(E) string, k string, layers ...[]E) int {
	for i, layer := range layers {
		for _, elem := range layer {
			if key(elem) == k {
				return i
			}
		}
	}
	return -1
}

// Clone returns a deep copy of value. Slices, maps and pointers are copied so
// later mutations of either value never leak across layers.
func Clone[T any](value T) T {
	cloned := cloneValue(reflect.ValueOf(&value).Elem())
	if !cloned.IsValid() {
		var zero T
		return zero
	}
	return cloned.Interface().(T)
}

func cloneValue(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.New(v.Type().Elem())
		clone.Elem().Set(cloneValue(v.Elem()))
		return clone
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		elem := cloneValue(v.Elem())
		if !elem.IsValid() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.New(v.Type()).Elem()
		clone.Set(elem)
		return clone
	case reflect.Struct:
		clone := reflect.New(v.Type()).Elem()
		clone.Set(v)
		for i := 0; i < v.NumField(); i++ {
			field := clone.Field(i)
			if !field.CanSet() {
				continue
			}
			field.Set(cloneValue(v.Field(i)))
		}
		return clone
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			clone.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return clone
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i)))
		}
		return clone
	case reflect.Array:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i)))
		}
		return clone
	default:
		clone := reflect.New(v.Type()).Elem()
		clone.Set(v)
		return clone
	}
}
