package morph

import (
	"reflect"
	"slices"
)

// sourceField is one enumerable field of a source value.
type sourceField struct {
	key   string
	value any
}

// indirect dereferences pointers and interfaces until a concrete value.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// enumerate lists the fields of a struct (declaration order) or a
// string-keyed map (sorted keys). Other values have no fields.
func enumerate(src any) []sourceField {
	v := indirect(reflect.ValueOf(src))
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Struct:
		ti := getTypeInfo(v.Type())
		out := make([]sourceField, 0, len(ti.fields))
		for _, f := range ti.fields {
			fv, err := v.FieldByIndexErr(f.index)
			if err != nil {
				// nil embedded pointer
				continue
			}
			out = append(out, sourceField{key: f.key, value: fv.Interface()})
		}
		return out
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil
		}
		keys := make([]string, 0, v.Len())
		for _, k := range v.MapKeys() {
			keys = append(keys, k.String())
		}
		slices.Sort(keys)
		out := make([]sourceField, 0, len(keys))
		for _, k := range keys {
			out = append(out, sourceField{key: k, value: mapValue(v, k)})
		}
		return out
	}
	return nil
}

// readField reads one field by key or Go name. ok is false when the field is
// absent.
func readField(v reflect.Value, key string) (any, bool) {
	v = indirect(v)
	if !v.IsValid() {
		return nil, false
	}
	switch v.Kind() {
	case reflect.Struct:
		f, ok := getTypeInfo(v.Type()).lookup(key)
		if !ok {
			return nil, false
		}
		fv, err := v.FieldByIndexErr(f.index)
		if err != nil {
			return nil, false
		}
		return fv.Interface(), true
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		k := reflect.ValueOf(key).Convert(v.Type().Key())
		if !v.MapIndex(k).IsValid() {
			return nil, false
		}
		return mapValue(v, key), true
	}
	return nil, false
}

func mapValue(m reflect.Value, key string) any {
	mv := m.MapIndex(reflect.ValueOf(key).Convert(m.Type().Key()))
	if mv.Kind() == reflect.Interface && mv.IsNil() {
		return nil
	}
	return mv.Interface()
}
