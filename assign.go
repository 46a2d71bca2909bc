package morph

import (
	"fmt"
	"reflect"
)

// assign stores value into field. Null stores the zero value; Undefined
// leaves the field untouched.
func assign(field reflect.Value, value any) error {
	if IsUndefined(value) {
		return nil
	}
	if value == nil {
		field.SetZero()
		return nil
	}
	return assignValue(field, reflect.ValueOf(value))
}

func assignValue(field, v reflect.Value) error {
	ft := field.Type()

	if v.Type().AssignableTo(ft) {
		field.Set(v)
		return nil
	}

	switch {
	case v.Kind() == reflect.Interface:
		if v.IsNil() {
			field.SetZero()
			return nil
		}
		return assignValue(field, v.Elem())

	case v.Kind() == reflect.Pointer && ft.Kind() != reflect.Pointer:
		if v.IsNil() {
			field.SetZero()
			return nil
		}
		return assignValue(field, v.Elem())

	case ft.Kind() == reflect.Pointer && v.Kind() != reflect.Pointer:
		p := reflect.New(ft.Elem())
		if err := assignValue(p.Elem(), v); err != nil {
			return err
		}
		field.Set(p)
		return nil

	case convertible(v.Type(), ft):
		field.Set(v.Convert(ft))
		return nil

	case v.Kind() == reflect.Pointer && ft.Kind() == reflect.Pointer:
		if v.IsNil() {
			field.SetZero()
			return nil
		}
		p := reflect.New(ft.Elem())
		if err := assignValue(p.Elem(), v.Elem()); err != nil {
			return err
		}
		field.Set(p)
		return nil

	case v.Kind() == reflect.Slice && ft.Kind() == reflect.Slice:
		if v.IsNil() {
			field.SetZero()
			return nil
		}
		out := reflect.MakeSlice(ft, v.Len(), v.Len())
		for i := range v.Len() {
			if err := assignValue(out.Index(i), v.Index(i)); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		field.Set(out)
		return nil
	}

	return fmt.Errorf("%w: cannot assign %s to %s", ErrIncompatibleValue, v.Type(), ft)
}

// convertible excludes integer to string conversion, which yields a rune
// rather than a decimal representation.
func convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	if to.Kind() == reflect.String {
		switch from.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return false
		}
	}
	// slice to array conversions panic on short input
	if from.Kind() == reflect.Slice && (to.Kind() == reflect.Array ||
		(to.Kind() == reflect.Pointer && to.Elem().Kind() == reflect.Array)) {
		return false
	}
	return true
}
