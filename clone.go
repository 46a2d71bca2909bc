package morph

import (
	"reflect"
	"time"
)

// Cloner allows types to provide deep copy logic.
//
// The Clone method must return a deep copy where modifications to the clone
// do not affect the original value. DeepClone prefers Clone over reflection,
// which is the only way unexported reference fields get copied.
//
// For simple value types with no pointers, slices, or maps, Clone can simply return
// the receiver value:
//
//	func (u User) Clone() User { return u }
type Cloner[T any] interface {
	Clone() T
}

var timeType = reflect.TypeFor[time.Time]()

// DeepClone returns a recursive copy of v.
//
// Pointers, structs, slices, arrays, maps and interfaces are copied; scalars
// and time.Time are copied by value. Unexported struct fields are copied
// shallowly. Cyclic values recurse without bound.
func DeepClone(v any) any {
	if v == nil {
		return nil
	}
	return cloneValue(reflect.ValueOf(v)).Interface()
}

func cloneValue(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}
	if out, ok := viaCloner(v); ok {
		return out
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(cloneValue(v.Elem()))
		return out

	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(cloneValue(v.Elem()))
		return out

	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		if v.Type() == timeType {
			return out
		}
		for i := 0; i < v.NumField(); i++ {
			if !v.Type().Field(i).IsExported() {
				continue
			}
			out.Field(i).Set(cloneValue(v.Field(i)))
		}
		return out

	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneValue(v.Index(i)))
		}
		return out

	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneValue(v.Index(i)))
		}
		return out

	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(cloneValue(iter.Key()), cloneValue(iter.Value()))
		}
		return out

	default:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		return out
	}
}

// viaCloner calls a Clone() T method when the value's type provides one.
func viaCloner(v reflect.Value) (reflect.Value, bool) {
	if v.Kind() == reflect.Interface || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return reflect.Value{}, false
	}
	method := v.MethodByName("Clone")
	if !method.IsValid() {
		return reflect.Value{}, false
	}
	mt := method.Type()
	if mt.NumIn() != 0 || mt.NumOut() != 1 || mt.Out(0) != v.Type() {
		return reflect.Value{}, false
	}
	return method.Call(nil)[0], true
}
