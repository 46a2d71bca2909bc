package morph

import (
	"reflect"
	"runtime"
	"weak"

	"github.com/zoobzio/sentinel"
)

// Type identifies one end of a mapping.
//
// Go types carry no usable identity for generic registrations, so every
// mappable type is named explicitly through TypeOf. Pointer type parameters
// are normalised to their element type: TypeOf[*User]() and TypeOf[User]()
// identify the same mapping end.
type Type struct {
	rt reflect.Type

	// identify returns a comparable handle for the object behind src when src
	// is a non-nil pointer to this type. The handle does not keep src alive.
	identify func(src any) (any, bool)

	// watch arranges for drop to be called with the handle once the object
	// behind src has been garbage collected.
	watch func(src any, drop func(any))
}

// TypeOf returns the mapping identity of T.
func TypeOf[T any]() Type {
	rt := reflect.TypeFor[T]()
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	} else if rt.Kind() == reflect.Struct {
		// Warm sentinel's metadata cache so typeinfo can reuse it.
		sentinel.Scan[T]()
	}
	t := Type{rt: rt}
	if rt.Size() > 0 {
		t.identify = func(src any) (any, bool) { return identity(rt, src) }
		t.watch = func(src any, drop func(any)) {
			if id, ok := identity(rt, src); ok {
				runtime.AddCleanup(objectOf(src), drop, id)
			}
		}
	}
	return t
}

// instanceID is the identity of one object viewed as one type. The type
// keeps a struct and its first field apart, since both share an address.
type instanceID struct {
	rt  reflect.Type
	ptr weak.Pointer[byte]
}

// identity returns a weak handle on the object src points to when src is a
// non-nil *rt. TypeOf[T] and TypeOf[*T] derive equal handles for the same
// object.
func identity(rt reflect.Type, src any) (any, bool) {
	v := reflect.ValueOf(src)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Type().Elem() != rt {
		return nil, false
	}
	return instanceID{rt: rt, ptr: weak.Make(objectOf(src))}, true
}

// objectOf views the object behind a non-nil pointer as its first byte.
// Callers exclude zero-size types.
func objectOf(src any) *byte {
	return (*byte)(reflect.ValueOf(src).UnsafePointer())
}

// typeFromReflect builds an identity without instance tracking. Used for
// nested destination types derived from struct fields.
func typeFromReflect(rt reflect.Type) Type {
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return Type{rt: rt}
}

// Reflect returns the underlying reflect.Type.
func (t Type) Reflect() reflect.Type {
	return t.rt
}

// Name returns the type name used in errors, signals and introspection.
func (t Type) Name() string {
	return typeName(t.rt)
}

// IsZero reports whether t identifies no type.
func (t Type) IsZero() bool {
	return t.rt == nil
}

// typeName returns a readable name for rt; unnamed types fall back to their
// type literal.
func typeName(rt reflect.Type) string {
	if rt == nil {
		return "<nil>"
	}
	if rt.Name() != "" {
		return rt.Name()
	}
	return rt.String()
}

// runtimeType returns the dereferenced dynamic type of v.
func runtimeType(v any) reflect.Type {
	rt := reflect.TypeOf(v)
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return rt
}
