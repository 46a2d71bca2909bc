// Package morph maps values of one type onto freshly constructed values of
// another.
//
// A mapping is registered once per (source, destination) pair and compiled
// into a reusable closure. Each call runs the same layered algorithm:
//
//  1. construct an empty destination
//  2. copy same-named fields from the source (default copy)
//  3. apply explicit field functions, overwriting step 2
//  4. resolve annotated destination fields that are still unset
//     (nested mappings, source paths, transformers)
//
// # Basic Usage
//
//	type User struct {
//	    Name  string
//	    Email string
//	    Age   int
//	}
//
//	type UserDTO struct {
//	    Name    string
//	    Contact string `map.from:"Email" map.transform:"mask.email"`
//	    Age     int
//	}
//
//	m := morph.New()
//	morph.CreateMap[User, UserDTO](m, nil)
//
//	dto, err := morph.Map[UserDTO](m, &user)
//
// # Field Functions
//
// Explicit field functions take precedence over default copying:
//
//	morph.CreateMap[User, UserDTO](m, morph.Fields{
//	    "Name": morph.Compute(func(u User) any { return strings.ToUpper(u.Name) }),
//	    "Age":  morph.From("Age"),
//	}, morph.Options{Strict: true})
//
// Fields built with From invert exactly under CreateReverseMap; any other
// field function is reversed by copying the same-named field.
//
// # Tag Syntax
//
// Destination fields can be annotated with struct tags:
//
//	map:"name"              - mapping key (map:"-" excludes the field)
//	map.from:"Profile.City" - dotted source path
//	map.nested:"true"       - map the source sub-value through the registry
//	map.transform:"trim"    - pass the resolved value through a transformer
//	map.auto:"true"         - resolve from the same-named source field
//
// The same facts can be declared without tags by implementing Describer on
// the destination type, or by calling Annotations.Register.
//
// # Null and Undefined
//
// A typed nil (nil pointer, map, slice, interface) is null. A value that is
// absent (missing map key, unresolvable path) or equal to Undefined is
// undefined. SkipNulls and SkipUndefined suppress each independently.
//
// # Caching
//
// With caching enabled, results are memoised per source object identity.
// Only pointer sources are cached; an entry is dropped when its source is
// garbage collected or when Clear is called.
//
// # Codec Providers
//
// Binder and LoadProfile accept any Codec. Implementations live in
// subpackages:
//
//   - json - JSON encoding (application/json)
//   - xml - XML encoding (application/xml)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
package morph

import "reflect"

type undefinedValue struct{}

func (undefinedValue) String() string { return "undefined" }

// Undefined marks a value as absent. Field functions and map sources may
// return it to leave a destination field untouched under SkipUndefined.
var Undefined any = undefinedValue{}

// IsUndefined reports whether v is Undefined.
func IsUndefined(v any) bool {
	_, ok := v.(undefinedValue)
	return ok
}

// IsNull reports whether v is nil or a typed nil.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
