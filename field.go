package morph

import (
	"context"
	"fmt"
	"reflect"
)

// FieldFunc computes one destination field from the whole source value.
// The mapping context is available through ContextFrom(ctx).
type FieldFunc func(ctx context.Context, src any) (any, error)

// Field is an explicit field function. Build one with From, Compute,
// ComputeErr, ComputeCtx or Func.
type Field struct {
	fn   FieldFunc
	from string // source key when built with From
}

// Fields maps destination field keys to their field functions.
type Fields map[string]Field

// From copies the named source field. From fields invert exactly under
// CreateReverseMap.
func From(name string) Field {
	return Field{
		from: name,
		fn: func(_ context.Context, src any) (any, error) {
			v, ok := readField(reflect.ValueOf(src), name)
			if !ok {
				return Undefined, nil
			}
			return v, nil
		},
	}
}

// Func wraps an untyped field function.
func Func(fn FieldFunc) Field {
	return Field{fn: fn}
}

// Compute builds a field from a typed function of the source.
func Compute[S any](fn func(S) any) Field {
	return ComputeCtx(func(_ context.Context, s S) (any, error) {
		return fn(s), nil
	})
}

// ComputeErr builds a field from a typed function that may fail. Errors are
// swallowed unless the mapping is Strict.
func ComputeErr[S any](fn func(S) (any, error)) Field {
	return ComputeCtx(func(_ context.Context, s S) (any, error) {
		return fn(s)
	})
}

// ComputeCtx builds a field from a typed, context-aware function.
func ComputeCtx[S any](fn func(context.Context, S) (any, error)) Field {
	return Field{fn: func(ctx context.Context, src any) (any, error) {
		s, err := sourceAs[S](src)
		if err != nil {
			return nil, err
		}
		return fn(ctx, s)
	}}
}

// sourceAs converts src to S, dereferencing or taking the address as needed.
func sourceAs[S any](src any) (S, error) {
	var zero S
	switch v := src.(type) {
	case S:
		return v, nil
	case *S:
		if v != nil {
			return *v, nil
		}
		return zero, fmt.Errorf("%w: nil source", ErrIncompatibleValue)
	}
	want := reflect.TypeFor[S]()
	rv := reflect.ValueOf(src)
	if want.Kind() == reflect.Pointer && rv.IsValid() && rv.Type() == want.Elem() {
		p := reflect.New(want.Elem())
		p.Elem().Set(rv)
		return p.Interface().(S), nil
	}
	return zero, fmt.Errorf("%w: source %T is not %s", ErrIncompatibleValue, src, want)
}

// Context describes the mapping call a field function or hook runs in.
type Context struct {
	Source      string // source type name
	Destination string // destination type name
	values      map[any]any
}

// Value returns a value supplied with WithValue, or nil.
func (c *Context) Value(key any) any {
	if c == nil {
		return nil
	}
	return c.values[key]
}

type contextKey struct{}

// ContextFrom returns the mapping context carried by ctx, or nil outside a
// mapping call.
func ContextFrom(ctx context.Context) *Context {
	c, _ := ctx.Value(contextKey{}).(*Context)
	return c
}

// withContext derives the context for one mapping call. Values supplied to an
// enclosing call remain visible to nested calls.
func withContext(ctx context.Context, source, destination string, values map[any]any) context.Context {
	c := &Context{Source: source, Destination: destination, values: values}
	if parent := ContextFrom(ctx); parent != nil && len(parent.values) > 0 {
		merged := make(map[any]any, len(parent.values)+len(values))
		for k, v := range parent.values {
			merged[k] = v
		}
		for k, v := range values {
			merged[k] = v
		}
		c.values = merged
	}
	return context.WithValue(ctx, contextKey{}, c)
}
