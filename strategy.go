package morph

import (
	"context"
	"slices"
)

// MapEnum returns v when it is one of members. The second result is false
// when v has no mapping; the caller picks the fallback.
func MapEnum[T comparable](v T, members []T) (T, bool) {
	if slices.Contains(members, v) {
		return v, true
	}
	var zero T
	return zero, false
}

// Discriminator picks the concrete destination type for a source. A zero
// Type selects the nominal destination.
type Discriminator func(src any) Type

// MapPolymorphic maps src to the type chosen by discriminate, falling back
// to nominal.
func (m *Mapper) MapPolymorphic(src any, nominal Type, discriminate Discriminator, opts ...CallOption) (any, error) {
	return m.Map(src, resolveType(src, nominal, discriminate), opts...)
}

// MapPolymorphicAsync is MapPolymorphic on the async path.
func (m *Mapper) MapPolymorphicAsync(ctx context.Context, src any, nominal Type, discriminate Discriminator, opts ...CallOption) (any, error) {
	return m.MapAsync(ctx, src, resolveType(src, nominal, discriminate), opts...)
}

func resolveType(src any, nominal Type, discriminate Discriminator) Type {
	if discriminate == nil {
		return nominal
	}
	if t := discriminate(src); !t.IsZero() {
		return t
	}
	return nominal
}
