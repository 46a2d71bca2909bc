package morph

import "context"

// Builder configures one S to D mapping fluently. Nothing is registered until
// Register is called.
//
//	err := morph.For[User, UserDTO](m).
//	    MapFrom("Contact", "Email").
//	    Compute("Display", func(u User) any { return u.First + " " + u.Last }).
//	    Ignore("Password").
//	    SkipNulls().
//	    Reverse().
//	    Register()
type Builder[S, D any] struct {
	m       *Mapper
	fields  Fields
	opts    Options
	reverse bool
}

// For starts a builder for the S to D mapping on m.
func For[S, D any](m *Mapper) *Builder[S, D] {
	return &Builder[S, D]{m: m, fields: make(Fields)}
}

// ForMember sets the field function for a destination field.
func (b *Builder[S, D]) ForMember(dest string, f Field) *Builder[S, D] {
	b.fields[dest] = f
	return b
}

// MapFrom copies the source field named src into dest.
func (b *Builder[S, D]) MapFrom(dest, src string) *Builder[S, D] {
	return b.ForMember(dest, From(src))
}

// Compute sets dest from a function of the source.
func (b *Builder[S, D]) Compute(dest string, fn func(S) any) *Builder[S, D] {
	return b.ForMember(dest, Compute(fn))
}

// ComputeCtx sets dest from a context-aware function that may fail.
func (b *Builder[S, D]) ComputeCtx(dest string, fn func(context.Context, S) (any, error)) *Builder[S, D] {
	return b.ForMember(dest, ComputeCtx(fn))
}

// Ignore excludes source keys from default copy.
func (b *Builder[S, D]) Ignore(keys ...string) *Builder[S, D] {
	b.opts.Ignore = append(b.opts.Ignore, keys...)
	return b
}

// Include restricts default copy to the given source keys.
func (b *Builder[S, D]) Include(keys ...string) *Builder[S, D] {
	b.opts.Include = append(b.opts.Include, keys...)
	return b
}

func (b *Builder[S, D]) SkipNulls() *Builder[S, D] {
	b.opts.SkipNulls = true
	return b
}

func (b *Builder[S, D]) SkipUndefined() *Builder[S, D] {
	b.opts.SkipUndefined = true
	return b
}

func (b *Builder[S, D]) DeepClone() *Builder[S, D] {
	b.opts.DeepClone = true
	return b
}

func (b *Builder[S, D]) Strict() *Builder[S, D] {
	b.opts.Strict = true
	return b
}

// ConvertNaming renames source keys from one naming style to another.
func (b *Builder[S, D]) ConvertNaming(from, to NamingStyle) *Builder[S, D] {
	b.opts.ConvertNaming = &NamingConversion{From: from, To: to}
	return b
}

// BeforeMap sets a typed hook that may replace the source.
func (b *Builder[S, D]) BeforeMap(fn func(context.Context, S) (S, error)) *Builder[S, D] {
	b.opts.BeforeMap = func(ctx context.Context, src any) (any, error) {
		s, err := sourceAs[S](src)
		if err != nil {
			return nil, err
		}
		out, err := fn(ctx, s)
		if err != nil {
			return nil, err
		}
		return &out, nil
	}
	return b
}

// AfterMap sets a typed hook run on the populated destination.
func (b *Builder[S, D]) AfterMap(fn func(context.Context, S, *D) error) *Builder[S, D] {
	b.opts.AfterMap = func(ctx context.Context, src, dst any) error {
		s, err := sourceAs[S](src)
		if err != nil {
			return err
		}
		d, ok := dst.(*D)
		if !ok {
			return ErrIncompatibleValue
		}
		return fn(ctx, s, d)
	}
	return b
}

// Cache overrides the global cache policy for this mapping.
func (b *Builder[S, D]) Cache(enabled bool) *Builder[S, D] {
	b.opts.Cache = &CacheOptions{Enabled: enabled}
	return b
}

// Reverse also registers the derived D to S mapping.
func (b *Builder[S, D]) Reverse() *Builder[S, D] {
	b.reverse = true
	return b
}

// Register calls CreateMap once with the accumulated configuration, then
// CreateReverseMap when Reverse was requested.
func (b *Builder[S, D]) Register() error {
	src, dst := TypeOf[S](), TypeOf[D]()
	b.m.CreateMap(src, dst, b.fields, b.opts)
	if b.reverse {
		return b.m.CreateReverseMap(src, dst)
	}
	return nil
}
