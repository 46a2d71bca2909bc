package morph

import (
	"context"
	"slices"
)

// BeforeMapFunc runs before a compiled mapping. The returned value replaces
// the source for the rest of the call.
type BeforeMapFunc func(ctx context.Context, src any) (any, error)

// AfterMapFunc runs after a compiled mapping with the populated destination.
type AfterMapFunc func(ctx context.Context, src, dst any) error

// CacheOptions overrides the mapper's global cache policy for one mapping.
type CacheOptions struct {
	Enabled bool
}

// Options configures one mapping. Mapper defaults are merged underneath.
type Options struct {
	// SkipNulls leaves destination fields untouched when the value is null.
	SkipNulls bool

	// SkipUndefined leaves destination fields untouched when the value is
	// undefined.
	SkipUndefined bool

	// DeepClone copies values before assignment and before BeforeMap sees
	// the source.
	DeepClone bool

	// Strict propagates field function errors instead of swallowing them.
	Strict bool

	// Ignore lists source keys excluded from default copy.
	Ignore []string

	// Include, when non-nil, lists the only source keys default copy reads.
	Include []string

	BeforeMap BeforeMapFunc
	AfterMap  AfterMapFunc

	// Cache overrides the global cache policy when set.
	Cache *CacheOptions

	// ConvertNaming renames source keys during default copy.
	ConvertNaming *NamingConversion
}

// merge lays o over base. Flags are OR-ed, so a mapping can enable but never
// disable a default; key lists are unioned; the rest prefer o when set.
func (base Options) merge(o Options) Options {
	out := Options{
		SkipNulls:     base.SkipNulls || o.SkipNulls,
		SkipUndefined: base.SkipUndefined || o.SkipUndefined,
		DeepClone:     base.DeepClone || o.DeepClone,
		Strict:        base.Strict || o.Strict,
		Ignore:        union(base.Ignore, o.Ignore),
		Include:       union(base.Include, o.Include),
		BeforeMap:     base.BeforeMap,
		AfterMap:      base.AfterMap,
		Cache:         base.Cache,
		ConvertNaming: base.ConvertNaming,
	}
	if o.BeforeMap != nil {
		out.BeforeMap = o.BeforeMap
	}
	if o.AfterMap != nil {
		out.AfterMap = o.AfterMap
	}
	if o.Cache != nil {
		c := *o.Cache
		out.Cache = &c
	}
	if o.ConvertNaming != nil {
		out.ConvertNaming = o.ConvertNaming
	}
	return out
}

// union keeps first-seen order. A nil result means neither list was given.
func union(a, b []string) []string {
	if a == nil && b == nil {
		return nil
	}
	out := make([]string, 0, len(a)+len(b))
	for _, s := range slices.Concat(a, b) {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithDefaults sets the options merged under every registration.
func WithDefaults(o Options) Option {
	return func(m *Mapper) {
		m.defaults = o
	}
}

// WithCache sets the global cache policy.
func WithCache(enabled bool) Option {
	return func(m *Mapper) {
		m.cacheEnabled.Store(enabled)
	}
}

// WithProvider replaces the default Annotations metadata provider.
func WithProvider(p MetadataProvider) Option {
	return func(m *Mapper) {
		m.provider = p
	}
}

// WithTransformer registers a named transformer on the mapper's provider.
// It has no effect when the provider is not an *Annotations.
func WithTransformer(name string, t Transformer) Option {
	return func(m *Mapper) {
		m.transformers = append(m.transformers, namedTransformer{name: name, fn: t})
	}
}

type namedTransformer struct {
	name string
	fn   Transformer
}

// CallOption configures a single Map call.
type CallOption func(*callConfig)

type callConfig struct {
	values  map[any]any
	noCache bool
}

// WithValue exposes a value to field functions and hooks through
// ContextFrom(ctx).Value(key).
func WithValue(key, value any) CallOption {
	return func(c *callConfig) {
		if c.values == nil {
			c.values = make(map[any]any)
		}
		c.values[key] = value
	}
}

// WithoutCache bypasses the instance cache for one call.
func WithoutCache() CallOption {
	return func(c *callConfig) {
		c.noCache = true
	}
}

func newCallConfig(opts []CallOption) callConfig {
	var c callConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
