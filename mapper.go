package morph

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Mapper owns mapping registrations, their compiled closures, the instance
// cache and the validation rules.
//
// A Mapper is safe for concurrent use. Registrations are expected during
// setup; registering while mapping is safe, but which entry an in-flight
// call observes is unspecified.
type Mapper struct {
	registry     *registry
	cache        *instanceCache
	rules        *ruleTable
	provider     MetadataProvider
	defaults     Options
	transformers []namedTransformer
	cacheEnabled atomic.Bool
}

// MappingInfo names the two ends of a registered mapping.
type MappingInfo struct {
	Source      string
	Destination string
}

// New creates a Mapper. Without WithProvider the mapper reads annotations
// through a fresh Annotations provider with the built-in transformers.
func New(opts ...Option) *Mapper {
	m := &Mapper{
		registry: newRegistry(),
		cache:    newInstanceCache(),
		rules:    newRuleTable(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.provider == nil {
		m.provider = NewAnnotations()
	}
	if a, ok := m.provider.(*Annotations); ok {
		for _, t := range m.transformers {
			a.SetTransformer(t.name, t.fn)
		}
	}
	m.transformers = nil
	return m
}

// Provider returns the mapper's metadata provider.
func (m *Mapper) Provider() MetadataProvider {
	return m.provider
}

// Annotations returns the default provider, or nil when WithProvider
// installed a different one.
func (m *Mapper) Annotations() *Annotations {
	a, _ := m.provider.(*Annotations)
	return a
}

// CreateMap registers the mapping from src to dst, replacing any existing
// registration for the pair. opts are merged over the mapper defaults and
// the sync closure is compiled immediately.
func (m *Mapper) CreateMap(src, dst Type, fields Fields, opts ...Options) *Mapper {
	var o Options
	for _, opt := range opts {
		o = o.merge(opt)
	}

	table := make(Fields, len(fields))
	for k, f := range fields {
		table[k] = f
	}

	e := &entry{
		key:         pairKey{src: src.rt, dst: dst.rt},
		source:      src,
		destination: dst,
		fields:      table,
		options:     m.defaults.merge(o),
	}
	m.registry.put(e, compile(m, e).closure(false))
	emitMappingRegistered(context.Background(), src.Name(), dst.Name(), len(table))
	return m
}

// CreateReverseMap registers dst to src derived from the forward mapping.
//
// Fields built with From invert exactly. Every other field function is
// reversed by copying the same-named field, which does not undo the
// original computation. The reverse mapping uses the mapper defaults only.
func (m *Mapper) CreateReverseMap(src, dst Type) error {
	forward, ok := m.registry.find(pairKey{src: src.rt, dst: dst.rt})
	if !ok {
		return &ConfigurationError{
			Source:      src.Name(),
			Destination: dst.Name(),
			Reason:      "reverse mapping requires a forward mapping",
		}
	}

	target := getTypeInfo(src.rt)
	reverse := make(Fields, len(forward.fields))
	for key, f := range forward.fields {
		if f.from != "" {
			// Paths into nested values have no single field to write back to.
			if _, ok := target.lookup(f.from); ok {
				reverse[f.from] = From(key)
			}
			continue
		}
		if _, ok := target.lookup(key); ok {
			reverse[key] = From(key)
		}
	}
	m.CreateMap(dst, src, reverse)
	return nil
}

// Map maps src onto a new value of dst and returns a pointer to it.
func (m *Mapper) Map(src any, dst Type, opts ...CallOption) (any, error) {
	return m.run(context.Background(), src, dst, false, newCallConfig(opts))
}

// MapAsync is Map using the async closure: ctx is checked between field
// functions and nested mappings, and field functions receive ctx.
func (m *Mapper) MapAsync(ctx context.Context, src any, dst Type, opts ...CallOption) (any, error) {
	return m.run(ctx, src, dst, true, newCallConfig(opts))
}

// MapArray maps every element of srcs, a slice or array, in order. The
// first failure is returned.
func (m *Mapper) MapArray(srcs any, dst Type, opts ...CallOption) ([]any, error) {
	sv, err := sliceValue(srcs)
	if err != nil {
		return nil, err
	}
	cfg := newCallConfig(opts)
	out := make([]any, sv.Len())
	for i := range sv.Len() {
		v, err := m.run(context.Background(), sv.Index(i).Interface(), dst, false, cfg)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// MapArrayAsync maps every element of srcs concurrently. It returns as soon
// as one element fails, without waiting for the others; their context is
// cancelled and their results are discarded.
func (m *Mapper) MapArrayAsync(ctx context.Context, srcs any, dst Type, opts ...CallOption) ([]any, error) {
	sv, err := sliceValue(srcs)
	if err != nil {
		return nil, err
	}
	cfg := newCallConfig(opts)
	out := make([]any, sv.Len())

	var (
		once     sync.Once
		firstErr error
		failed   = make(chan struct{})
	)
	g, gctx := errgroup.WithContext(ctx)
	for i := range sv.Len() {
		elem := sv.Index(i).Interface()
		g.Go(func() error {
			v, err := m.run(gctx, elem, dst, true, cfg)
			if err != nil {
				once.Do(func() {
					firstErr = err
					close(failed)
				})
				return err
			}
			out[i] = v
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return nil, err
		}
		return out, nil
	case <-failed:
		return nil, firstErr
	}
}

// SetCacheEnabled sets the global cache policy. Mappings registered with
// their own Cache option keep it.
func (m *Mapper) SetCacheEnabled(enabled bool) {
	m.cacheEnabled.Store(enabled)
}

// IsGlobalCacheEnabled reports the global cache policy.
func (m *Mapper) IsGlobalCacheEnabled() bool {
	return m.cacheEnabled.Load()
}

// Clear drops every registration, compiled closure, cached result and
// validation rule. Annotations registered on the provider are kept.
func (m *Mapper) Clear() {
	m.registry.reset()
	m.cache.clear()
	m.rules.clear()
}

// GetMappings lists the registered mappings in registration order.
func (m *Mapper) GetMappings() []MappingInfo {
	entries := m.registry.list()
	out := make([]MappingInfo, len(entries))
	for i, e := range entries {
		out[i] = MappingInfo{Source: e.source.Name(), Destination: e.destination.Name()}
	}
	return out
}

// run resolves the entry for src and dst and executes it, consulting the
// instance cache when it applies.
func (m *Mapper) run(ctx context.Context, src any, dst Type, async bool, cfg callConfig) (any, error) {
	srcType := runtimeType(src)
	e, ok := m.registry.find(pairKey{src: srcType, dst: dst.rt})
	if !ok {
		return nil, &MappingNotFoundError{Source: typeName(srcType), Destination: dst.Name()}
	}
	source, destination := e.source.Name(), e.destination.Name()

	if async {
		if err := ctx.Err(); err != nil {
			return nil, newMappingError(source, destination, err)
		}
	}

	cached := !cfg.noCache && m.cacheActive(e)
	if cached {
		if v, ok := m.cache.get(e.source, src, e.key.dst); ok {
			emitCacheHit(ctx, source, destination)
			return v, nil
		}
	}

	var fn compiledFunc
	if async {
		fn = m.registry.asyncFunc(e, func(e *entry) compiledFunc {
			return compile(m, e).closure(true)
		})
	} else if fn, ok = m.registry.syncFunc(e); !ok {
		fn = compile(m, e).closure(false)
	}

	start := time.Now()
	out, err := m.execute(withContext(ctx, source, destination, cfg.values), e, fn, src, async)
	emitMapComplete(ctx, source, destination, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if cached {
		m.cache.put(e.source, src, e.key.dst, out)
	}
	return out, nil
}

// execute runs the hooks and the compiled closure. Every failure, including
// a panic, is reported as a MappingError for the entry's pair.
func (m *Mapper) execute(ctx context.Context, e *entry, fn compiledFunc, src any, async bool) (out any, err error) {
	source, destination := e.source.Name(), e.destination.Name()
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = newMappingError(source, destination, fmt.Errorf("panic: %v", r))
		}
	}()

	input := src
	if hook := e.options.BeforeMap; hook != nil {
		arg := src
		if e.options.DeepClone {
			arg = DeepClone(src)
		}
		if input, err = hook(ctx, arg); err != nil {
			return nil, newMappingError(source, destination, fmt.Errorf("before map: %w", err))
		}
	}

	if out, err = fn(ctx, input); err != nil {
		return nil, newMappingError(source, destination, err)
	}

	if hook := e.options.AfterMap; hook != nil {
		if async {
			if err := ctx.Err(); err != nil {
				return nil, newMappingError(source, destination, err)
			}
		}
		if err := hook(ctx, src, out); err != nil {
			return nil, newMappingError(source, destination, fmt.Errorf("after map: %w", err))
		}
	}
	return out, nil
}

// cacheActive applies the entry's cache override, else the global policy.
func (m *Mapper) cacheActive(e *entry) bool {
	if e.options.Cache != nil {
		return e.options.Cache.Enabled
	}
	return m.cacheEnabled.Load()
}

func sliceValue(srcs any) (reflect.Value, error) {
	sv := reflect.ValueOf(srcs)
	for sv.Kind() == reflect.Pointer && !sv.IsNil() {
		sv = sv.Elem()
	}
	if sv.Kind() != reflect.Slice && sv.Kind() != reflect.Array {
		return reflect.Value{}, fmt.Errorf("%w: expected a slice, got %T", ErrIncompatibleValue, srcs)
	}
	return sv, nil
}

// CreateMap registers the mapping from S to D. See Mapper.CreateMap.
func CreateMap[S, D any](m *Mapper, fields Fields, opts ...Options) *Mapper {
	return m.CreateMap(TypeOf[S](), TypeOf[D](), fields, opts...)
}

// CreateReverseMap registers D to S from the S to D mapping.
func CreateReverseMap[S, D any](m *Mapper) error {
	return m.CreateReverseMap(TypeOf[S](), TypeOf[D]())
}

// Map maps src to a new D. D must be a struct type.
func Map[D any](m *Mapper, src any, opts ...CallOption) (*D, error) {
	return typed[D](m.Map(src, TypeOf[D](), opts...))
}

// MapAsync maps src to a new D using the async closure.
func MapAsync[D any](ctx context.Context, m *Mapper, src any, opts ...CallOption) (*D, error) {
	return typed[D](m.MapAsync(ctx, src, TypeOf[D](), opts...))
}

// MapArray maps each element of srcs to a new D.
func MapArray[D, S any](m *Mapper, srcs []S, opts ...CallOption) ([]*D, error) {
	return typedSlice[D](m.MapArray(srcs, TypeOf[D](), opts...))
}

// MapArrayAsync maps the elements of srcs concurrently.
func MapArrayAsync[D, S any](ctx context.Context, m *Mapper, srcs []S, opts ...CallOption) ([]*D, error) {
	return typedSlice[D](m.MapArrayAsync(ctx, srcs, TypeOf[D](), opts...))
}

func typed[D any](out any, err error) (*D, error) {
	if err != nil {
		return nil, err
	}
	d, ok := out.(*D)
	if !ok {
		return nil, fmt.Errorf("%w: mapped %T, want *%s", ErrIncompatibleValue, out, reflect.TypeFor[D]())
	}
	return d, nil
}

func typedSlice[D any](out []any, err error) ([]*D, error) {
	if err != nil {
		return nil, err
	}
	res := make([]*D, len(out))
	for i, v := range out {
		d, err := typed[D](v, nil)
		if err != nil {
			return nil, err
		}
		res[i] = d
	}
	return res, nil
}
