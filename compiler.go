package morph

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"unicode"
	"unicode/utf8"
)

// plan is the precomputed form of a registry entry. Closures built from a
// plan share it and never modify it.
type plan struct {
	m           *Mapper
	source      string
	destination string
	dst         *typeInfo
	opts        Options
	ignore      map[string]struct{}
	include     map[string]struct{} // nil means every key
	fields      []fieldStep         // sorted by key
	annotated   []annotatedStep     // destination declaration order
	invalid     error               // set when the entry cannot be built
}

// fieldStep is one explicit field function.
type fieldStep struct {
	key  string
	dest *fieldInfo
	fn   FieldFunc
}

// annotatedStep is one destination field resolved from annotations.
type annotatedStep struct {
	dest       *fieldInfo
	sourcePath string
	nested     func() Type
	transform  Transformer
}

// compile builds the plan for e. The metadata provider is queried here and
// not again for the lifetime of the entry.
func compile(m *Mapper, e *entry) *plan {
	p := &plan{
		m:           m,
		source:      e.source.Name(),
		destination: e.destination.Name(),
		dst:         getTypeInfo(e.destination.rt),
		opts:        e.options,
		ignore:      make(map[string]struct{}, len(e.options.Ignore)),
	}
	if p.dst == nil || e.destination.rt.Kind() != reflect.Struct {
		p.invalid = &ConfigurationError{
			Source:      p.source,
			Destination: p.destination,
			Reason:      "destination must be a struct type",
		}
		return p
	}

	for _, k := range e.options.Ignore {
		p.ignore[k] = struct{}{}
	}
	if e.options.Include != nil {
		p.include = make(map[string]struct{}, len(e.options.Include))
		for _, k := range e.options.Include {
			p.include[k] = struct{}{}
		}
	}

	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		f := e.fields[k]
		if f.fn == nil {
			continue
		}
		dest, ok := p.destField(k)
		if !ok {
			p.invalid = &ConfigurationError{
				Source:      p.source,
				Destination: p.destination,
				Reason:      fmt.Sprintf("field function %q is not declared on %s", k, p.destination),
				Cause:       newFieldError(ErrUnknownField, k, ""),
			}
			return p
		}
		p.fields = append(p.fields, fieldStep{key: k, dest: dest, fn: f.fn})
	}

	provider := m.provider
	for _, k := range provider.AutoMappableFields(e.destination.rt) {
		dest, ok := p.dst.lookup(k)
		if !ok {
			continue
		}
		step := annotatedStep{dest: dest}
		step.sourcePath, _ = provider.SourcePath(e.destination.rt, k)
		step.nested, _ = provider.NestedType(e.destination.rt, k)
		step.transform, _ = provider.Transformer(e.destination.rt, k)
		p.annotated = append(p.annotated, step)
	}
	return p
}

// closure returns the sync or async execution function for the plan.
func (p *plan) closure(async bool) compiledFunc {
	return func(ctx context.Context, src any) (any, error) {
		return p.run(ctx, src, async)
	}
}

func (p *plan) run(ctx context.Context, src any, async bool) (any, error) {
	if p.invalid != nil {
		return nil, p.invalid
	}

	out := reflect.New(p.dst.typ)
	dv := out.Elem()

	// set holds the destination keys written by the default copy and the
	// field functions. Annotations only fill the rest.
	set := make(map[string]bool)
	p.copyDefaults(dv, src, set)
	if err := p.applyFields(ctx, dv, src, async, set); err != nil {
		return nil, err
	}
	if err := p.resolveAnnotated(ctx, dv, src, set, async); err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

// copyDefaults copies every source field with a same-named destination
// field. Values that cannot be assigned are skipped.
func (p *plan) copyDefaults(dv reflect.Value, src any, set map[string]bool) {
	for _, sf := range enumerate(src) {
		if _, ok := p.ignore[sf.key]; ok {
			continue
		}
		if p.include != nil {
			if _, ok := p.include[sf.key]; !ok {
				continue
			}
		}
		if p.suppressed(sf.value) {
			continue
		}

		target := sf.key
		if conv := p.opts.ConvertNaming; conv != nil {
			target = ConvertName(target, conv.From, conv.To)
		}
		dest, ok := p.destField(target)
		if !ok {
			continue
		}

		value := sf.value
		if IsUndefined(value) {
			continue
		}
		if p.opts.DeepClone {
			value = DeepClone(value)
		}
		if assign(fieldByIndex(dv, dest.index), value) == nil {
			set[dest.key] = true
		}
	}
}

// applyFields runs the field functions one at a time in key order. The async
// path checks ctx before each call.
func (p *plan) applyFields(ctx context.Context, dv reflect.Value, src any, async bool, set map[string]bool) error {
	for _, step := range p.fields {
		if async {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		v, err := callField(ctx, step.fn, src)
		if err != nil {
			if p.opts.Strict {
				return fmt.Errorf("field %s: %w", step.key, err)
			}
			continue
		}
		if err := p.store(dv, step, v, set); err != nil {
			return err
		}
	}
	return nil
}

// store assigns a field function result unless it is suppressed.
func (p *plan) store(dv reflect.Value, step fieldStep, v any, set map[string]bool) error {
	if p.suppressed(v) {
		return nil
	}
	if err := assign(fieldByIndex(dv, step.dest.index), v); err != nil {
		return fmt.Errorf("field %s: %w", step.key, err)
	}
	set[step.dest.key] = true
	return nil
}

// resolveAnnotated fills annotated fields that neither the default copy nor
// a field function wrote. A copied zero value counts as written.
func (p *plan) resolveAnnotated(ctx context.Context, dv reflect.Value, src any, set map[string]bool, async bool) error {
	for _, step := range p.annotated {
		if set[step.dest.key] {
			continue
		}
		field := fieldByIndex(dv, step.dest.index)
		if async {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		var (
			value any
			err   error
		)
		switch {
		case step.nested != nil:
			sub, ok := p.subValue(src, step)
			if !ok || IsNull(sub) || IsUndefined(sub) {
				continue
			}
			value, err = p.mapNested(ctx, sub, step.nested(), field.Type(), async)

		case step.sourcePath != "":
			v, ok := resolvePath(src, step.sourcePath)
			if !ok {
				continue
			}
			value, err = step.apply(v, src)

		default:
			v, ok := readField(reflect.ValueOf(src), step.dest.key)
			if !ok && step.dest.name != step.dest.key {
				v, ok = readField(reflect.ValueOf(src), step.dest.name)
			}
			if !ok {
				continue
			}
			value, err = step.apply(v, src)
		}
		if err != nil {
			return fmt.Errorf("field %s: %w", step.dest.key, err)
		}
		if err := assign(field, value); err != nil {
			return fmt.Errorf("field %s: %w", step.dest.key, err)
		}
	}
	return nil
}

// subValue reads the source value behind a nested field: the source path
// when one is set, else the same-named source field.
func (p *plan) subValue(src any, step annotatedStep) (any, bool) {
	if step.sourcePath != "" {
		return resolvePath(src, step.sourcePath)
	}
	v, ok := readField(reflect.ValueOf(src), step.dest.key)
	if !ok && step.dest.name != step.dest.key {
		v, ok = readField(reflect.ValueOf(src), step.dest.name)
	}
	return v, ok
}

// mapNested maps sub to nested through the registry, element by element
// when sub is a slice or array.
func (p *plan) mapNested(ctx context.Context, sub any, nested Type, ft reflect.Type, async bool) (any, error) {
	sv := reflect.ValueOf(sub)
	if sv.Kind() != reflect.Slice && sv.Kind() != reflect.Array {
		return p.m.run(ctx, sub, nested, async, callConfig{})
	}

	var out reflect.Value
	switch ft.Kind() {
	case reflect.Slice:
		out = reflect.MakeSlice(ft, sv.Len(), sv.Len())
	case reflect.Array:
		out = reflect.New(ft).Elem()
	default:
		out = reflect.MakeSlice(reflect.SliceOf(reflect.PointerTo(nested.rt)), sv.Len(), sv.Len())
	}
	for i := range min(sv.Len(), out.Len()) {
		elem := sv.Index(i).Interface()
		if IsNull(elem) || IsUndefined(elem) {
			continue
		}
		mapped, err := p.m.run(ctx, elem, nested, async, callConfig{})
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		if err := assignValue(out.Index(i), reflect.ValueOf(mapped)); err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
	}
	return out.Interface(), nil
}

func (s annotatedStep) apply(v, src any) (any, error) {
	if s.transform == nil {
		return v, nil
	}
	return s.transform(v, src)
}

func (p *plan) suppressed(v any) bool {
	return (p.opts.SkipNulls && IsNull(v)) || (p.opts.SkipUndefined && IsUndefined(v))
}

// destField resolves a destination key, falling back to the exported form
// of the key so that "userName" finds UserName.
func (p *plan) destField(key string) (*fieldInfo, bool) {
	if f, ok := p.dst.lookup(key); ok {
		return f, true
	}
	return p.dst.lookup(exportedName(key))
}

func exportedName(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return key
	}
	return string(unicode.ToUpper(r)) + key[size:]
}

// callField runs fn, reporting a panic as an error of the field.
func callField(ctx context.Context, fn FieldFunc, src any) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, src)
}

// fieldByIndex is reflect.Value.FieldByIndex that allocates nil embedded
// pointers along the way.
func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}
