package morph

import (
	"reflect"
	"strconv"
	"sync"
)

// MetadataProvider answers annotation queries for destination types.
// The compiler queries it once per registration.
type MetadataProvider interface {
	// AutoMappableFields returns the destination field keys that take part in
	// annotation-driven resolution.
	AutoMappableFields(t reflect.Type) []string

	// SourcePath returns the dotted source path override for a field.
	SourcePath(t reflect.Type, field string) (string, bool)

	// NestedType returns the nested destination type factory for a field.
	NestedType(t reflect.Type, field string) (func() Type, bool)

	// Transformer returns the value transformer for a field.
	Transformer(t reflect.Type, field string) (Transformer, bool)
}

// Annotations is the default MetadataProvider. Facts are merged per field in
// this order, later sources winning: struct tags, the type's Describer,
// explicit Register calls.
//
// Annotations is safe for concurrent use.
type Annotations struct {
	mu           sync.RWMutex
	registered   map[reflect.Type]Descriptor
	transformers map[string]Transformer
}

// NewAnnotations returns a provider preloaded with the built-in transformers.
func NewAnnotations() *Annotations {
	return &Annotations{
		registered:   make(map[reflect.Type]Descriptor),
		transformers: builtinTransformers(),
	}
}

// Register records facts for one destination field. Repeated calls for the
// same field overlay each other.
func (a *Annotations) Register(t Type, field string, meta FieldMeta) *Annotations {
	a.mu.Lock()
	defer a.mu.Unlock()
	d, ok := a.registered[t.rt]
	if !ok {
		d = make(Descriptor)
		a.registered[t.rt] = d
	}
	d[field] = d[field].overlay(meta)
	return a
}

// SetTransformer registers a transformer under name, replacing any existing
// one. Returns the provider for chaining.
func (a *Annotations) SetTransformer(name string, t Transformer) *Annotations {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.transformers[name] = t
	return a
}

// AutoMappableFields implements MetadataProvider. Keys follow the field
// declaration order of t.
func (a *Annotations) AutoMappableFields(t reflect.Type) []string {
	ti := getTypeInfo(t)
	if ti == nil {
		return nil
	}
	merged := a.describe(ti)
	var keys []string
	for _, f := range ti.fields {
		if meta, ok := merged[f.key]; ok && !meta.IsZero() {
			keys = append(keys, f.key)
		}
	}
	return keys
}

// SourcePath implements MetadataProvider.
func (a *Annotations) SourcePath(t reflect.Type, field string) (string, bool) {
	meta := a.field(t, field)
	return meta.SourcePath, meta.SourcePath != ""
}

// NestedType implements MetadataProvider.
func (a *Annotations) NestedType(t reflect.Type, field string) (func() Type, bool) {
	meta := a.field(t, field)
	return meta.Nested, meta.Nested != nil
}

// Transformer implements MetadataProvider. A name with no registered
// transformer resolves to one that fails every call.
func (a *Annotations) Transformer(t reflect.Type, field string) (Transformer, bool) {
	meta := a.field(t, field)
	if meta.Transform != nil {
		return meta.Transform, true
	}
	if meta.TransformName == "" {
		return nil, false
	}
	a.mu.RLock()
	fn, ok := a.transformers[meta.TransformName]
	a.mu.RUnlock()
	if !ok {
		return missingTransformer(meta.TransformName), true
	}
	return fn, true
}

func (a *Annotations) field(t reflect.Type, field string) FieldMeta {
	ti := getTypeInfo(t)
	if ti == nil {
		return FieldMeta{}
	}
	f, ok := ti.lookup(field)
	if !ok {
		return FieldMeta{}
	}
	return a.describe(ti)[f.key]
}

// describe merges every source of facts for a type, keyed by field key.
func (a *Annotations) describe(ti *typeInfo) Descriptor {
	merged := make(Descriptor, len(ti.fields))
	for _, f := range ti.fields {
		if meta := tagMeta(f); !meta.IsZero() {
			merged[f.key] = meta
		}
	}

	if d, ok := reflect.Zero(ti.typ).Interface().(Describer); ok {
		overlayDescriptor(ti, merged, d.MappingDescriptor())
	} else if d, ok := reflect.New(ti.typ).Interface().(Describer); ok {
		overlayDescriptor(ti, merged, d.MappingDescriptor())
	}

	a.mu.RLock()
	overlayDescriptor(ti, merged, a.registered[ti.typ])
	a.mu.RUnlock()
	return merged
}

// overlayDescriptor applies d onto merged, accepting field keys or Go names.
// Unknown fields are dropped.
func overlayDescriptor(ti *typeInfo, merged, d Descriptor) {
	for name, meta := range d {
		f, ok := ti.lookup(name)
		if !ok {
			continue
		}
		merged[f.key] = merged[f.key].overlay(meta)
	}
}

// tagMeta reads the facts declared in a field's struct tags.
func tagMeta(f *fieldInfo) FieldMeta {
	meta := FieldMeta{
		SourcePath:    f.tags[tagFrom],
		TransformName: f.tags[tagTransform],
	}
	if ok, _ := strconv.ParseBool(f.tags[tagAuto]); ok {
		meta.Auto = true
	}
	if ok, _ := strconv.ParseBool(f.tags[tagNested]); ok {
		if nested, found := nestedElem(f.typ); found {
			meta.Nested = func() Type { return nested }
		}
	}
	return meta
}

// nestedElem derives the nested destination type from a field type: a
// struct, a pointer to one, or a slice or array of either.
func nestedElem(rt reflect.Type) (Type, bool) {
	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		rt = rt.Elem()
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return Type{}, false
	}
	return typeFromReflect(rt), true
}
