package morph

import (
	"errors"
	"reflect"
	"testing"
)

type annotated struct {
	Plain   string
	City    string       `map.from:"Home.City"`
	Label   string       `map.from:"Name" map.transform:"upper"`
	Email   string       `map.auto:"true"`
	Friends []addressDTO `map.nested:"true"`
	Bad     string       `map.nested:"true"`
}

type describedOverride struct {
	City string `map.from:"Home.City"`
	Zip  string
}

func (describedOverride) MappingDescriptor() Descriptor {
	return Descriptor{
		"City":    {SourcePath: "Home.Zip"},
		"Zip":     {SourcePath: "Home.Zip"},
		"Missing": {SourcePath: "x"},
	}
}

func TestAnnotations_Tags(t *testing.T) {
	a := NewAnnotations()
	rt := reflect.TypeFor[annotated]()

	got := a.AutoMappableFields(rt)
	want := []string{"City", "Label", "Email", "Friends"}
	if len(got) != len(want) {
		t.Fatalf("AutoMappableFields() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AutoMappableFields()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if p, ok := a.SourcePath(rt, "City"); !ok || p != "Home.City" {
		t.Errorf("SourcePath(City) = %q, %v", p, ok)
	}
	if _, ok := a.SourcePath(rt, "Plain"); ok {
		t.Error("Plain has no source path")
	}

	nested, ok := a.NestedType(rt, "Friends")
	if !ok || nested().Reflect() != reflect.TypeFor[addressDTO]() {
		t.Error("Friends should nest addressDTO")
	}
	if _, ok := a.NestedType(rt, "Bad"); ok {
		t.Error("a string field cannot nest")
	}

	fn, ok := a.Transformer(rt, "Label")
	if !ok {
		t.Fatal("Label should have a transformer")
	}
	if v, _ := fn("x", nil); v != "X" {
		t.Errorf("transformer returned %v", v)
	}
	if _, ok := a.Transformer(rt, "City"); ok {
		t.Error("City has no transformer")
	}
}

func TestAnnotations_Precedence(t *testing.T) {
	a := NewAnnotations()
	typ := TypeOf[describedOverride]()

	if p, _ := a.SourcePath(typ.Reflect(), "City"); p != "Home.Zip" {
		t.Errorf("Describer should override tags, got %q", p)
	}

	a.Register(typ, "City", FieldMeta{SourcePath: "Name"})
	if p, _ := a.SourcePath(typ.Reflect(), "City"); p != "Name" {
		t.Errorf("Register should override the Describer, got %q", p)
	}
	if p, _ := a.SourcePath(typ.Reflect(), "Zip"); p != "Home.Zip" {
		t.Errorf("unrelated fields keep their facts, got %q", p)
	}
}

func TestAnnotations_UnknownTransformer(t *testing.T) {
	type target struct {
		Name string `map.transform:"nope"`
	}
	a := NewAnnotations()
	fn, ok := a.Transformer(reflect.TypeFor[target](), "Name")
	if !ok {
		t.Fatal("a named transformer should always resolve")
	}
	if _, err := fn("x", nil); !errors.Is(err, ErrTransform) {
		t.Errorf("expected ErrTransform, got %v", err)
	}

	a.SetTransformer("nope", StringTransformer(plain(upper)))
	fn, _ = a.Transformer(reflect.TypeFor[target](), "Name")
	if v, err := fn("x", nil); err != nil || v != "X" {
		t.Errorf("SetTransformer not used: %v, %v", v, err)
	}
}

func TestFieldMetaOverlay(t *testing.T) {
	fn := func(v, _ any) (any, error) { return v, nil }

	m := FieldMeta{TransformName: "upper"}.overlay(FieldMeta{Transform: fn})
	if m.Transform == nil || m.TransformName != "" {
		t.Errorf("Transform should replace TransformName: %+v", m)
	}
	m = m.overlay(FieldMeta{TransformName: "lower"})
	if m.Transform != nil || m.TransformName != "lower" {
		t.Errorf("TransformName should replace Transform: %+v", m)
	}
	if !(FieldMeta{}).IsZero() || (FieldMeta{Auto: true}).IsZero() {
		t.Error("IsZero mismatch")
	}
}

// staticProvider serves fixed facts for tests of WithProvider.
type staticProvider struct {
	fields map[string]string // key -> source path
}

func (p staticProvider) AutoMappableFields(reflect.Type) []string {
	var keys []string
	for k := range p.fields {
		keys = append(keys, k)
	}
	return keys
}

func (p staticProvider) SourcePath(_ reflect.Type, field string) (string, bool) {
	path, ok := p.fields[field]
	return path, ok
}

func (staticProvider) NestedType(reflect.Type, string) (func() Type, bool) { return nil, false }

func (staticProvider) Transformer(reflect.Type, string) (Transformer, bool) { return nil, false }

func TestWithProvider(t *testing.T) {
	type target struct {
		Town string
	}
	m := New(WithProvider(staticProvider{fields: map[string]string{"Town": "Home.City"}}))
	if m.Annotations() != nil {
		t.Error("Annotations() should be nil with a custom provider")
	}
	CreateMap[customer, target](m, nil)

	got, err := Map[target](m, &customer{Home: &address{City: "Springfield"}})
	if err != nil {
		t.Fatalf("Map() error: %v", err)
	}
	if got.Town != "Springfield" {
		t.Errorf("Town = %q", got.Town)
	}
}
