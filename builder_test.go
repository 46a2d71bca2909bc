package morph

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestBuilder(t *testing.T) {
	m := New()
	var seen string
	err := For[person, personView](m).
		MapFrom("FullName", "Name").
		Compute("Years", func(p person) any { return p.Age * 2 }).
		BeforeMap(func(_ context.Context, p person) (person, error) {
			p.Name = strings.TrimSpace(p.Name)
			return p, nil
		}).
		AfterMap(func(_ context.Context, p person, v *personView) error {
			seen = p.Name + "->" + v.FullName
			return nil
		}).
		Register()
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	got, err := Map[personView](m, &person{Name: "  Ann ", Age: 20})
	if err != nil {
		t.Fatalf("Map() error: %v", err)
	}
	if got.FullName != "Ann" || got.Years != 40 {
		t.Errorf("Map() = %+v", *got)
	}
	if seen != "  Ann ->Ann" {
		t.Errorf("AfterMap saw %q", seen)
	}
	if n := len(m.GetMappings()); n != 1 {
		t.Errorf("Register() created %d mappings, want 1", n)
	}
}

func TestBuilder_Reverse(t *testing.T) {
	m := New()
	err := For[person, personView](m).
		MapFrom("FullName", "Name").
		MapFrom("Years", "Age").
		Reverse().
		Register()
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	back, err := Map[person](m, &personView{FullName: "Ann", Years: 3})
	if err != nil {
		t.Fatalf("reverse Map() error: %v", err)
	}
	if back.Name != "Ann" || back.Age != 3 {
		t.Errorf("reverse = %+v", *back)
	}
}

func TestBuilder_Options(t *testing.T) {
	boom := errors.New("boom")
	m := New()
	err := For[map[string]any, renamed](m).
		ConvertNaming(SnakeCase, CamelCase).
		SkipUndefined().
		SkipNulls().
		DeepClone().
		Ignore("secret").
		Include("user_name", "middle", "secret").
		ComputeCtx("Middle", func(context.Context, map[string]any) (any, error) { return nil, boom }).
		Strict().
		Cache(false).
		Register()
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	e, ok := m.registry.find(pairKey{src: TypeOf[map[string]any]().Reflect(), dst: TypeOf[renamed]().Reflect()})
	if !ok {
		t.Fatal("mapping not registered")
	}
	o := e.options
	if !o.SkipNulls || !o.SkipUndefined || !o.DeepClone || !o.Strict {
		t.Errorf("flags = %+v", o)
	}
	if o.Cache == nil || o.Cache.Enabled {
		t.Errorf("Cache = %+v", o.Cache)
	}
	if o.ConvertNaming == nil || o.ConvertNaming.From != SnakeCase {
		t.Errorf("ConvertNaming = %+v", o.ConvertNaming)
	}
	if len(o.Ignore) != 1 || len(o.Include) != 3 {
		t.Errorf("Ignore = %v, Include = %v", o.Ignore, o.Include)
	}

	if _, err := Map[renamed](m, map[string]any{"user_name": "a"}); !errors.Is(err, boom) {
		t.Errorf("strict field error not propagated: %v", err)
	}
}

func TestBuilder_ReverseWithoutFields(t *testing.T) {
	m := New()
	if err := For[person, personDTO](m).Reverse().Register(); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	back, err := Map[person](m, &personDTO{Name: "x", Age: 2})
	if err != nil || back.Name != "x" || back.Age != 2 {
		t.Errorf("reverse = %+v, %v", back, err)
	}
}
