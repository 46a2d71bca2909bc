package morph

import (
	"reflect"
	"testing"
)

func TestResolvePath(t *testing.T) {
	src := &customer{
		Name: "Ann",
		Home: &address{City: "Springfield"},
	}
	nested := map[string]any{
		"profile": map[string]any{"city": "Ogdenville", "empty": nil},
	}

	tests := []struct {
		name   string
		src    any
		path   string
		want   any
		wantOK bool
	}{
		{"top level", src, "Name", "Ann", true},
		{"through pointer", src, "Home.City", "Springfield", true},
		{"missing segment", src, "Home.Street", nil, false},
		{"nil intermediate", &customer{}, "Home.City", nil, false},
		{"map path", nested, "profile.city", "Ogdenville", true},
		{"map null leaf", nested, "profile.empty", nil, true},
		{"map null intermediate", nested, "profile.empty.x", nil, false},
		{"missing root", nil, "Name", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolvePath(tt.src, tt.path)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("resolvePath(%q) = %v, %v; want %v, %v", tt.path, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParsePath_Cached(t *testing.T) {
	a := parsePath("a.b.c")
	b := parsePath("a.b.c")
	if len(a) != 3 || a[2] != "c" {
		t.Fatalf("parsePath() = %v", a)
	}
	if &a[0] != &b[0] {
		t.Error("repeated paths should share the parsed segments")
	}
}

func TestEnumerate(t *testing.T) {
	fields := enumerate(&person{Name: "a", Age: 1})
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	if len(keys) != 3 || keys[0] != "Name" || keys[1] != "Age" || keys[2] != "Nick" {
		t.Errorf("struct keys = %v", keys)
	}

	fields = enumerate(map[string]int{"b": 2, "a": 1})
	if len(fields) != 2 || fields[0].key != "a" || fields[1].value != 2 {
		t.Errorf("map fields = %v", fields)
	}

	if enumerate(map[int]string{1: "x"}) != nil {
		t.Error("non-string map keys should not enumerate")
	}
	if enumerate((*person)(nil)) != nil || enumerate(42) != nil {
		t.Error("nil pointers and scalars have no fields")
	}
}

func TestReadField(t *testing.T) {
	type embedded struct {
		Inner string
	}
	type outer struct {
		*embedded
		Tagged string `map:"tagged"`
	}

	v, ok := readField(reflect.ValueOf(&outer{embedded: &embedded{Inner: "x"}}), "Inner")
	if !ok || v != "x" {
		t.Errorf("promoted field = %v, %v", v, ok)
	}
	if _, ok := readField(reflect.ValueOf(&outer{}), "Inner"); ok {
		t.Error("nil embedded pointer should read as absent")
	}

	o := &outer{Tagged: "t"}
	for _, key := range []string{"tagged", "Tagged"} {
		if v, ok := readField(reflect.ValueOf(o), key); !ok || v != "t" {
			t.Errorf("readField(%q) = %v, %v", key, v, ok)
		}
	}
}
