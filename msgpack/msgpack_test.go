package msgpack

import (
	"testing"

	"github.com/zoobzio/morph"
)

func TestContentType(t *testing.T) {
	if got := New().ContentType(); got != "application/msgpack" {
		t.Errorf("ContentType() = %q, want %q", got, "application/msgpack")
	}
}

func TestMarshalUnmarshal_MappingConfig(t *testing.T) {
	cache := false
	tests := []struct {
		name string
		in   morph.MappingConfig
	}{
		{"minimal", morph.MappingConfig{Source: "User", Destination: "UserDTO"}},
		{"options", morph.MappingConfig{
			Source:      "User",
			Destination: "UserDTO",
			Fields:      map[string]string{"Contact": "Email"},
			Ignore:      []string{"Password"},
			SkipNulls:   true,
			Cache:       &cache,
			Naming:      &morph.NamingConfig{From: "snake_case", To: "camelCase"},
		}},
	}

	c := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := c.Marshal(tt.in)
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}
			var out morph.MappingConfig
			if err := c.Unmarshal(data, &out); err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if out.Source != tt.in.Source || out.Destination != tt.in.Destination || out.SkipNulls != tt.in.SkipNulls {
				t.Errorf("round-trip = %+v, want %+v", out, tt.in)
			}
			if len(out.Fields) != len(tt.in.Fields) || len(out.Ignore) != len(tt.in.Ignore) {
				t.Errorf("collections lost: %+v", out)
			}
			if (out.Cache == nil) != (tt.in.Cache == nil) || (out.Naming == nil) != (tt.in.Naming == nil) {
				t.Errorf("optional fields lost: %+v", out)
			}
		})
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	var v morph.MappingConfig
	if err := New().Unmarshal([]byte("not msgpack"), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}

func TestMarshalBinary(t *testing.T) {
	c := New()

	data, err := c.Marshal(map[string]int{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	// MessagePack is binary, should not be valid UTF-8 JSON
	if data[0] == '{' {
		t.Error("MessagePack output should be binary, not JSON")
	}
}

func TestWithStructTag(t *testing.T) {
	type Wire struct {
		Name string `json:"display_name"`
	}

	c := New(WithStructTag("json"))
	data, err := c.Marshal(Wire{Name: "a"})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var generic map[string]any
	if err := New().Unmarshal(data, &generic); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if generic["display_name"] != "a" {
		t.Errorf("encoded keys = %v, want display_name", generic)
	}

	var restored Wire
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if restored.Name != "a" {
		t.Errorf("Name = %q, want %q", restored.Name, "a")
	}
}
