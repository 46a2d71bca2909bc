package morph

import (
	"errors"
	"testing"
)

func TestBuiltinTransformers(t *testing.T) {
	table := builtinTransformers()

	tests := []struct {
		name  string
		input any
		want  any
	}{
		{TransformUpper, "abc", "ABC"},
		{TransformLower, "ABC", "abc"},
		{TransformTrim, "  x  ", "x"},
		{TransformRedact, "secret", "***"},
		{TransformMaskSSN, "123-45-6789", "***-**-6789"},
		{TransformMaskEmail, "alice@example.com", "a***@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, ok := table[tt.name]
			if !ok {
				t.Fatalf("transformer %q not registered", tt.name)
			}
			got, err := fn(tt.input, nil)
			if err != nil {
				t.Fatalf("transform error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	for _, name := range []string{TransformSHA256, TransformSHA512, TransformBcrypt, TransformArgon2,
		TransformMaskPhone, TransformMaskCard, TransformMaskIP, TransformMaskUUID, TransformMaskIBAN, TransformMaskName} {
		if _, ok := table[name]; !ok {
			t.Errorf("transformer %q not registered", name)
		}
	}
	if _, ok := table[TransformAES]; ok {
		t.Error("encrypt.aes needs a key and has no default")
	}
}

func TestStringTransformer(t *testing.T) {
	fn := StringTransformer(plain(upper))

	if got, _ := fn([]byte("ab"), nil); string(got.([]byte)) != "AB" {
		t.Errorf("[]byte input = %v", got)
	}
	if got, _ := fn(strPtr("ab"), nil); *got.(*string) != "AB" {
		t.Errorf("*string input = %v", got)
	}
	if got, err := fn(nil, nil); got != nil || err != nil {
		t.Errorf("nil input = %v, %v", got, err)
	}
	if got, _ := fn((*string)(nil), nil); got.(*string) != nil {
		t.Errorf("nil *string input = %v", got)
	}
	if _, err := fn(42, nil); !errors.Is(err, ErrTransform) {
		t.Errorf("expected ErrTransform, got %v", err)
	}

	failing := StringTransformer(func(string) (string, error) { return "", errors.New("no") })
	if _, err := failing("x", nil); !errors.Is(err, ErrTransform) {
		t.Errorf("expected ErrTransform, got %v", err)
	}
}

func TestMissingTransformer(t *testing.T) {
	_, err := missingTransformer("nope")("x", nil)
	if !errors.Is(err, ErrTransform) {
		t.Errorf("expected ErrTransform, got %v", err)
	}
}
