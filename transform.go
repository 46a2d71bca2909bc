package morph

import (
	"fmt"
	"strings"
)

// Transformer converts a resolved field value before it is assigned.
// src is the whole source value being mapped.
type Transformer func(value, src any) (any, error)

// Built-in transformer names. Use these in struct tags:
//
//	Email string `map.transform:"mask.email"`
const (
	TransformSHA256 = "hash.sha256"
	TransformSHA512 = "hash.sha512"
	TransformBcrypt = "hash.bcrypt"
	TransformArgon2 = "hash.argon2"

	TransformMaskSSN   = "mask.ssn"
	TransformMaskEmail = "mask.email"
	TransformMaskPhone = "mask.phone"
	TransformMaskCard  = "mask.card"
	TransformMaskIP    = "mask.ip"
	TransformMaskUUID  = "mask.uuid"
	TransformMaskIBAN  = "mask.iban"
	TransformMaskName  = "mask.name"

	TransformRedact = "redact"
	TransformTrim   = "trim"
	TransformUpper  = "upper"
	TransformLower  = "lower"

	// TransformAES is registered by AESTransformer; it has no default.
	TransformAES = "encrypt.aes"
)

// redactedValue replaces redacted strings.
const redactedValue = "***"

// builtinTransformers returns a fresh table of the built-in transformers.
func builtinTransformers() map[string]Transformer {
	return map[string]Transformer{
		TransformSHA256: hashTransformer(SHA256Hasher()),
		TransformSHA512: hashTransformer(SHA512Hasher()),
		TransformBcrypt: hashTransformer(Bcrypt()),
		TransformArgon2: hashTransformer(Argon2()),

		TransformMaskSSN:   StringTransformer(maskSSN),
		TransformMaskEmail: StringTransformer(maskEmail),
		TransformMaskPhone: StringTransformer(maskPhone),
		TransformMaskCard:  StringTransformer(maskCard),
		TransformMaskIP:    StringTransformer(maskIP),
		TransformMaskUUID:  StringTransformer(maskUUID),
		TransformMaskIBAN:  StringTransformer(maskIBAN),
		TransformMaskName:  StringTransformer(maskName),

		TransformRedact: StringTransformer(func(string) (string, error) { return redactedValue, nil }),
		TransformTrim:   StringTransformer(plain(strings.TrimSpace)),
		TransformUpper:  StringTransformer(plain(strings.ToUpper)),
		TransformLower:  StringTransformer(plain(strings.ToLower)),
	}
}

// StringTransformer adapts a string function to a Transformer. It accepts
// string, []byte and *string values; nil passes through untouched and the
// result keeps the input's shape.
func StringTransformer(fn func(string) (string, error)) Transformer {
	return func(value, _ any) (any, error) {
		switch v := value.(type) {
		case nil:
			return nil, nil
		case string:
			return transformString(fn, v)
		case []byte:
			out, err := transformString(fn, string(v))
			if err != nil {
				return nil, err
			}
			return []byte(out), nil
		case *string:
			if v == nil {
				return v, nil
			}
			out, err := transformString(fn, *v)
			if err != nil {
				return nil, err
			}
			return &out, nil
		default:
			return nil, fmt.Errorf("%w: unsupported value type %T", ErrTransform, value)
		}
	}
}

func transformString(fn func(string) (string, error), s string) (string, error) {
	out, err := fn(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransform, err)
	}
	return out, nil
}

func plain(fn func(string) string) func(string) (string, error) {
	return func(s string) (string, error) { return fn(s), nil }
}

// missingTransformer fails every call; it stands in for an unknown tag value.
func missingTransformer(name string) Transformer {
	return func(_, _ any) (any, error) {
		return nil, fmt.Errorf("%w: no transformer registered as %q", ErrTransform, name)
	}
}
