// Package json provides a JSON codec backed by goccy/go-json.
package json

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/zoobzio/morph"
)

// Option configures the JSON codec.
type Option func(*jsonCodec)

// WithIndent indents marshaled output.
func WithIndent(prefix, indent string) Option {
	return func(c *jsonCodec) {
		c.prefix, c.indent = prefix, indent
	}
}

// WithDisallowUnknownFields rejects objects with keys that match no field.
// Useful for profile configs, where a misspelt key is a mistake.
func WithDisallowUnknownFields() Option {
	return func(c *jsonCodec) {
		c.strict = true
	}
}

// jsonCodec implements morph.Codec for JSON.
type jsonCodec struct {
	prefix string
	indent string
	strict bool
}

// New returns a JSON codec.
func New(opts ...Option) morph.Codec {
	c := &jsonCodec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	if c.prefix != "" || c.indent != "" {
		return json.MarshalIndent(v, c.prefix, c.indent)
	}
	return json.Marshal(v)
}

// Unmarshal decodes JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	if !c.strict {
		return json.Unmarshal(data, v)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
