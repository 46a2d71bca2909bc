// Package yaml provides a YAML codec implementation.
package yaml

import (
	"bytes"
	"errors"
	"io"

	"github.com/zoobzio/morph"
	"gopkg.in/yaml.v3"
)

// Option configures the YAML codec.
type Option func(*yamlCodec)

// WithKnownFields rejects mappings with keys that match no struct field.
func WithKnownFields() Option {
	return func(c *yamlCodec) {
		c.knownFields = true
	}
}

// WithIndent sets the marshal indentation width.
func WithIndent(spaces int) Option {
	return func(c *yamlCodec) {
		c.indent = spaces
	}
}

// yamlCodec implements morph.Codec for YAML.
type yamlCodec struct {
	knownFields bool
	indent      int
}

// New returns a YAML codec.
func New(opts ...Option) morph.Codec {
	c := &yamlCodec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	if c.indent == 0 {
		return yaml.Marshal(v)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(c.indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes YAML data into v. Empty input leaves v untouched.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	if !c.knownFields {
		return yaml.Unmarshal(data, v)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
