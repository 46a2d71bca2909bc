// Package xml provides an XML codec implementation.
package xml

import (
	"encoding/xml"

	"github.com/zoobzio/morph"
)

// Option configures the XML codec.
type Option func(*xmlCodec)

// WithIndent indents marshaled output.
func WithIndent(prefix, indent string) Option {
	return func(c *xmlCodec) {
		c.prefix, c.indent = prefix, indent
	}
}

// xmlCodec implements morph.Codec for XML.
type xmlCodec struct {
	prefix string
	indent string
}

// New returns an XML codec.
func New(opts ...Option) morph.Codec {
	c := &xmlCodec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as XML.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	if c.prefix != "" || c.indent != "" {
		return xml.MarshalIndent(v, c.prefix, c.indent)
	}
	return xml.Marshal(v)
}

// Unmarshal decodes XML data into v.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}
