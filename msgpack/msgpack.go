// Package msgpack provides a MessagePack codec implementation.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/morph"
)

// Option configures the MessagePack codec.
type Option func(*msgpackCodec)

// WithStructTag reads field names from another struct tag, such as "json",
// when a field has no msgpack tag.
func WithStructTag(tag string) Option {
	return func(c *msgpackCodec) {
		c.tag = tag
	}
}

// msgpackCodec implements morph.Codec for MessagePack.
type msgpackCodec struct {
	tag string
}

// New returns a MessagePack codec.
func New(opts ...Option) morph.Codec {
	c := &msgpackCodec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	if c.tag == "" {
		return msgpack.Marshal(v)
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag(c.tag)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes MessagePack data into v.
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	if c.tag == "" {
		return msgpack.Unmarshal(data, v)
	}
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag(c.tag)
	return dec.Decode(v)
}
