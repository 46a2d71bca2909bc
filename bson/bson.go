// Package bson encodes wire types as BSON documents for morph binders.
package bson

import (
	"fmt"

	"github.com/zoobzio/morph"
	"go.mongodb.org/mongo-driver/bson"
)

type bsonCodec struct{}

// New returns a BSON codec. Top-level values must encode as documents, so
// wire types are structs or maps.
func New() morph.Codec {
	return bsonCodec{}
}

func (bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as a document. BSON has no top-level null; nil becomes
// an empty document.
func (bsonCodec) Marshal(v any) ([]byte, error) {
	if v == nil {
		v = bson.D{}
	}
	return bson.Marshal(v)
}

// Unmarshal validates the document framing before decoding into v.
func (bsonCodec) Unmarshal(data []byte, v any) error {
	if err := bson.Raw(data).Validate(); err != nil {
		return fmt.Errorf("bson: %w", err)
	}
	return bson.Unmarshal(data, v)
}
