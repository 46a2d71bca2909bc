package morph

// Codec converts between wire bytes and Go values. Binder decodes wire
// payloads with it and LoadProfile reads declarative mapping profiles.
//
// Implementations live in the json, yaml, xml, msgpack and bson packages.
type Codec interface {
	// ContentType is the MIME type reported in bind signals.
	ContentType() string

	// Marshal encodes v. A nil v encodes the format's empty form.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into the value v points to.
	Unmarshal(data []byte, v any) error
}
