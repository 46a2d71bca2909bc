// Package testing provides test utilities for morph.
package testing

import (
	"testing"

	"github.com/zoobzio/morph"
)

// TestKey returns a valid 32-byte AES key for testing.
func TestKey(tb testing.TB) []byte {
	tb.Helper()
	return []byte("32-byte-key-for-aes-256-encrypt!")
}

// AddressWire is the wire form of Address.
type AddressWire struct {
	Street string `json:"street" xml:"street" yaml:"street" msgpack:"street" bson:"street"`
	City   string `json:"city" xml:"city" yaml:"city" msgpack:"city" bson:"city"`
}

// Address is the domain form of AddressWire. Country has no wire
// counterpart, so the two are mapped through the registry rather than
// converted.
type Address struct {
	Street  string
	City    string
	Country string
}

// UserWire is the payload exchanged with clients. When it is the mapping
// destination, SSN is masked from the domain value.
type UserWire struct {
	ID       string       `json:"id" xml:"id" yaml:"id" msgpack:"id" bson:"id"`
	Email    string       `json:"email" xml:"email" yaml:"email" msgpack:"email" bson:"email"`
	Password string       `json:"password,omitempty" xml:"password,omitempty" yaml:"password,omitempty" msgpack:"password,omitempty" bson:"password,omitempty"`
	SSN      string       `json:"ssn" xml:"ssn" yaml:"ssn" msgpack:"ssn" bson:"ssn" map.auto:"true" map.transform:"mask.ssn"`
	Address  *AddressWire `json:"address,omitempty" xml:"address,omitempty" yaml:"address,omitempty" msgpack:"address,omitempty" bson:"address,omitempty" map.nested:"true"`
	Tags     []string     `json:"tags" xml:"tags>tag" yaml:"tags" msgpack:"tags" bson:"tags"`
}

// User is the domain model. The password is only kept as a hash and the
// email is also stored sealed.
type User struct {
	ID           string
	Email        string
	EmailSealed  string `map.from:"Email" map.transform:"encrypt.aes"`
	PasswordHash string `map.from:"Password" map.transform:"hash.sha256"`
	SSN          string
	Address      *Address `map.nested:"true"`
	Tags         []string
}

// Clone implements morph.Cloner[User].
func (u User) Clone() User {
	out := u
	if u.Address != nil {
		addr := *u.Address
		out.Address = &addr
	}
	out.Tags = append([]string(nil), u.Tags...)
	return out
}

// NewMapper returns a mapper with both directions of User and UserWire
// registered and the AES transformer keyed with TestKey.
func NewMapper(tb testing.TB, opts ...morph.Option) *morph.Mapper {
	tb.Helper()
	seal, err := morph.AESTransformer(TestKey(tb))
	if err != nil {
		tb.Fatalf("AESTransformer: %v", err)
	}
	m := morph.New(append([]morph.Option{morph.WithTransformer(morph.TransformAES, seal)}, opts...)...)
	morph.CreateMap[AddressWire, Address](m, nil)
	morph.CreateMap[Address, AddressWire](m, nil)
	morph.CreateMap[UserWire, User](m, nil)
	morph.CreateMap[User, UserWire](m, nil, morph.Options{Ignore: []string{"SSN"}})
	return m
}

// Unseal decrypts a value sealed with the encrypt.aes transformer.
func Unseal(tb testing.TB, sealed string) string {
	tb.Helper()
	open, err := morph.AESDecryptTransformer(TestKey(tb))
	if err != nil {
		tb.Fatalf("AESDecryptTransformer: %v", err)
	}
	out, err := open(sealed, nil)
	if err != nil {
		tb.Fatalf("decrypt: %v", err)
	}
	return out.(string)
}

// SampleWire returns a fully populated wire payload.
func SampleWire() *UserWire {
	return &UserWire{
		ID:       "123",
		Email:    "alice@example.com",
		Password: "supersecret",
		SSN:      "123-45-6789",
		Address:  &AddressWire{Street: "1 Main St", City: "Springfield"},
		Tags:     []string{"admin", "beta"},
	}
}
