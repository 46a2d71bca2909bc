package morph

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Hasher performs one-way hashing of field values.
type Hasher interface {
	// Hash returns the hash of plaintext as a string.
	// Password hashers (argon2, bcrypt) embed salt and parameters in the result.
	// Deterministic hashers (sha256, sha512) return hex.
	Hash(plaintext []byte) (string, error)
}

// HasherFunc adapts a function to Hasher.
type HasherFunc func(plaintext []byte) (string, error)

// Hash implements Hasher.
func (f HasherFunc) Hash(plaintext []byte) (string, error) {
	return f(plaintext)
}

// Argon2Params configures Argon2id hashing.
type Argon2Params struct {
	Time    uint32 // Number of iterations
	Memory  uint32 // Memory usage in KiB
	Threads uint8  // Parallelism factor
	KeyLen  uint32 // Output key length
	SaltLen uint32 // Salt length
}

// DefaultArgon2Params returns the OWASP-recommended Argon2id parameters.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Time:    1,
		Memory:  64 * 1024,
		Threads: 4,
		KeyLen:  32,
		SaltLen: 16,
	}
}

// Argon2 returns an Argon2id hasher with default parameters.
func Argon2() Hasher {
	return Argon2WithParams(DefaultArgon2Params())
}

// Argon2WithParams returns an Argon2id hasher encoding its output in the
// PHC string format: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
func Argon2WithParams(params Argon2Params) Hasher {
	return HasherFunc(func(plaintext []byte) (string, error) {
		salt := make([]byte, params.SaltLen)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return "", fmt.Errorf("generate salt: %w", err)
		}
		sum := argon2.IDKey(plaintext, salt, params.Time, params.Memory, params.Threads, params.KeyLen)
		return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
			argon2.Version, params.Memory, params.Time, params.Threads,
			base64.RawStdEncoding.EncodeToString(salt),
			base64.RawStdEncoding.EncodeToString(sum),
		), nil
	})
}

// Bcrypt returns a bcrypt hasher with the default cost.
func Bcrypt() Hasher {
	return BcryptWithCost(bcrypt.DefaultCost)
}

// BcryptWithCost returns a bcrypt hasher with a specific cost factor.
func BcryptWithCost(cost int) Hasher {
	return HasherFunc(func(plaintext []byte) (string, error) {
		sum, err := bcrypt.GenerateFromPassword(plaintext, cost)
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return string(sum), nil
	})
}

// SHA256Hasher returns a hex SHA-256 hasher.
// Use for fingerprinting, not for passwords.
func SHA256Hasher() Hasher {
	return HasherFunc(func(plaintext []byte) (string, error) {
		sum := sha256.Sum256(plaintext)
		return hex.EncodeToString(sum[:]), nil
	})
}

// SHA512Hasher returns a hex SHA-512 hasher.
// Use for fingerprinting, not for passwords.
func SHA512Hasher() Hasher {
	return HasherFunc(func(plaintext []byte) (string, error) {
		sum := sha512.Sum512(plaintext)
		return hex.EncodeToString(sum[:]), nil
	})
}

// HashTransformer adapts a Hasher to a field Transformer.
func HashTransformer(h Hasher) Transformer {
	return hashTransformer(h)
}

func hashTransformer(h Hasher) Transformer {
	return StringTransformer(func(s string) (string, error) {
		return h.Hash([]byte(s))
	})
}
