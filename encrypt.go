package morph

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// AESTransformer returns a Transformer that seals string values with AES-GCM
// and base64-encodes the nonce-prefixed ciphertext. Register it under
// TransformAES (or any name) to use it from struct tags:
//
//	t, _ := morph.AESTransformer(key)
//	m := morph.New(morph.WithTransformer(morph.TransformAES, t))
//
// Key must be 16, 24, or 32 bytes for AES-128, AES-192, or AES-256.
func AESTransformer(key []byte) (Transformer, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return StringTransformer(func(s string) (string, error) {
		nonce := make([]byte, gcm.NonceSize())
		if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
			return "", err
		}
		return base64.StdEncoding.EncodeToString(gcm.Seal(nonce, nonce, []byte(s), nil)), nil
	}), nil
}

// AESDecryptTransformer reverses AESTransformer; pair it with reverse
// mappings that read sealed values back.
func AESDecryptTransformer(key []byte) (Transformer, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return StringTransformer(func(s string) (string, error) {
		sealed, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return "", fmt.Errorf("base64 decode: %w", err)
		}
		if len(sealed) < gcm.NonceSize() {
			return "", fmt.Errorf("ciphertext too short")
		}
		nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
		plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
		if err != nil {
			return "", fmt.Errorf("decrypt: %w", err)
		}
		return string(plaintext), nil
	}), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		return nil, fmt.Errorf("%w: must be 16, 24, or 32 bytes, got %d", ErrInvalidKey, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return cipher.NewGCM(block)
}
