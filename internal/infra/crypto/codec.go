// Package crypto provides the AES-256-GCM codec that encrypts original
// request text at the persistence boundary. Encryption is explicit:
// Encode on write, Decode on read, nothing transparent.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	domain "github.com/bryanwahyu/mindanalyzer/internal/domain/analysis"
)

const keySize = 32

// Codec seals plaintext as nonce||ciphertext. One instance is shared
// read-only by all concurrent invocations.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec builds a codec from a raw 32-byte key
func NewCodec(key []byte) (*Codec, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", keySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Codec{aead: aead}, nil
}

// NewCodecFromBase64 builds a codec from the env-carried key form.
// An absent or undersized key is a startup precondition failure.
func NewCodecFromBase64(encoded string) (*Codec, error) {
	if encoded == "" {
		return nil, errors.New("encryption key is not set")
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("encryption key is not valid base64: %w", err)
	}
	return NewCodec(key)
}

func (c *Codec) Encode(plaintext string) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

func (c *Codec) Decode(ciphertext []byte) (string, error) {
	if len(ciphertext) < c.aead.NonceSize() {
		return "", domain.ErrDecryptionFailed
	}
	nonce, sealed := ciphertext[:c.aead.NonceSize()], ciphertext[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", domain.ErrDecryptionFailed
	}
	return string(plain), nil
}
