// Package secure seals stored documents. The envelope is
// base64(nonce || ciphertext) using XChaCha20-Poly1305.
package secure

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

var ErrMalformed = errors.New("secure: malformed envelope")

// Cipher encrypts and decrypts opaque strings.
type Cipher interface {
	Encrypt(plaintext []byte) (string, error)
	Decrypt(envelope string) ([]byte, error)
}

type XChaCha struct {
	aead cipher.AEAD
}

var _ Cipher = (*XChaCha)(nil)

// NewXChaCha builds a cipher from a 32-byte key.
func NewXChaCha(key []byte) (*XChaCha, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("secure: %w", err)
	}
	return &XChaCha{aead: aead}, nil
}

// NewXChaChaFromBase64 decodes a standard base64 key first.
func NewXChaChaFromBase64(encoded string) (*XChaCha, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("secure: decode key: %w", err)
	}
	return NewXChaCha(key)
}

func (x *XChaCha) Encrypt(plaintext []byte) (string, error) {
	nonce := make([]byte, x.aead.NonceSize(), x.aead.NonceSize()+len(plaintext)+x.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("secure: nonce: %w", err)
	}
	sealed := x.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (x *XChaCha) Decrypt(envelope string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return nil, ErrMalformed
	}
	if len(raw) < x.aead.NonceSize()+x.aead.Overhead() {
		return nil, ErrMalformed
	}
	nonce, ct := raw[:x.aead.NonceSize()], raw[x.aead.NonceSize():]
	out, err := x.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("secure: open: %w", err)
	}
	return out, nil
}
