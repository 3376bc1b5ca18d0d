package tokenvault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"

	"github.com/nikhilm23/moodlens/internal/apperrors"
)

// Vault encrypts and decrypts OAuth credentials at rest with a single
// process-wide AES-256-GCM key. Nothing outside this package sees the key,
// and callers should decrypt only immediately before use.
type Vault struct {
	key []byte
}

var ErrInvalidKeySize = errors.New("encryption key must be 32 bytes")

func New(key string) (*Vault, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKeySize
	}
	return &Vault{key: []byte(key)}, nil
}

// Encrypt seals plaintext with a random nonce prepended to the ciphertext
// and returns the result base64-encoded for column storage.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(v.key)
	if err != nil {
		return "", err
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := aesGCM.Seal(nil, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(append(nonce, ciphertext...)), nil
}

// Decrypt reverses Encrypt. Malformed input or a ciphertext produced under
// a different key returns apperrors.ErrDecryption; it never returns garbage.
// The error carries no ciphertext material.
func (v *Vault) Decrypt(encrypted string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", apperrors.ErrDecryption
	}

	block, err := aes.NewCipher(v.key)
	if err != nil {
		return "", err
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonceSize := aesGCM.NonceSize()
	if len(data) < nonceSize {
		return "", apperrors.ErrDecryption
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", apperrors.ErrDecryption
	}

	return string(plaintext), nil
}
