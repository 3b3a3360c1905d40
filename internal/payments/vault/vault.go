package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// ErrDecryptionFailed is returned when a non-empty ciphertext cannot be
// decrypted (wrong key, corrupted or truncated data). Decryption
// failures are always fatal to the operation in progress.
var ErrDecryptionFailed = errors.New("failed to decrypt secret")

// keySalt is fixed: the vault derives one stable key from the
// configured key material, it does not hash per-message.
var keySalt = []byte("payvault.secret.v1")

const keyIterations = 4096

// Vault encrypts and decrypts short secret strings with AES-256-GCM.
// A fresh random nonce is generated per encryption and prepended to the
// ciphertext, so encrypting the same plaintext twice yields different
// ciphertexts. Safe for concurrent use.
type Vault struct {
	aead cipher.AEAD
}

// New derives a 32-byte key from the given key material. Any non-empty
// key length is accepted.
func New(key string) (*Vault, error) {
	if key == "" {
		return nil, errors.New("vault key must not be empty")
	}

	derived := pbkdf2.Key([]byte(key), keySalt, keyIterations, 32, sha256.New)

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Vault{aead: aead}, nil
}

// Encrypt returns a base64 ciphertext for plaintext. An empty plaintext
// is returned as-is: absent secrets are stored as absent, never as an
// encrypted empty string.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := v.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. An empty ciphertext yields an empty string;
// any non-empty input that does not decrypt cleanly yields
// ErrDecryptionFailed.
func (v *Vault) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	nonceSize := v.aead.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecryptionFailed)
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]

	plaintext, err := v.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}
