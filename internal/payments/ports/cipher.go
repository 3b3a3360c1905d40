package ports

// Cipher turns a plaintext secret into an opaque string safe to
// persist, and back. Empty input passes through unchanged in both
// directions.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
