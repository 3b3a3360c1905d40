package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	v, err := New("test-vault-key")
	require.NoError(t, err)

	plaintexts := []string{
		"a",
		"sk_test_4eC39HqLyjWDarjtT1zdp7dc",
		"39038540035",
		"contraseña-caché",
		"日本語のシークレット",
		"emoji 🔐 secret",
		"with\nnewlines\tand\ttabs",
	}

	for _, plaintext := range plaintexts {
		ciphertext, err := v.Encrypt(plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, ciphertext)

		decrypted, err := v.Decrypt(ciphertext)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestEncryptEmptyPassesThrough(t *testing.T) {
	v, err := New("test-vault-key")
	require.NoError(t, err)

	ciphertext, err := v.Encrypt("")
	require.NoError(t, err)
	assert.Equal(t, "", ciphertext)

	plaintext, err := v.Decrypt("")
	require.NoError(t, err)
	assert.Equal(t, "", plaintext)
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	v, err := New("test-vault-key")
	require.NoError(t, err)

	first, err := v.Encrypt("same plaintext")
	require.NoError(t, err)
	second, err := v.Encrypt("same plaintext")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecryptCorruptedCiphertext(t *testing.T) {
	v, err := New("test-vault-key")
	require.NoError(t, err)

	cases := map[string]string{
		"not base64":        "!!not-base64!!",
		"too short":         "YWJj",
		"valid base64 junk": "c29tZSByYW5kb20gYnl0ZXMgdGhhdCBhcmUgbm90IGEgY2lwaGVydGV4dA==",
	}

	for name, ciphertext := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Decrypt(ciphertext)
			assert.ErrorIs(t, err, ErrDecryptionFailed)
		})
	}
}

func TestDecryptWithWrongKey(t *testing.T) {
	v1, err := New("first-key")
	require.NoError(t, err)
	v2, err := New("second-key")
	require.NoError(t, err)

	ciphertext, err := v1.Encrypt("secret value")
	require.NoError(t, err)

	_, err = v2.Decrypt(ciphertext)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestTamperedCiphertextFails(t *testing.T) {
	v, err := New("test-vault-key")
	require.NoError(t, err)

	ciphertext, err := v.Encrypt("secret value")
	require.NoError(t, err)

	tampered := []byte(ciphertext)
	tampered[len(tampered)-5] ^= 1

	_, err = v.Decrypt(string(tampered))
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestNewRejectsEmptyKey(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestAnyKeyLengthAccepted(t *testing.T) {
	for _, key := range []string{"x", "a-sixteen-charss", "a key much longer than thirty two bytes of material"} {
		v, err := New(key)
		require.NoError(t, err)

		ciphertext, err := v.Encrypt("value")
		require.NoError(t, err)
		decrypted, err := v.Decrypt(ciphertext)
		require.NoError(t, err)
		assert.Equal(t, "value", decrypted)
	}
}
