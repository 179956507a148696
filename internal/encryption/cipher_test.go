package encryption_test

import (
	"bytes"
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/goback/internal/encryption"
)

func roundTrip(t *testing.T, plaintext []byte, password string) []byte {
	t.Helper()

	var blob bytes.Buffer

	require.NoError(t, encryption.Encrypt(&blob, bytes.NewReader(plaintext), password))

	var restored bytes.Buffer

	require.NoError(t, encryption.Decrypt(&restored, bytes.NewReader(blob.Bytes()), password))

	return restored.Bytes()
}

func TestRoundTrip(t *testing.T) {
	sizes := []int{0, 1, 15, 16, 17, 4096, 100_000}

	for _, size := range sizes {
		plaintext := make([]byte, size)
		_, err := io.ReadFull(rand.Reader, plaintext)
		require.NoError(t, err)

		restored := roundTrip(t, plaintext, "correct horse battery staple")

		assert.Equal(t, plaintext, restored, "size %d", size)
	}
}

func TestEncryptNotDeterministic(t *testing.T) {
	plaintext := []byte("same plaintext, same password")

	var first, second bytes.Buffer

	require.NoError(t, encryption.Encrypt(&first, bytes.NewReader(plaintext), "pw"))
	require.NoError(t, encryption.Encrypt(&second, bytes.NewReader(plaintext), "pw"))

	assert.NotEqual(t, first.Bytes(), second.Bytes())
}

func TestDecryptWrongPassword(t *testing.T) {
	var blob bytes.Buffer

	require.NoError(t, encryption.Encrypt(&blob, bytes.NewReader([]byte("secret data")), "right"))

	var out bytes.Buffer

	err := encryption.Decrypt(&out, bytes.NewReader(blob.Bytes()), "wrong")
	assert.ErrorIs(t, err, encryption.ErrDecrypt)
}

func TestDecryptCorrupted(t *testing.T) {
	var blob bytes.Buffer

	require.NoError(t, encryption.Encrypt(&blob, bytes.NewReader([]byte("secret data")), "pw"))

	corrupted := blob.Bytes()
	corrupted[len(corrupted)/2] ^= 0xff

	var out bytes.Buffer

	err := encryption.Decrypt(&out, bytes.NewReader(corrupted), "pw")
	assert.ErrorIs(t, err, encryption.ErrDecrypt)
}

func TestDecryptTruncated(t *testing.T) {
	var blob bytes.Buffer

	require.NoError(t, encryption.Encrypt(&blob, bytes.NewReader([]byte("secret data")), "pw"))

	for _, cut := range []int{1, 16, blob.Len() - 1} {
		truncated := blob.Bytes()[:blob.Len()-cut]

		var out bytes.Buffer

		err := encryption.Decrypt(&out, bytes.NewReader(truncated), "pw")
		assert.ErrorIs(t, err, encryption.ErrDecrypt, "cut %d", cut)
	}
}

func TestVerify(t *testing.T) {
	var blob bytes.Buffer

	require.NoError(t, encryption.Encrypt(&blob, bytes.NewReader([]byte("payload")), "pw"))

	assert.NoError(t, encryption.Verify(bytes.NewReader(blob.Bytes()), "pw"))
	assert.ErrorIs(t, encryption.Verify(bytes.NewReader(blob.Bytes()), "other"), encryption.ErrDecrypt)

	corrupted := append([]byte(nil), blob.Bytes()...)
	corrupted[len(corrupted)-1] ^= 0x01

	assert.ErrorIs(t, encryption.Verify(bytes.NewReader(corrupted), "pw"), encryption.ErrDecrypt)
}
