package encryption

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// envelopeMagic identifies an encrypted backup blob, version included.
	envelopeMagic = "GBK1"

	saltSize = 8
	tagSize  = sha256.Size

	pbkdf2Iterations = 10_000
	masterKeyLen     = 32
)

// deriveKeys stretches the password with PBKDF2 over the salt, then
// splits the result into independent cipher and MAC keys.
func deriveKeys(password string, salt []byte) (encKey, macKey []byte, err error) {
	const (
		derivedLen = 64
		encKeyLen  = 32
	)

	master := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, masterKeyLen, sha256.New)

	hkdfReader := hkdf.New(sha256.New, master, nil, []byte("goback/v1"))
	derived := make([]byte, derivedLen)

	if _, err := io.ReadFull(hkdfReader, derived); err != nil {
		return nil, nil, fmt.Errorf("deriving keys: %w", err)
	}

	return derived[:encKeyLen], derived[encKeyLen:], nil
}
