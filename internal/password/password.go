// Package password generates the random secrets used as backup
// encryption keys.
package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Alphabet is the set of characters passwords are drawn from:
// letters, digits, and punctuation safe to pass around on a shell line.
const Alphabet = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!@#$%^&*()-_=+[]{}|;:,.<>?"

// Generate returns a random password of the given length, with every
// character chosen independently and uniformly from Alphabet using a
// cryptographically secure source.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid password length: %d", length)
	}

	var builder strings.Builder

	builder.Grow(length)

	size := big.NewInt(int64(len(Alphabet)))

	for range length {
		index, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("reading random source: %w", err)
		}

		builder.WriteByte(Alphabet[index.Int64()])
	}

	return builder.String(), nil
}
