package encryption

import (
	"crypto/aes"
	"fmt"
)

// pkcs7Pad pads data to a whole number of AES blocks. A full block of
// padding is appended when the input already ends on a block boundary.
func pkcs7Pad(data []byte) []byte {
	padding := aes.BlockSize - len(data)%aes.BlockSize

	padded := make([]byte, len(data)+padding)
	copy(padded, data)

	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padding)
	}

	return padded
}

// pkcs7Unpad strips the padding from the final plaintext block.
func pkcs7Unpad(block []byte) ([]byte, error) {
	if len(block) == 0 || len(block)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: malformed final block", ErrDecrypt)
	}

	padding := int(block[len(block)-1])
	if padding == 0 || padding > aes.BlockSize {
		return nil, fmt.Errorf("%w: invalid padding", ErrDecrypt)
	}

	for _, b := range block[len(block)-padding:] {
		if b != byte(padding) {
			return nil, fmt.Errorf("%w: invalid padding", ErrDecrypt)
		}
	}

	return block[:len(block)-padding], nil
}
