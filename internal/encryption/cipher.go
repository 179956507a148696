package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
)

// headerSize covers the envelope magic, the KDF salt and the CBC IV.
const headerSize = len(envelopeMagic) + saltSize + aes.BlockSize

// Encrypt reads plaintext from r and writes the encrypted envelope to w.
// The output is magic, salt, IV, AES-256-CBC ciphertext and an
// HMAC-SHA256 tag, produced in bounded memory regardless of input size. A fresh salt
// and IV are drawn per call, so identical inputs under the same password
// never encrypt to identical blobs.
func Encrypt(w io.Writer, r io.Reader, password string) error {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("generating salt: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return fmt.Errorf("generating IV: %w", err)
	}

	encKey, macKey, err := deriveKeys(password, salt)
	if err != nil {
		return err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return fmt.Errorf("creating cipher: %w", err)
	}

	mac := hmac.New(sha256.New, macKey)

	// Everything except the tag itself is authenticated.
	authed := io.MultiWriter(w, mac)

	for _, part := range [][]byte{[]byte(envelopeMagic), salt, iv} {
		if _, err := authed.Write(part); err != nil {
			return fmt.Errorf("writing envelope header: %w", err)
		}
	}

	cbc := cipher.NewCBCEncrypter(block, iv)

	buf := bufferPool.Get().([]byte)
	defer bufferPool.Put(buf)

	blockBuf := make([]byte, 0, bufferSize+aes.BlockSize)
	isEOF := false

	for !isEOF {
		n, err := r.Read(buf)
		if n > 0 {
			blockBuf = append(blockBuf, buf[:n]...)
		}

		switch {
		case err == io.EOF:
			isEOF = true
		case err != nil:
			return fmt.Errorf("reading plaintext: %w", err)
		}

		// Encrypt every complete block; the remainder waits for padding.
		if full := len(blockBuf) / aes.BlockSize * aes.BlockSize; full > 0 {
			ciphertext := make([]byte, full)
			cbc.CryptBlocks(ciphertext, blockBuf[:full])

			if _, err := authed.Write(ciphertext); err != nil {
				return fmt.Errorf("writing ciphertext: %w", err)
			}

			blockBuf = append(blockBuf[:0], blockBuf[full:]...)
		}
	}

	padded := pkcs7Pad(blockBuf)

	final := make([]byte, len(padded))
	cbc.CryptBlocks(final, padded)

	if _, err := authed.Write(final); err != nil {
		return fmt.Errorf("writing final block: %w", err)
	}

	if _, err := w.Write(mac.Sum(nil)); err != nil {
		return fmt.Errorf("writing authentication tag: %w", err)
	}

	return nil
}

// Decrypt reads an encrypted envelope from r and writes the plaintext to
// w, streaming in bounded memory. Any failure (bad header, wrong
// password, damaged or truncated ciphertext) surfaces as ErrDecrypt.
func Decrypt(w io.Writer, r io.Reader, password string) error {
	cbc, mac, trailer, err := openEnvelope(r, password)
	if err != nil {
		return err
	}

	buf := bufferPool.Get().([]byte)
	defer bufferPool.Put(buf)

	blockBuf := make([]byte, 0, bufferSize+aes.BlockSize)
	isEOF := false

	for !isEOF {
		n, err := trailer.Read(buf)
		if n > 0 {
			mac.Write(buf[:n])
			blockBuf = append(blockBuf, buf[:n]...)
		}

		switch {
		case err == io.EOF:
			isEOF = true
		case err != nil:
			return err
		}

		// Decrypt every complete block except the last one, which is
		// held back until EOF so its padding can be stripped.
		full := len(blockBuf) / aes.BlockSize * aes.BlockSize
		if full == len(blockBuf) {
			full -= aes.BlockSize
		}

		if full > 0 {
			plaintext := make([]byte, full)
			cbc.CryptBlocks(plaintext, blockBuf[:full])

			if _, err := w.Write(plaintext); err != nil {
				return fmt.Errorf("writing plaintext: %w", err)
			}

			blockBuf = append(blockBuf[:0], blockBuf[full:]...)
		}
	}

	if len(blockBuf) != aes.BlockSize {
		return fmt.Errorf("%w: ciphertext is not block aligned", ErrDecrypt)
	}

	final := make([]byte, aes.BlockSize)
	cbc.CryptBlocks(final, blockBuf)

	unpadded, err := pkcs7Unpad(final)
	if err != nil {
		return err
	}

	if !hmac.Equal(mac.Sum(nil), trailer.Trailer()) {
		return fmt.Errorf("%w: authentication tag mismatch", ErrDecrypt)
	}

	if _, err := w.Write(unpadded); err != nil {
		return fmt.Errorf("writing final plaintext: %w", err)
	}

	return nil
}

// Verify checks the envelope's authentication tag against the password
// without producing any plaintext. It reports ErrDecrypt for the same
// conditions Decrypt would, letting callers reject a blob before
// anything downstream consumes it.
func Verify(r io.Reader, password string) error {
	_, mac, trailer, err := openEnvelope(r, password)
	if err != nil {
		return err
	}

	if _, err := io.Copy(mac, trailer); err != nil {
		return err
	}

	if !hmac.Equal(mac.Sum(nil), trailer.Trailer()) {
		return fmt.Errorf("%w: authentication tag mismatch", ErrDecrypt)
	}

	return nil
}

// openEnvelope consumes and validates the envelope header, derives the
// keys and primes the MAC with the header bytes.
func openEnvelope(r io.Reader, password string) (cipher.BlockMode, hash.Hash, *trailingReader, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: missing envelope header", ErrDecrypt)
	}

	if string(header[:len(envelopeMagic)]) != envelopeMagic {
		return nil, nil, nil, fmt.Errorf("%w: unrecognized envelope", ErrDecrypt)
	}

	salt := header[len(envelopeMagic) : len(envelopeMagic)+saltSize]
	iv := header[len(envelopeMagic)+saltSize:]

	encKey, macKey, err := deriveKeys(password, salt)
	if err != nil {
		return nil, nil, nil, err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating cipher: %w", err)
	}

	mac := hmac.New(sha256.New, macKey)
	mac.Write(header)

	return cipher.NewCBCDecrypter(block, iv), mac, newTrailingReader(r, tagSize), nil
}
