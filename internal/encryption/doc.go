// Package encryption implements the symmetric cipher used for backup
// archives: streaming AES-256-CBC with a random salt and IV, keyed from
// a password, and authenticated with an HMAC-SHA256 trailer.
package encryption
