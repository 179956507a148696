package encryption

import "errors"

// ErrDecrypt is returned for every decryption failure. A wrong password
// and a corrupted or truncated blob are deliberately reported as the
// same condition; the two are not separable by the caller.
var ErrDecrypt = errors.New("decryption failed: wrong password or corrupted data")
