package encryption

import (
	"fmt"
	"io"
)

// trailingReader passes through everything from the underlying reader
// except its final n bytes, which are withheld and exposed through
// Trailer once the stream is exhausted. It lets the cipher consume a
// blob while keeping the authentication tag out of the ciphertext.
type trailingReader struct {
	r    io.Reader
	hold []byte
	n    int
	eof  bool
}

func newTrailingReader(r io.Reader, n int) *trailingReader {
	return &trailingReader{r: r, n: n, hold: make([]byte, 0, 2*n)}
}

func (tr *trailingReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	for {
		if surplus := len(tr.hold) - tr.n; surplus > 0 {
			out := copy(p, tr.hold[:surplus])
			tr.hold = append(tr.hold[:0], tr.hold[out:]...)

			return out, nil
		}

		if tr.eof {
			if len(tr.hold) != tr.n {
				return 0, fmt.Errorf("%w: input shorter than authentication tag", ErrDecrypt)
			}

			return 0, io.EOF
		}

		buf := bufferPool.Get().([]byte)

		limit := min(len(p), len(buf))

		n, err := tr.r.Read(buf[:limit])
		if n > 0 {
			tr.hold = append(tr.hold, buf[:n]...)
		}

		bufferPool.Put(buf)

		switch {
		case err == io.EOF:
			tr.eof = true
		case err != nil:
			return 0, fmt.Errorf("reading stream: %w", err)
		}
	}
}

// Trailer returns the withheld final bytes. Only valid after Read has
// returned io.EOF.
func (tr *trailingReader) Trailer() []byte {
	return tr.hold
}
