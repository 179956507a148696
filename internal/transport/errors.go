package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the remote reports the backup id as unknown.
	ErrNotFound = errors.New("backup not found")
	// ErrTooLarge is returned when the remote rejects an upload as too large.
	ErrTooLarge = errors.New("file too large (413 Payload Too Large)")
	// ErrTransport is the base error for any other non-success response.
	ErrTransport = errors.New("transport failure")
	// ErrNetwork marks failures below the HTTP layer (DNS, connect, timeout).
	ErrNetwork = errors.New("network error")
)

// StatusError carries the status code and server-provided message of a
// non-success response that has no more specific mapping.
type StatusError struct {
	Operation string
	Status    int
	Body      string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed with status %d: %s", e.Operation, e.Status, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrTransport
}
