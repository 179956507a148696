// Package fileutil provides shared file operation helpers.
package fileutil

import (
	"fmt"
	"io"
	"os"
)

// Artifact is a temporary on-disk file owned by exactly one operation.
// Callers must defer Cleanup immediately after creation so the file is
// removed on every exit path.
type Artifact struct {
	File *os.File
	Name string
}

// NewArtifact creates a temporary file in dir (the system temp dir when
// dir is empty) using the given name pattern.
func NewArtifact(dir, pattern string) (*Artifact, error) {
	file, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &Artifact{File: file, Name: file.Name()}, nil
}

// Cleanup closes and removes the artifact. Best effort; safe to call
// regardless of how far the operation got.
func (a *Artifact) Cleanup() {
	a.File.Close()
	os.Remove(a.Name)
}

// Size returns the artifact's current on-disk size.
func (a *Artifact) Size() (int64, error) {
	info, err := a.File.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat temporary file %q: %w", a.Name, err)
	}

	return info.Size(), nil
}

// Rewind repositions the artifact at its start for rereading.
func (a *Artifact) Rewind() error {
	if _, err := a.File.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding temporary file %q: %w", a.Name, err)
	}

	return nil
}
