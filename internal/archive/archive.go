// Package archive serializes a set of files and directories into a
// gzip-compressed tar stream and extracts such streams back out.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidArchive is returned when a stream cannot be read as a
// gzip-compressed tar archive.
var ErrInvalidArchive = errors.New("invalid or corrupted archive")

// Create writes a tar.gz stream containing every given path to w.
// Directories are added recursively. Entry names keep the paths as
// given, cleaned and with any leading slash or drive stripped, so
// extraction reproduces the same relative layout.
//
// Callers are expected to have checked that every path exists; a path
// vanishing mid-archive surfaces as an ordinary error.
func Create(w io.Writer, paths []string) error {
	gzWriter := gzip.NewWriter(w)
	tarWriter := tar.NewWriter(gzWriter)

	for _, path := range paths {
		if err := addPath(tarWriter, path); err != nil {
			return err
		}
	}

	if err := tarWriter.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}

	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("finalizing compression: %w", err)
	}

	return nil
}

// addPath appends a single file or directory tree to the archive.
func addPath(tarWriter *tar.Writer, path string) error {
	return filepath.Walk(path, func(current string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walking %q: %w", current, err)
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return fmt.Errorf("building header for %q: %w", current, err)
		}

		header.Name = entryName(current)
		if info.IsDir() {
			header.Name += "/"
		}

		if err := tarWriter.WriteHeader(header); err != nil {
			return fmt.Errorf("writing header for %q: %w", current, err)
		}

		if info.IsDir() {
			return nil
		}

		file, err := os.Open(current)
		if err != nil {
			return fmt.Errorf("opening %q: %w", current, err)
		}
		defer file.Close()

		if _, err := io.Copy(tarWriter, file); err != nil {
			return fmt.Errorf("archiving %q: %w", current, err)
		}

		return nil
	})
}

// Extract unpacks a tar.gz stream into dest, creating it (and parents)
// if absent. It returns the relative paths of all extracted entries in
// archive order. Entries that would escape dest are rejected.
func Extract(r io.Reader, dest string) ([]string, error) {
	const dirPerm = 0o755

	if err := os.MkdirAll(dest, dirPerm); err != nil {
		return nil, fmt.Errorf("creating destination directory: %w", err)
	}

	gzReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)

	var extracted []string

	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return extracted, nil
		}

		if err != nil {
			return extracted, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
		}

		name := filepath.Clean(header.Name)
		if name == ".." || strings.HasPrefix(name, ".."+string(os.PathSeparator)) || filepath.IsAbs(name) {
			return extracted, fmt.Errorf("%w: entry %q escapes destination", ErrInvalidArchive, header.Name)
		}

		target := filepath.Join(dest, name)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(header.Mode)); err != nil {
				return extracted, fmt.Errorf("creating directory %q: %w", target, err)
			}
		case tar.TypeReg:
			if err := writeFile(target, tarReader, os.FileMode(header.Mode)); err != nil {
				return extracted, err
			}
		default:
			// Symlinks and special files are not produced by Create;
			// skip anything else rather than fail the whole restore.
			continue
		}

		extracted = append(extracted, name)
	}
}

// writeFile writes one regular file entry, creating parent directories
// as needed.
func writeFile(target string, r io.Reader, perm os.FileMode) error {
	const dirPerm = 0o755

	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return fmt.Errorf("creating parent directory for %q: %w", target, err)
	}

	file, err := os.OpenFile(filepath.Clean(target), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating %q: %w", target, err)
	}

	if _, err := io.Copy(file, r); err != nil {
		file.Close()

		return fmt.Errorf("extracting %q: %w", target, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", target, err)
	}

	return nil
}

// entryName normalizes a path into the name stored in the archive.
func entryName(path string) string {
	name := filepath.ToSlash(filepath.Clean(path))
	name = strings.TrimPrefix(name, "/")

	return name
}
