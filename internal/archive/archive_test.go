package archive_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/goback/internal/archive"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRoundTrip(t *testing.T) {
	workDir := t.TempDir()

	writeTestFile(t, filepath.Join(workDir, "notes.txt"), "hello")
	writeTestFile(t, filepath.Join(workDir, "project", "main.go"), "package main")
	writeTestFile(t, filepath.Join(workDir, "project", "docs", "readme.md"), "# docs")

	// Archive with paths relative to workDir, the way the CLI is used.
	previous, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(workDir))

	t.Cleanup(func() { _ = os.Chdir(previous) })

	var stream bytes.Buffer

	require.NoError(t, archive.Create(&stream, []string{"notes.txt", "project"}))

	dest := filepath.Join(t.TempDir(), "restored")

	extracted, err := archive.Extract(&stream, dest)
	require.NoError(t, err)

	assert.Contains(t, extracted, "notes.txt")
	assert.Contains(t, extracted, filepath.Join("project", "main.go"))
	assert.Contains(t, extracted, filepath.Join("project", "docs", "readme.md"))

	content, err := os.ReadFile(filepath.Join(dest, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	content, err = os.ReadFile(filepath.Join(dest, "project", "docs", "readme.md"))
	require.NoError(t, err)
	assert.Equal(t, "# docs", string(content))
}

func TestExtractCreatesDestination(t *testing.T) {
	workDir := t.TempDir()
	writeTestFile(t, filepath.Join(workDir, "a.txt"), "a")

	previous, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(workDir))

	t.Cleanup(func() { _ = os.Chdir(previous) })

	var stream bytes.Buffer

	require.NoError(t, archive.Create(&stream, []string{"a.txt"}))

	dest := filepath.Join(t.TempDir(), "deeply", "nested", "dir")

	_, err = archive.Extract(&stream, dest)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dest, "a.txt"))
}

func TestExtractInvalidStream(t *testing.T) {
	_, err := archive.Extract(bytes.NewReader([]byte("definitely not a tarball")), t.TempDir())
	assert.ErrorIs(t, err, archive.ErrInvalidArchive)
}

func TestExtractRejectsEscapingEntries(t *testing.T) {
	var stream bytes.Buffer

	gzWriter := gzip.NewWriter(&stream)
	tarWriter := tar.NewWriter(gzWriter)

	content := []byte("evil")
	require.NoError(t, tarWriter.WriteHeader(&tar.Header{
		Name:     "../evil.txt",
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len(content)),
	}))

	_, err := tarWriter.Write(content)
	require.NoError(t, err)
	require.NoError(t, tarWriter.Close())
	require.NoError(t, gzWriter.Close())

	dest := t.TempDir()

	_, err = archive.Extract(&stream, dest)
	assert.ErrorIs(t, err, archive.ErrInvalidArchive)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dest), "evil.txt"))
}
