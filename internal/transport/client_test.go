package transport_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/goback/internal/transport"
)

const testTimeout = 5 * time.Second

// fakeStore is a minimal in-memory implementation of the remote API.
type fakeStore struct {
	blobs map[string][]byte
	hits  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{blobs: make(map[string][]byte)}
}

func (s *fakeStore) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /backup", func(w http.ResponseWriter, r *http.Request) {
		s.hits++

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)

			return
		}

		id := uuid.NewString()
		s.blobs[id] = body

		checksum := sha256.Sum256(body)

		json.NewEncoder(w).Encode(map[string]any{
			"backupId":    id,
			"downloadUrl": "/backup/" + id,
			"sizeBytes":   len(body),
			"sha256":      hex.EncodeToString(checksum[:]),
		})
	})

	mux.HandleFunc("GET /backup/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.hits++

		blob, ok := s.blobs[r.PathValue("id")]
		if !ok {
			http.NotFound(w, r)

			return
		}

		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(blob)
	})

	mux.HandleFunc("DELETE /backup/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.hits++

		id := r.PathValue("id")
		if _, ok := s.blobs[id]; !ok {
			http.NotFound(w, r)

			return
		}

		delete(s.blobs, id)

		json.NewEncoder(w).Encode(map[string]any{"success": true, "backupId": id})
	})

	return mux
}

func newTestClient(t *testing.T) (*transport.Client, *fakeStore) {
	t.Helper()

	store := newFakeStore()
	server := httptest.NewServer(store.handler())
	t.Cleanup(server.Close)

	return transport.New(server.URL, testTimeout, testTimeout), store
}

func TestUploadDownloadDelete(t *testing.T) {
	client, store := newTestClient(t)
	blob := []byte("opaque encrypted bytes")

	descriptor, err := client.Upload(context.Background(), bytes.NewReader(blob), int64(len(blob)), "backup.tar.gz")
	require.NoError(t, err)

	assert.NotEmpty(t, descriptor.BackupID)
	assert.Equal(t, int64(len(blob)), descriptor.SizeBytes)
	assert.NotEmpty(t, descriptor.SHA256)
	assert.Empty(t, descriptor.Password, "password must never come from the remote")

	var downloaded bytes.Buffer

	received, err := client.Download(context.Background(), &downloaded, descriptor.BackupID)
	require.NoError(t, err)
	assert.Equal(t, int64(len(blob)), received)
	assert.Equal(t, blob, downloaded.Bytes())

	result, err := client.Delete(context.Background(), descriptor.BackupID)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, descriptor.BackupID, result.BackupID)
	assert.Empty(t, store.blobs)
}

func TestUploadFilenameHeader(t *testing.T) {
	var gotFilename, gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFilename = r.Header.Get("X-Backup-Filename")
		gotContentType = r.Header.Get("Content-Type")

		json.NewEncoder(w).Encode(map[string]any{"backupId": uuid.NewString()})
	}))
	t.Cleanup(server.Close)

	client := transport.New(server.URL, testTimeout, testTimeout)

	_, err := client.Upload(context.Background(), strings.NewReader("x"), 1, "backup.tar.gz")
	require.NoError(t, err)

	assert.Equal(t, "backup.tar.gz", gotFilename)
	assert.Equal(t, "application/octet-stream", gotContentType)
}

func TestUploadTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "too big", http.StatusRequestEntityTooLarge)
	}))
	t.Cleanup(server.Close)

	client := transport.New(server.URL, testTimeout, testTimeout)

	_, err := client.Upload(context.Background(), strings.NewReader("x"), 1, "backup.tar.gz")
	assert.ErrorIs(t, err, transport.ErrTooLarge)
}

func TestDownloadNotFound(t *testing.T) {
	client, _ := newTestClient(t)

	var out bytes.Buffer

	_, err := client.Download(context.Background(), &out, uuid.NewString())
	assert.ErrorIs(t, err, transport.ErrNotFound)
}

func TestDeleteNotFound(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.Delete(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, transport.ErrNotFound)
}

func TestStatusErrorCarriesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "server exploded", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := transport.New(server.URL, testTimeout, testTimeout)

	_, err := client.Upload(context.Background(), strings.NewReader("x"), 1, "backup.tar.gz")
	require.ErrorIs(t, err, transport.ErrTransport)

	var statusErr *transport.StatusError

	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Status)
	assert.Contains(t, statusErr.Body, "server exploded")
}

func TestNetworkError(t *testing.T) {
	client := transport.New("http://127.0.0.1:1", testTimeout, testTimeout)

	_, err := client.Upload(context.Background(), strings.NewReader("x"), 1, "backup.tar.gz")
	assert.ErrorIs(t, err, transport.ErrNetwork)
}
