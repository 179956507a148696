package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Descriptor is the metadata record the remote returns for a stored
// blob. Password is filled in locally after a successful upload; it is
// never sent to or stored on the remote.
type Descriptor struct {
	BackupID    string `json:"backupId"`
	DownloadURL string `json:"downloadUrl"`
	SizeBytes   int64  `json:"sizeBytes"`
	SHA256      string `json:"sha256"`
	Password    string `json:"password,omitempty"`
}

// DeleteResult is the remote's acknowledgement of a deletion.
type DeleteResult struct {
	Success  bool   `json:"success"`
	BackupID string `json:"backupId"`
}

// Client talks to a single remote backup store.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	transferTimeout time.Duration
	deleteTimeout   time.Duration
}

// New creates a client for the store at baseURL. Uploads and downloads
// run under transferTimeout, deletions under deleteTimeout.
func New(baseURL string, transferTimeout, deleteTimeout time.Duration) *Client {
	return &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		httpClient:      &http.Client{},
		transferTimeout: transferTimeout,
		deleteTimeout:   deleteTimeout,
	}
}

// Upload sends the blob as one opaque octet stream and returns the
// remote's descriptor for it. The filename travels in a header, not a
// multipart form.
func (c *Client) Upload(ctx context.Context, blob io.Reader, size int64, filename string) (*Descriptor, error) {
	ctx, cancel := context.WithTimeout(ctx, c.transferTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/backup", blob)
	if err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}

	req.ContentLength = size
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Backup-Filename", filename)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusRequestEntityTooLarge:
		return nil, ErrTooLarge
	case resp.StatusCode != http.StatusOK:
		return nil, &StatusError{Operation: "upload", Status: resp.StatusCode, Body: readBody(resp.Body)}
	}

	var descriptor Descriptor
	if err := json.NewDecoder(resp.Body).Decode(&descriptor); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}

	return &descriptor, nil
}

// Download fetches the blob stored under id into w, following
// redirects, and returns the number of bytes received.
func (c *Client) Download(ctx context.Context, w io.Writer, id string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.transferTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/backup/"+id, nil)
	if err != nil {
		return 0, fmt.Errorf("building download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, fmt.Errorf("%w: %s", ErrNotFound, id)
	case resp.StatusCode != http.StatusOK:
		return 0, &StatusError{Operation: "download", Status: resp.StatusCode, Body: readBody(resp.Body)}
	}

	received, err := io.Copy(w, resp.Body)
	if err != nil {
		return received, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	return received, nil
}

// Delete removes the blob stored under id.
func (c *Client) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.deleteTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/backup/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("building delete request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case resp.StatusCode != http.StatusOK:
		return nil, &StatusError{Operation: "delete", Status: resp.StatusCode, Body: readBody(resp.Body)}
	}

	var result DeleteResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding delete response: %w", err)
	}

	return &result, nil
}

// readBody drains up to a few KiB of an error response for diagnostics.
func readBody(r io.Reader) string {
	const maxErrorBody = 4 * 1024

	body, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(body))
}
