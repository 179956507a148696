// Package transport is the HTTP client for the remote backup store. It
// uploads encrypted blobs as opaque octet streams, downloads them back
// by id, and deletes them. Every call is a single synchronous request
// with a fixed timeout: no retries, no backoff, no resumption.
package transport
