// Package storage persists attachment binaries. Keys are relative paths of
// the form attachments/<document-slug>/<filename>.
package storage

import (
	"context"
	"io"
)

// Store reads and writes attachment payloads by key.
type Store interface {
	// Save writes the payload and returns the number of bytes written.
	// An existing payload under the same key is overwritten.
	Save(ctx context.Context, key string, r io.Reader) (int64, error)

	// Open returns a reader over the payload.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the payload. Deleting a missing key is not an error;
	// rows are removed before binaries, so a retried delete may find the
	// binary already gone.
	Delete(ctx context.Context, key string) error

	// Exists reports whether a payload is stored under the key.
	Exists(ctx context.Context, key string) (bool, error)
}
