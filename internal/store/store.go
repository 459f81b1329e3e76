// Package store persists uploaded file contents under generated unique names
// inside a public content root, backed by a local directory or an
// S3-compatible bucket.
package store

import "context"

// PublicPrefix is the path prefix under which stored files are served.
const PublicPrefix = "/uploads/"

// ContentStore writes and reads raw file bytes by generated name.
// Writes are not atomic across multiple files; a failed request can leave
// earlier files orphaned in the store, which is accepted and not cleaned up.
type ContentStore interface {
	// Ensure makes the content root (directory or bucket) exist. Idempotent.
	Ensure(ctx context.Context) error
	// Save writes data under name, failing the whole operation on write error.
	Save(ctx context.Context, name string, data []byte, contentType string) error
	// Get returns the stored bytes for name.
	Get(ctx context.Context, name string) ([]byte, error)
}

// PublicPath returns the externally servable reference for a generated name.
func PublicPath(name string) string { return PublicPrefix + name }
